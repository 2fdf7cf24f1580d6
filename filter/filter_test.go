// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silogenomics/silo/bio"
	"github.com/silogenomics/silo/storage"
	"github.com/silogenomics/silo/storage/lineage"
	"github.com/silogenomics/silo/storage/sequence"
)

// newTestFixture builds a one-partition table shared by the filter
// tests: four nucleotide sequences aligned to "ATGCN", a country column,
// a nullable age column, and a tiny lineage tree (B -> B.1 -> B.1.1,
// alias BB).
func newTestFixture(t *testing.T) *PartitionContext {
	t.Helper()

	lineageYAML := []byte(`
- lineage_name: B
  parents: []
- lineage_name: B.1
  parents: [B]
- lineage_name: B.1.1
  aliases: [BB]
  parents: [B.1]
`)

	schema, err := storage.NewSchema("id", []storage.ColumnDef{
		{Name: "id", Type: storage.ColString},
		{Name: "country", Type: storage.ColIndexedString},
		{Name: "age", Type: storage.ColInt32},
		{Name: "lineage", Type: storage.ColLineage},
	}, []storage.SequenceDef{{Name: "main", Reference: "ATGCN"}})
	require.NoError(t, err)
	schema.DefaultNucleotideSequence = "main"

	tree, err := lineage.Load(lineageYAML)
	require.NoError(t, err)
	schema.LineageTree = tree

	tbl, err := storage.NewTable("sequences", schema, 1, nil)
	require.NoError(t, err)
	part := tbl.Partitions[0]

	idCol, _ := part.String("id")
	countryDict := schema.StringDictionaries["country"]
	countryCol, _ := part.IndexedString("country")
	ageCol, _ := part.Int32("age")
	lineageDict := schema.StringDictionaries["lineage"]
	lineageCol, _ := part.IndexedString("lineage")

	rows := []struct {
		id      string
		country string
		age     *int32
		lineage string
		aligned string
	}{
		{"id_0", "Switzerland", int32p(41), "B.1.1", "ATGCN"},
		{"id_1", "Germany", nil, "B.1", "ATGCN"},
		{"id_2", "Switzerland", int32p(56), "B", "NNNNN"},
		{"id_3", "Germany", int32p(29), "B.1.1", "CATTT"},
	}
	for _, r := range rows {
		idCol.Insert(r.id)
		countryCol.Insert(countryDict.GetOrInsert(r.country))
		if r.age != nil {
			ageCol.Insert(*r.age)
		} else {
			ageCol.InsertNull()
		}
		lineageCol.Insert(lineageDict.GetOrInsert(r.lineage))
	}

	ref := make([]bio.Symbol, len("ATGCN"))
	for i := range ref {
		ref[i], _ = bio.Nucleotide.FromLetter("ATGCN"[i])
	}
	store := sequence.New(bio.Nucleotide, ref)
	for _, r := range rows {
		require.NoError(t, store.Insert(r.aligned, r.aligned, nil, tbl.Dictionary))
	}
	store.Optimise()
	part.SetSequenceStore("main", store)

	require.NoError(t, part.Finalise([]string{"id_0", "id_1", "id_2", "id_3"}))

	return &PartitionContext{Schema: schema, Partition: part}
}

func int32p(v int32) *int32 { return &v }

func rows(t *testing.T, pc *PartitionContext, expr Expression) []uint32 {
	t.Helper()
	op, err := Compile(expr, pc)
	require.NoError(t, err)
	bm := op.Evaluate().Const()
	return bm.ToArray()
}
