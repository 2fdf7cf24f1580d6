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

package action

import (
	"context"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"

	"github.com/silogenomics/silo/bio"
	"github.com/silogenomics/silo/filter"
	"github.com/silogenomics/silo/storage"
	"github.com/silogenomics/silo/storage/sequence"
)

func ctxT() context.Context { return context.Background() }

func compileFilter(t *testing.T, schema *storage.Schema, part *storage.Partition, expr filter.Expression) *roaring.Bitmap {
	t.Helper()
	op, err := filter.Compile(expr, &filter.PartitionContext{Schema: schema, Partition: part})
	require.NoError(t, err)
	return op.Evaluate().Const()
}

// nucleotideFixture builds a one-partition table of four rows aligned
// to reference "ATGCN".
func nucleotideFixture(t *testing.T) (*storage.Schema, *storage.Partition) {
	t.Helper()

	schema, err := storage.NewSchema("id", []storage.ColumnDef{{Name: "id", Type: storage.ColString}},
		[]storage.SequenceDef{{Name: "main", Reference: "ATGCN"}})
	require.NoError(t, err)
	schema.DefaultNucleotideSequence = "main"

	tbl, err := storage.NewTable("sequences", schema, 1, nil)
	require.NoError(t, err)
	part := tbl.Partitions[0]

	idCol, _ := part.String("id")
	sequences := []string{"ATGCN", "ATGCN", "NNNNN", "CATTT"}
	keys := []string{"id_0", "id_1", "id_2", "id_3"}
	for _, k := range keys {
		idCol.Insert(k)
	}

	ref := make([]bio.Symbol, len("ATGCN"))
	for i := range ref {
		ref[i], _ = bio.Nucleotide.FromLetter("ATGCN"[i])
	}
	store := sequence.New(bio.Nucleotide, ref)
	for _, s := range sequences {
		require.NoError(t, store.Insert(s, s, nil, tbl.Dictionary))
	}
	store.Optimise()
	part.SetSequenceStore("main", store)
	require.NoError(t, part.Finalise(keys))

	return schema, part
}

// insertionFixture builds a one-partition table of five rows carrying
// staged insertions.
func insertionFixture(t *testing.T) (*storage.Schema, *storage.Partition) {
	t.Helper()

	schema, err := storage.NewSchema("id", []storage.ColumnDef{{Name: "id", Type: storage.ColString}},
		[]storage.SequenceDef{{Name: "main", Reference: "ATGCN"}})
	require.NoError(t, err)
	schema.DefaultNucleotideSequence = "main"

	tbl, err := storage.NewTable("sequences", schema, 1, nil)
	require.NoError(t, err)
	part := tbl.Partitions[0]

	idCol, _ := part.String("id")
	type row struct {
		id         string
		insertions []string
	}
	rows := []row{
		{"id_0", []string{"123:ATGCN"}},
		{"id_1", []string{"123:ATGCN"}},
		{"id_2", []string{"123:NNNNNNNN"}},
		{"id_3", []string{"1:CCC"}},
		{"id_4", []string{"123:ATGCN"}},
	}
	keys := make([]string, len(rows))
	for i, r := range rows {
		idCol.Insert(r.id)
		keys[i] = r.id
	}

	ref := make([]bio.Symbol, len("ATGCN"))
	for i := range ref {
		ref[i], _ = bio.Nucleotide.FromLetter("ATGCN"[i])
	}
	store := sequence.New(bio.Nucleotide, ref)
	for _, r := range rows {
		require.NoError(t, store.Insert("ATGCN", "ATGCN", r.insertions, tbl.Dictionary))
	}
	store.Optimise()
	part.SetSequenceStore("main", store)
	require.NoError(t, part.Finalise(keys))

	return schema, part
}
