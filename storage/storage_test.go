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

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silogenomics/silo/bio"
	"github.com/silogenomics/silo/storage/sequence"
)

func TestNewSchemaRejectsUnknownPrimaryKey(t *testing.T) {
	_, err := NewSchema("id", []ColumnDef{{Name: "country", Type: ColString}}, nil)
	require.Error(t, err)
}

func TestNewSchemaRejectsDuplicateColumns(t *testing.T) {
	_, err := NewSchema("id", []ColumnDef{
		{Name: "id", Type: ColString},
		{Name: "id", Type: ColInt32},
	}, nil)
	require.Error(t, err)
}

func TestPartitionRoundTripsScalarColumns(t *testing.T) {
	schema, err := NewSchema("id", []ColumnDef{
		{Name: "id", Type: ColString},
		{Name: "country", Type: ColIndexedString},
		{Name: "age", Type: ColInt32},
	}, nil)
	require.NoError(t, err)

	tbl, err := NewTable("sequences", schema, 1, nil)
	require.NoError(t, err)
	part := tbl.Partitions[0]

	idCol, _ := part.String("id")
	idCol.Insert("id_0")
	idCol.Insert("id_1")

	countryDict := schema.StringDictionaries["country"]
	countryCol, _ := part.IndexedString("country")
	countryCol.Insert(countryDict.GetOrInsert("Switzerland"))
	countryCol.Insert(countryDict.GetOrInsert("Germany"))

	ageCol, _ := part.Int32("age")
	ageCol.Insert(41)
	ageCol.InsertNull()

	require.NoError(t, part.Finalise([]string{"id_0", "id_1"}))

	v, ok := part.Value("country", 1)
	require.True(t, ok)
	require.Equal(t, "Germany", v)

	_, ok = part.Value("age", 1)
	require.False(t, ok)

	row, ok := part.RowForPrimaryKey("id_1")
	require.True(t, ok)
	require.EqualValues(t, 1, row)
}

func TestPartitionHoldsSequenceStore(t *testing.T) {
	schema, err := NewSchema("id", []ColumnDef{{Name: "id", Type: ColString}},
		[]SequenceDef{{Name: "main", Reference: "ATGCN"}})
	require.NoError(t, err)

	tbl, err := NewTable("sequences", schema, 1, nil)
	require.NoError(t, err)
	part := tbl.Partitions[0]

	ref := make([]bio.Symbol, len("ATGCN"))
	for i := range ref {
		ref[i], _ = bio.Nucleotide.FromLetter("ATGCN"[i])
	}
	store := sequence.New(bio.Nucleotide, ref)
	require.NoError(t, store.Insert("ATGCN", "ATGCN", nil, tbl.Dictionary))
	store.Optimise()
	part.SetSequenceStore("main", store)

	got, ok := part.Sequence("main")
	require.True(t, ok)
	require.Same(t, store, got)
}
