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

package sequence

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silogenomics/silo/bio"
	"github.com/silogenomics/silo/storage/zstdcodec"
)

func refSymbols(t *testing.T, s string) []bio.Symbol {
	t.Helper()
	out := make([]bio.Symbol, len(s))
	for i := 0; i < len(s); i++ {
		sym, ok := bio.Nucleotide.FromLetter(s[i])
		require.True(t, ok)
		out[i] = sym
	}
	return out
}

func newTestStore(t *testing.T) (*Store, *zstdcodec.Dictionary) {
	t.Helper()
	dict, err := zstdcodec.New(nil)
	require.NoError(t, err)
	store := New(bio.Nucleotide, refSymbols(t, "ATGCN"))
	return store, dict
}

// row0/row1 = "ATGCN", row2 = "NNNNN", row3 = "CATTT".
func insertFourRows(t *testing.T, store *Store, dict *zstdcodec.Dictionary) {
	t.Helper()
	for _, seq := range []string{"ATGCN", "ATGCN", "NNNNN", "CATTT"} {
		require.NoError(t, store.Insert(seq, seq, nil, dict))
	}
	store.Optimise()
}

func TestFlippedBitmapRoundTrip(t *testing.T) {
	store, dict := newTestStore(t)
	insertFourRows(t, store, dict)

	for p := 1; p <= store.Length(); p++ {
		for s := bio.Symbol(0); int(s) < bio.Nucleotide.Size(); s++ {
			b, err := store.Bitmap(p, s)
			require.NoError(t, err)
			complement := b.Clone()
			complement.Flip(0, uint64(store.RowCount()))
			union := b.Clone()
			union.Or(complement)
			require.EqualValues(t, store.RowCount(), union.GetCardinality())
		}
	}
}

func TestNucleotideEqualsReferenceAtPosition1(t *testing.T) {
	// a "." symbol resolves to the reference symbol at the position, here "A".
	store, dict := newTestStore(t)
	insertFourRows(t, store, dict)

	refSym, err := store.ReferenceSymbolAt(1)
	require.NoError(t, err)
	require.Equal(t, byte('A'), bio.Nucleotide.Letter(refSym))

	b, err := store.Bitmap(1, refSym)
	require.NoError(t, err)
	require.EqualValues(t, 2, b.GetCardinality())
}

func TestApproximateBitmapIncludesAmbiguityCodes(t *testing.T) {
	dict, err := zstdcodec.New(nil)
	require.NoError(t, err)
	store := New(bio.Nucleotide, refSymbols(t, "A"))
	require.NoError(t, store.Insert("A", "A", nil, dict))
	require.NoError(t, store.Insert("R", "R", nil, dict)) // ambiguity code including A
	store.Optimise()

	approx, err := store.ApproximateBitmap(1, bio.NucA)
	require.NoError(t, err)
	require.EqualValues(t, 2, approx.GetCardinality())

	exact, err := store.Bitmap(1, bio.NucA)
	require.NoError(t, err)
	require.EqualValues(t, 1, exact.GetCardinality())
}

func TestAlignedReconstruction(t *testing.T) {
	store, dict := newTestStore(t)
	insertFourRows(t, store, dict)

	seq, err := store.Aligned(3)
	require.NoError(t, err)
	require.Equal(t, "CATTT", seq)
}

func TestUnalignedDecompression(t *testing.T) {
	store, dict := newTestStore(t)
	insertFourRows(t, store, dict)

	seq, ok, err := store.Unaligned(0, dict)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ATGCN", seq)
}

func TestInsertionIndexGroupsByDistinctString(t *testing.T) {
	store, dict := newTestStore(t)
	rows := []struct {
		aligned    string
		insertions []string
	}{
		{"ATGCN", []string{"123:ATGCN"}},
		{"ATGCN", []string{"123:ATGCN"}},
		{"NNNNN", []string{"123:NNNNNNNN"}},
		{"CATTT", []string{"1:CCC"}},
		{"ATGCN", []string{"123:ATGCN"}},
	}
	for _, r := range rows {
		require.NoError(t, store.Insert(r.aligned, r.aligned, r.insertions, dict))
	}
	store.Optimise()

	entries := store.Insertions().Entries(123)
	require.Len(t, entries, 2)
	counts := map[string]uint64{}
	for _, e := range entries {
		counts[e.InsertedChars] = e.Rows.GetCardinality()
	}
	require.EqualValues(t, 3, counts["ATGCN"])
	require.EqualValues(t, 1, counts["NNNNNNNN"])
}

func TestInsertionSearchByRegex(t *testing.T) {
	store, dict := newTestStore(t)
	rows := []string{"123:ATGAAA", "123:ATGBBB", "123:CCCCCC"}
	for _, ins := range rows {
		require.NoError(t, store.Insert("ATGCN", "ATGCN", []string{ins}, dict))
	}
	store.Optimise()

	re := regexp.MustCompile("^ATG.*")
	matches := store.Insertions().Search(123, re)
	require.EqualValues(t, 2, matches.GetCardinality())
}
