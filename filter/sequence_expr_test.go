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
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// Reference is "ATGCN". Rows: id_0="ATGCN", id_1="ATGCN", id_2="NNNNN",
// id_3="CATTT".

func TestNucleotideEqualsExactPosition1(t *testing.T) {
	pc := newTestFixture(t)
	expr := &NucleotideEquals{Sequence: "main", Position: 1, Value: 'A'}
	require.ElementsMatch(t, []uint32{0, 1}, rows(t, pc, expr))
}

func TestNucleotideEqualsDotMatchesReference(t *testing.T) {
	pc := newTestFixture(t)
	expr := &NucleotideEquals{Sequence: "main", Position: 1, Value: '.'}
	require.ElementsMatch(t, []uint32{0, 1}, rows(t, pc, expr))
}

func TestNucleotideEqualsAmbiguityUpperBound(t *testing.T) {
	pc := newTestFixture(t)
	// Position 5 is N for rows 0,1,2; T for row 3. Maybe forces
	// UPPER_BOUND: querying for T should also match the N rows, since N
	// expands to {A,C,G,T}.
	expr := &Maybe{Child: &NucleotideEquals{Sequence: "main", Position: 5, Value: 'T'}}
	require.ElementsMatch(t, []uint32{0, 1, 2, 3}, rows(t, pc, expr))
}

func TestNucleotideEqualsNoneModeExcludesAmbiguity(t *testing.T) {
	pc := newTestFixture(t)
	expr := &NucleotideEquals{Sequence: "main", Position: 5, Value: 'T'}
	require.ElementsMatch(t, []uint32{3}, rows(t, pc, expr))
}

func TestHasNucleotideMutationExcludesReferenceAndMissing(t *testing.T) {
	pc := newTestFixture(t)
	// Position 1: rows 0,1 are 'A' (reference, excluded). Row 2 is 'N'
	// (missing, excluded). Row 3 is 'C' (a real mutation).
	expr := &HasNucleotideMutation{Sequence: "main", Position: 1}
	require.ElementsMatch(t, []uint32{3}, rows(t, pc, expr))
}

func TestInsertionContainsSearchesByRegex(t *testing.T) {
	pc := newTestFixture(t)
	_, ok := pc.Partition.Sequence("main")
	require.True(t, ok)
	re := regexp.MustCompile(`^ATG$`)
	// No insertions were staged in this fixture; the filter should
	// compile and evaluate cleanly to no matches rather than error.
	expr := &InsertionContains{Sequence: "main", Position: 1, Regex: re}
	require.Empty(t, rows(t, pc, expr))
}

// For sequence-equality leaves, the three ambiguity modes must nest:
// LowerBound rows are a subset of None rows, which are a subset of
// UpperBound rows.
func TestAmbiguityModesNest(t *testing.T) {
	pc := newTestFixture(t)

	for pos := 1; pos <= 5; pos++ {
		for _, symbol := range []byte("ACGT") {
			leaf := &NucleotideEquals{Sequence: "main", Position: pos, Value: symbol}

			compile := func(mode AmbiguityMode) []uint32 {
				op, err := leaf.Compile(pc, mode)
				require.NoError(t, err)
				return op.Evaluate().Const().ToArray()
			}
			lower := compile(LowerBound)
			none := compile(None)
			upper := compile(UpperBound)

			require.Subset(t, none, lower)
			require.Subset(t, upper, none)
		}
	}
}
