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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silogenomics/silo/filter"
)

func TestAggregatedGlobalCountWithSequenceFilter(t *testing.T) {
	schema, part := nucleotideFixture(t)
	expr := &filter.NucleotideEquals{Sequence: "main", Position: 1, Value: 'C'}
	bitmap := compileFilter(t, schema, part, expr)

	a, err := NewAggregated(nil, Ordering{})
	require.NoError(t, err)

	rows, err := a.Execute(ctxT(), part, bitmap)
	require.NoError(t, err)
	merged := a.Merge([][]Row{rows})

	require.Len(t, merged, 1)
	require.EqualValues(t, 1, merged[0]["count"])
}

func TestAggregatedGroupByMergesAcrossPartitions(t *testing.T) {
	schema, part := nucleotideFixture(t)
	bitmap := compileFilter(t, schema, part, &filter.True{})

	a, err := NewAggregated([]string{"id"}, Ordering{})
	require.NoError(t, err)

	rows, err := a.Execute(ctxT(), part, bitmap)
	require.NoError(t, err)
	// Simulate two identical partitions merging; every id's count doubles.
	merged := a.Merge([][]Row{rows, rows})

	require.Len(t, merged, 4)
	for _, r := range merged {
		require.EqualValues(t, 2, r["count"])
	}
}
