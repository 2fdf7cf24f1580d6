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

package column

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIndexedStringRowIDs(t *testing.T) {
	c := NewIndexedString()
	c.Insert(0) // "Switzerland"
	c.Insert(1) // "Germany"
	c.Insert(0)
	c.InsertNull()
	c.Insert(0)
	c.Insert(1)

	require.ElementsMatch(t, []uint32{0, 2, 4}, c.RowIDsEqual(0).ToArray())
	require.ElementsMatch(t, []uint32{1, 5}, c.RowIDsEqual(1).ToArray())
	require.ElementsMatch(t, []uint32{3}, c.RowIDsIsNull().ToArray())

	nonNull := c.AllNonNull()
	require.Equal(t, uint64(5), nonNull.GetCardinality())
}

func TestInt32Nullability(t *testing.T) {
	c := NewInt32()
	c.Insert(42)
	c.InsertNull()
	v, ok := c.Value(0)
	require.True(t, ok)
	require.EqualValues(t, 42, v)
	_, ok = c.Value(1)
	require.False(t, ok)
}

func TestSortedDateRejectsOutOfOrder(t *testing.T) {
	c := NewDate(true)
	require.NoError(t, c.Insert(date(2020, 1, 1)))
	require.NoError(t, c.Insert(date(2020, 1, 2)))
	require.ErrorIs(t, c.Insert(date(2019, 12, 31)), ErrNotSorted)
}

func TestSortedDateRangeFor(t *testing.T) {
	c := NewDate(true)
	dates := []time.Time{
		date(2000, 3, 7), date(2001, 12, 7), date(2002, 1, 4),
		date(2003, 7, 2), date(2009, 6, 7), date(2020, 1, 1),
	}
	for _, d := range dates {
		require.NoError(t, c.Insert(d))
	}
	from := date(2009, 1, 1)
	f, to := c.RangeFor(&from, nil)
	require.EqualValues(t, 4, f)
	require.EqualValues(t, 6, to)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
