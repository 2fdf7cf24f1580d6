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
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/silogenomics/silo/storage"
)

func TestIntBetweenBounds(t *testing.T) {
	pc := newTestFixture(t)
	expr := &IntBetween{Column: "age", From: int32p(30), To: int32p(50)}
	require.ElementsMatch(t, []uint32{0}, rows(t, pc, expr))
}

func TestIntEqualsNilMatchesNullRows(t *testing.T) {
	pc := newTestFixture(t)
	expr := &IntEquals{Column: "age", Value: nil}
	require.ElementsMatch(t, []uint32{1}, rows(t, pc, expr))
}

func TestStringEqualsOnIndexedColumn(t *testing.T) {
	pc := newTestFixture(t)
	expr := &StringEquals{Column: "country", Value: strp("Germany")}
	require.ElementsMatch(t, []uint32{1, 3}, rows(t, pc, expr))
}

func TestStringEqualsUnknownValueIsEmpty(t *testing.T) {
	pc := newTestFixture(t)
	expr := &StringEquals{Column: "country", Value: strp("Atlantis")}
	require.Empty(t, rows(t, pc, expr))
}

func TestStringInSetIsUnionOfEquals(t *testing.T) {
	pc := newTestFixture(t)
	expr := &StringInSet{Column: "country", Values: []string{"Germany", "Switzerland"}}
	require.ElementsMatch(t, []uint32{0, 1, 2, 3}, rows(t, pc, expr))
}

func TestStringSearchOnIndexedColumn(t *testing.T) {
	pc := newTestFixture(t)
	expr := &StringSearch{Column: "country", Regex: regexp.MustCompile("^Germ")}
	require.ElementsMatch(t, []uint32{1, 3}, rows(t, pc, expr))
}

func TestIsNullAndIsNotNull(t *testing.T) {
	pc := newTestFixture(t)
	require.ElementsMatch(t, []uint32{1}, rows(t, pc, &IsNull{Column: "age"}))
	require.ElementsMatch(t, []uint32{0, 2, 3}, rows(t, pc, &IsNotNull{Column: "age"}))
}

// DateBetween must return the same rows whether the column carries the
// sorted flag (contiguous-range scan) or not (full column scan).
func TestDateBetweenSortedMatchesUnsorted(t *testing.T) {
	build := func(sorted bool) (*PartitionContext, error) {
		schema, err := storage.NewSchema("id", []storage.ColumnDef{
			{Name: "id", Type: storage.ColString},
			{Name: "date", Type: storage.ColDate, Sorted: sorted},
		}, nil)
		if err != nil {
			return nil, err
		}
		tbl, err := storage.NewTable("sequences", schema, 1, nil)
		if err != nil {
			return nil, err
		}
		part := tbl.Partitions[0]
		idCol, _ := part.String("id")
		dateCol, _ := part.Date("date")
		dates := []string{"2000-03-07", "2001-12-07", "2002-01-04", "2003-07-02", "2009-06-07", "2020-01-01"}
		keys := make([]string, len(dates))
		for i, d := range dates {
			keys[i] = fmt.Sprintf("id_%d", i)
			idCol.Insert(keys[i])
			parsed, err := time.Parse("2006-01-02", d)
			if err != nil {
				return nil, err
			}
			if err := dateCol.Insert(parsed); err != nil {
				return nil, err
			}
		}
		if err := part.Finalise(keys); err != nil {
			return nil, err
		}
		return &PartitionContext{Schema: schema, Partition: part}, nil
	}

	sortedPC, err := build(true)
	require.NoError(t, err)
	unsortedPC, err := build(false)
	require.NoError(t, err)

	from := time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2009, 12, 31, 0, 0, 0, 0, time.UTC)
	bounds := []*DateBetween{
		{Column: "date", From: &from, To: &to},
		{Column: "date", From: &from},
		{Column: "date", To: &to},
		{Column: "date"},
	}
	for _, expr := range bounds {
		require.ElementsMatch(t, rows(t, unsortedPC, expr), rows(t, sortedPC, expr))
	}
}
