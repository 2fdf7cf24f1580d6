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

package operator

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// Comparator is the set of scalar comparisons a Selection can apply while
// scanning a column.
type Comparator int

const (
	Eq Comparator = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (c Comparator) String() string {
	switch c {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	default:
		return "?"
	}
}

// Selection performs a full column scan, calling Predicate(row) for every
// row in [0, RowCount) and collecting the rows for which it returns true.
// Compiled for column filters that have no index to scan instead:
// non-indexed column equality/range/regex filters.
type Selection struct {
	Predicate   func(row uint32) bool
	Description string
	rowCount    uint32
}

func NewSelection(rowCount uint32, description string, predicate func(row uint32) bool) *Selection {
	return &Selection{Predicate: predicate, Description: description, rowCount: rowCount}
}

func (s *Selection) Evaluate() CopyOnWriteBitmap {
	b := roaring.New()
	for row := uint32(0); row < s.rowCount; row++ {
		if s.Predicate(row) {
			b.Add(row)
		}
	}
	return Owned(b)
}

func (s *Selection) RowCount() uint32 { return s.rowCount }

func (s *Selection) Negate() Operator {
	inner := s.Predicate
	return NewSelection(s.rowCount, "Not("+s.Description+")", func(row uint32) bool {
		return !inner(row)
	})
}

func (s *Selection) String() string {
	return fmt.Sprintf("Selection(%s)", s.Description)
}

// BitmapSelectionComparator selects rows by membership of a per-row value
// container (e.g. an insertion's set of inserted strings).
type BitmapSelectionComparator int

const (
	Contains BitmapSelectionComparator = iota
	NotContains
)

// BitmapSelection scans an array of per-row containers, selecting rows
// whose container does (or does not) contain Value.
type BitmapSelection struct {
	Contains    func(row uint32) bool
	Comparator  BitmapSelectionComparator
	Description string
	rowCount    uint32
}

func NewBitmapSelection(rowCount uint32, comparator BitmapSelectionComparator, description string, contains func(row uint32) bool) *BitmapSelection {
	return &BitmapSelection{Contains: contains, Comparator: comparator, Description: description, rowCount: rowCount}
}

func (s *BitmapSelection) matches(row uint32) bool {
	c := s.Contains(row)
	if s.Comparator == NotContains {
		return !c
	}
	return c
}

func (s *BitmapSelection) Evaluate() CopyOnWriteBitmap {
	b := roaring.New()
	for row := uint32(0); row < s.rowCount; row++ {
		if s.matches(row) {
			b.Add(row)
		}
	}
	return Owned(b)
}

func (s *BitmapSelection) RowCount() uint32 { return s.rowCount }

func (s *BitmapSelection) Negate() Operator {
	flipped := NotContains
	if s.Comparator == NotContains {
		flipped = Contains
	}
	return NewBitmapSelection(s.rowCount, flipped, "Not("+s.Description+")", s.Contains)
}

func (s *BitmapSelection) String() string {
	return fmt.Sprintf("BitmapSelection(%s)", s.Description)
}
