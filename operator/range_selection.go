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

// Range is a half-open row-id interval [From, To).
type Range struct {
	From, To uint32
}

// RangeSelection returns the union of a set of half-open row-id ranges,
// used for contiguous-range scans on sorted date columns and for the
// always-empty simplification of an empty Or.
type RangeSelection struct {
	Ranges   []Range
	rowCount uint32
}

func NewRangeSelection(ranges []Range, rowCount uint32) *RangeSelection {
	return &RangeSelection{Ranges: ranges, rowCount: rowCount}
}

func (r *RangeSelection) Evaluate() CopyOnWriteBitmap {
	b := roaring.New()
	for _, rg := range r.Ranges {
		if rg.To > rg.From {
			b.AddRange(uint64(rg.From), uint64(rg.To))
		}
	}
	return Owned(b)
}

func (r *RangeSelection) RowCount() uint32 { return r.rowCount }

// Negate inverts the ranges against [0, RowCount) instead of materialising
// and flipping a bitmap.
func (r *RangeSelection) Negate() Operator {
	inverted := make([]Range, 0, len(r.Ranges)+1)
	cursor := uint32(0)
	for _, rg := range r.Ranges {
		if rg.From > cursor {
			inverted = append(inverted, Range{From: cursor, To: rg.From})
		}
		if rg.To > cursor {
			cursor = rg.To
		}
	}
	if cursor < r.rowCount {
		inverted = append(inverted, Range{From: cursor, To: r.rowCount})
	}
	return NewRangeSelection(inverted, r.rowCount)
}

func (r *RangeSelection) String() string {
	return fmt.Sprintf("RangeSelection(%v)", r.Ranges)
}
