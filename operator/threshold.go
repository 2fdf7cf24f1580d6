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

// Threshold computes "at least N of (NonNegated..., NOT Negated...) hold",
// or "exactly N" when MatchExactly is set: the compile target of NOf.
// Evaluation is a DP sweep over the children maintaining at most N+1
// bitmaps, where partitionBitmaps[j] holds the row-ids satisfying more
// than j of the children processed so far. The flip-to-union branch in
// the negated loop is an equivalent rewrite of the recurrence, not an
// independent shortcut.
type Threshold struct {
	NonNegated   []Operator
	Negated      []Operator
	N            int
	MatchExactly bool
	rowCount     uint32
}

func NewThreshold(nonNegated, negated []Operator, n int, matchExactly bool, rowCount uint32) *Threshold {
	return &Threshold{NonNegated: nonNegated, Negated: negated, N: n, MatchExactly: matchExactly, rowCount: rowCount}
}

func (t *Threshold) RowCount() uint32 { return t.rowCount }

func (t *Threshold) Evaluate() CopyOnWriteBitmap {
	dpSize := t.N
	if t.MatchExactly {
		dpSize = t.N + 1
	}
	partitionBitmaps := make([]*roaring.Bitmap, dpSize)

	nonNegatedCount := len(t.NonNegated)
	negatedCount := len(t.Negated)
	n := t.N
	k := nonNegatedCount + negatedCount
	maxTableIndex := dpSize - 1

	if nonNegatedCount == 0 {
		first := t.Negated[0].Evaluate()
		partitionBitmaps[0] = first.Const().Clone()
		partitionBitmaps[0].Flip(0, uint64(t.rowCount))
	} else {
		first := t.NonNegated[0].Evaluate()
		if first.IsMutable() {
			partitionBitmaps[0] = first.Mutable()
		} else {
			partitionBitmaps[0] = first.Const().Clone()
		}
	}
	for j := 1; j < dpSize; j++ {
		partitionBitmaps[j] = roaring.New()
	}

	for i := 1; i < nonNegatedCount; i++ {
		bitmap := t.NonNegated[i].Evaluate().Const()
		for j := min(maxTableIndex, i); j > max(0, n-k+i-1); j-- {
			tmp := roaring.And(partitionBitmaps[j-1], bitmap)
			partitionBitmaps[j].Or(tmp)
		}
		if n-k+i-1 <= 0 {
			partitionBitmaps[0].Or(bitmap)
		}
	}

	tookFirstOffset := 0
	if nonNegatedCount == 0 {
		tookFirstOffset = 1
	}
	for localI := tookFirstOffset; localI < negatedCount; localI++ {
		bitmap := t.Negated[localI].Evaluate().Const()
		i := localI + nonNegatedCount
		for j := min(maxTableIndex, i); j > max(0, n-k+i-1); j-- {
			tmp := roaring.AndNot(partitionBitmaps[j-1], bitmap)
			partitionBitmaps[j].Or(tmp)
		}
		if k-i >= n-1 {
			flipped := bitmap.Clone()
			flipped.Flip(0, uint64(t.rowCount))
			partitionBitmaps[0].Or(flipped)
		}
	}

	if t.MatchExactly {
		return Owned(roaring.AndNot(partitionBitmaps[t.N-1], partitionBitmaps[t.N]))
	}
	return Owned(partitionBitmaps[dpSize-1])
}

func (t *Threshold) Negate() Operator {
	return NewComplement(t, t.rowCount)
}

func (t *Threshold) String() string {
	op := ">="
	if t.MatchExactly {
		op = "="
	}
	return fmt.Sprintf("Threshold(%s%d, nonNegated=%d, negated=%d)", op, t.N, len(t.NonNegated), len(t.Negated))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
