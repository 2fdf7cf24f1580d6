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
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"
)

func bm(values ...uint32) *roaring.Bitmap {
	b := roaring.New()
	b.AddMany(values)
	return b
}

func TestIndexScanAndComplement(t *testing.T) {
	scan := NewIndexScan(bm(1, 3, 5), 6)
	require.ElementsMatch(t, []uint32{1, 3, 5}, scan.Evaluate().Const().ToArray())

	negated := scan.Negate()
	require.IsType(t, &Complement{}, negated)
	require.ElementsMatch(t, []uint32{0, 2, 4}, negated.Evaluate().Const().ToArray())
}

func TestComplementDoubleNegationCancels(t *testing.T) {
	scan := NewIndexScan(bm(1, 3, 5), 6)
	once := scan.Negate()
	twice := once.Negate()
	require.Same(t, Operator(scan), twice)
}

func TestIntersectionWithNegated(t *testing.T) {
	a := NewIndexScan(bm(1, 2, 3, 4), 10)
	b := NewIndexScan(bm(2, 3, 4, 5), 10)
	notC := NewIndexScan(bm(3), 10)
	in := NewIntersection([]Operator{a, b}, []Operator{notC}, 10)
	require.ElementsMatch(t, []uint32{2, 4}, in.Evaluate().Const().ToArray())
}

func TestIntersectionPanicsOnEmptyChildren(t *testing.T) {
	require.Panics(t, func() {
		NewIntersection(nil, nil, 10)
	})
}

func TestUnion(t *testing.T) {
	u := NewUnion([]Operator{NewIndexScan(bm(1, 2), 10), NewIndexScan(bm(2, 3), 10)}, 10)
	require.ElementsMatch(t, []uint32{1, 2, 3}, u.Evaluate().Const().ToArray())
}

func TestRangeSelectionNegate(t *testing.T) {
	rs := NewRangeSelection([]Range{{From: 2, To: 4}}, 10)
	require.ElementsMatch(t, []uint32{2, 3}, rs.Evaluate().Const().ToArray())

	neg := rs.Negate().(*RangeSelection)
	require.ElementsMatch(t, []uint32{0, 1, 4, 5, 6, 7, 8, 9}, neg.Evaluate().Const().ToArray())
}

func TestThresholdAtLeastTwoOfThree(t *testing.T) {
	children := []Operator{
		NewIndexScan(bm(0, 1, 2), 5),
		NewIndexScan(bm(1, 2, 3), 5),
		NewIndexScan(bm(2, 3, 4), 5),
	}
	th := NewThreshold(children, nil, 2, false, 5)
	got := th.Evaluate().Const().ToArray()

	// brute force: row matches >=2 of the three bitmaps
	var want []uint32
	for row := uint32(0); row < 5; row++ {
		count := 0
		for _, c := range children {
			if c.Evaluate().Const().Contains(row) {
				count++
			}
		}
		if count >= 2 {
			want = append(want, row)
		}
	}
	require.ElementsMatch(t, want, got)
}

func TestThresholdExactlyTwoOfThree(t *testing.T) {
	children := []Operator{
		NewIndexScan(bm(0, 1, 2), 5),
		NewIndexScan(bm(1, 2, 3), 5),
		NewIndexScan(bm(2, 3, 4), 5),
	}
	th := NewThreshold(children, nil, 2, true, 5)
	got := th.Evaluate().Const().ToArray()

	var want []uint32
	for row := uint32(0); row < 5; row++ {
		count := 0
		for _, c := range children {
			if c.Evaluate().Const().Contains(row) {
				count++
			}
		}
		if count == 2 {
			want = append(want, row)
		}
	}
	require.ElementsMatch(t, want, got)
}

func TestThresholdWithNegatedChild(t *testing.T) {
	nonNegated := []Operator{NewIndexScan(bm(0, 1, 2), 5)}
	negated := []Operator{NewIndexScan(bm(1), 5)} // negated: rows NOT in {1}
	th := NewThreshold(nonNegated, negated, 1, false, 5)
	got := th.Evaluate().Const().ToArray()
	require.ElementsMatch(t, []uint32{0, 1, 2, 3, 4}, got)
}

func TestBitmapProducerIsLazy(t *testing.T) {
	called := false
	p := NewBitmapProducer(10, "lazy", func() CopyOnWriteBitmap {
		called = true
		return Owned(bm(1))
	})
	require.False(t, called)
	p.Evaluate()
	require.True(t, called)
}

func TestCopyOnWriteBitmapMaterialisesOnMutation(t *testing.T) {
	store := bm(1, 2, 3)
	c := Borrowed(store)
	require.False(t, c.IsMutable())
	m := c.Mutable()
	m.Add(99)
	require.True(t, store.Contains(99) == false, "mutating the COW copy must not affect the store's bitmap")
}
