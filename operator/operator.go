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

import "github.com/RoaringBitmap/roaring"

// Operator is a node in the compiled bitmap-operator tree. Every
// operator evaluates synchronously to a row-id bitmap scoped to a single
// partition.
type Operator interface {
	// Evaluate computes the operator's row-id bitmap.
	Evaluate() CopyOnWriteBitmap

	// Negate returns an operator computing the complement of this
	// operator's result against [0, RowCount). Complement returns its
	// child, RangeSelection inverts its ranges, and Selection and
	// BitmapSelection negate their predicate; IndexScan, Intersection,
	// Union, Threshold and BitmapProducer wrap themselves in a Complement.
	Negate() Operator

	// RowCount returns the partition cardinality this operator is scoped
	// to.
	RowCount() uint32

	String() string
}

// rangeOf returns a bitmap containing every row-id in [0, n).
func rangeOf(n uint32) *roaring.Bitmap {
	b := roaring.New()
	if n > 0 {
		b.AddRange(0, uint64(n))
	}
	return b
}
