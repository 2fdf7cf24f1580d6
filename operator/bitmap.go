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

// Package operator implements the bitmap-producing operator tree that a
// compiled filter expression evaluates to.
package operator

import (
	"github.com/RoaringBitmap/roaring"
)

// CopyOnWriteBitmap holds either a borrowed, immutable bitmap owned by the
// store or a mutable bitmap owned by the current query. Mutating access
// materialises an owned copy on first write, so producers that already own
// a fresh bitmap (Union, Intersection, Threshold) can hand it to a parent
// operator without a defensive copy, while IndexScan returns a zero-copy
// view straight into the store.
type CopyOnWriteBitmap struct {
	borrowed *roaring.Bitmap
	owned    *roaring.Bitmap
}

// Borrowed wraps an immutable bitmap living in the store.
func Borrowed(b *roaring.Bitmap) CopyOnWriteBitmap {
	return CopyOnWriteBitmap{borrowed: b}
}

// Owned wraps a bitmap the caller already allocated for this query.
func Owned(b *roaring.Bitmap) CopyOnWriteBitmap {
	return CopyOnWriteBitmap{owned: b}
}

// Empty returns an owned, empty bitmap.
func Empty() CopyOnWriteBitmap {
	return Owned(roaring.New())
}

// IsMutable reports whether the bitmap is already owned by the caller.
func (c CopyOnWriteBitmap) IsMutable() bool {
	return c.owned != nil
}

// Const returns a read-only view of the underlying bitmap. Never mutate
// the result.
func (c CopyOnWriteBitmap) Const() *roaring.Bitmap {
	if c.owned != nil {
		return c.owned
	}
	return c.borrowed
}

// Mutable returns a bitmap the caller may freely mutate, copying the
// borrowed bitmap on first access.
func (c *CopyOnWriteBitmap) Mutable() *roaring.Bitmap {
	if c.owned == nil {
		c.owned = c.borrowed.Clone()
		c.borrowed = nil
	}
	return c.owned
}

// Cardinality returns the number of set row-ids without forcing a copy.
func (c CopyOnWriteBitmap) Cardinality() uint64 {
	return c.Const().GetCardinality()
}
