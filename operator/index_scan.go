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

// IndexScan returns a zero-copy view of an immutable bitmap already stored
// in a column or sequence index.
type IndexScan struct {
	Bitmap   *roaring.Bitmap
	rowCount uint32
}

// NewIndexScan wraps an immutable, store-owned bitmap. The caller must
// never mutate bitmap after this call.
func NewIndexScan(bitmap *roaring.Bitmap, rowCount uint32) *IndexScan {
	return &IndexScan{Bitmap: bitmap, rowCount: rowCount}
}

func (s *IndexScan) Evaluate() CopyOnWriteBitmap { return Borrowed(s.Bitmap) }

func (s *IndexScan) RowCount() uint32 { return s.rowCount }

// Negate rewrites negate(IndexScan(b)) = Complement(IndexScan(b)) rather
// than materialising the complement eagerly, per the design notes.
func (s *IndexScan) Negate() Operator {
	return NewComplement(s, s.rowCount)
}

func (s *IndexScan) String() string {
	return fmt.Sprintf("IndexScan(cardinality=%d)", s.Bitmap.GetCardinality())
}
