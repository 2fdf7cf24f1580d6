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

// Union OR-folds its children via Roaring's many-way fast union.
type Union struct {
	Children []Operator
	rowCount uint32
}

func NewUnion(children []Operator, rowCount uint32) *Union {
	return &Union{Children: children, rowCount: rowCount}
}

func (u *Union) Evaluate() CopyOnWriteBitmap {
	if len(u.Children) == 0 {
		return Empty()
	}
	bitmaps := make([]*roaring.Bitmap, len(u.Children))
	for i, c := range u.Children {
		bitmaps[i] = c.Evaluate().Const()
	}
	return Owned(roaring.FastOr(bitmaps...))
}

func (u *Union) RowCount() uint32 { return u.rowCount }

func (u *Union) Negate() Operator {
	return NewComplement(u, u.rowCount)
}

func (u *Union) String() string {
	return fmt.Sprintf("Union(children=%d)", len(u.Children))
}
