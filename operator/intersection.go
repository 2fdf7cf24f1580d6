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
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// Intersection AND-folds a non-empty set of children and AND-NOTs a set of
// already-negated children. Compile.And is responsible
// for the De Morgan rewrite that guarantees Children is non-empty by the
// time an Intersection reaches evaluation; this is asserted here as an
// internal/contract invariant.
type Intersection struct {
	Children        []Operator
	NegatedChildren []Operator
	rowCount        uint32
}

func NewIntersection(children, negatedChildren []Operator, rowCount uint32) *Intersection {
	if len(children) == 0 {
		panic("operator: Intersection requires at least one non-negated child; De Morgan pushdown must run first")
	}
	return &Intersection{Children: children, NegatedChildren: negatedChildren, rowCount: rowCount}
}

func (in *Intersection) Evaluate() CopyOnWriteBitmap {
	evaluated := make([]CopyOnWriteBitmap, len(in.Children))
	for i, c := range in.Children {
		evaluated[i] = c.Evaluate()
	}
	sort.Slice(evaluated, func(i, j int) bool {
		return evaluated[i].Cardinality() < evaluated[j].Cardinality()
	})

	var working CopyOnWriteBitmap
	var result *roaring.Bitmap
	if evaluated[0].IsMutable() {
		working = evaluated[0]
		result = working.Mutable()
	} else {
		result = evaluated[0].Const().Clone()
	}
	for _, c := range evaluated[1:] {
		result.And(c.Const())
	}

	negated := make([]CopyOnWriteBitmap, len(in.NegatedChildren))
	for i, c := range in.NegatedChildren {
		negated[i] = c.Evaluate()
	}
	sort.Slice(negated, func(i, j int) bool {
		return negated[i].Cardinality() > negated[j].Cardinality()
	})
	for _, c := range negated {
		result.AndNot(c.Const())
	}

	return Owned(result)
}

func (in *Intersection) RowCount() uint32 { return in.rowCount }

// Negate(Intersection(c, d)) = Union(negate(c)..., negate(d)...) would be
// a valid De Morgan rewrite, but the compiler already materialises that
// rewrite at compile time (Compile.And), so at the operator level we fall
// back to a plain Complement.
func (in *Intersection) Negate() Operator {
	return NewComplement(in, in.rowCount)
}

func (in *Intersection) String() string {
	return fmt.Sprintf("Intersection(children=%d, negated=%d)", len(in.Children), len(in.NegatedChildren))
}
