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
	"github.com/silogenomics/silo/operator"
	"github.com/silogenomics/silo/storage"
)

// Expression is a node of the closed filter expression language. Compile
// rewrites the logical tree into an operator.Operator tree scoped to one
// partition.
type Expression interface {
	Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error)
}

// PartitionContext carries everything a leaf needs to resolve column and
// sequence names against one partition during compilation.
type PartitionContext struct {
	Schema    *storage.Schema
	Partition *storage.Partition
}

func rowCount(pc *PartitionContext) uint32 { return pc.Partition.RowCount() }

// And is the logical conjunction of zero or more children.
type And struct{ Children []Expression }

// Or is the logical disjunction of zero or more children.
type Or struct{ Children []Expression }

// Not is the logical negation of one child.
type Not struct{ Child Expression }

// True always matches every row.
type True struct{}

// Maybe wraps a child and forces the UpperBound ambiguity mode
// unconditionally on it, regardless of the ambient mode: "sequences
// that could have X", even inside a negation.
type Maybe struct{ Child Expression }

// NOf requires at least (or exactly, if MatchExactly) N of Children to
// hold.
type NOf struct {
	Children     []Expression
	N            int
	MatchExactly bool
}

func (e *True) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	return operator.NewRangeSelection([]operator.Range{{From: 0, To: rowCount(pc)}}, rowCount(pc)), nil
}

func (e *Not) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	child, err := e.Child.Compile(pc, mode.Flip())
	if err != nil {
		return nil, err
	}
	return child.Negate(), nil
}

func (e *Maybe) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	return e.Child.Compile(pc, UpperBound)
}

// Compile implements the De Morgan pushdown: split children by whether
// they compiled as a Complement (already-negated), intersect the rest,
// and AND-NOT the negated set. If nothing remains non-negated, rewrite
// And(¬d1..¬dn) as Complement(Union(d1..dn)).
func (e *And) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	if len(e.Children) == 0 {
		return (&True{}).Compile(pc, mode)
	}
	var nonNegated, negated []operator.Operator
	for _, child := range e.Children {
		compiled, err := child.Compile(pc, mode)
		if err != nil {
			return nil, err
		}
		if comp, ok := compiled.(*operator.Complement); ok {
			negated = append(negated, comp.Child)
		} else {
			nonNegated = append(nonNegated, compiled)
		}
	}
	if len(nonNegated) == 0 {
		// Intersection(∅, ¬d1..¬dn) = Complement(Union(d1..dn))
		return operator.NewComplement(operator.NewUnion(negated, rowCount(pc)), rowCount(pc)), nil
	}
	return operator.NewIntersection(nonNegated, negated, rowCount(pc)), nil
}

func (e *Or) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	if len(e.Children) == 0 {
		return operator.NewRangeSelection(nil, rowCount(pc)), nil
	}
	children := make([]operator.Operator, len(e.Children))
	for i, child := range e.Children {
		compiled, err := child.Compile(pc, mode)
		if err != nil {
			return nil, err
		}
		children[i] = compiled
	}
	return operator.NewUnion(children, rowCount(pc)), nil
}

// Compile applies NOf's simplification rules before falling back to a
// Threshold operator.
func (e *NOf) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	n := e.N
	var remaining []Expression
	for _, c := range e.Children {
		if _, isTrue := c.(*True); isTrue {
			n--
			continue
		}
		remaining = append(remaining, c)
	}
	if n <= 0 {
		if !e.MatchExactly {
			return (&True{}).Compile(pc, mode)
		}
		if n == 0 {
			return (&Not{Child: &Or{Children: remaining}}).Compile(pc, mode)
		}
		return operator.NewRangeSelection(nil, rowCount(pc)), nil
	}
	if n > len(remaining) {
		return operator.NewRangeSelection(nil, rowCount(pc)), nil
	}
	if n == len(remaining) && !e.MatchExactly {
		return (&And{Children: remaining}).Compile(pc, mode)
	}
	if n == 1 && !e.MatchExactly {
		return (&Or{Children: remaining}).Compile(pc, mode)
	}

	var nonNegated, negated []operator.Operator
	for _, c := range remaining {
		compiled, err := c.Compile(pc, mode)
		if err != nil {
			return nil, err
		}
		if comp, ok := compiled.(*operator.Complement); ok {
			negated = append(negated, comp.Child)
		} else {
			nonNegated = append(nonNegated, compiled)
		}
	}
	return operator.NewThreshold(nonNegated, negated, n, e.MatchExactly, rowCount(pc)), nil
}
