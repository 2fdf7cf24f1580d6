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

import "fmt"

// Complement evaluates its child and flips the result against
// [0, RowCount). Callers should prefer a child's specialised Negate over
// wrapping a Complement, but Complement is always a correct fallback.
type Complement struct {
	Child    Operator
	rowCount uint32
}

func NewComplement(child Operator, rowCount uint32) *Complement {
	return &Complement{Child: child, rowCount: rowCount}
}

func (c *Complement) Evaluate() CopyOnWriteBitmap {
	result := c.Child.Evaluate()
	flipped := result.Const().Clone()
	flipped.Flip(0, uint64(c.rowCount))
	return Owned(flipped)
}

func (c *Complement) RowCount() uint32 { return c.rowCount }

// Negate(Complement(c)) = c: double negation cancels.
func (c *Complement) Negate() Operator {
	return c.Child
}

func (c *Complement) String() string {
	return fmt.Sprintf("Complement(%s)", c.Child.String())
}
