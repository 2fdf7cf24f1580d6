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

// BitmapProducer is an escape hatch for filters whose evaluation is not a
// simple table lookup, such as regex search over insertions or
// approximate sequence matching. Compute is invoked on every Evaluate;
// its result is not cached.
type BitmapProducer struct {
	Compute     func() CopyOnWriteBitmap
	Description string
	rowCount    uint32
}

func NewBitmapProducer(rowCount uint32, description string, compute func() CopyOnWriteBitmap) *BitmapProducer {
	return &BitmapProducer{Compute: compute, Description: description, rowCount: rowCount}
}

func (p *BitmapProducer) Evaluate() CopyOnWriteBitmap { return p.Compute() }

func (p *BitmapProducer) RowCount() uint32 { return p.rowCount }

func (p *BitmapProducer) Negate() Operator {
	return NewComplement(p, p.rowCount)
}

func (p *BitmapProducer) String() string {
	return fmt.Sprintf("BitmapProducer(%s)", p.Description)
}
