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

// Package filter implements the closed filter expression language: a
// parseable logical tree that compiles per-partition into an
// operator.Operator tree.
package filter

// AmbiguityMode is inherited down the expression tree.
// Not flips it for its child; Maybe forces UpperBound unconditionally.
type AmbiguityMode int

const (
	// None: ambiguity codes are treated as ordinary symbols (neither
	// specially included nor excluded).
	None AmbiguityMode = iota
	// UpperBound: ambiguity codes match (used under an even number of
	// negations): "sequences that could have mutation X".
	UpperBound
	// LowerBound: ambiguity codes do not match (used under an odd number
	// of negations): "sequences that definitely have mutation X".
	LowerBound
)

// Flip implements Not's mode inversion.
func (m AmbiguityMode) Flip() AmbiguityMode {
	switch m {
	case UpperBound:
		return LowerBound
	case LowerBound:
		return UpperBound
	default:
		return None
	}
}
