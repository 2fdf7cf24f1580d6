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

import "github.com/silogenomics/silo/operator"

// Compile compiles expr against one partition, starting from the None
// ambiguity mode: the root of a filter tree carries no inherited
// ambiguity bias until a Maybe sets one (Not flips an existing bias but
// leaves None as None).
func Compile(expr Expression, pc *PartitionContext) (operator.Operator, error) {
	return expr.Compile(pc, None)
}
