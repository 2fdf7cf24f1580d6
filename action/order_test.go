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

package action

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderingSortOffsetLimit(t *testing.T) {
	rows := []Row{
		{"age": int32(30)},
		{"age": int32(10)},
		{"age": int32(20)},
	}
	o := Ordering{
		Fields:   []OrderField{{Field: "age", Ascending: true}},
		Offset:   1,
		Limit:    1,
		HasLimit: true,
	}
	out := o.Apply(rows)
	require.Len(t, out, 1)
	require.EqualValues(t, 20, out[0]["age"])
}

func TestOrderingLimitZeroReturnsEmpty(t *testing.T) {
	rows := []Row{{"age": 1}, {"age": 2}}
	o := Ordering{Limit: 0, HasLimit: true}
	require.Empty(t, o.Apply(rows))
}

func TestOrderingValidateAgainstRejectsUnknownField(t *testing.T) {
	o := Ordering{Fields: []OrderField{{Field: "nope"}}}
	err := o.ValidateAgainst([]string{"id", "count"})
	require.Error(t, err)
}

func TestOrderingRandomizeIsDeterministicPerSeed(t *testing.T) {
	seed := int64(42)
	rows := []Row{{"v": 1}, {"v": 2}, {"v": 3}, {"v": 4}}
	o := Ordering{RandomizeSeed: &seed}
	out := o.Apply(append([]Row(nil), rows...))
	require.ElementsMatch(t, rows, out)
}
