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
	"math/rand"
	"sort"

	"github.com/spf13/cast"

	"github.com/silogenomics/silo/errkit"
)

// OrderField is one term of a multi-field stable sort.
type OrderField struct {
	Field     string
	Ascending bool
}

// Ordering is the shared ordering/limit/offset/randomize pipeline every
// Action applies to its merged rows. Randomize and
// sorted ordering are mutually exclusive; a non-nil RandomizeSeed always
// wins.
type Ordering struct {
	Fields        []OrderField
	Limit         int
	HasLimit      bool
	Offset        int
	RandomizeSeed *int64
}

// ValidateAgainst checks every OrderField names a field the action will
// actually emit, so a bad order field surfaces before any partition work
// starts.
func (o Ordering) ValidateAgainst(outputFields []string) error {
	known := make(map[string]bool, len(outputFields))
	for _, f := range outputFields {
		known[f] = true
	}
	for _, of := range o.Fields {
		if !known[of.Field] {
			return errkit.New(errkit.BadRequest, "orderByFields names a field the action does not emit", of.Field)
		}
	}
	return nil
}

// Apply runs the randomize-or-sort, then offset, then limit pipeline
// over rows.
func (o Ordering) Apply(rows []Row) []Row {
	if o.RandomizeSeed != nil {
		rng := rand.New(rand.NewSource(*o.RandomizeSeed))
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	} else if len(o.Fields) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			for _, f := range o.Fields {
				c := compareValues(rows[i][f.Field], rows[j][f.Field])
				if c == 0 {
					continue
				}
				if f.Ascending {
					return c < 0
				}
				return c > 0
			}
			return false
		})
	}

	start := o.Offset
	if start > len(rows) {
		start = len(rows)
	}
	rows = rows[start:]
	if o.HasLimit {
		if o.Limit <= 0 {
			return []Row{}
		}
		if o.Limit < len(rows) {
			rows = rows[:o.Limit]
		}
	}
	return rows
}

// compareValues orders two loosely-typed field values, favoring numeric
// comparison when both cast cleanly to float64 and falling back to
// lexicographic string comparison otherwise.
func compareValues(a, b interface{}) int {
	if af, err := cast.ToFloat64E(a); err == nil {
		if bf, err := cast.ToFloat64E(b); err == nil {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	as, bs := cast.ToString(a), cast.ToString(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}
