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
	"context"

	"github.com/RoaringBitmap/roaring"

	"github.com/silogenomics/silo/storage"
)

// Aggregated counts rows per distinct combination of group-by values.
// With no group-by fields it reduces to a single global count.
type Aggregated struct {
	GroupByFields []string
	Ordering      Ordering
}

func NewAggregated(groupByFields []string, ordering Ordering) (*Aggregated, error) {
	a := &Aggregated{GroupByFields: groupByFields, Ordering: ordering}
	if err := ordering.ValidateAgainst(a.OutputFields()); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Aggregated) OutputFields() []string {
	return append(append([]string{}, a.GroupByFields...), "count")
}

func (a *Aggregated) Execute(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap) ([]Row, error) {
	if len(a.GroupByFields) == 0 {
		return []Row{{"count": int64(bitmap.GetCardinality())}}, nil
	}

	counts := make(map[string]int64)
	tuples := make(map[string]Row)

	it := bitmap.Iterator()
	for it.HasNext() {
		row := it.Next()
		tuple := make(Row, len(a.GroupByFields))
		for _, f := range a.GroupByFields {
			if v, ok := partition.Value(f, row); ok {
				tuple[f] = v
			}
		}
		key := tupleKey(tuple, a.GroupByFields)
		counts[key]++
		if _, ok := tuples[key]; !ok {
			tuples[key] = tuple
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	out := make([]Row, 0, len(counts))
	for key, c := range counts {
		r := cloneRow(tuples[key])
		r["count"] = c
		out = append(out, r)
	}
	return out, nil
}

func (a *Aggregated) Merge(perPartition [][]Row) []Row {
	merged := make(map[string]Row)
	for _, rows := range perPartition {
		for _, r := range rows {
			key := tupleKey(r, a.GroupByFields)
			if existing, ok := merged[key]; ok {
				existing["count"] = existing["count"].(int64) + r["count"].(int64)
				continue
			}
			merged[key] = cloneRow(r)
		}
	}
	out := make([]Row, 0, len(merged))
	for _, r := range merged {
		out = append(out, r)
	}
	return a.Ordering.Apply(out)
}
