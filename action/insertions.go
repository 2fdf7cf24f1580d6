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

// Insertions emits one row per distinct insertion string observed at a
// position, restricted to the filter. IsAmino selects
// amino-acid sequences (AminoAcidInsertions) instead of nucleotide ones.
type Insertions struct {
	SequenceNames []string
	IsAmino       bool
	Ordering      Ordering
}

func NewInsertions(sequenceNames []string, isAmino bool, ordering Ordering) (*Insertions, error) {
	in := &Insertions{SequenceNames: sequenceNames, IsAmino: isAmino}
	if err := ordering.ValidateAgainst(in.OutputFields()); err != nil {
		return nil, err
	}
	in.Ordering = ordering
	return in, nil
}

func (in *Insertions) OutputFields() []string {
	return []string{"sequenceName", "position", "insertedSymbols", "insertion", "count"}
}

func (in *Insertions) sequenceNames(schema *storage.Schema) []string {
	if len(in.SequenceNames) > 0 {
		return in.SequenceNames
	}
	var names []string
	for _, sd := range schema.Sequences {
		if sd.IsAmino == in.IsAmino {
			names = append(names, sd.Name)
		}
	}
	return names
}

func (in *Insertions) Execute(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap) ([]Row, error) {
	var out []Row
	for _, name := range in.sequenceNames(partition.Schema) {
		store, ok := partition.Sequence(name)
		if !ok {
			continue
		}
		index := store.Insertions()
		for _, pos := range index.Positions() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for _, entry := range index.Entries(pos) {
				count := bitmap.AndCardinality(entry.Rows)
				if count == 0 {
					continue
				}
				out = append(out, Row{
					"sequenceName":    name,
					"position":        pos,
					"insertedSymbols": entry.InsertedChars,
					"insertion":       entry.InsertedChars,
					"count":           count,
				})
			}
		}
	}
	return out, nil
}

func (in *Insertions) Merge(perPartition [][]Row) []Row {
	type key struct {
		sequenceName string
		position     interface{}
		insertion    string
	}
	merged := make(map[key]Row)
	order := make([]key, 0)
	for _, rows := range perPartition {
		for _, r := range rows {
			k := key{r["sequenceName"].(string), r["position"], r["insertion"].(string)}
			if existing, ok := merged[k]; ok {
				existing["count"] = existing["count"].(uint64) + r["count"].(uint64)
				continue
			}
			merged[k] = cloneRow(r)
			order = append(order, k)
		}
	}
	out := make([]Row, 0, len(merged))
	for _, k := range order {
		out = append(out, merged[k])
	}
	return in.Ordering.Apply(out)
}
