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

// Details projects the requested metadata columns; with no Fields it
// projects every declared column except sequence blobs.
type Details struct {
	Fields   []string
	Ordering Ordering
}

func NewDetails(fields []string, schema *storage.Schema, ordering Ordering) (*Details, error) {
	d := &Details{Fields: fields}
	if len(d.Fields) == 0 {
		for _, c := range schema.Columns {
			if c.Type == storage.ColZstdCompressedString {
				continue
			}
			d.Fields = append(d.Fields, c.Name)
		}
	}
	if err := ordering.ValidateAgainst(d.OutputFields()); err != nil {
		return nil, err
	}
	d.Ordering = ordering
	return d, nil
}

func (d *Details) OutputFields() []string { return d.Fields }

func (d *Details) Execute(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap) ([]Row, error) {
	out := make([]Row, 0, bitmap.GetCardinality())
	it := bitmap.Iterator()
	for it.HasNext() {
		row := it.Next()
		r := make(Row, len(d.Fields))
		for _, f := range d.Fields {
			if v, ok := partition.Value(f, row); ok {
				r[f] = v
			} else {
				r[f] = nil
			}
		}
		out = append(out, r)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *Details) Merge(perPartition [][]Row) []Row {
	return mergeConcat(d.Ordering, perPartition)
}
