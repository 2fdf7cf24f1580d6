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

// Action is one per-partition evaluation step: given the partition's
// already-compiled filter bitmap, produce the rows this action
// contributes. The query layer merges the per-partition results
// (Aggregated sums counts, Details and Fasta concatenate, Mutations and
// Insertions sum counters).
type Action interface {
	// OutputFields names every field this action can emit, used to
	// validate Ordering at construction.
	OutputFields() []string
	Execute(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap) ([]Row, error)
	// Merge combines per-partition row slices (already produced by
	// Execute) into the action's final result, applying Ordering last.
	Merge(perPartition [][]Row) []Row
}

// Streamer is implemented by actions whose result can exceed available
// memory (Fasta, FastaAligned): once the total filter cardinality passes
// Cutoff, the query layer must pull batches via ExecuteStream instead of
// materialising through Execute. A streamed result is emitted in
// partition order; SortRequested lets the query layer reject a sort it
// can no longer honor.
type Streamer interface {
	Action
	ExecuteStream(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap, batchSize uint32) *BatchedRowReader
	Cutoff() uint32
	Batch() uint32
	SortRequested() bool
}

// BatchedRowReader adapts a BatchedBitmapReader's row-id batches into
// built Row batches via a per-action row builder.
type BatchedRowReader struct {
	bitmaps *BatchedBitmapReader
	build   func(row uint32) (Row, error)
}

func NewBatchedRowReader(filter *roaring.Bitmap, batchSize uint32, build func(row uint32) (Row, error)) *BatchedRowReader {
	return &BatchedRowReader{bitmaps: NewBatchedBitmapReader(filter, batchSize), build: build}
}

// Next produces the next batch of built rows, or ok=false once exhausted.
func (r *BatchedRowReader) Next(ctx context.Context) ([]Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	batch, ok, err := r.bitmaps.Next()
	if err != nil || !ok {
		return nil, ok, err
	}
	rows := make([]Row, 0, batch.GetCardinality())
	it := batch.Iterator()
	for it.HasNext() {
		row, err := r.build(it.Next())
		if err != nil {
			return nil, false, err
		}
		rows = append(rows, row)
	}
	return rows, true, nil
}

// drain fully exhausts a BatchedRowReader, used by actions' Execute to
// provide a simple materialised fallback for callers below the
// streaming threshold.
func drain(ctx context.Context, r *BatchedRowReader) ([]Row, error) {
	var out []Row
	for {
		batch, ok, err := r.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, batch...)
	}
}
