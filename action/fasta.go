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

	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/storage"
)

// Fasta reconstructs raw (unaligned) sequences for matching rows,
// zstd-decompressing the blob column. It implements
// Streamer so the query layer can avoid materialising results whose
// cardinality exceeds MaterializationCutoff.
type Fasta struct {
	SequenceNames         []string
	AdditionalFields      []string
	MaterializationCutoff uint32
	BatchSize             uint32
	Ordering              Ordering
}

// FastaAligned is like Fasta but reconstructs aligned sequences from the
// reference and per-position symbol bitmaps instead of decompressing the
// raw blob column.
type FastaAligned struct {
	SequenceNames         []string
	AdditionalFields      []string
	MaterializationCutoff uint32
	BatchSize             uint32
	Ordering              Ordering
}

func NewFasta(sequenceNames, additionalFields []string, cutoff, batchSize uint32, ordering Ordering) (*Fasta, error) {
	if len(sequenceNames) == 0 {
		return nil, errkit.New(errkit.BadRequest, "Fasta requires at least one sequenceName", "sequenceNames")
	}
	f := &Fasta{SequenceNames: sequenceNames, AdditionalFields: additionalFields, MaterializationCutoff: cutoff, BatchSize: batchSize}
	if err := ordering.ValidateAgainst(f.OutputFields()); err != nil {
		return nil, err
	}
	f.Ordering = ordering
	return f, nil
}

func NewFastaAligned(sequenceNames, additionalFields []string, cutoff, batchSize uint32, ordering Ordering) (*FastaAligned, error) {
	if len(sequenceNames) == 0 {
		return nil, errkit.New(errkit.BadRequest, "FastaAligned requires at least one sequenceName", "sequenceNames")
	}
	f := &FastaAligned{SequenceNames: sequenceNames, AdditionalFields: additionalFields, MaterializationCutoff: cutoff, BatchSize: batchSize}
	if err := ordering.ValidateAgainst(f.OutputFields()); err != nil {
		return nil, err
	}
	f.Ordering = ordering
	return f, nil
}

func (f *Fasta) OutputFields() []string {
	return append(append([]string{"primaryKey"}, f.SequenceNames...), f.AdditionalFields...)
}

func (f *FastaAligned) OutputFields() []string {
	return append(append([]string{"primaryKey"}, f.SequenceNames...), f.AdditionalFields...)
}

func (f *Fasta) build(partition *storage.Partition) func(row uint32) (Row, error) {
	return func(row uint32) (Row, error) {
		r := make(Row, 1+len(f.SequenceNames)+len(f.AdditionalFields))
		pk, _ := partition.PrimaryKey(row)
		r["primaryKey"] = pk
		for _, name := range f.SequenceNames {
			store, ok := partition.Sequence(name)
			if !ok {
				return nil, errkit.New(errkit.UnknownSequence, "unknown sequence", name)
			}
			seq, _, err := store.Unaligned(row, partition.Dictionary())
			if err != nil {
				return nil, err
			}
			r[name] = seq
		}
		for _, field := range f.AdditionalFields {
			v, _ := partition.Value(field, row)
			r[field] = v
		}
		return r, nil
	}
}

func (f *FastaAligned) build(partition *storage.Partition) func(row uint32) (Row, error) {
	return func(row uint32) (Row, error) {
		r := make(Row, 1+len(f.SequenceNames)+len(f.AdditionalFields))
		pk, _ := partition.PrimaryKey(row)
		r["primaryKey"] = pk
		for _, name := range f.SequenceNames {
			store, ok := partition.Sequence(name)
			if !ok {
				return nil, errkit.New(errkit.UnknownSequence, "unknown sequence", name)
			}
			seq, err := store.Aligned(row)
			if err != nil {
				return nil, err
			}
			r[name] = seq
		}
		for _, field := range f.AdditionalFields {
			v, _ := partition.Value(field, row)
			r[field] = v
		}
		return r, nil
	}
}

func (f *Fasta) Cutoff() uint32 { return f.MaterializationCutoff }
func (f *Fasta) Batch() uint32  { return f.BatchSize }
func (f *Fasta) SortRequested() bool {
	return len(f.Ordering.Fields) > 0 || f.Ordering.RandomizeSeed != nil
}

func (f *FastaAligned) Cutoff() uint32 { return f.MaterializationCutoff }
func (f *FastaAligned) Batch() uint32  { return f.BatchSize }
func (f *FastaAligned) SortRequested() bool {
	return len(f.Ordering.Fields) > 0 || f.Ordering.RandomizeSeed != nil
}

func (f *Fasta) ExecuteStream(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap, batchSize uint32) *BatchedRowReader {
	return NewBatchedRowReader(bitmap, batchSize, f.build(partition))
}

func (f *FastaAligned) ExecuteStream(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap, batchSize uint32) *BatchedRowReader {
	return NewBatchedRowReader(bitmap, batchSize, f.build(partition))
}

func (f *Fasta) Execute(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap) ([]Row, error) {
	return drain(ctx, f.ExecuteStream(ctx, partition, bitmap, f.BatchSize))
}

func (f *FastaAligned) Execute(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap) ([]Row, error) {
	return drain(ctx, f.ExecuteStream(ctx, partition, bitmap, f.BatchSize))
}

func (f *Fasta) Merge(perPartition [][]Row) []Row {
	return mergeConcat(f.Ordering, perPartition)
}

func (f *FastaAligned) Merge(perPartition [][]Row) []Row {
	return mergeConcat(f.Ordering, perPartition)
}

// mergeConcat concatenates per-partition rows preserving partition
// order, then applies the ordering pipeline; shared by Fasta,
// FastaAligned, and Details.
func mergeConcat(ordering Ordering, perPartition [][]Row) []Row {
	var out []Row
	for _, rows := range perPartition {
		out = append(out, rows...)
	}
	return ordering.Apply(out)
}
