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

import "github.com/RoaringBitmap/roaring"

// BatchedBitmapReader lazily partitions a filter bitmap into batches of
// at most BatchSize row-ids via Roaring's select-by-rank primitive,
// avoiding materialising the whole result set for actions that stream
// above the materialisation cutoff.
type BatchedBitmapReader struct {
	filter      *roaring.Bitmap
	batchSize   uint32
	cardinality uint64
	emitted     uint64
}

func NewBatchedBitmapReader(filter *roaring.Bitmap, batchSize uint32) *BatchedBitmapReader {
	if batchSize == 0 {
		batchSize = 1
	}
	return &BatchedBitmapReader{filter: filter, batchSize: batchSize, cardinality: filter.GetCardinality()}
}

// Next returns the next batch, selecting the row-ids of rank
// [k*B, (k+1)*B) and intersecting that range with the filter. ok is
// false once the whole filter has been produced.
func (r *BatchedBitmapReader) Next() (batch *roaring.Bitmap, ok bool, err error) {
	if r.emitted >= r.cardinality {
		return nil, false, nil
	}
	startRank := r.emitted
	endRank := startRank + uint64(r.batchSize)
	if endRank > r.cardinality {
		endRank = r.cardinality
	}

	startValue, err := r.filter.Select(uint32(startRank))
	if err != nil {
		return nil, false, err
	}

	span := roaring.New()
	if endRank == r.cardinality {
		span.AddRange(uint64(startValue), uint64(^uint32(0))+1)
	} else {
		endValue, err := r.filter.Select(uint32(endRank))
		if err != nil {
			return nil, false, err
		}
		span.AddRange(uint64(startValue), uint64(endValue))
	}

	r.emitted = endRank
	return roaring.And(span, r.filter), true, nil
}
