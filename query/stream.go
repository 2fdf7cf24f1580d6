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

package query

import (
	"context"

	"github.com/silogenomics/silo/action"
	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/filter"
)

// ResultStream delivers a query's result as a pull-driven sequence of
// row batches. Small results are materialised, ordered, and delivered as
// a single batch; results whose cardinality exceeds the action's
// materialisation cutoff are reconstructed batch by batch in partition
// order, one BatchedRowReader per partition.
type ResultStream struct {
	qctx   *Context
	cancel context.CancelFunc

	materialised []action.Row
	delivered    bool

	readers []*action.BatchedRowReader
	current int
}

// Next returns the next batch of rows. ok is false once the stream is
// exhausted; the stream's resources are released at that point.
func (s *ResultStream) Next() ([]action.Row, bool, error) {
	if s.readers == nil {
		if s.delivered {
			return nil, false, nil
		}
		s.delivered = true
		s.Close()
		return s.materialised, true, nil
	}
	for s.current < len(s.readers) {
		batch, ok, err := s.readers[s.current].Next(s.qctx)
		if err != nil {
			s.Close()
			if s.qctx.Context.Err() == context.DeadlineExceeded {
				return nil, false, errkit.New(errkit.Timeout, "query exceeded its deadline", "")
			}
			return nil, false, err
		}
		if !ok {
			s.current++
			continue
		}
		return batch, true, nil
	}
	s.Close()
	return nil, false, nil
}

// Close cancels the query context backing the stream. Safe to call more
// than once; Next calls it on exhaustion.
func (s *ResultStream) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// RunStream parses raw and executes it as a streamed query. The action
// must support streaming (Fasta, FastaAligned).
func (q *Query) RunStream(ctx context.Context, raw []byte) (*ResultStream, error) {
	expr, act, err := q.parse(raw)
	if err != nil {
		return nil, err
	}
	streamer, ok := act.(action.Streamer)
	if !ok {
		return nil, errkit.New(errkit.BadRequest, "action does not support streaming", "action")
	}
	return q.ExecuteStream(ctx, expr, streamer)
}

// ExecuteStream evaluates the filter across every partition, then picks
// the delivery mode by total cardinality: at or below the action's
// cutoff the result is materialised (so sort/limit/offset apply
// in-memory), above it batches are produced lazily in partition order. A
// sort requested on a lazily-streamed result is a user-facing error.
func (q *Query) ExecuteStream(ctx context.Context, expr filter.Expression, act action.Streamer) (*ResultStream, error) {
	qctx, cancel := NewContext(ctx, q.Deadline, q.Table.Name)

	bitmaps, err := q.evaluateFilters(qctx, expr)
	if err != nil {
		cancel()
		return nil, err
	}
	var total uint64
	for _, b := range bitmaps {
		total += b.GetCardinality()
	}

	if total <= uint64(act.Cutoff()) {
		rows, err := q.runAction(qctx, act, bitmaps)
		cancel()
		if err != nil {
			return nil, err
		}
		return &ResultStream{materialised: act.Merge(rows)}, nil
	}

	if act.SortRequested() {
		cancel()
		return nil, errkit.New(errkit.BadRequest,
			"result set exceeds the materialization cutoff and cannot be sorted; remove orderByFields or narrow the filter", "orderByFields")
	}
	qctx.Log.WithField("rows", total).Debug("streaming result batches")
	readers := make([]*action.BatchedRowReader, len(q.Table.Partitions))
	for i, partition := range q.Table.Partitions {
		readers[i] = act.ExecuteStream(qctx, partition, bitmaps[i], act.Batch())
	}
	return &ResultStream{qctx: qctx, cancel: cancel, readers: readers}, nil
}
