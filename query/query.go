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
	"time"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/sync/errgroup"

	"github.com/silogenomics/silo/action"
	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/filter"
	"github.com/silogenomics/silo/storage"
)

// DefaultDeadline bounds a query's wall-clock execution; a caller context
// with an earlier deadline ends the query sooner.
const DefaultDeadline = 30 * time.Second

// Query evaluates one parsed request against a table: compile the filter
// once per partition, run the action over each partition's matching
// bitmap concurrently, and merge the per-partition results.
type Query struct {
	Table    *storage.Table
	Deadline time.Duration
	// Workers caps the number of partitions evaluated concurrently; zero
	// means one goroutine per partition.
	Workers int
}

// New builds a Query bound to table, defaulting its deadline to
// DefaultDeadline.
func New(table *storage.Table) *Query {
	return &Query{Table: table, Deadline: DefaultDeadline}
}

// Run parses raw as a Request and executes it, returning the merged,
// ordered result rows.
func (q *Query) Run(ctx context.Context, raw []byte) ([]action.Row, error) {
	expr, act, err := q.parse(raw)
	if err != nil {
		return nil, err
	}
	return q.Execute(ctx, expr, act)
}

func (q *Query) parse(raw []byte) (filter.Expression, action.Action, error) {
	req, err := ParseRequest(raw)
	if err != nil {
		return nil, nil, err
	}
	expr, err := ParseExpression(q.Table.Schema, req.FilterExpression)
	if err != nil {
		return nil, nil, err
	}
	act, err := ParseAction(q.Table.Schema, req.Action)
	if err != nil {
		return nil, nil, err
	}
	return expr, act, nil
}

// Execute fans expr's compilation and act's evaluation out across every
// partition, then merges the per-partition rows through act.Merge.
func (q *Query) Execute(ctx context.Context, expr filter.Expression, act action.Action) ([]action.Row, error) {
	qctx, cancel := NewContext(ctx, q.Deadline, q.Table.Name)
	defer cancel()

	bitmaps, err := q.evaluateFilters(qctx, expr)
	if err != nil {
		return nil, err
	}
	rows, err := q.runAction(qctx, act, bitmaps)
	if err != nil {
		return nil, err
	}
	qctx.Log.WithField("partitions", len(q.Table.Partitions)).Debug("query executed")
	return act.Merge(rows), nil
}

// evaluateFilters compiles and evaluates expr once per partition,
// returning one row-id bitmap per partition.
func (q *Query) evaluateFilters(qctx *Context, expr filter.Expression) ([]*roaring.Bitmap, error) {
	partitions := q.Table.Partitions
	bitmaps := make([]*roaring.Bitmap, len(partitions))

	g, _ := errgroup.WithContext(qctx)
	if q.Workers > 0 {
		g.SetLimit(q.Workers)
	}
	for i, partition := range partitions {
		i, partition := i, partition
		g.Go(func() error {
			pc := &filter.PartitionContext{Schema: q.Table.Schema, Partition: partition}
			op, err := filter.Compile(expr, pc)
			if err != nil {
				return err
			}
			bitmaps[i] = op.Evaluate().Const()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, q.translateDeadline(qctx, err)
	}
	return bitmaps, nil
}

// runAction runs act over every partition's filter bitmap concurrently.
func (q *Query) runAction(qctx *Context, act action.Action, bitmaps []*roaring.Bitmap) ([][]action.Row, error) {
	partitions := q.Table.Partitions
	perPartition := make([][]action.Row, len(partitions))

	g, gctx := errgroup.WithContext(qctx)
	if q.Workers > 0 {
		g.SetLimit(q.Workers)
	}
	for i, partition := range partitions {
		i, partition := i, partition
		g.Go(func() error {
			rows, err := act.Execute(gctx, partition, bitmaps[i])
			if err != nil {
				return err
			}
			perPartition[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, q.translateDeadline(qctx, err)
	}
	return perPartition, nil
}

func (q *Query) translateDeadline(qctx *Context, err error) error {
	if qctx.Context.Err() == context.DeadlineExceeded {
		return errkit.New(errkit.Timeout, "query exceeded its deadline", "")
	}
	return err
}
