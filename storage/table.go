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

package storage

import (
	"github.com/pkg/errors"

	"github.com/silogenomics/silo/storage/zstdcodec"
)

// Table is an append-only collection of records partitioned into P
// disjoint shards for parallel evaluation. Once
// constructed it is frozen for reads; queries see a consistent snapshot.
type Table struct {
	Name       string
	Schema     *Schema
	Partitions []*Partition
	Dictionary *zstdcodec.Dictionary
}

// NewTable builds a frozen, empty-partitioned table shell. The caller
// (the out-of-scope ingestion pipeline) populates each partition's
// columns and sequence stores, then calls Partition.Finalise once per
// partition before the table is handed to the query layer.
func NewTable(name string, schema *Schema, partitionCount int, zstdDictionary []byte) (*Table, error) {
	dict, err := zstdcodec.New(zstdDictionary)
	if err != nil {
		return nil, errors.Wrap(err, "storage: building table dictionary")
	}
	t := &Table{Name: name, Schema: schema, Dictionary: dict}
	t.Partitions = make([]*Partition, partitionCount)
	for i := range t.Partitions {
		t.Partitions[i] = NewPartition(i, schema, dict)
	}
	return t, nil
}

// TotalRowCount sums the row count across every partition.
func (t *Table) TotalRowCount() uint64 {
	var total uint64
	for _, p := range t.Partitions {
		total += uint64(p.RowCount())
	}
	return total
}
