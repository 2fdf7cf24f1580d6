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

	"github.com/silogenomics/silo/storage/column"
	"github.com/silogenomics/silo/storage/sequence"
	"github.com/silogenomics/silo/storage/zstdcodec"
)

// Partition is one of the table's P disjoint shards. Row
// ids within a partition are a contiguous [0, N) range assigned at
// ingestion and never reassigned.
type Partition struct {
	Schema *Schema
	Index  int

	strings        map[string]*column.String
	indexedStrings map[string]*column.IndexedString
	int32s         map[string]*column.Int32
	float64s       map[string]*column.Float64
	bools          map[string]*column.Bool
	dates          map[string]*column.Date
	lineages       map[string]*column.IndexedString
	zstdStrings    map[string]*column.ZstdCompressedString
	sequences      map[string]*sequence.Store

	primaryKeys []string
	pkToRow     map[string]uint32

	dict     *zstdcodec.Dictionary
	rowCount uint32
}

// NewPartition allocates empty per-partition storage for every column and
// sequence declared in schema.
func NewPartition(index int, schema *Schema, dict *zstdcodec.Dictionary) *Partition {
	p := &Partition{
		Schema:         schema,
		Index:          index,
		strings:        make(map[string]*column.String),
		indexedStrings: make(map[string]*column.IndexedString),
		int32s:         make(map[string]*column.Int32),
		float64s:       make(map[string]*column.Float64),
		bools:          make(map[string]*column.Bool),
		dates:          make(map[string]*column.Date),
		lineages:       make(map[string]*column.IndexedString),
		zstdStrings:    make(map[string]*column.ZstdCompressedString),
		sequences:      make(map[string]*sequence.Store),
		pkToRow:        make(map[string]uint32),
		dict:           dict,
	}
	for _, c := range schema.Columns {
		switch c.Type {
		case ColString:
			p.strings[c.Name] = column.NewString()
		case ColIndexedString:
			p.indexedStrings[c.Name] = column.NewIndexedString()
		case ColInt32:
			p.int32s[c.Name] = column.NewInt32()
		case ColFloat64:
			p.float64s[c.Name] = column.NewFloat64()
		case ColBool:
			p.bools[c.Name] = column.NewBool()
		case ColDate:
			p.dates[c.Name] = column.NewDate(c.Sorted)
		case ColLineage:
			p.lineages[c.Name] = column.NewIndexedString()
		case ColZstdCompressedString:
			p.zstdStrings[c.Name] = column.NewZstdCompressedString()
		}
	}
	return p
}

// RowCount returns the partition cardinality N.
func (p *Partition) RowCount() uint32 { return p.rowCount }

// Dictionary returns the shared zstd dictionary used to compress blobs in
// this partition.
func (p *Partition) Dictionary() *zstdcodec.Dictionary { return p.dict }

// PrimaryKey returns the logical primary key of a physical row.
func (p *Partition) PrimaryKey(row uint32) (string, bool) {
	if int(row) >= len(p.primaryKeys) {
		return "", false
	}
	return p.primaryKeys[row], true
}

// RowForPrimaryKey maps a logical key back to its physical row-id.
func (p *Partition) RowForPrimaryKey(key string) (uint32, bool) {
	row, ok := p.pkToRow[key]
	return row, ok
}

// IndexedString returns the named indexed_string or lineage column.
func (p *Partition) IndexedString(name string) (*column.IndexedString, bool) {
	if c, ok := p.indexedStrings[name]; ok {
		return c, true
	}
	c, ok := p.lineages[name]
	return c, ok
}

func (p *Partition) String(name string) (*column.String, bool) {
	c, ok := p.strings[name]
	return c, ok
}
func (p *Partition) Int32(name string) (*column.Int32, bool) { c, ok := p.int32s[name]; return c, ok }
func (p *Partition) Float64(name string) (*column.Float64, bool) {
	c, ok := p.float64s[name]
	return c, ok
}
func (p *Partition) Bool(name string) (*column.Bool, bool) { c, ok := p.bools[name]; return c, ok }
func (p *Partition) Date(name string) (*column.Date, bool) { c, ok := p.dates[name]; return c, ok }
func (p *Partition) Zstd(name string) (*column.ZstdCompressedString, bool) {
	c, ok := p.zstdStrings[name]
	return c, ok
}

// Sequence returns the named sequence store installed by
// SetSequenceStore; ok is false if none was installed.
func (p *Partition) Sequence(name string) (*sequence.Store, bool) {
	s, ok := p.sequences[name]
	return s, ok
}

// SetSequenceStore installs the sequence store for a declared sequence
// column; called once by the ingestion collaborator per partition.
func (p *Partition) SetSequenceStore(name string, store *sequence.Store) {
	p.sequences[name] = store
}

// Value returns the column value of row formatted as a generic interface,
// used by the Details, Aggregated and Fasta actions to project row
// values.
func (p *Partition) Value(column string, row uint32) (interface{}, bool) {
	def, ok := p.Schema.Column(column)
	if !ok {
		return nil, false
	}
	switch def.Type {
	case ColString, ColZstdCompressedString:
		if def.Type == ColString {
			return mustOK(p.strings[column].Value(row))
		}
		v, ok, err := p.zstdStrings[column].Decompress(row, p.dict)
		if err != nil || !ok {
			return nil, false
		}
		return v, true
	case ColIndexedString, ColLineage:
		idx, _ := p.IndexedString(column)
		id, ok := idx.ValueID(row)
		if !ok {
			return nil, false
		}
		dict := p.Schema.StringDictionaries[column]
		return dict.Value(id)
	case ColInt32:
		return mustOK(p.int32s[column].Value(row))
	case ColFloat64:
		return mustOK(p.float64s[column].Value(row))
	case ColBool:
		return mustOK(p.bools[column].Value(row))
	case ColDate:
		v, ok := p.dates[column].Value(row)
		if !ok {
			return nil, false
		}
		return v.Format("2006-01-02"), true
	}
	return nil, false
}

func mustOK[T any](v T, ok bool) (interface{}, bool) {
	if !ok {
		return nil, false
	}
	return v, true
}

// Finalise freezes row bookkeeping (primary key index, row count) after
// ingestion; must be called once after every column has received all of
// its rows for this partition.
func (p *Partition) Finalise(primaryKeys []string) error {
	p.primaryKeys = primaryKeys
	for row, key := range primaryKeys {
		if _, dup := p.pkToRow[key]; dup {
			return errors.Errorf("storage: duplicate primary key %q", key)
		}
		p.pkToRow[key] = uint32(row)
	}
	p.rowCount = uint32(len(primaryKeys))
	return nil
}
