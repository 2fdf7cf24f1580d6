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

// Package storage implements the frozen, read-optimised columnar table:
// a fixed schema, disjoint partitions, typed columns, and per-record
// sequence stores.
package storage

import (
	"github.com/pkg/errors"

	"github.com/silogenomics/silo/storage/bidimap"
	"github.com/silogenomics/silo/storage/lineage"
)

// ColumnType enumerates the column variants a Schema can declare.
type ColumnType int

const (
	ColString ColumnType = iota
	ColIndexedString
	ColInt32
	ColFloat64
	ColBool
	ColDate
	ColLineage
	ColZstdCompressedString
)

// ColumnDef declares one schema column.
type ColumnDef struct {
	Name   string
	Type   ColumnType
	Sorted bool // only meaningful for ColDate
}

// SequenceDef declares one biological sequence column:
// nucleotide or amino-acid, with its reference string.
type SequenceDef struct {
	Name      string
	Reference string
	IsAmino   bool
}

// Schema is a fixed, ordered list of typed columns plus the declared
// sequence columns, shared by every partition of a table.
type Schema struct {
	PrimaryKeyColumn string
	Columns          []ColumnDef
	Sequences        []SequenceDef

	DefaultNucleotideSequence string
	DefaultAminoAcidSequence  string

	// StringDictionaries holds the table-global BidirectionalMap for each
	// indexed_string/lineage column.
	StringDictionaries map[string]*bidimap.Map

	LineageTree   *lineage.Tree
	LineageColumn string

	columnIndex map[string]int
	seqIndex    map[string]int
}

// NewSchema builds a Schema and its lookup indices. PrimaryKeyColumn must
// name a declared column.
func NewSchema(primaryKeyColumn string, columns []ColumnDef, sequences []SequenceDef) (*Schema, error) {
	s := &Schema{
		PrimaryKeyColumn:   primaryKeyColumn,
		Columns:            columns,
		Sequences:          sequences,
		StringDictionaries: make(map[string]*bidimap.Map),
		columnIndex:        make(map[string]int, len(columns)),
		seqIndex:           make(map[string]int, len(sequences)),
	}
	foundPK := false
	for i, c := range columns {
		if _, dup := s.columnIndex[c.Name]; dup {
			return nil, errors.Errorf("storage: duplicate column %q", c.Name)
		}
		s.columnIndex[c.Name] = i
		if c.Name == primaryKeyColumn {
			foundPK = true
		}
		if c.Type == ColIndexedString || c.Type == ColLineage {
			s.StringDictionaries[c.Name] = bidimap.New()
		}
		if c.Type == ColLineage {
			s.LineageColumn = c.Name
		}
	}
	if !foundPK {
		return nil, errors.Errorf("storage: primary key column %q not declared", primaryKeyColumn)
	}
	for i, sq := range sequences {
		if _, dup := s.seqIndex[sq.Name]; dup {
			return nil, errors.Errorf("storage: duplicate sequence %q", sq.Name)
		}
		s.seqIndex[sq.Name] = i
	}
	return s, nil
}

// Column looks up a declared column by name.
func (s *Schema) Column(name string) (ColumnDef, bool) {
	i, ok := s.columnIndex[name]
	if !ok {
		return ColumnDef{}, false
	}
	return s.Columns[i], true
}

// Sequence looks up a declared sequence by name.
func (s *Schema) Sequence(name string) (SequenceDef, bool) {
	i, ok := s.seqIndex[name]
	if !ok {
		return SequenceDef{}, false
	}
	return s.Sequences[i], true
}

// ResolveSequenceName applies the "omitted sequenceName falls back to
// the declared default" rule for the given alphabet.
func (s *Schema) ResolveSequenceName(requested string, isAmino bool) (string, error) {
	if requested != "" {
		if _, ok := s.Sequence(requested); !ok {
			return "", errors.Errorf("storage: unknown sequence %q", requested)
		}
		return requested, nil
	}
	def := s.DefaultNucleotideSequence
	if isAmino {
		def = s.DefaultAminoAcidSequence
	}
	if def == "" {
		return "", errors.New("storage: sequenceName omitted and no default sequence declared")
	}
	return def, nil
}
