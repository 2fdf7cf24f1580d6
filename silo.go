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

// Package silo is the top-level entry point of the query engine: a
// Database holding one or more frozen tables, and an Engine that parses
// and executes a JSON query request against one of them.
package silo

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/silogenomics/silo/action"
	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/query"
	"github.com/silogenomics/silo/storage"
)

// Database is the registry of tables an Engine can query. Tables are
// added once at load time and are otherwise immutable; only AddTable
// takes the write lock.
type Database struct {
	mu     sync.RWMutex
	tables map[string]*storage.Table
}

// NewDatabase returns an empty Database.
func NewDatabase() *Database {
	return &Database{tables: make(map[string]*storage.Table)}
}

// AddTable registers tbl under its own name, rejecting a duplicate.
func (d *Database) AddTable(tbl *storage.Table) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.tables[tbl.Name]; exists {
		return errkit.New(errkit.BadRequest, "table already registered", tbl.Name)
	}
	d.tables[tbl.Name] = tbl
	return nil
}

// Table looks up a registered table by name.
func (d *Database) Table(name string) (*storage.Table, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tables[name]
	return t, ok
}

// Engine parses and executes query requests against a Database.
type Engine struct {
	Config Config
	db     *Database
}

// NewEngine builds an Engine serving db under cfg.
func NewEngine(db *Database, cfg Config) *Engine {
	cfg.applyDefaults()
	logrus.SetLevel(cfg.LogLevel)
	return &Engine{Config: cfg, db: db}
}

// Query parses raw as a query.Request and executes it against table,
// fanning the filter and action out across the table's partitions and
// merging the results.
func (e *Engine) Query(ctx context.Context, table string, raw []byte) ([]action.Row, error) {
	q, err := e.query(table)
	if err != nil {
		return nil, err
	}
	return q.Run(ctx, raw)
}

// QueryStream is Query's streaming counterpart for actions whose result
// set can exceed memory (Fasta, FastaAligned): the caller pulls row
// batches from the returned stream and must Close it when done.
func (e *Engine) QueryStream(ctx context.Context, table string, raw []byte) (*query.ResultStream, error) {
	q, err := e.query(table)
	if err != nil {
		return nil, err
	}
	return q.RunStream(ctx, raw)
}

func (e *Engine) query(table string) (*query.Query, error) {
	tbl, ok := e.db.Table(table)
	if !ok {
		return nil, errkit.New(errkit.BadRequest, "unknown table", table)
	}
	q := query.New(tbl)
	q.Deadline = e.Config.DefaultDeadline
	q.Workers = e.Config.Workers
	return q, nil
}
