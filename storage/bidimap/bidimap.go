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

// Package bidimap implements the table-global BidirectionalMap<string>
// used by indexed string and lineage columns to assign each distinct
// value a dense 32-bit id.
package bidimap

import "sync"

// Map assigns each distinct string a dense, stable uint32 id in insertion
// order. It is safe for concurrent readers once ingestion has finished;
// GetOrInsert is protected by a mutex for concurrent ingestion across
// partitions sharing one table-global dictionary.
type Map struct {
	mu        sync.RWMutex
	idByValue map[string]uint32
	valueByID []string
}

func New() *Map {
	return &Map{idByValue: make(map[string]uint32)}
}

// GetOrInsert returns the id for value, assigning a new one if value has
// not been seen before.
func (m *Map) GetOrInsert(value string) uint32 {
	m.mu.RLock()
	if id, ok := m.idByValue[value]; ok {
		m.mu.RUnlock()
		return id
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.idByValue[value]; ok {
		return id
	}
	id := uint32(len(m.valueByID))
	m.idByValue[value] = id
	m.valueByID = append(m.valueByID, value)
	return id
}

// Lookup returns the id of value without inserting it.
func (m *Map) Lookup(value string) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.idByValue[value]
	return id, ok
}

// Value returns the string for a previously-assigned id.
func (m *Map) Value(id uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if int(id) >= len(m.valueByID) {
		return "", false
	}
	return m.valueByID[id], true
}

// Len returns the number of distinct values assigned so far.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.valueByID)
}
