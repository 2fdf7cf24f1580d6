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

// Package action implements the result-producing actions: each receives
// a per-partition filter bitmap and the table reference and produces
// rows, merged across partitions by the query layer.
package action

import "github.com/spf13/cast"

// Row is one emitted record, keyed by output field name. Field values
// are the same loosely-typed scalars storage.Partition.Value produces.
type Row map[string]interface{}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// tupleKey builds a stable grouping key from a row's values at fields,
// using cast for uniform stringification of the loosely-typed JSON
// action parameters and row values.
func tupleKey(r Row, fields []string) string {
	key := make([]byte, 0, 16*len(fields))
	for _, f := range fields {
		key = append(key, []byte(cast.ToString(r[f]))...)
		key = append(key, 0x1f)
	}
	return string(key)
}
