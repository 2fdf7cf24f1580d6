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

// Package query implements the JSON request/response wire format and
// the partition fan-out execution pipeline: parsing, per-partition
// filter compilation and action evaluation, and result merging under a
// wall-clock deadline.
package query

import (
	"bytes"
	"encoding/json"

	"github.com/silogenomics/silo/errkit"
)

// Request is the top-level JSON query request.
type Request struct {
	Action           json.RawMessage `json:"action"`
	FilterExpression json.RawMessage `json:"filterExpression"`
}

// ParseRequest decodes raw as a Request, rejecting unknown top-level
// fields with an error naming the offending field.
func ParseRequest(raw []byte) (*Request, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}
	if len(req.Action) == 0 {
		return nil, errkit.New(errkit.QueryParse, "request is missing required field", "action")
	}
	if len(req.FilterExpression) == 0 {
		return nil, errkit.New(errkit.QueryParse, "request is missing required field", "filterExpression")
	}
	return &req, nil
}

// orderByField mirrors one element of an action's orderByFields array.
type orderByField struct {
	Field     string `json:"field"`
	Ascending bool   `json:"ascending"`
}

// randomizeSpec matches the wire union `{"seed": K} | false` (spec
// section 6). Present is false when the request supplied the literal
// `false`.
type randomizeSpec struct {
	Present bool
	Seed    int64
}

func (r *randomizeSpec) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("false")) {
		r.Present = false
		return nil
	}
	var v struct {
		Seed int64 `json:"seed"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	r.Present = true
	r.Seed = v.Seed
	return nil
}

func decodeStrict(raw json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
