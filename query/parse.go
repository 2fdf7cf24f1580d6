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
	"encoding/json"
	"regexp"
	"time"

	"github.com/spf13/cast"

	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/filter"
	"github.com/silogenomics/silo/storage"
	"github.com/silogenomics/silo/storage/lineage"
)

// exprWire is the union of every field any Expression variant can
// carry. DisallowUnknownFields on the decoder rejects any JSON key
// absent from this list, regardless of which Type the object declares.
type exprWire struct {
	Type string `json:"type"`

	Children []json.RawMessage `json:"children,omitempty"`
	Child    json.RawMessage   `json:"child,omitempty"`

	N            *int `json:"numberOfMatchers,omitempty"`
	MatchExactly bool `json:"matchExactly,omitempty"`

	SequenceName     string `json:"sequenceName,omitempty"`
	Position         *int   `json:"position,omitempty"`
	Symbol           string `json:"symbol,omitempty"`
	SearchExpression string `json:"searchExpression,omitempty"`

	Column string `json:"column,omitempty"`

	Value  json.RawMessage `json:"value,omitempty"`
	From   json.RawMessage `json:"from,omitempty"`
	To     json.RawMessage `json:"to,omitempty"`
	Values []string        `json:"values,omitempty"`

	IncludeSublineages bool   `json:"includeSublineages,omitempty"`
	Follow             string `json:"follow,omitempty"`
}

// ParseExpression decodes raw into an Expression tree, coercing typed
// literals (value/from/to) against schema's declared column types.
func ParseExpression(schema *storage.Schema, raw json.RawMessage) (filter.Expression, error) {
	var w exprWire
	if err := decodeStrict(raw, &w); err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}

	switch w.Type {
	case "True":
		return &filter.True{}, nil
	case "And", "Or":
		children := make([]filter.Expression, len(w.Children))
		for i, c := range w.Children {
			child, err := ParseExpression(schema, c)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		if w.Type == "And" {
			return &filter.And{Children: children}, nil
		}
		return &filter.Or{Children: children}, nil
	case "Not":
		child, err := ParseExpression(schema, w.Child)
		if err != nil {
			return nil, err
		}
		return &filter.Not{Child: child}, nil
	case "Maybe":
		child, err := ParseExpression(schema, w.Child)
		if err != nil {
			return nil, err
		}
		return &filter.Maybe{Child: child}, nil
	case "NOf":
		if w.N == nil {
			return nil, errkit.New(errkit.QueryParse, "NOf requires numberOfMatchers", "numberOfMatchers")
		}
		children := make([]filter.Expression, len(w.Children))
		for i, c := range w.Children {
			child, err := ParseExpression(schema, c)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return &filter.NOf{Children: children, N: *w.N, MatchExactly: w.MatchExactly}, nil

	case "NucleotideEquals", "AminoAcidEquals":
		if err := requirePosition(w); err != nil {
			return nil, err
		}
		if len(w.Symbol) != 1 {
			return nil, errkit.New(errkit.QueryParse, "symbol must be a single character", w.Type)
		}
		if w.Type == "NucleotideEquals" {
			return &filter.NucleotideEquals{Sequence: w.SequenceName, Position: *w.Position, Value: w.Symbol[0]}, nil
		}
		return &filter.AminoAcidEquals{Sequence: w.SequenceName, Position: *w.Position, Value: w.Symbol[0]}, nil
	case "HasNucleotideMutation":
		if err := requirePosition(w); err != nil {
			return nil, err
		}
		return &filter.HasNucleotideMutation{Sequence: w.SequenceName, Position: *w.Position}, nil
	case "HasAminoAcidMutation":
		if err := requirePosition(w); err != nil {
			return nil, err
		}
		return &filter.HasAminoAcidMutation{Sequence: w.SequenceName, Position: *w.Position}, nil
	case "InsertionContains", "AminoAcidInsertionContains":
		if err := requirePosition(w); err != nil {
			return nil, err
		}
		pattern, err := optionalString(w.Value)
		if err != nil {
			return nil, err
		}
		if pattern == nil {
			return nil, errkit.New(errkit.QueryParse, "value is required", w.Type)
		}
		re, err := regexp.Compile(*pattern)
		if err != nil {
			return nil, errkit.New(errkit.InvalidRegex, err.Error(), *pattern)
		}
		if w.Type == "InsertionContains" {
			return &filter.InsertionContains{Sequence: w.SequenceName, Position: *w.Position, Regex: re}, nil
		}
		return &filter.AminoAcidInsertionContains{Sequence: w.SequenceName, Position: *w.Position, Regex: re}, nil

	case "IntEquals", "IntBetween", "FloatEquals", "FloatBetween",
		"DateEquals", "DateBetween", "StringEquals", "StringInSet",
		"StringSearch", "IsNull", "IsNotNull":
		return parseColumnExpression(schema, w)

	case "LineageEquals":
		mode, err := parseFollowMode(w.Follow)
		if err != nil {
			return nil, err
		}
		return &filter.LineageEquals{
			Column:             resolveLineageColumn(schema, w.Column),
			Value:              w.valueString(),
			IncludeSublineages: w.IncludeSublineages,
			Mode:               mode,
		}, nil
	case "PhyloDescendantOf":
		return &filter.PhyloDescendantOf{Column: resolveLineageColumn(schema, w.Column), Value: w.valueString()}, nil

	default:
		return nil, errkit.New(errkit.QueryParse, "unknown expression type", w.Type)
	}
}

// Value is only meaningful for LineageEquals/PhyloDescendantOf, where the
// wire format carries it as a plain JSON string rather than a typed
// literal (lineage names are always strings).
func (w exprWire) valueString() string {
	var s string
	_ = json.Unmarshal(w.Value, &s)
	return s
}

func resolveLineageColumn(schema *storage.Schema, requested string) string {
	if requested != "" {
		return requested
	}
	return schema.LineageColumn
}

func parseFollowMode(s string) (lineage.FollowMode, error) {
	switch s {
	case "", "doNotFollow":
		return lineage.DoNotFollow, nil
	case "followIfFullyContainedInClade":
		return lineage.FollowIfFullyContainedInClade, nil
	case "alwaysFollow":
		return lineage.AlwaysFollow, nil
	default:
		return 0, errkit.New(errkit.QueryParse, "unknown sublineage follow mode", s)
	}
}

func parseColumnExpression(schema *storage.Schema, w exprWire) (filter.Expression, error) {
	col, ok := schema.Column(w.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown column", w.Column)
	}

	switch w.Type {
	case "IsNull":
		return &filter.IsNull{Column: w.Column}, nil
	case "IsNotNull":
		return &filter.IsNotNull{Column: w.Column}, nil
	case "StringInSet":
		return &filter.StringInSet{Column: w.Column, Values: w.Values}, nil
	case "StringSearch":
		re, err := regexp.Compile(w.SearchExpression)
		if err != nil {
			return nil, errkit.New(errkit.InvalidRegex, err.Error(), w.SearchExpression)
		}
		return &filter.StringSearch{Column: w.Column, Regex: re}, nil
	}

	switch col.Type {
	case storage.ColInt32:
		switch w.Type {
		case "IntEquals":
			v, err := optionalInt32(w.Value)
			if err != nil {
				return nil, err
			}
			return &filter.IntEquals{Column: w.Column, Value: v}, nil
		case "IntBetween":
			from, err := optionalInt32(w.From)
			if err != nil {
				return nil, err
			}
			to, err := optionalInt32(w.To)
			if err != nil {
				return nil, err
			}
			return &filter.IntBetween{Column: w.Column, From: from, To: to}, nil
		}
	case storage.ColFloat64:
		switch w.Type {
		case "FloatEquals":
			v, err := optionalFloat64(w.Value)
			if err != nil {
				return nil, err
			}
			return &filter.FloatEquals{Column: w.Column, Value: v}, nil
		case "FloatBetween":
			from, err := optionalFloat64(w.From)
			if err != nil {
				return nil, err
			}
			to, err := optionalFloat64(w.To)
			if err != nil {
				return nil, err
			}
			return &filter.FloatBetween{Column: w.Column, From: from, To: to}, nil
		}
	case storage.ColDate:
		switch w.Type {
		case "DateEquals":
			v, err := optionalDate(w.Value)
			if err != nil {
				return nil, err
			}
			return &filter.DateEquals{Column: w.Column, Value: v}, nil
		case "DateBetween":
			from, err := optionalDate(w.From)
			if err != nil {
				return nil, err
			}
			to, err := optionalDate(w.To)
			if err != nil {
				return nil, err
			}
			return &filter.DateBetween{Column: w.Column, From: from, To: to}, nil
		}
	case storage.ColString, storage.ColIndexedString, storage.ColLineage:
		if w.Type == "StringEquals" {
			v, err := optionalString(w.Value)
			if err != nil {
				return nil, err
			}
			return &filter.StringEquals{Column: w.Column, Value: v}, nil
		}
	}
	return nil, errkit.New(errkit.QueryParse, "expression type does not match column type", w.Type+"/"+w.Column)
}

func optionalInt32(raw json.RawMessage) (*int32, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}
	n, err := cast.ToInt32E(v)
	if err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}
	return &n, nil
}

func optionalFloat64(raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}
	return &f, nil
}

func optionalString(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}
	return &s, nil
}

func optionalDate(raw json.RawMessage) (*time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, errkit.New(errkit.QueryParse, "invalid date, want YYYY-MM-DD", s)
	}
	return &t, nil
}

// requirePosition enforces the 1-indexed position contract shared by
// every sequence filter: the field must be present and positive.
func requirePosition(w exprWire) error {
	if w.Position == nil {
		return errkit.New(errkit.QueryParse, "position is required", w.Type)
	}
	if *w.Position < 1 {
		return errkit.New(errkit.OutOfRange, "position is 1-indexed and must be >= 1", w.Type)
	}
	return nil
}
