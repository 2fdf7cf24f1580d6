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

	"github.com/silogenomics/silo/action"
	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/storage"
)

// actionWire is the union of every field any Action variant can carry.
type actionWire struct {
	Type string `json:"type"`

	GroupByFields    []string `json:"groupByFields,omitempty"`
	Fields           []string `json:"fields,omitempty"`
	AdditionalFields []string `json:"additionalFields,omitempty"`
	SequenceNames    []string `json:"sequenceNames,omitempty"`

	MinProportion *float64 `json:"minProportion,omitempty"`

	MaterializationCutoff *uint32 `json:"materializationCutoff,omitempty"`
	BatchSize             *uint32 `json:"batchSize,omitempty"`

	OrderByFields []orderByField `json:"orderByFields,omitempty"`
	Limit         *int           `json:"limit,omitempty"`
	Offset        int            `json:"offset,omitempty"`
	Randomize     *randomizeSpec `json:"randomize,omitempty"`
}

const (
	defaultMaterializationCutoff = 100_000
	defaultBatchSize             = 10_000
)

// ParseAction decodes raw into an action.Action.
func ParseAction(schema *storage.Schema, raw json.RawMessage) (action.Action, error) {
	var w actionWire
	if err := decodeStrict(raw, &w); err != nil {
		return nil, errkit.New(errkit.QueryParse, err.Error(), "")
	}
	if w.Randomize != nil && w.Randomize.Present && len(w.OrderByFields) > 0 {
		return nil, errkit.New(errkit.BadRequest, "randomize and orderByFields are mutually exclusive", "randomize")
	}

	ordering := w.ordering()

	switch w.Type {
	case "Aggregated":
		return action.NewAggregated(w.GroupByFields, ordering)
	case "Mutations":
		minProportion := 0.0
		if w.MinProportion != nil {
			minProportion = *w.MinProportion
		}
		return action.NewMutations(minProportion, w.SequenceNames, w.Fields, ordering)
	case "Insertions":
		return action.NewInsertions(w.SequenceNames, false, ordering)
	case "AminoAcidInsertions":
		return action.NewInsertions(w.SequenceNames, true, ordering)
	case "Fasta":
		return action.NewFasta(w.SequenceNames, w.AdditionalFields, w.cutoff(), w.batchSize(), ordering)
	case "FastaAligned":
		return action.NewFastaAligned(w.SequenceNames, w.AdditionalFields, w.cutoff(), w.batchSize(), ordering)
	case "Details":
		return action.NewDetails(w.Fields, schema, ordering)
	default:
		return nil, errkit.New(errkit.QueryParse, "unknown action type", w.Type)
	}
}

func (w actionWire) cutoff() uint32 {
	if w.MaterializationCutoff != nil {
		return *w.MaterializationCutoff
	}
	return defaultMaterializationCutoff
}

func (w actionWire) batchSize() uint32 {
	if w.BatchSize != nil {
		return *w.BatchSize
	}
	return defaultBatchSize
}

func (w actionWire) ordering() action.Ordering {
	fields := make([]action.OrderField, len(w.OrderByFields))
	for i, f := range w.OrderByFields {
		fields[i] = action.OrderField{Field: f.Field, Ascending: f.Ascending}
	}
	o := action.Ordering{
		Fields: fields,
		Offset: w.Offset,
	}
	if w.Limit != nil {
		o.HasLimit = true
		o.Limit = *w.Limit
	}
	if w.Randomize != nil && w.Randomize.Present {
		seed := w.Randomize.Seed
		o.RandomizeSeed = &seed
	}
	return o
}
