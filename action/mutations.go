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

package action

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/silogenomics/silo/bio"
	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/storage"
	"github.com/silogenomics/silo/storage/sequence"
)

var mutationFieldSet = map[string]bool{
	"mutation": true, "mutationFrom": true, "mutationTo": true,
	"position": true, "sequenceName": true, "proportion": true,
	"coverage": true, "count": true,
}

// Mutations computes, for each sequence and each reference position, the
// proportion of filtered rows carrying a symbol other than the reference.
// The flipped-bitmap arithmetic lets a fully-included partition (the
// filter selects every row) skip the AND entirely.
//
// Execute emits raw per-partition counters: one coverage marker per
// position (a row without mutationTo) plus one count row per observed
// non-reference symbol. Merge sums those counters across partitions and
// only then applies MinProportion, so a mutation passing the threshold
// globally is never lost to a partition where it fell below it.
type Mutations struct {
	MinProportion float64
	SequenceNames []string
	Fields        []string
	Ordering      Ordering
}

func NewMutations(minProportion float64, sequenceNames, fields []string, ordering Ordering) (*Mutations, error) {
	if minProportion < 0 || minProportion > 1 {
		return nil, errkit.New(errkit.BadRequest, "minProportion must lie in [0, 1]", "minProportion")
	}
	for _, f := range fields {
		if !mutationFieldSet[f] {
			return nil, errkit.New(errkit.BadRequest, "unknown Mutations output field", f)
		}
	}
	m := &Mutations{MinProportion: minProportion, SequenceNames: sequenceNames, Fields: fields, Ordering: ordering}
	if err := ordering.ValidateAgainst(m.OutputFields()); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mutations) OutputFields() []string {
	if len(m.Fields) > 0 {
		return m.Fields
	}
	return []string{"mutation", "mutationFrom", "mutationTo", "position", "sequenceName", "proportion", "coverage", "count"}
}

func (m *Mutations) sequenceNames(schema *storage.Schema) []string {
	if len(m.SequenceNames) > 0 {
		return m.SequenceNames
	}
	names := make([]string, len(schema.Sequences))
	for i, sd := range schema.Sequences {
		names[i] = sd.Name
	}
	return names
}

func (m *Mutations) Execute(ctx context.Context, partition *storage.Partition, bitmap *roaring.Bitmap) ([]Row, error) {
	var out []Row
	filterCard := bitmap.GetCardinality()
	fullyIncluded := filterCard == uint64(partition.RowCount())

	for _, name := range m.sequenceNames(partition.Schema) {
		store, ok := partition.Sequence(name)
		if !ok {
			continue
		}
		alphabetSize := store.Alphabet.Size()
		missing := store.Alphabet.MissingSymbol()
		for p := 1; p <= store.Length(); p++ {
			if p%256 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			ref, err := store.ReferenceSymbolAt(p)
			if err != nil {
				return nil, err
			}

			missingCount, err := countForSymbol(store, p, missing, bitmap, filterCard, fullyIncluded)
			if err != nil {
				return nil, err
			}
			coverage := filterCard - missingCount
			if coverage == 0 {
				continue
			}
			out = append(out, Row{"sequenceName": name, "position": p, "coverage": coverage})

			for s := 0; s < alphabetSize; s++ {
				symbol := bio.Symbol(s)
				if symbol == ref || symbol == missing {
					continue
				}
				count, err := countForSymbol(store, p, symbol, bitmap, filterCard, fullyIncluded)
				if err != nil {
					return nil, err
				}
				if count == 0 {
					continue
				}
				out = append(out, Row{
					"mutation":     fmt.Sprintf("%c%d%c", store.Alphabet.Letter(ref), p, store.Alphabet.Letter(symbol)),
					"mutationFrom": string(store.Alphabet.Letter(ref)),
					"mutationTo":   string(store.Alphabet.Letter(symbol)),
					"position":     p,
					"sequenceName": name,
					"count":        count,
				})
			}
		}
	}
	return out, nil
}

func countForSymbol(store *sequence.Store, p int, symbol bio.Symbol, filter *roaring.Bitmap, filterCard uint64, fullyIncluded bool) (uint64, error) {
	stored, flipped, err := store.PositionBitmap(p, symbol)
	if err != nil {
		return 0, err
	}
	if fullyIncluded {
		if flipped {
			return filterCard - stored.GetCardinality(), nil
		}
		return stored.GetCardinality(), nil
	}
	if flipped {
		return filterCard - filter.AndCardinality(stored), nil
	}
	return filter.AndCardinality(stored), nil
}

func (m *Mutations) Merge(perPartition [][]Row) []Row {
	type posKey struct {
		sequenceName string
		position     int
	}
	type mutKey struct {
		posKey
		to string
	}
	coverage := make(map[posKey]uint64)
	counts := make(map[mutKey]Row)
	order := make([]mutKey, 0)

	for _, rows := range perPartition {
		for _, r := range rows {
			pk := posKey{r["sequenceName"].(string), r["position"].(int)}
			to, isMutation := r["mutationTo"].(string)
			if !isMutation {
				coverage[pk] += r["coverage"].(uint64)
				continue
			}
			k := mutKey{pk, to}
			if existing, ok := counts[k]; ok {
				existing["count"] = existing["count"].(uint64) + r["count"].(uint64)
				continue
			}
			counts[k] = cloneRow(r)
			order = append(order, k)
		}
	}

	out := make([]Row, 0, len(counts))
	for _, k := range order {
		r := counts[k]
		cov := coverage[k.posKey]
		if cov == 0 {
			continue
		}
		proportion := float64(r["count"].(uint64)) / float64(cov)
		if proportion < m.MinProportion {
			continue
		}
		r["coverage"] = cov
		r["proportion"] = proportion
		out = append(out, m.project(r))
	}
	return m.Ordering.Apply(out)
}

func (m *Mutations) project(r Row) Row {
	if len(m.Fields) == 0 {
		return r
	}
	out := make(Row, len(m.Fields))
	for _, f := range m.Fields {
		out[f] = r[f]
	}
	return out
}
