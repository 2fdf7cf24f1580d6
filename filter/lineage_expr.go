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

package filter

import (
	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/operator"
	"github.com/silogenomics/silo/storage/lineage"
)

// LineageEquals matches rows whose lineage column resolves to Value,
// optionally widened to every sublineage under Mode. An unknown lineage
// name compiles to the always-empty selection rather than an error,
// matching a query that names a real but absent lineage.
type LineageEquals struct {
	Column             string
	Value              string
	IncludeSublineages bool
	Mode               lineage.FollowMode
}

// PhyloDescendantOf is sugar for LineageEquals with sublineage expansion
// always on, under AlwaysFollow: "anything phylogenetically
// below this lineage, recombinants included".
type PhyloDescendantOf struct {
	Column string
	Value  string
}

func (e *LineageEquals) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	tree := pc.Schema.LineageTree
	if tree == nil {
		return nil, errkit.New(errkit.UnknownColumn, "table declares no lineage column", e.Column)
	}
	idx, ok := pc.Partition.IndexedString(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown lineage column", e.Column)
	}
	id, ok := tree.Resolve(e.Value)
	if !ok {
		return operator.NewRangeSelection(nil, rowCount(pc)), nil
	}

	ids := []uint32{id}
	if e.IncludeSublineages {
		ids = append(ids, tree.Descendants(id, e.Mode)...)
	}
	// Tree ids and column ids come from different dictionaries: translate
	// each lineage through its name; a lineage the column never stored
	// contributes no rows.
	dict := pc.Schema.StringDictionaries[e.Column]
	children := make([]operator.Operator, 0, len(ids))
	for _, lid := range ids {
		name, _ := tree.Name(lid)
		valueID, ok := dict.Lookup(name)
		if !ok {
			continue
		}
		children = append(children, operator.NewIndexScan(idx.RowIDsEqual(valueID), rowCount(pc)))
	}
	return operator.NewUnion(children, rowCount(pc)), nil
}

func (e *PhyloDescendantOf) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	return (&LineageEquals{
		Column:             e.Column,
		Value:              e.Value,
		IncludeSublineages: true,
		Mode:               lineage.AlwaysFollow,
	}).Compile(pc, mode)
}
