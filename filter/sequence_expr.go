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
	"regexp"

	"github.com/silogenomics/silo/bio"
	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/operator"
)

// NucleotideEquals matches rows whose nucleotide Sequence holds Value at
// the 1-indexed Position. Value of '.' means "the reference symbol at
// that position".
type NucleotideEquals struct {
	Sequence string
	Position int
	Value    byte
}

// AminoAcidEquals is NucleotideEquals's amino-acid counterpart.
type AminoAcidEquals struct {
	Sequence string
	Position int
	Value    byte
}

// HasNucleotideMutation desugars to "not reference and not the fully
// ambiguous symbol", honoring the ambient ambiguity mode.
type HasNucleotideMutation struct {
	Sequence string
	Position int
}

type HasAminoAcidMutation struct {
	Sequence string
	Position int
}

// InsertionContains matches rows with a nucleotide insertion at Position
// whose inserted characters match Regex.
type InsertionContains struct {
	Sequence string
	Position int
	Regex    *regexp.Regexp
}

type AminoAcidInsertionContains struct {
	Sequence string
	Position int
	Regex    *regexp.Regexp
}

func (e *NucleotideEquals) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	return compileSequenceEquals(pc, mode, e.Sequence, false, e.Position, e.Value)
}

func (e *AminoAcidEquals) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	return compileSequenceEquals(pc, mode, e.Sequence, true, e.Position, e.Value)
}

func compileSequenceEquals(pc *PartitionContext, mode AmbiguityMode, sequenceName string, isAmino bool, position int, value byte) (operator.Operator, error) {
	name, err := pc.Schema.ResolveSequenceName(sequenceName, isAmino)
	if err != nil {
		return nil, errkit.New(errkit.UnknownSequence, err.Error(), sequenceName)
	}
	store, ok := pc.Partition.Sequence(name)
	if !ok {
		return nil, errkit.New(errkit.UnknownSequence, "sequence not present in partition", name)
	}

	var symbol bio.Symbol
	if value == '.' {
		symbol, err = store.ReferenceSymbolAt(position)
	} else {
		var recognised bool
		symbol, recognised = store.Alphabet.FromLetter(value)
		if !recognised {
			return nil, errkit.New(errkit.BadRequest, "unrecognised symbol in sequence filter", string(value))
		}
	}
	if err != nil {
		return nil, errkit.New(errkit.OutOfRange, err.Error(), name)
	}

	switch mode {
	case UpperBound:
		b, err := store.ApproximateBitmap(position, symbol)
		if err != nil {
			return nil, errkit.New(errkit.OutOfRange, err.Error(), name)
		}
		return operator.NewIndexScan(b, rowCount(pc)), nil
	default:
		// None and LowerBound both resolve to the exact stored bitmap:
		// None because ambiguity is not being reasoned about at all,
		// LowerBound because ambiguity codes must not count as a match.
		b, err := store.Bitmap(position, symbol)
		if err != nil {
			return nil, errkit.New(errkit.OutOfRange, err.Error(), name)
		}
		return operator.NewIndexScan(b, rowCount(pc)), nil
	}
}

func (e *HasNucleotideMutation) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	return (&And{Children: []Expression{
		&Not{Child: &NucleotideEquals{Sequence: e.Sequence, Position: e.Position, Value: '.'}},
		&Not{Child: &NucleotideEquals{Sequence: e.Sequence, Position: e.Position, Value: 'N'}},
	}}).Compile(pc, mode)
}

func (e *HasAminoAcidMutation) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	return (&And{Children: []Expression{
		&Not{Child: &AminoAcidEquals{Sequence: e.Sequence, Position: e.Position, Value: '.'}},
		&Not{Child: &AminoAcidEquals{Sequence: e.Sequence, Position: e.Position, Value: 'X'}},
	}}).Compile(pc, mode)
}

func (e *InsertionContains) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	return compileInsertionContains(pc, e.Sequence, false, e.Position, e.Regex)
}

func (e *AminoAcidInsertionContains) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	return compileInsertionContains(pc, e.Sequence, true, e.Position, e.Regex)
}

func compileInsertionContains(pc *PartitionContext, sequenceName string, isAmino bool, position int, re *regexp.Regexp) (operator.Operator, error) {
	name, err := pc.Schema.ResolveSequenceName(sequenceName, isAmino)
	if err != nil {
		return nil, errkit.New(errkit.UnknownSequence, err.Error(), sequenceName)
	}
	store, ok := pc.Partition.Sequence(name)
	if !ok {
		return nil, errkit.New(errkit.UnknownSequence, "sequence not present in partition", name)
	}
	index := store.Insertions()
	rc := rowCount(pc)
	return operator.NewBitmapProducer(rc, "InsertionContains", func() operator.CopyOnWriteBitmap {
		return operator.Owned(index.Search(position, re))
	}), nil
}
