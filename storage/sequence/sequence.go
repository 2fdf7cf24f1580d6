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

// Package sequence implements the per-partition sequence column:
// per-position symbol bitmaps with flipping, the compressed raw blob
// column, and the insertion index with its 3-mer search accelerator.
package sequence

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/pkg/errors"

	"github.com/silogenomics/silo/bio"
	"github.com/silogenomics/silo/storage/column"
	"github.com/silogenomics/silo/storage/zstdcodec"
)

// position holds one row-id bitmap per symbol of the alphabet, with at
// most one of them stored as a complement.
type position struct {
	bitmaps []*roaring.Bitmap // mutable during ingestion, read-only after Optimise
	flipped int               // index into bitmaps of the flipped symbol, or -1
}

// Store is a per-partition sequence column for one named biological
// sequence; each record contributes one value per declared sequence.
type Store struct {
	Alphabet  bio.Alphabet
	Reference []bio.Symbol

	positions []position
	raw       *column.ZstdCompressedString
	insertion *InsertionIndex

	rowCount  uint32
	optimised bool
}

// New builds an empty store over a reference sequence.
func New(alphabet bio.Alphabet, reference []bio.Symbol) *Store {
	positions := make([]position, len(reference))
	for i := range positions {
		positions[i] = position{
			bitmaps: make([]*roaring.Bitmap, alphabet.Size()),
			flipped: -1,
		}
		for s := range positions[i].bitmaps {
			positions[i].bitmaps[s] = roaring.New()
		}
	}
	return &Store{
		Alphabet:  alphabet,
		Reference: reference,
		positions: positions,
		raw:       column.NewZstdCompressedString(),
		insertion: newInsertionIndex(),
	}
}

// Insert ingests one record's sequence. aligned must have len(Reference)
// characters, one per reference position. unaligned is the original,
// possibly insertion-bearing string, stored compressed for reconstruction
// (Fasta action). insertions are already-extracted "pos:chars" strings
// (ingestion/parsing of the raw record is an out-of-scope collaborator's
// job; the store only indexes what it is given).
func (s *Store) Insert(aligned string, unaligned string, insertions []string, dict *zstdcodec.Dictionary) error {
	if s.optimised {
		return errors.New("sequence: cannot Insert after Optimise")
	}
	if len(aligned) != len(s.Reference) {
		return errors.Errorf("sequence: aligned sequence has length %d, want %d", len(aligned), len(s.Reference))
	}
	row := s.rowCount
	for p := 0; p < len(s.Reference); p++ {
		sym, ok := s.Alphabet.FromLetter(aligned[p])
		if !ok {
			return errors.Errorf("sequence: unrecognised symbol %q at position %d", aligned[p], p+1)
		}
		s.positions[p].bitmaps[sym].Add(row)
	}
	s.raw.InsertCompressed(dict.Compress([]byte(unaligned)))
	for _, ins := range insertions {
		if err := s.insertion.stage(row, ins); err != nil {
			return err
		}
	}
	s.rowCount++
	return nil
}

// Optimise picks, for each position, the symbol to store flipped (the
// one whose bitmap would shrink the most by storing its complement) and
// finalises the insertion index's 3-mer map. Must be called exactly once
// after all rows of the partition have been inserted.
func (s *Store) Optimise() {
	if s.optimised {
		return
	}
	for p := range s.positions {
		pos := &s.positions[p]
		best, bestCount := -1, uint64(0)
		for sym, b := range pos.bitmaps {
			if c := b.GetCardinality(); c > bestCount {
				best, bestCount = sym, c
			}
		}
		if best >= 0 && bestCount*2 > uint64(s.rowCount) {
			flipped := pos.bitmaps[best].Clone()
			flipped.Flip(0, uint64(s.rowCount))
			pos.bitmaps[best] = flipped
			pos.flipped = best
		}
	}
	s.insertion.finalise()
	s.optimised = true
}

// RowCount returns the partition cardinality.
func (s *Store) RowCount() uint32 { return s.rowCount }

// Bitmap returns the row-ids matching exactly symbol at the 1-indexed
// position p. Handles the flip transparently.
func (s *Store) Bitmap(p int, symbol bio.Symbol) (*roaring.Bitmap, error) {
	pos, err := s.positionAt(p)
	if err != nil {
		return nil, err
	}
	stored := pos.bitmaps[symbol]
	if pos.flipped == int(symbol) {
		result := stored.Clone()
		result.Flip(0, uint64(s.rowCount))
		return result, nil
	}
	return stored, nil
}

// ApproximateBitmap returns the row-ids where the stored symbol is
// either symbol or any ambiguity code whose expansion includes symbol.
func (s *Store) ApproximateBitmap(p int, symbol bio.Symbol) (*roaring.Bitmap, error) {
	exact, err := s.Bitmap(p, symbol)
	if err != nil {
		return nil, err
	}
	codes := s.Alphabet.AmbiguityCodesFor(symbol)
	if len(codes) == 0 {
		return exact, nil
	}
	all := make([]*roaring.Bitmap, 0, len(codes)+1)
	all = append(all, exact)
	for _, code := range codes {
		b, err := s.Bitmap(p, code)
		if err != nil {
			return nil, err
		}
		all = append(all, b)
	}
	return roaring.FastOr(all...), nil
}

// PositionBitmap returns the row-id bitmap exactly as stored for symbol
// at 1-indexed position p, without undoing a flip, plus whether that
// bitmap is stored as a complement. Callers doing cardinality-only
// arithmetic (the Mutations action) can use flipped directly instead of
// paying for a Clone+Flip through Bitmap.
func (s *Store) PositionBitmap(p int, symbol bio.Symbol) (stored *roaring.Bitmap, flipped bool, err error) {
	pos, err := s.positionAt(p)
	if err != nil {
		return nil, false, err
	}
	return pos.bitmaps[symbol], pos.flipped == int(symbol), nil
}

// ReferenceSymbolAt returns the reference symbol at 1-indexed position p.
func (s *Store) ReferenceSymbolAt(p int) (bio.Symbol, error) {
	if p < 1 || p > len(s.Reference) {
		return 0, errors.Errorf("sequence: position %d out of range [1, %d]", p, len(s.Reference))
	}
	return s.Reference[p-1], nil
}

// Length returns the reference length.
func (s *Store) Length() int { return len(s.Reference) }

func (s *Store) positionAt(p int) (*position, error) {
	if p < 1 || p > len(s.positions) {
		return nil, errors.Errorf("sequence: position %d out of range [1, %d]", p, len(s.positions))
	}
	return &s.positions[p-1], nil
}

// Unaligned decompresses row's original (insertion-bearing) sequence for
// the Fasta reconstruction action.
func (s *Store) Unaligned(row uint32, dict *zstdcodec.Dictionary) (string, bool, error) {
	return s.raw.Decompress(row, dict)
}

// Aligned reconstructs row's aligned sequence from the reference and the
// per-position symbol bitmaps (FastaAligned action).
func (s *Store) Aligned(row uint32) (string, error) {
	out := make([]byte, len(s.Reference))
	for p := range s.Reference {
		sym, err := s.symbolAtRow(p, row)
		if err != nil {
			return "", err
		}
		out[p] = s.Alphabet.Letter(sym)
	}
	return string(out), nil
}

func (s *Store) symbolAtRow(zeroIndexedPos int, row uint32) (bio.Symbol, error) {
	pos := &s.positions[zeroIndexedPos]
	for sym, b := range pos.bitmaps {
		if pos.flipped == sym {
			if !b.Contains(row) {
				return bio.Symbol(sym), nil
			}
			continue
		}
		if b.Contains(row) {
			return bio.Symbol(sym), nil
		}
	}
	return 0, errors.Errorf("sequence: row %d has no symbol recorded at position %d (corrupt index)", row, zeroIndexedPos+1)
}

// Insertions exposes the insertion index for the filter compiler and the
// Insertions/AminoAcidInsertions actions.
func (s *Store) Insertions() *InsertionIndex { return s.insertion }
