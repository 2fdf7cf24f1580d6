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

package sequence

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/pkg/errors"
)

// insertionEntry is one distinct inserted string observed at a position,
// together with the row-ids that carry it.
type insertionEntry struct {
	insertedChars string
	rows          *roaring.Bitmap
}

// InsertionIndex holds, for every position where insertions occur, the
// list of distinct (inserted_string, row-id bitmap) pairs plus a 3-mer
// map accelerating insertion_search.
type InsertionIndex struct {
	byPosition map[int][]*insertionEntry
	entryByKey map[int]map[string]*insertionEntry
	trimers    map[int]map[string]*roaring.Bitmap
	finalised  bool
}

func newInsertionIndex() *InsertionIndex {
	return &InsertionIndex{
		byPosition: make(map[int][]*insertionEntry),
		entryByKey: make(map[int]map[string]*insertionEntry),
	}
}

// stage parses one "pos:chars" insertion string and records row as
// carrying it.
func (idx *InsertionIndex) stage(row uint32, raw string) error {
	colon := strings.IndexByte(raw, ':')
	if colon < 0 {
		return errors.Errorf("sequence: malformed insertion %q, want \"pos:chars\"", raw)
	}
	pos, err := strconv.Atoi(raw[:colon])
	if err != nil {
		return errors.Wrapf(err, "sequence: malformed insertion position in %q", raw)
	}
	chars := raw[colon+1:]

	byKey, ok := idx.entryByKey[pos]
	if !ok {
		byKey = make(map[string]*insertionEntry)
		idx.entryByKey[pos] = byKey
	}
	entry, ok := byKey[chars]
	if !ok {
		entry = &insertionEntry{insertedChars: chars, rows: roaring.New()}
		byKey[chars] = entry
		idx.byPosition[pos] = append(idx.byPosition[pos], entry)
	}
	entry.rows.Add(row)
	return nil
}

// finalise builds the 3-mer map from every distinct insertion string.
func (idx *InsertionIndex) finalise() {
	idx.trimers = make(map[int]map[string]*roaring.Bitmap, len(idx.byPosition))
	for pos, entries := range idx.byPosition {
		trimers := make(map[string]*roaring.Bitmap)
		for _, entry := range entries {
			for _, trimer := range trimersOf(entry.insertedChars) {
				b, ok := trimers[trimer]
				if !ok {
					b = roaring.New()
					trimers[trimer] = b
				}
				b.Or(entry.rows)
			}
		}
		idx.trimers[pos] = trimers
	}
	idx.finalised = true
}

func trimersOf(s string) []string {
	if len(s) < 3 {
		return nil
	}
	out := make([]string, 0, len(s)-2)
	for i := 0; i+3 <= len(s); i++ {
		out = append(out, s[i:i+3])
	}
	return out
}

// Positions returns every position with at least one staged insertion.
func (idx *InsertionIndex) Positions() []int {
	out := make([]int, 0, len(idx.byPosition))
	for p := range idx.byPosition {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Entries returns the distinct insertion strings at a position with
// their row-id bitmaps, for the Insertions/AminoAcidInsertions action.
func (idx *InsertionIndex) Entries(pos int) []struct {
	InsertedChars string
	Rows          *roaring.Bitmap
} {
	entries := idx.byPosition[pos]
	out := make([]struct {
		InsertedChars string
		Rows          *roaring.Bitmap
	}, len(entries))
	for i, e := range entries {
		out[i] = struct {
			InsertedChars string
			Rows          *roaring.Bitmap
		}{e.insertedChars, e.rows}
	}
	return out
}

// Search returns the row-ids whose insertion at pos matches the compiled
// regex: extract fixed 3-mers from the regex's literal
// prefixes, intersect their candidate sets from the 3-mer index, then
// verify with a full match per distinct insertion string.
func (idx *InsertionIndex) Search(pos int, re *regexp.Regexp) *roaring.Bitmap {
	entries := idx.byPosition[pos]
	if len(entries) == 0 {
		return roaring.New()
	}

	prefix, _ := re.LiteralPrefix()
	candidates := idx.candidateRows(pos, prefix)

	result := roaring.New()
	for _, entry := range entries {
		if candidates != nil && !candidates.Intersects(entry.rows) {
			continue
		}
		if re.MatchString(entry.insertedChars) {
			result.Or(entry.rows)
		}
	}
	return result
}

// candidateRows intersects the 3-mer bitmaps of every literal substring
// of length >= 3 found in the regex's literal prefix. Returns nil (meaning "no
// narrowing possible") if no literal 3-mer could be extracted.
func (idx *InsertionIndex) candidateRows(pos int, pattern string) *roaring.Bitmap {
	trimers := idx.trimers[pos]
	if trimers == nil {
		return nil
	}
	literals := literalRuns(pattern)
	var candidate *roaring.Bitmap
	for _, lit := range literals {
		for _, trimer := range trimersOf(lit) {
			b, ok := trimers[trimer]
			if !ok {
				return roaring.New() // a required 3-mer never occurs: no match possible
			}
			if candidate == nil {
				candidate = b.Clone()
			} else {
				candidate.And(b)
			}
		}
	}
	return candidate
}

// literalRuns extracts maximal runs of plain (non-metacharacter) bytes
// from a regex pattern, a conservative approximation of its literal
// prefixes sufficient for 3-mer extraction.
func literalRuns(pattern string) []string {
	const meta = `\.+*?()|[]{}^$`
	var runs []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= 3 {
			runs = append(runs, cur.String())
		}
		cur.Reset()
	}
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if strings.IndexByte(meta, c) >= 0 {
			flush()
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return runs
}
