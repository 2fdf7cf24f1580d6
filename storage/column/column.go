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

// Package column implements the per-partition typed columns: raw and
// indexed strings, nullable scalars, sorted dates, lineage columns, and
// zstd-compressed blobs.
package column

import (
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/silogenomics/silo/storage/zstdcodec"
)

// String is a dense, per-row raw string column.
type String struct {
	values []string
	null   []bool
}

func NewString() *String { return &String{} }

func (c *String) Insert(value string) {
	c.values = append(c.values, value)
	c.null = append(c.null, false)
}

func (c *String) InsertNull() {
	c.values = append(c.values, "")
	c.null = append(c.null, true)
}

func (c *String) Value(row uint32) (string, bool) {
	if int(row) >= len(c.values) || c.null[row] {
		return "", false
	}
	return c.values[row], true
}

func (c *String) Len() int { return len(c.values) }

// IndexedString is a dictionary-encoded string column (per-row value ids)
// plus a value->row-id bitmap index. Distinct values are assigned ids by a table-global bidimap.Map
// supplied by the caller; the per-partition index is a dense array
// id->bitmap.
type IndexedString struct {
	ids      []int32 // -1 = null
	bitmaps  []*roaring.Bitmap
	nullRows *roaring.Bitmap
}

func NewIndexedString() *IndexedString {
	return &IndexedString{nullRows: roaring.New()}
}

// Insert records value's dictionary id (assigned by the caller via the
// table-global bidimap) for the next row.
func (c *IndexedString) Insert(id uint32) {
	row := uint32(len(c.ids))
	c.ids = append(c.ids, int32(id))
	c.ensure(int(id) + 1)
	c.bitmaps[id].Add(row)
}

func (c *IndexedString) InsertNull() {
	row := uint32(len(c.ids))
	c.ids = append(c.ids, -1)
	c.nullRows.Add(row)
}

func (c *IndexedString) ensure(n int) {
	for len(c.bitmaps) < n {
		c.bitmaps = append(c.bitmaps, roaring.New())
	}
}

func (c *IndexedString) Len() int { return len(c.ids) }

func (c *IndexedString) ValueID(row uint32) (uint32, bool) {
	if int(row) >= len(c.ids) || c.ids[row] < 0 {
		return 0, false
	}
	return uint32(c.ids[row]), true
}

// RowIDsEqual returns the bitmap of rows holding dictionary id value.
func (c *IndexedString) RowIDsEqual(value uint32) *roaring.Bitmap {
	if int(value) >= len(c.bitmaps) {
		return roaring.New()
	}
	return c.bitmaps[value]
}

// RowIDsIsNull returns the bitmap of null rows.
func (c *IndexedString) RowIDsIsNull() *roaring.Bitmap {
	return c.nullRows
}

// AllNonNull returns the union of every per-value bitmap, which covers
// exactly the non-null rows.
func (c *IndexedString) AllNonNull() *roaring.Bitmap {
	return roaring.FastOr(c.bitmaps...)
}

// Int32 is a nullable 32-bit integer column.
type Int32 struct {
	values []int32
	null   []bool
}

func NewInt32() *Int32 { return &Int32{} }

func (c *Int32) Insert(v int32) {
	c.values = append(c.values, v)
	c.null = append(c.null, false)
}

func (c *Int32) InsertNull() {
	c.values = append(c.values, 0)
	c.null = append(c.null, true)
}

func (c *Int32) Len() int { return len(c.values) }

func (c *Int32) Value(row uint32) (int32, bool) {
	if int(row) >= len(c.values) || c.null[row] {
		return 0, false
	}
	return c.values[row], true
}

// Float64 is a nullable double column.
type Float64 struct {
	values []float64
	null   []bool
}

func NewFloat64() *Float64 { return &Float64{} }

func (c *Float64) Insert(v float64) {
	c.values = append(c.values, v)
	c.null = append(c.null, false)
}

func (c *Float64) InsertNull() {
	c.values = append(c.values, 0)
	c.null = append(c.null, true)
}

func (c *Float64) Len() int { return len(c.values) }

func (c *Float64) Value(row uint32) (float64, bool) {
	if int(row) >= len(c.values) || c.null[row] {
		return 0, false
	}
	return c.values[row], true
}

// Bool is a nullable boolean column.
type Bool struct {
	values []bool
	null   []bool
}

func NewBool() *Bool { return &Bool{} }

func (c *Bool) Insert(v bool) {
	c.values = append(c.values, v)
	c.null = append(c.null, false)
}

func (c *Bool) InsertNull() {
	c.values = append(c.values, false)
	c.null = append(c.null, true)
}

func (c *Bool) Len() int { return len(c.values) }

func (c *Bool) Value(row uint32) (bool, bool) {
	if int(row) >= len(c.values) || c.null[row] {
		return false, false
	}
	return c.values[row], true
}

// Date is a nullable date column with an optional sorted flag: when
// Sorted is set, ingestion asserts monotonic non-decreasing insertion
// and range filters compile to a contiguous-range scan instead of a
// row-by-row Selection.
type Date struct {
	values  []time.Time
	null    []bool
	Sorted  bool
	last    time.Time
	hasLast bool
}

func NewDate(sorted bool) *Date { return &Date{Sorted: sorted} }

func (c *Date) Insert(v time.Time) error {
	if c.Sorted && c.hasLast && v.Before(c.last) {
		return ErrNotSorted
	}
	c.values = append(c.values, v)
	c.null = append(c.null, false)
	c.last = v
	c.hasLast = true
	return nil
}

func (c *Date) InsertNull() {
	c.values = append(c.values, time.Time{})
	c.null = append(c.null, true)
}

func (c *Date) Len() int { return len(c.values) }

func (c *Date) Value(row uint32) (time.Time, bool) {
	if int(row) >= len(c.values) || c.null[row] {
		return time.Time{}, false
	}
	return c.values[row], true
}

// RangeFor returns the contiguous [from, to) row-id range whose dates lie
// in [lo, hi] (either bound may be nil to mean unbounded), found by
// binary search. Only valid when Sorted is true; nulls are assumed to
// sort before every non-null date (ingestion never interleaves nulls on a
// sorted column in practice, but callers should still validate schema
// declarations at construction time).
func (c *Date) RangeFor(lo, hi *time.Time) (from, to uint32) {
	n := len(c.values)
	from = uint32(0)
	if lo != nil {
		from = uint32(searchFirst(c.values, func(v time.Time) bool { return !v.Before(*lo) }))
	}
	to = uint32(n)
	if hi != nil {
		to = uint32(searchFirst(c.values, func(v time.Time) bool { return v.After(*hi) }))
	}
	return from, to
}

func searchFirst(values []time.Time, pred func(time.Time) bool) int {
	lo, hi := 0, len(values)
	for lo < hi {
		mid := (lo + hi) / 2
		if pred(values[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// ZstdCompressedString holds a raw blob compressed with the table-global
// zstd dictionary.
type ZstdCompressedString struct {
	compressed [][]byte
}

func NewZstdCompressedString() *ZstdCompressedString { return &ZstdCompressedString{} }

func (c *ZstdCompressedString) InsertCompressed(blob []byte) {
	c.compressed = append(c.compressed, blob)
}

func (c *ZstdCompressedString) Len() int { return len(c.compressed) }

func (c *ZstdCompressedString) Compressed(row uint32) ([]byte, bool) {
	if int(row) >= len(c.compressed) {
		return nil, false
	}
	return c.compressed[row], true
}

// Decompress restores row's string using the table's shared dictionary.
func (c *ZstdCompressedString) Decompress(row uint32, dict *zstdcodec.Dictionary) (string, bool, error) {
	blob, ok := c.Compressed(row)
	if !ok {
		return "", false, nil
	}
	raw, err := dict.Decompress(blob)
	if err != nil {
		return "", false, err
	}
	return string(raw), true, nil
}
