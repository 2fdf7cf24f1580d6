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
	"time"

	"github.com/silogenomics/silo/errkit"
	"github.com/silogenomics/silo/operator"
)

// IntEquals matches rows whose int32 Column equals Value. A nil Value
// matches the null rows.
type IntEquals struct {
	Column string
	Value  *int32
}

// IntBetween matches rows whose int32 Column lies in [From, To]
// (either bound nil means unbounded).
type IntBetween struct {
	Column   string
	From, To *int32
}

type FloatEquals struct {
	Column string
	Value  *float64
}

type FloatBetween struct {
	Column   string
	From, To *float64
}

type DateEquals struct {
	Column string
	Value  *time.Time
}

type DateBetween struct {
	Column   string
	From, To *time.Time
}

type StringEquals struct {
	Column string
	Value  *string
}

type StringInSet struct {
	Column string
	Values []string
}

type StringSearch struct {
	Column string
	Regex  *regexp.Regexp
}

type IsNull struct{ Column string }

type IsNotNull struct{ Column string }

func (e *IntEquals) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	col, ok := pc.Partition.Int32(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown int column", e.Column)
	}
	value := e.Value
	return operator.NewSelection(rowCount(pc), "IntEquals("+e.Column+")", func(row uint32) bool {
		v, ok := col.Value(row)
		if value == nil {
			return !ok
		}
		return ok && v == *value
	}), nil
}

func (e *IntBetween) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	col, ok := pc.Partition.Int32(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown int column", e.Column)
	}
	from, to := e.From, e.To
	return operator.NewSelection(rowCount(pc), "IntBetween("+e.Column+")", func(row uint32) bool {
		v, ok := col.Value(row)
		if !ok {
			return false
		}
		if from != nil && v < *from {
			return false
		}
		if to != nil && v > *to {
			return false
		}
		return true
	}), nil
}

func (e *FloatEquals) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	col, ok := pc.Partition.Float64(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown float column", e.Column)
	}
	value := e.Value
	return operator.NewSelection(rowCount(pc), "FloatEquals("+e.Column+")", func(row uint32) bool {
		v, ok := col.Value(row)
		if value == nil {
			return !ok
		}
		return ok && v == *value
	}), nil
}

func (e *FloatBetween) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	col, ok := pc.Partition.Float64(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown float column", e.Column)
	}
	from, to := e.From, e.To
	return operator.NewSelection(rowCount(pc), "FloatBetween("+e.Column+")", func(row uint32) bool {
		v, ok := col.Value(row)
		if !ok {
			return false
		}
		if from != nil && v < *from {
			return false
		}
		if to != nil && v > *to {
			return false
		}
		return true
	}), nil
}

func (e *DateEquals) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	col, ok := pc.Partition.Date(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown date column", e.Column)
	}
	value := e.Value
	return operator.NewSelection(rowCount(pc), "DateEquals("+e.Column+")", func(row uint32) bool {
		v, ok := col.Value(row)
		if value == nil {
			return !ok
		}
		return ok && v.Equal(*value)
	}), nil
}

// Compile turns DateBetween on a sorted column into a RangeSelection
// over a binary-searched contiguous range; otherwise it falls back to a
// full Selection scan.
func (e *DateBetween) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	col, ok := pc.Partition.Date(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown date column", e.Column)
	}
	if col.Sorted {
		from, to := col.RangeFor(e.From, e.To)
		return operator.NewRangeSelection([]operator.Range{{From: from, To: to}}, rowCount(pc)), nil
	}
	lo, hi := e.From, e.To
	return operator.NewSelection(rowCount(pc), "DateBetween("+e.Column+")", func(row uint32) bool {
		v, ok := col.Value(row)
		if !ok {
			return false
		}
		if lo != nil && v.Before(*lo) {
			return false
		}
		if hi != nil && v.After(*hi) {
			return false
		}
		return true
	}), nil
}

func (e *StringEquals) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	if idx, ok := pc.Partition.IndexedString(e.Column); ok {
		dict := pc.Schema.StringDictionaries[e.Column]
		if e.Value == nil {
			return operator.NewIndexScan(idx.RowIDsIsNull(), rowCount(pc)), nil
		}
		id, ok := dict.Lookup(*e.Value)
		if !ok {
			return operator.NewRangeSelection(nil, rowCount(pc)), nil
		}
		return operator.NewIndexScan(idx.RowIDsEqual(id), rowCount(pc)), nil
	}
	col, ok := pc.Partition.String(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown string column", e.Column)
	}
	value := e.Value
	return operator.NewSelection(rowCount(pc), "StringEquals("+e.Column+")", func(row uint32) bool {
		v, ok := col.Value(row)
		if value == nil {
			return !ok
		}
		return ok && v == *value
	}), nil
}

func (e *StringInSet) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	var children []Expression
	for _, v := range e.Values {
		v := v
		children = append(children, &StringEquals{Column: e.Column, Value: &v})
	}
	return (&Or{Children: children}).Compile(pc, mode)
}

// Compile runs the pre-validated regex across the column's values:
// against the indexed string dictionary when the column is indexed (one
// match per distinct value), otherwise a full scan.
func (e *StringSearch) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	if idx, ok := pc.Partition.IndexedString(e.Column); ok {
		dict := pc.Schema.StringDictionaries[e.Column]
		re := e.Regex
		return operator.NewBitmapProducer(rowCount(pc), "StringSearch("+e.Column+")", func() operator.CopyOnWriteBitmap {
			matching := make([]uint32, 0)
			for id := 0; id < dict.Len(); id++ {
				value, _ := dict.Value(uint32(id))
				if re.MatchString(value) {
					b := idx.RowIDsEqual(uint32(id))
					matching = append(matching, b.ToArray()...)
				}
			}
			result := operator.Empty()
			m := result.Mutable()
			m.AddMany(matching)
			return result
		}), nil
	}
	col, ok := pc.Partition.String(e.Column)
	if !ok {
		return nil, errkit.New(errkit.UnknownColumn, "unknown string column", e.Column)
	}
	re := e.Regex
	return operator.NewSelection(rowCount(pc), "StringSearch("+e.Column+")", func(row uint32) bool {
		v, ok := col.Value(row)
		return ok && re.MatchString(v)
	}), nil
}

// Compile returns an IndexScan over the stored null-row bitmap for
// indexed columns, or a Selection returning null rows otherwise.
func (e *IsNull) Compile(pc *PartitionContext, _ AmbiguityMode) (operator.Operator, error) {
	if idx, ok := pc.Partition.IndexedString(e.Column); ok {
		return operator.NewIndexScan(idx.RowIDsIsNull(), rowCount(pc)), nil
	}
	return compileGenericIsNull(pc, e.Column)
}

func (e *IsNotNull) Compile(pc *PartitionContext, mode AmbiguityMode) (operator.Operator, error) {
	return (&Not{Child: &IsNull{Column: e.Column}}).Compile(pc, mode)
}

func compileGenericIsNull(pc *PartitionContext, columnName string) (operator.Operator, error) {
	if col, ok := pc.Partition.String(columnName); ok {
		return operator.NewSelection(rowCount(pc), "IsNull("+columnName+")", func(row uint32) bool {
			_, ok := col.Value(row)
			return !ok
		}), nil
	}
	if col, ok := pc.Partition.Int32(columnName); ok {
		return operator.NewSelection(rowCount(pc), "IsNull("+columnName+")", func(row uint32) bool {
			_, ok := col.Value(row)
			return !ok
		}), nil
	}
	if col, ok := pc.Partition.Float64(columnName); ok {
		return operator.NewSelection(rowCount(pc), "IsNull("+columnName+")", func(row uint32) bool {
			_, ok := col.Value(row)
			return !ok
		}), nil
	}
	if col, ok := pc.Partition.Bool(columnName); ok {
		return operator.NewSelection(rowCount(pc), "IsNull("+columnName+")", func(row uint32) bool {
			_, ok := col.Value(row)
			return !ok
		}), nil
	}
	if col, ok := pc.Partition.Date(columnName); ok {
		return operator.NewSelection(rowCount(pc), "IsNull("+columnName+")", func(row uint32) bool {
			_, ok := col.Value(row)
			return !ok
		}), nil
	}
	return nil, errkit.New(errkit.UnknownColumn, "unknown column", columnName)
}
