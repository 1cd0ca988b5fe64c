// Copyright 2025 seminarFairML Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dataset loads tabular datasets and splits them into training and
// validation partitions. A Table is read-only once constructed: splitting and
// encoding build new objects and never mutate the source.
package dataset

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
)

// ColumnType is the type of values held by a column.
type ColumnType int

const (
	Numeric ColumnType = iota
	Categorical
	Boolean
)

func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// DataFormatError reports malformed input data. It terminates loading.
type DataFormatError struct {
	Line   int    // 1-based line number, 0 if not line-specific
	Column string // offending column, empty if not column-specific
	Reason string
}

func (e *DataFormatError) Error() string {
	switch {
	case e.Column != "" && e.Line > 0:
		return fmt.Sprintf("data format: %s (column %q, line %d)", e.Reason, e.Column, e.Line)
	case e.Column != "":
		return fmt.Sprintf("data format: %s (column %q)", e.Reason, e.Column)
	case e.Line > 0:
		return fmt.Sprintf("data format: %s (line %d)", e.Reason, e.Line)
	default:
		return fmt.Sprintf("data format: %s", e.Reason)
	}
}

// Column is a named, typed vector of values. Exactly one of Nums, Cats and
// Bools is populated, chosen by Type.
type Column struct {
	Name  string
	Type  ColumnType
	Nums  []float32
	Cats  []string
	Bools []bool
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Type {
	case Numeric:
		return len(c.Nums)
	case Categorical:
		return len(c.Cats)
	case Boolean:
		return len(c.Bools)
	default:
		return 0
	}
}

// Strings renders the column values as strings. Group membership columns of
// any type are compared through this view.
func (c *Column) Strings() []string {
	values := make([]string, c.Len())
	switch c.Type {
	case Numeric:
		for i, v := range c.Nums {
			values[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
		}
	case Categorical:
		copy(values, c.Cats)
	case Boolean:
		for i, v := range c.Bools {
			values[i] = strconv.FormatBool(v)
		}
	}
	return values
}

func (c *Column) subset(indices []int) *Column {
	sub := &Column{Name: c.Name, Type: c.Type}
	switch c.Type {
	case Numeric:
		sub.Nums = make([]float32, 0, len(indices))
		for _, i := range indices {
			sub.Nums = append(sub.Nums, c.Nums[i])
		}
	case Categorical:
		sub.Cats = make([]string, 0, len(indices))
		for _, i := range indices {
			sub.Cats = append(sub.Cats, c.Cats[i])
		}
	case Boolean:
		sub.Bools = make([]bool, 0, len(indices))
		for _, i := range indices {
			sub.Bools = append(sub.Bools, c.Bools[i])
		}
	}
	return sub
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	columns []*Column
	index   map[string]int
}

// NewTable creates a table from columns. Column names must be unique and
// non-empty, and all columns must have the same length.
func NewTable(columns ...*Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.Trace(&DataFormatError{Reason: "table has no columns"})
	}
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	numRow := columns[0].Len()
	for i, column := range columns {
		if column.Name == "" {
			return nil, errors.Trace(&DataFormatError{Reason: fmt.Sprintf("column %d has no name", i)})
		}
		if _, exist := t.index[column.Name]; exist {
			return nil, errors.Trace(&DataFormatError{Column: column.Name, Reason: "duplicated column name"})
		}
		if column.Len() != numRow {
			return nil, errors.Trace(&DataFormatError{
				Column: column.Name,
				Reason: fmt.Sprintf("column length %d differs from %d", column.Len(), numRow),
			})
		}
		t.index[column.Name] = i
	}
	return t, nil
}

// NumRow returns the number of rows.
func (t *Table) NumRow() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// NumColumn returns the number of columns.
func (t *Table) NumColumn() int {
	return len(t.columns)
}

// Names returns column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, column := range t.columns {
		names[i] = column.Name
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, exist := t.index[name]
	if !exist {
		return nil, false
	}
	return t.columns[i], true
}

// Strings renders the named column as strings.
func (t *Table) Strings(name string) ([]string, error) {
	column, exist := t.Column(name)
	if !exist {
		return nil, errors.Trace(&DataFormatError{Column: name, Reason: "column not found"})
	}
	return column.Strings(), nil
}

// Labels converts the named column to a binary label vector of zeros and
// ones. Boolean columns map true to 1. Numeric columns map non-zero values to
// 1 and reject missing values. Categorical columns map values equal to
// positive to 1.
func (t *Table) Labels(name, positive string) ([]float32, error) {
	column, exist := t.Column(name)
	if !exist {
		return nil, errors.Trace(&DataFormatError{Column: name, Reason: "label column not found"})
	}
	labels := make([]float32, column.Len())
	switch column.Type {
	case Boolean:
		for i, v := range column.Bools {
			if v {
				labels[i] = 1
			}
		}
	case Numeric:
		for i, v := range column.Nums {
			if math32.IsNaN(v) {
				return nil, errors.Trace(&DataFormatError{
					Column: name,
					Line:   i + 2,
					Reason: "missing value in label column",
				})
			}
			if v != 0 {
				labels[i] = 1
			}
		}
	case Categorical:
		if positive == "" {
			return nil, errors.Trace(&DataFormatError{
				Column: name,
				Reason: "positive label value required for categorical column",
			})
		}
		for i, v := range column.Cats {
			if v == positive {
				labels[i] = 1
			}
		}
	}
	return labels, nil
}

// SubSet builds a new table holding the rows at indices, in the order given.
func (t *Table) SubSet(indices []int) *Table {
	columns := make([]*Column, len(t.columns))
	for i, column := range t.columns {
		columns[i] = column.subset(indices)
	}
	sub := &Table{columns: columns, index: make(map[string]int, len(columns))}
	for i, column := range columns {
		sub.index[column.Name] = i
	}
	return sub
}
