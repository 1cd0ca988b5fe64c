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

package dataset

import (
	"fmt"

	"github.com/chewxy/math32"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base"
)

// FeatureMatrix is a row-major design matrix.
type FeatureMatrix struct {
	Names  []string
	Values [][]float32
}

// NumRow returns the number of rows.
func (m *FeatureMatrix) NumRow() int {
	return len(m.Values)
}

// NumFeature returns the number of encoded features.
func (m *FeatureMatrix) NumFeature() int {
	return len(m.Names)
}

// EncodedColumn describes how one source column maps to encoded features.
type EncodedColumn struct {
	Name   string
	Type   ColumnType
	Levels []string // categorical levels, the first one is the reference
	Mean   float32  // imputation value for missing numeric values
}

// Encoding maps a table to a design matrix. Numeric columns are copied with
// missing values imputed by the training mean, boolean columns become 0/1 and
// categorical columns are one-hot encoded with the first observed level
// dropped as reference. An encoding learned from the training set re-encodes
// any table with the same columns, so fitted models carry their own Encoding.
type Encoding struct {
	Columns []EncodedColumn
}

// Encode learns an encoding from the table, excluding the drop columns.
func (t *Table) Encode(drop ...string) (*Encoding, error) {
	dropSet := mapset.NewSet(drop...)
	encoding := &Encoding{}
	for _, column := range t.columns {
		if dropSet.Contains(column.Name) {
			continue
		}
		encoded := EncodedColumn{Name: column.Name, Type: column.Type}
		switch column.Type {
		case Numeric:
			var sum float32
			var count int
			for _, v := range column.Nums {
				if !math32.IsNaN(v) {
					sum += v
					count++
				}
			}
			if count > 0 {
				encoded.Mean = sum / float32(count)
			}
		case Categorical:
			seen := mapset.NewSet[string]()
			for _, v := range column.Cats {
				if !seen.Contains(v) {
					seen.Add(v)
					encoded.Levels = append(encoded.Levels, v)
				}
			}
		}
		encoding.Columns = append(encoding.Columns, encoded)
	}
	if len(encoding.Columns) == 0 {
		return nil, errors.Trace(&DataFormatError{Reason: "no feature columns left after dropping"})
	}
	return encoding, nil
}

// FeatureNames returns the encoded feature names in order.
func (e *Encoding) FeatureNames() []string {
	var names []string
	for _, column := range e.Columns {
		switch column.Type {
		case Numeric, Boolean:
			names = append(names, column.Name)
		case Categorical:
			// skip the reference level
			for _, level := range column.Levels[1:] {
				names = append(names, fmt.Sprintf("%s=%s", column.Name, level))
			}
		}
	}
	return names
}

// Transform encodes a table into a design matrix. Categorical values unseen
// during Encode map to the reference level.
func (e *Encoding) Transform(t *Table) (*FeatureMatrix, error) {
	names := e.FeatureNames()
	values := base.NewMatrix32(t.NumRow(), len(names))
	offset := 0
	for _, encoded := range e.Columns {
		column, exist := t.Column(encoded.Name)
		if !exist {
			return nil, errors.Trace(&DataFormatError{Column: encoded.Name, Reason: "feature column not found"})
		}
		if column.Type != encoded.Type {
			return nil, errors.Trace(&DataFormatError{
				Column: encoded.Name,
				Reason: fmt.Sprintf("expected %v column but got %v", encoded.Type, column.Type),
			})
		}
		switch encoded.Type {
		case Numeric:
			for i, v := range column.Nums {
				if math32.IsNaN(v) {
					v = encoded.Mean
				}
				values[i][offset] = v
			}
			offset++
		case Boolean:
			for i, v := range column.Bools {
				if v {
					values[i][offset] = 1
				}
			}
			offset++
		case Categorical:
			levelIndex := make(map[string]int, len(encoded.Levels))
			for j, level := range encoded.Levels[1:] {
				levelIndex[level] = offset + j
			}
			for i, v := range column.Cats {
				if j, seen := levelIndex[v]; seen {
					values[i][j] = 1
				}
			}
			offset += len(encoded.Levels) - 1
		}
	}
	return &FeatureMatrix{Names: names, Values: values}, nil
}

// Features is a shorthand that learns an encoding from the table and applies
// it to the same table.
func (t *Table) Features(drop ...string) (*FeatureMatrix, *Encoding, error) {
	encoding, err := t.Encode(drop...)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	matrix, err := encoding.Transform(t)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return matrix, encoding, nil
}
