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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
)

// LoadOptions defines options used for loading delimited text files.
type LoadOptions struct {
	Comma    string   // field separator
	Required []string // columns that must be present
}

// GetComma returns the field separator.
func (options *LoadOptions) GetComma() string {
	if options == nil || options.Comma == "" {
		return ","
	}
	return options.Comma
}

// GetRequired returns the required column names.
func (options *LoadOptions) GetRequired() []string {
	if options == nil {
		return nil
	}
	return options.Required
}

// LoadCSV loads a delimited text file with a header row.
func LoadCSV(path string, options *LoadOptions) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	table, err := ReadCSV(file, options)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to load %s", path)
	}
	log.Logger().Info("loaded dataset",
		zap.String("path", path),
		zap.Int("n_rows", table.NumRow()),
		zap.Int("n_columns", table.NumColumn()))
	return table, nil
}

// ReadCSV reads a delimited text stream with a header row. The type of each
// column is inferred from its values: a column whose non-empty values all
// parse as floats is numeric (empty values become NaN), a column holding only
// true and false is boolean, anything else is categorical.
func ReadCSV(r io.Reader, options *LoadOptions) (*Table, error) {
	var (
		header  []string
		cells   [][]string
		loadErr error
	)
	err := base.ReadLines(bufio.NewScanner(r), options.GetComma(), func(lineNumber int, fields []string) bool {
		if lineNumber == 0 {
			header = fields
			cells = make([][]string, len(fields))
			return true
		}
		if len(fields) != len(header) {
			loadErr = &DataFormatError{
				Line:   lineNumber + 1,
				Reason: fmt.Sprintf("expected %d fields but got %d", len(header), len(fields)),
			}
			return false
		}
		for i, field := range fields {
			cells[i] = append(cells[i], strings.TrimSpace(field))
		}
		return true
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if loadErr != nil {
		return nil, errors.Trace(loadErr)
	}
	if len(header) == 0 {
		return nil, errors.Trace(&DataFormatError{Reason: "missing header row"})
	}
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, errors.Trace(&DataFormatError{Reason: "dataset has no rows"})
	}
	// infer column types
	columns := make([]*Column, len(header))
	for i, name := range header {
		columns[i] = inferColumn(strings.TrimSpace(name), cells[i])
	}
	table, err := NewTable(columns...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	// check required columns
	for _, name := range options.GetRequired() {
		if _, exist := table.Column(name); !exist {
			return nil, errors.Trace(&DataFormatError{Column: name, Reason: "required column not found"})
		}
	}
	return table, nil
}

func inferColumn(name string, values []string) *Column {
	if nums, ok := parseNumeric(values); ok {
		return &Column{Name: name, Type: Numeric, Nums: nums}
	}
	if bools, ok := parseBoolean(values); ok {
		return &Column{Name: name, Type: Boolean, Bools: bools}
	}
	return &Column{Name: name, Type: Categorical, Cats: values}
}

func parseNumeric(values []string) ([]float32, bool) {
	nums := make([]float32, len(values))
	witness := false
	for i, value := range values {
		if value == "" {
			nums[i] = math32.NaN()
			continue
		}
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return nil, false
		}
		nums[i] = float32(v)
		witness = true
	}
	return nums, witness
}

func parseBoolean(values []string) ([]bool, bool) {
	bools := make([]bool, len(values))
	for i, value := range values {
		switch strings.ToLower(value) {
		case "true":
			bools[i] = true
		case "false":
			bools[i] = false
		default:
			return nil, false
		}
	}
	return bools, true
}
