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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const testCSV = `age,employed,group,outcome
25,true,A,1
40,false,A,1
31,true,A,0
58,true,B,1
22,false,B,0
47,true,B,0
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(testCSV), nil)
	assert.NoError(t, err)
	assert.Equal(t, 6, table.NumRow())
	assert.Equal(t, 4, table.NumColumn())
	age, exist := table.Column("age")
	assert.True(t, exist)
	assert.Equal(t, Numeric, age.Type)
	assert.Equal(t, []float32{25, 40, 31, 58, 22, 47}, age.Nums)
	employed, exist := table.Column("employed")
	assert.True(t, exist)
	assert.Equal(t, Boolean, employed.Type)
	assert.Equal(t, []bool{true, false, true, true, false, true}, employed.Bools)
	group, exist := table.Column("group")
	assert.True(t, exist)
	assert.Equal(t, Categorical, group.Type)
	outcome, exist := table.Column("outcome")
	assert.True(t, exist)
	assert.Equal(t, Numeric, outcome.Type)
}

func TestReadCSVMissingNumeric(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b\n1,x\n,y\n3,z\n"), nil)
	assert.NoError(t, err)
	a, exist := table.Column("a")
	assert.True(t, exist)
	assert.Equal(t, Numeric, a.Type)
	assert.True(t, math32.IsNaN(a.Nums[1]))
}

func TestReadCSVQuoted(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("name,score\n\"Doe, Jane\",1\nRoe,0\n"), nil)
	assert.NoError(t, err)
	name, exist := table.Column("name")
	assert.True(t, exist)
	assert.Equal(t, []string{"Doe, Jane", "Roe"}, name.Cats)
}

func TestReadCSVRaggedRow(t *testing.T) {
	var formatErr *DataFormatError
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n3\n"), nil)
	assert.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 3, formatErr.Line)
}

func TestReadCSVEmpty(t *testing.T) {
	var formatErr *DataFormatError
	_, err := ReadCSV(strings.NewReader(""), nil)
	assert.ErrorAs(t, err, &formatErr)
	// header only
	_, err = ReadCSV(strings.NewReader("a,b\n"), nil)
	assert.ErrorAs(t, err, &formatErr)
}

func TestReadCSVRequired(t *testing.T) {
	var formatErr *DataFormatError
	_, err := ReadCSV(strings.NewReader(testCSV), &LoadOptions{Required: []string{"race"}})
	assert.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "race", formatErr.Column)
	_, err = ReadCSV(strings.NewReader(testCSV), &LoadOptions{Required: []string{"group", "outcome"}})
	assert.NoError(t, err)
}

func TestReadCSVSeparator(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a;b\n1;x\n2;y\n"), &LoadOptions{Comma: ";"})
	assert.NoError(t, err)
	assert.Equal(t, 2, table.NumRow())
	assert.Equal(t, []string{"a", "b"}, table.Names())
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	assert.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))
	table, err := LoadCSV(path, nil)
	assert.NoError(t, err)
	assert.Equal(t, 6, table.NumRow())
	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}
