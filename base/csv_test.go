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

package base

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "abc", Escape("abc"))
	assert.Equal(t, "\"a,bc\"", Escape("a,bc"))
	assert.Equal(t, "\"a\"\"bc\"", Escape("a\"bc"))
}

func TestReadLines(t *testing.T) {
	text := "a,b,c\n1,\"x,y\",true\n2,z,false"
	var rows [][]string
	err := ReadLines(bufio.NewScanner(strings.NewReader(text)), ",", func(_ int, fields []string) bool {
		rows = append(rows, fields)
		return true
	})
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"1", "x,y", "true"},
		{"2", "z", "false"},
	}, rows)
}

func TestReadLinesStop(t *testing.T) {
	text := "a\nb\nc"
	var rows [][]string
	err := ReadLines(bufio.NewScanner(strings.NewReader(text)), ",", func(lineNumber int, fields []string) bool {
		rows = append(rows, fields)
		return lineNumber < 1
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(rows))
}
