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
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Copy(t *testing.T) {
	// Create parameters
	a := Params{
		NEpochs:     1,
		Lr:          0.1,
		RandomState: 0,
	}
	// Create copy
	b := a.Copy()
	b[NEpochs] = 2
	b[Lr] = 0.2
	b[RandomState] = 1
	// Check original parameters
	assert.Equal(t, 1, a.GetInt(NEpochs, -1))
	assert.Equal(t, float32(0.1), a.GetFloat32(Lr, -0.1))
	assert.Equal(t, int64(0), a.GetInt64(RandomState, -1))
	// Check copy parameters
	assert.Equal(t, 2, b.GetInt(NEpochs, -1))
	assert.Equal(t, float32(0.2), b.GetFloat32(Lr, -0.1))
	assert.Equal(t, int64(1), b.GetInt64(RandomState, -1))
}

func TestParams_GetFloat32(t *testing.T) {
	p := Params{}
	// Empty case
	assert.Equal(t, float32(0.1), p.GetFloat32(Lr, 0.1))
	// Normal case
	p[Lr] = float32(1.0)
	assert.Equal(t, float32(1.0), p.GetFloat32(Lr, 0.1))
	// Convertible type case
	p[Lr] = 1.0
	assert.Equal(t, float32(1.0), p.GetFloat32(Lr, 0.1))
	p[Lr] = 1
	assert.Equal(t, float32(1.0), p.GetFloat32(Lr, 0.1))
	// Wrong type case
	p[Lr] = "hello"
	assert.Equal(t, float32(0.1), p.GetFloat32(Lr, 0.1))
}

func TestParams_GetInt(t *testing.T) {
	p := Params{}
	// Empty case
	assert.Equal(t, -1, p.GetInt(NEpochs, -1))
	// Normal case
	p[NEpochs] = 0
	assert.Equal(t, 0, p.GetInt(NEpochs, -1))
	// Wrong type case
	p[NEpochs] = "hello"
	assert.Equal(t, -1, p.GetInt(NEpochs, -1))
}

func TestParams_GetInt64(t *testing.T) {
	p := Params{}
	// Empty case
	assert.Equal(t, int64(-1), p.GetInt64(RandomState, -1))
	// Normal case
	p[RandomState] = int64(0)
	assert.Equal(t, int64(0), p.GetInt64(RandomState, -1))
	// Wrong type case
	p[RandomState] = 0
	assert.Equal(t, int64(0), p.GetInt64(RandomState, -1))
	p[RandomState] = "hello"
	assert.Equal(t, int64(-1), p.GetInt64(RandomState, -1))
}

func TestParams_Overwrite(t *testing.T) {
	a := Params{
		Lr:      0.1,
		NEpochs: 100,
	}
	b := a.Overwrite(Params{
		Lr:  0.2,
		Reg: 0.01,
	})
	// Overwritten values win
	assert.Equal(t, float32(0.2), b.GetFloat32(Lr, -1))
	assert.Equal(t, float32(0.01), b.GetFloat32(Reg, -1))
	assert.Equal(t, 100, b.GetInt(NEpochs, -1))
	// Receiver is untouched
	assert.Equal(t, float32(0.1), a.GetFloat32(Lr, -1))
}

func TestParamsGrid(t *testing.T) {
	grid := ParamsGrid{
		Lr:  {0.01, 0.1},
		Reg: {0.01, 0.1, 1},
	}
	assert.Equal(t, 2, grid.Len())
	assert.Equal(t, 6, grid.NumCombinations())
	grid.Fill(ParamsGrid{
		Lr:      {1},
		NEpochs: {10, 100},
	})
	// Existing parameters are kept, missing parameters are filled
	assert.Equal(t, []interface{}{0.01, 0.1}, grid[Lr])
	assert.Equal(t, []interface{}{10, 100}, grid[NEpochs])
	assert.Equal(t, 12, grid.NumCombinations())
}
