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
	"bytes"
	"context"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestRidge_Classification(t *testing.T) {
	train := newSeparableTable(t, 200, 42)
	valid := newSeparableTable(t, 100, 24)
	m := NewRidge(Params{Reg: 0.1})
	score, err := m.Fit(context.Background(), train, valid, newTestFitConfig())
	assert.NoError(t, err)
	assert.InDelta(t, 1, score.AUC, classificationDelta)

	// predictions are clamped probabilities in row order
	predictions, err := m.Predict(valid)
	assert.NoError(t, err)
	assert.Len(t, predictions, valid.NumRow())
	for _, p := range predictions {
		assert.GreaterOrEqual(t, p, float32(0))
		assert.LessOrEqual(t, p, float32(1))
	}

	// test marshal and unmarshal
	buf := bytes.NewBuffer(nil)
	err = MarshalModel(buf, m)
	assert.NoError(t, err)
	clone, err := UnmarshalModel(buf)
	assert.NoError(t, err)
	clonePredictions, err := clone.Predict(valid)
	assert.NoError(t, err)
	assert.Equal(t, predictions, clonePredictions)

	// test clear
	assert.False(t, m.Invalid())
	m.Clear()
	assert.True(t, m.Invalid())
}

func TestRidge_Regularization(t *testing.T) {
	train := newSeparableTable(t, 100, 42)
	weak := NewRidge(Params{Reg: 0.01})
	_, err := weak.Fit(context.Background(), train, nil, newTestFitConfig())
	assert.NoError(t, err)
	strong := NewRidge(Params{Reg: 1000})
	_, err = strong.Fit(context.Background(), train, nil, newTestFitConfig())
	assert.NoError(t, err)
	// stronger regularization shrinks the score coefficient
	assert.Less(t, math32.Abs(strong.W[0]), math32.Abs(weak.W[0]))
}

func TestRidge_Deterministic(t *testing.T) {
	train := newSeparableTable(t, 100, 42)
	a := NewRidge(nil)
	_, err := a.Fit(context.Background(), train, nil, newTestFitConfig())
	assert.NoError(t, err)
	b := NewRidge(nil)
	_, err = b.Fit(context.Background(), train, nil, newTestFitConfig())
	assert.NoError(t, err)
	assert.Equal(t, a.W, b.W)
	assert.Equal(t, a.B, b.B)
}
