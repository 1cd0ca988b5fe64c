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

	"github.com/stretchr/testify/assert"
)

func TestRandomForest_Classification(t *testing.T) {
	train := newSeparableTable(t, 200, 42)
	valid := newSeparableTable(t, 100, 24)
	m := NewRandomForest(Params{
		NTrees:      10,
		MaxFeatures: 2,
		RandomState: 42,
	})
	score, err := m.Fit(context.Background(), train, valid, newTestFitConfig())
	assert.NoError(t, err)
	assert.InDelta(t, 1, score.AUC, classificationDelta)

	// predictions are vote rates in row order
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

func TestRandomForest_Jobs(t *testing.T) {
	// tree seeds depend on the tree index only, so the forest is identical
	// under any number of jobs
	train := newSeparableTable(t, 100, 42)
	valid := newSeparableTable(t, 50, 24)
	params := Params{NTrees: 8, RandomState: 7}
	a := NewRandomForest(params)
	_, err := a.Fit(context.Background(), train, nil, NewFitConfig().SetVerbose(1).SetJobs(1))
	assert.NoError(t, err)
	b := NewRandomForest(params)
	_, err = b.Fit(context.Background(), train, nil, NewFitConfig().SetVerbose(1).SetJobs(4))
	assert.NoError(t, err)
	expected, err := a.Predict(valid)
	assert.NoError(t, err)
	actual, err := b.Predict(valid)
	assert.NoError(t, err)
	assert.Equal(t, expected, actual)
}
