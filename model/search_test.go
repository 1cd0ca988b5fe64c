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
	"context"
	"io"
	"testing"

	"github.com/c-bata/goptuna"
	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

type mockClassifierForSearch struct {
	BaseModel
}

func (m *mockClassifierForSearch) Type() Type {
	panic("don't call me")
}

func (m *mockClassifierForSearch) Marshal(_ io.Writer) error {
	panic("implement me")
}

func (m *mockClassifierForSearch) Unmarshal(_ io.Reader) error {
	panic("implement me")
}

func (m *mockClassifierForSearch) Invalid() bool {
	panic("implement me")
}

func (m *mockClassifierForSearch) Fit(_ context.Context, _, _ *dataset.Table, _ *FitConfig) (Score, error) {
	score := float32(0)
	score += m.Params.GetFloat32(Lr, 0.0)
	score += m.Params.GetFloat32(Reg, 0.0)
	score += m.Params.GetFloat32(InitStdDev, 0.0)
	return Score{AUC: score}, nil
}

func (m *mockClassifierForSearch) Predict(_ *dataset.Table) ([]float32, error) {
	panic("don't call me")
}

func (m *mockClassifierForSearch) Clear() {
	// do nothing
}

func (m *mockClassifierForSearch) GetParamsGrid(_ bool) ParamsGrid {
	return ParamsGrid{
		Lr:         []interface{}{1, 2, 3, 4},
		Reg:        []interface{}{4, 3, 2, 1},
		InitStdDev: []interface{}{4, 4, 4, 4},
	}
}

func (m *mockClassifierForSearch) SuggestParams(trial goptuna.Trial) Params {
	return Params{
		Lr:         lo.Must(trial.SuggestDiscreteFloat(string(Lr), 1, 4, 1)),
		Reg:        lo.Must(trial.SuggestDiscreteFloat(string(Reg), 1, 4, 1)),
		InitStdDev: lo.Must(trial.SuggestDiscreteFloat(string(InitStdDev), 4, 4, 1)),
	}
}

type mockFailClassifierForSearch struct {
	mockClassifierForSearch
}

func (m *mockFailClassifierForSearch) Fit(_ context.Context, _, _ *dataset.Table, _ *FitConfig) (Score, error) {
	return Score{}, errors.New("mock fit failure")
}

func newFitConfigForSearch() *FitConfig {
	return &FitConfig{
		Verbose: 1,
	}
}

func TestGridSearchCV(t *testing.T) {
	m := &mockClassifierForSearch{}
	fitConfig := newFitConfigForSearch()
	r, err := GridSearchCV(context.Background(), m, nil, nil, m.GetParamsGrid(false), 0, fitConfig)
	assert.NoError(t, err)
	assert.Equal(t, float32(12), r.BestScore.AUC)
	assert.Equal(t, Params{
		Lr:         4,
		Reg:        4,
		InitStdDev: 4,
	}, r.BestParams)
	assert.NotNil(t, r.BestModel)
	assert.Len(t, r.Scores, 64)
}

func TestGridSearchCV_FitError(t *testing.T) {
	m := &mockFailClassifierForSearch{}
	fitConfig := newFitConfigForSearch()
	_, err := GridSearchCV(context.Background(), m, nil, nil, ParamsGrid{Lr: {1, 2}}, 0, fitConfig)
	assert.Error(t, err)
}

func TestRandomSearchCV(t *testing.T) {
	m := &mockClassifierForSearch{}
	fitConfig := newFitConfigForSearch()
	// exhaustive trials fall back to grid search
	r, err := RandomSearchCV(context.Background(), m, nil, nil, m.GetParamsGrid(false), 64, 0, fitConfig)
	assert.NoError(t, err)
	assert.Equal(t, float32(12), r.BestScore.AUC)
	assert.Equal(t, Params{
		Lr:         4,
		Reg:        4,
		InitStdDev: 4,
	}, r.BestParams)
	// sampled trials keep the best of the sampled combinations
	r, err = RandomSearchCV(context.Background(), m, nil, nil, m.GetParamsGrid(false), 10, 0, fitConfig)
	assert.NoError(t, err)
	assert.Len(t, r.Scores, 10)
	best := float32(0)
	for _, score := range r.Scores {
		best = math32.Max(best, score.AUC)
	}
	assert.Equal(t, best, r.BestScore.AUC)
	assert.NotNil(t, r.BestModel)
	assert.Equal(t, r.BestParams, r.BestModel.GetParams())
}
