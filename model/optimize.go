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
	"sort"

	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

type ModelCreator func() Classifier

// NewModelCreators returns a creator per classifier family.
func NewModelCreators(types ...Type) map[string]ModelCreator {
	creators := make(map[string]ModelCreator, len(types))
	for _, t := range types {
		t := t
		creators[string(t)] = func() Classifier {
			return lo.Must(NewClassifier(t, nil))
		}
	}
	return creators
}

// BestResult is the winning configuration of a model search.
type BestResult struct {
	Type   string
	Params Params
	Score  Score
}

// ModelSearch is a goptuna objective that searches classifier families and
// their hyper-parameters at once.
type ModelSearch struct {
	ctx           context.Context
	modelCreators map[string]ModelCreator
	modelTypes    []string
	trainSet      *dataset.Table
	validSet      *dataset.Table
	config        *FitConfig
	result        BestResult
}

func NewModelSearch(models map[string]ModelCreator, trainSet, validSet *dataset.Table, config *FitConfig) *ModelSearch {
	modelTypes := lo.Keys(models)
	sort.Strings(modelTypes)
	return &ModelSearch{
		modelCreators: models,
		modelTypes:    modelTypes,
		trainSet:      trainSet,
		validSet:      validSet,
		config:        config,
	}
}

func (ms *ModelSearch) Objective(trial goptuna.Trial) (float64, error) {
	if len(ms.modelCreators) == 0 {
		return 0, errors.New("no model to search")
	}
	modelType, err := trial.SuggestCategorical("Model", ms.modelTypes)
	if err != nil {
		return 0, errors.Trace(err)
	}
	m := ms.modelCreators[modelType]()
	m.SetParams(m.SuggestParams(trial))
	ctx := ms.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	score, err := m.Fit(ctx, ms.trainSet, ms.validSet, ms.config)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if ms.result.Type == "" || score.BetterThan(ms.result.Score) {
		ms.result = BestResult{
			Type:   modelType,
			Params: m.GetParams(),
			Score:  score,
		}
	}
	return float64(score.AUC), nil
}

func (ms *ModelSearch) Result() BestResult {
	return ms.result
}

// FindBestModel searches the candidate classifier families and their
// hyper-parameters at once with a TPE study over nTrials trials and returns
// the winning configuration.
func FindBestModel(ctx context.Context, models map[string]ModelCreator,
	trainSet, validSet *dataset.Table, config *FitConfig, nTrials int) (BestResult, error) {
	search := NewModelSearch(models, trainSet, validSet, config)
	search.ctx = ctx
	study, err := goptuna.CreateStudy("model_search",
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMaximize),
		goptuna.StudyOptionSampler(tpe.NewSampler()))
	if err != nil {
		return BestResult{}, errors.Trace(err)
	}
	if err = study.Optimize(search.Objective, nTrials); err != nil {
		return BestResult{}, errors.Trace(err)
	}
	result := search.Result()
	log.Logger().Info("complete model search",
		zap.Int("n_trials", nTrials),
		zap.String("model", result.Type),
		zap.String("params", result.Params.ToString()),
		zap.Float32("AUC", result.Score.AUC))
	return result, nil
}
