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
	"fmt"
	"sort"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/progress"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

// ParamsSearchResult contains the return of grid search.
type ParamsSearchResult struct {
	BestScore  Score
	BestModel  Classifier
	BestParams Params
	BestIndex  int
	Scores     []Score
	Params     []Params
}

// GridSearchCV finds the best parameters for a classifier. Combinations are
// enumerated in sorted parameter name order, so results are reproducible.
func GridSearchCV(ctx context.Context, estimator Classifier, trainSet, validSet *dataset.Table, paramGrid ParamsGrid,
	_ int64, fitConfig *FitConfig) (ParamsSearchResult, error) {
	// Retrieve parameter names and length
	paramNames := make([]ParamName, 0, len(paramGrid))
	total := 1
	for paramName, values := range paramGrid {
		paramNames = append(paramNames, paramName)
		total *= len(values)
	}
	sort.Slice(paramNames, func(i, j int) bool { return paramNames[i] < paramNames[j] })
	// Construct DFS procedure
	results := ParamsSearchResult{
		Scores: make([]Score, 0, total),
		Params: make([]Params, 0, total),
	}
	var dfs func(deep int, params Params) error
	newCtx, span := progress.Start(ctx, "GridSearchCV", total)
	dfs = func(deep int, params Params) error {
		if deep == len(paramNames) {
			log.Logger().Info(fmt.Sprintf("grid search %v/%v", span.Count(), total),
				zap.Any("params", params))
			// Cross validate
			estimator.Clear()
			estimator.SetParams(estimator.GetParams().Overwrite(params))
			score, err := estimator.Fit(newCtx, trainSet, validSet, fitConfig)
			if err != nil {
				return errors.Trace(err)
			}
			// Create GridSearch result
			results.Scores = append(results.Scores, score)
			results.Params = append(results.Params, params.Copy())
			if results.BestModel == nil || score.BetterThan(results.BestScore) {
				results.BestScore = score
				results.BestParams = params.Copy()
				results.BestIndex = len(results.Params) - 1
				results.BestModel = Clone(estimator)
			}
			span.Add(1)
			return nil
		}
		paramName := paramNames[deep]
		values := paramGrid[paramName]
		for _, val := range values {
			params[paramName] = val
			if err := dfs(deep+1, params); err != nil {
				return err
			}
		}
		return nil
	}
	params := make(map[ParamName]interface{})
	if err := dfs(0, params); err != nil {
		span.Fail(err)
		return results, errors.Trace(err)
	}
	span.End()
	return results, nil
}

// RandomSearchCV searches hyper-parameters by random.
func RandomSearchCV(ctx context.Context, estimator Classifier, trainSet, validSet *dataset.Table, paramGrid ParamsGrid,
	numTrials int, seed int64, fitConfig *FitConfig) (ParamsSearchResult, error) {
	// if the number of combination is less than number of trials, use grid search
	if paramGrid.NumCombinations() <= numTrials {
		return GridSearchCV(ctx, estimator, trainSet, validSet, paramGrid, seed, fitConfig)
	}
	paramNames := make([]ParamName, 0, len(paramGrid))
	for paramName := range paramGrid {
		paramNames = append(paramNames, paramName)
	}
	sort.Slice(paramNames, func(i, j int) bool { return paramNames[i] < paramNames[j] })
	rng := base.NewRandomGenerator(seed)
	results := ParamsSearchResult{
		Scores: make([]Score, 0, numTrials),
		Params: make([]Params, 0, numTrials),
	}
	newCtx, span := progress.Start(ctx, "RandomSearchCV", numTrials)
	for i := 1; i <= numTrials; i++ {
		// Make parameters
		params := Params{}
		for _, paramName := range paramNames {
			values := paramGrid[paramName]
			params[paramName] = values[rng.Intn(len(values))]
		}
		// Cross validate
		log.Logger().Info(fmt.Sprintf("random search %v/%v", i, numTrials),
			zap.Any("params", params))
		estimator.Clear()
		estimator.SetParams(estimator.GetParams().Overwrite(params))
		score, err := estimator.Fit(newCtx, trainSet, validSet, fitConfig)
		if err != nil {
			span.Fail(err)
			return results, errors.Trace(err)
		}
		results.Scores = append(results.Scores, score)
		results.Params = append(results.Params, params.Copy())
		if results.BestModel == nil || score.BetterThan(results.BestScore) {
			results.BestScore = score
			results.BestParams = params.Copy()
			results.BestIndex = len(results.Params) - 1
			results.BestModel = Clone(estimator)
		}
		span.Add(1)
	}
	span.End()
	return results, nil
}
