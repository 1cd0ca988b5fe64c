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
	"time"

	"github.com/c-bata/goptuna"
	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/encoding"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/parallel"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/progress"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

// RandomForest averages CART trees grown on bootstrap samples. Tree i is
// seeded with random_state+i, so the forest is reproducible under any number
// of jobs.
type RandomForest struct {
	BaseClassifier
	Trees []*Node
	// Hyper parameters
	nTrees         int
	maxDepth       int
	minSamplesLeaf int
	maxFeatures    int
}

// NewRandomForest creates a random forest classifier.
func NewRandomForest(params Params) *RandomForest {
	forest := new(RandomForest)
	forest.SetParams(params)
	return forest
}

// SetParams sets hyper-parameters of the random forest classifier. A zero
// max features means the square root of the feature count.
func (forest *RandomForest) SetParams(params Params) {
	forest.BaseModel.SetParams(params)
	forest.nTrees = forest.Params.GetInt(NTrees, 100)
	forest.maxDepth = forest.Params.GetInt(MaxDepth, 10)
	forest.minSamplesLeaf = forest.Params.GetInt(MinSamplesLeaf, 1)
	forest.maxFeatures = forest.Params.GetInt(MaxFeatures, 0)
}

func (forest *RandomForest) GetParamsGrid(withSize bool) ParamsGrid {
	return ParamsGrid{
		NTrees: lo.If(withSize, []interface{}{50, 100, 200}).
			Else([]interface{}{50, 100}),
		MaxDepth:       []interface{}{5, 10, 20},
		MinSamplesLeaf: []interface{}{1, 5},
	}
}

func (forest *RandomForest) SuggestParams(trial goptuna.Trial) Params {
	return Params{
		NTrees:         lo.Must(trial.SuggestInt(string(NTrees), 50, 200)),
		MaxDepth:       lo.Must(trial.SuggestInt(string(MaxDepth), 2, 20)),
		MinSamplesLeaf: lo.Must(trial.SuggestInt(string(MinSamplesLeaf), 1, 10)),
	}
}

func (forest *RandomForest) Type() Type {
	return TypeForest
}

func (forest *RandomForest) Clear() {
	forest.Trees = nil
	forest.Encoding = nil
}

func (forest *RandomForest) Invalid() bool {
	return forest == nil ||
		forest.Trees == nil ||
		forest.Encoding == nil
}

// Fit the random forest classifier. Trees are grown in parallel, one job
// per tree.
func (forest *RandomForest) Fit(ctx context.Context, trainSet, validSet *dataset.Table, config *FitConfig) (Score, error) {
	config = config.LoadDefaultIfNil()
	matrix, labels, weights, err := forest.Init(trainSet, config)
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	validMatrix, validLabels, err := forest.Validation(trainSet, validSet)
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	log.Logger().Info("fit random forest",
		zap.Int("train_set_size", trainSet.NumRow()),
		zap.Int("valid_set_size", len(validLabels)),
		zap.Any("params", forest.GetParams()),
		zap.Any("config", config))
	maxFeatures := forest.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math32.Sqrt(float32(matrix.NumFeature())))
	}
	numRow := matrix.NumRow()
	fitStart := time.Now()
	_, span := progress.Start(ctx, "RandomForest.Fit", forest.nTrees)
	trees := make([]*Node, forest.nTrees)
	_ = parallel.Parallel(forest.nTrees, config.Jobs, func(_, jobId int) error {
		rng := base.NewRandomGenerator(forest.randState + int64(jobId))
		idx := make([]int, numRow)
		for i := range idx {
			idx[i] = rng.Intn(numRow)
		}
		builder := treeBuilder{
			maxDepth:       forest.maxDepth,
			minSamplesLeaf: forest.minSamplesLeaf,
			maxFeatures:    maxFeatures,
			rng:            rng,
		}
		trees[jobId] = builder.build(matrix.Values, labels, weights, idx, 0)
		span.Add(1)
		return nil
	})
	forest.Trees = trees
	span.End()
	fitTime := time.Since(fitStart)

	score := forest.evaluate(validMatrix, validLabels)
	fields := append([]zap.Field{zap.String("fit_time", fitTime.String())}, score.ZapFields()...)
	log.Logger().Info("fit random forest complete", fields...)
	return score, nil
}

// Predict returns one probability per row, in row order.
func (forest *RandomForest) Predict(set *dataset.Table) ([]float32, error) {
	if forest.Invalid() {
		return nil, errors.New("random forest is not fitted")
	}
	matrix, err := forest.Features(set)
	if err != nil {
		return nil, errors.Trace(err)
	}
	predictions := make([]float32, matrix.NumRow())
	for i, row := range matrix.Values {
		predictions[i] = forest.vote(row)
	}
	return predictions, nil
}

func (forest *RandomForest) evaluate(matrix *dataset.FeatureMatrix, labels []float32) Score {
	predictions := make([]float32, matrix.NumRow())
	for i, row := range matrix.Values {
		predictions[i] = forest.vote(row)
	}
	return EvaluateClassification(predictions, labels, DefaultCutoff)
}

// vote averages the leaf probabilities of all trees.
func (forest *RandomForest) vote(row []float32) float32 {
	var sum float32
	for _, tree := range forest.Trees {
		sum += tree.predict(row)
	}
	return sum / float32(len(forest.Trees))
}

// Marshal model into byte stream.
func (forest *RandomForest) Marshal(w io.Writer) error {
	if err := forest.marshalBase(w); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteGob(w, forest.Trees); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Unmarshal model from byte stream.
func (forest *RandomForest) Unmarshal(r io.Reader) error {
	if err := forest.unmarshalBase(r); err != nil {
		return errors.Trace(err)
	}
	forest.SetParams(forest.Params)
	if err := encoding.ReadGob(r, &forest.Trees); err != nil {
		return errors.Trace(err)
	}
	return nil
}
