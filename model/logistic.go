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
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/c-bata/goptuna"
	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/progress"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

// LogisticRegression is a binary classifier trained by stochastic gradient
// descent on the weighted cross entropy loss. Features are standardized
// internally, coefficients refer to standardized features.
type LogisticRegression struct {
	BaseClassifier
	W     []float32 // feature weights
	B     float32   // intercept
	Mean  []float32 // feature means
	Scale []float32 // feature standard deviations
	// Hyper parameters
	lr         float32
	reg        float32
	nEpochs    int
	initStdDev float32
}

// NewLogisticRegression creates a logistic regression classifier.
func NewLogisticRegression(params Params) *LogisticRegression {
	logit := new(LogisticRegression)
	logit.SetParams(params)
	return logit
}

// SetParams sets hyper-parameters of the logistic regression classifier.
func (logit *LogisticRegression) SetParams(params Params) {
	logit.BaseModel.SetParams(params)
	logit.lr = logit.Params.GetFloat32(Lr, 0.1)
	logit.reg = logit.Params.GetFloat32(Reg, 0.01)
	logit.nEpochs = logit.Params.GetInt(NEpochs, 100)
	logit.initStdDev = logit.Params.GetFloat32(InitStdDev, 0.001)
}

func (logit *LogisticRegression) GetParamsGrid(withSize bool) ParamsGrid {
	return ParamsGrid{
		Lr:         []interface{}{0.01, 0.05, 0.1},
		Reg:        []interface{}{0.001, 0.01, 0.1},
		NEpochs:    lo.If(withSize, []interface{}{50, 100, 200}).Else([]interface{}{100}),
		InitStdDev: []interface{}{0.001, 0.01},
	}
}

func (logit *LogisticRegression) SuggestParams(trial goptuna.Trial) Params {
	return Params{
		Lr:         lo.Must(trial.SuggestLogFloat(string(Lr), 0.001, 0.1)),
		Reg:        lo.Must(trial.SuggestLogFloat(string(Reg), 0.0001, 0.1)),
		NEpochs:    100,
		InitStdDev: lo.Must(trial.SuggestLogFloat(string(InitStdDev), 0.001, 0.1)),
	}
}

func (logit *LogisticRegression) Type() Type {
	return TypeLogistic
}

func (logit *LogisticRegression) Clear() {
	logit.B = 0
	logit.W = nil
	logit.Mean = nil
	logit.Scale = nil
	logit.Encoding = nil
}

func (logit *LogisticRegression) Invalid() bool {
	return logit == nil ||
		logit.W == nil ||
		logit.Encoding == nil
}

// Fit the logistic regression classifier. Its task complexity is
// O(logit.nEpochs).
func (logit *LogisticRegression) Fit(ctx context.Context, trainSet, validSet *dataset.Table, config *FitConfig) (Score, error) {
	config = config.LoadDefaultIfNil()
	matrix, labels, weights, err := logit.Init(trainSet, config)
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	validMatrix, validLabels, err := logit.Validation(trainSet, validSet)
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	log.Logger().Info("fit logistic regression",
		zap.Int("train_set_size", trainSet.NumRow()),
		zap.Int("valid_set_size", len(validLabels)),
		zap.Any("params", logit.GetParams()),
		zap.Any("config", config))
	logit.Mean, logit.Scale = featureStats(matrix.Values)
	rescale(matrix, logit.Mean, logit.Scale)
	rescale(validMatrix, logit.Mean, logit.Scale)
	logit.W = logit.GetRandomGenerator().NormalVector(matrix.NumFeature(), 0, logit.initStdDev)
	logit.B = 0

	snapshots := SnapshotManager{}
	evalStart := time.Now()
	score := logit.evaluate(validMatrix, validLabels)
	evalTime := time.Since(evalStart)
	fields := append([]zap.Field{zap.String("eval_time", evalTime.String())}, score.ZapFields()...)
	log.Logger().Debug(fmt.Sprintf("fit logistic regression %v/%v", 0, logit.nEpochs), fields...)
	snapshots.AddSnapshot(score, logit.W, logit.B)

	_, span := progress.Start(ctx, "LogisticRegression.Fit", logit.nEpochs)
	for epoch := 1; epoch <= logit.nEpochs; epoch++ {
		fitStart := time.Now()
		cost := float32(0)
		for _, i := range logit.GetRandomGenerator().Perm(matrix.NumRow()) {
			row := matrix.Values[i]
			z := logit.decision(row)
			grad := (sigmoid(z) - labels[i]) * weights[i]
			if labels[i] > 0 {
				cost += weights[i] * softplus(-z)
			} else {
				cost += weights[i] * softplus(z)
			}
			logit.B -= logit.lr * grad
			for j, v := range row {
				logit.W[j] -= logit.lr * (grad*v + logit.reg*logit.W[j])
			}
		}
		fitTime := time.Since(fitStart)
		// Cross validation
		if epoch%config.Verbose == 0 || epoch == logit.nEpochs {
			evalStart = time.Now()
			score = logit.evaluate(validMatrix, validLabels)
			evalTime = time.Since(evalStart)
			fields = append([]zap.Field{
				zap.String("fit_time", fitTime.String()),
				zap.String("eval_time", evalTime.String()),
				zap.Float32("loss", cost),
			}, score.ZapFields()...)
			log.Logger().Debug(fmt.Sprintf("fit logistic regression %v/%v", epoch, logit.nEpochs), fields...)
			// check NaN
			if math32.IsNaN(cost) || math32.IsNaN(score.GetValue()) {
				log.Logger().Warn("model diverged", zap.Float32("lr", logit.lr))
				break
			}
			snapshots.AddSnapshot(score, logit.W, logit.B)
		}
		span.Add(1)
	}
	span.End()
	// restore best snapshot
	logit.W = snapshots.BestWeights[0].([]float32)
	logit.B = snapshots.BestWeights[1].(float32)
	log.Logger().Info("fit logistic regression complete", snapshots.BestScore.ZapFields()...)
	return snapshots.BestScore, nil
}

// Predict returns one probability per row, in row order.
func (logit *LogisticRegression) Predict(set *dataset.Table) ([]float32, error) {
	if logit.Invalid() {
		return nil, errors.New("logistic regression is not fitted")
	}
	matrix, err := logit.Features(set)
	if err != nil {
		return nil, errors.Trace(err)
	}
	rescale(matrix, logit.Mean, logit.Scale)
	predictions := make([]float32, matrix.NumRow())
	for i, row := range matrix.Values {
		predictions[i] = sigmoid(logit.decision(row))
	}
	return predictions, nil
}

func (logit *LogisticRegression) evaluate(matrix *dataset.FeatureMatrix, labels []float32) Score {
	predictions := make([]float32, matrix.NumRow())
	for i, row := range matrix.Values {
		predictions[i] = sigmoid(logit.decision(row))
	}
	return EvaluateClassification(predictions, labels, DefaultCutoff)
}

// decision returns the linear score of a standardized row.
func (logit *LogisticRegression) decision(row []float32) float32 {
	s := logit.B
	for j, v := range row {
		s += logit.W[j] * v
	}
	return s
}

// rescale standardizes a design matrix in place.
func rescale(matrix *dataset.FeatureMatrix, mean, scale []float32) {
	for _, row := range matrix.Values {
		for j := range row {
			row[j] = (row[j] - mean[j]) / scale[j]
		}
	}
}

// Marshal model into byte stream.
func (logit *LogisticRegression) Marshal(w io.Writer) error {
	if err := logit.marshalBase(w); err != nil {
		return errors.Trace(err)
	}
	// write scalars
	if err := binary.Write(w, binary.LittleEndian, logit.B); err != nil {
		return errors.Trace(err)
	}
	// write vectors
	if err := binary.Write(w, binary.LittleEndian, logit.Mean); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, logit.Scale); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, logit.W); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Unmarshal model from byte stream.
func (logit *LogisticRegression) Unmarshal(r io.Reader) error {
	if err := logit.unmarshalBase(r); err != nil {
		return errors.Trace(err)
	}
	logit.SetParams(logit.Params)
	// read scalars
	if err := binary.Read(r, binary.LittleEndian, &logit.B); err != nil {
		return errors.Trace(err)
	}
	// read vectors
	numFeature := len(logit.Encoding.FeatureNames())
	logit.Mean = make([]float32, numFeature)
	if err := binary.Read(r, binary.LittleEndian, logit.Mean); err != nil {
		return errors.Trace(err)
	}
	logit.Scale = make([]float32, numFeature)
	if err := binary.Read(r, binary.LittleEndian, logit.Scale); err != nil {
		return errors.Trace(err)
	}
	logit.W = make([]float32, numFeature)
	if err := binary.Read(r, binary.LittleEndian, logit.W); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// softplus is log(1+exp(x)), stable for large x.
func softplus(x float32) float32 {
	if x > 0 {
		return x + math32.Log1p(math32.Exp(-x))
	}
	return math32.Log1p(math32.Exp(x))
}

// featureStats returns the column means and standard deviations of a design
// matrix. Constant columns get a unit scale.
func featureStats(values [][]float32) ([]float32, []float32) {
	if len(values) == 0 {
		return nil, nil
	}
	mean := make([]float32, len(values[0]))
	scale := make([]float32, len(values[0]))
	for _, row := range values {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float32(len(values))
	}
	for _, row := range values {
		for j, v := range row {
			scale[j] += (v - mean[j]) * (v - mean[j])
		}
	}
	for j := range scale {
		scale[j] = math32.Sqrt(scale[j] / float32(len(values)))
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return mean, scale
}
