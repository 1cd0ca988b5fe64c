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
	"io"
	"time"

	"github.com/c-bata/goptuna"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/progress"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

// Ridge is a binary classifier trained by solving the weighted normal
// equations with an L2 penalty on the coefficients. The intercept is not
// penalized. Scores are clamped to [0, 1].
type Ridge struct {
	BaseClassifier
	W     []float32 // feature weights
	B     float32   // intercept
	Mean  []float32 // feature means
	Scale []float32 // feature standard deviations
	// Hyper parameters
	reg float32
}

// NewRidge creates a ridge classifier.
func NewRidge(params Params) *Ridge {
	ridge := new(Ridge)
	ridge.SetParams(params)
	return ridge
}

// SetParams sets hyper-parameters of the ridge classifier.
func (ridge *Ridge) SetParams(params Params) {
	ridge.BaseModel.SetParams(params)
	ridge.reg = ridge.Params.GetFloat32(Reg, 1)
}

func (ridge *Ridge) GetParamsGrid(withSize bool) ParamsGrid {
	return ParamsGrid{
		Reg: lo.If(withSize, []interface{}{0.001, 0.01, 0.1, 1, 10, 100}).
			Else([]interface{}{0.01, 0.1, 1, 10}),
	}
}

func (ridge *Ridge) SuggestParams(trial goptuna.Trial) Params {
	return Params{
		Reg: lo.Must(trial.SuggestLogFloat(string(Reg), 0.001, 100)),
	}
}

func (ridge *Ridge) Type() Type {
	return TypeRidge
}

func (ridge *Ridge) Clear() {
	ridge.B = 0
	ridge.W = nil
	ridge.Mean = nil
	ridge.Scale = nil
	ridge.Encoding = nil
}

func (ridge *Ridge) Invalid() bool {
	return ridge == nil ||
		ridge.W == nil ||
		ridge.Encoding == nil
}

// Fit the ridge classifier by a single weighted least squares solve.
func (ridge *Ridge) Fit(ctx context.Context, trainSet, validSet *dataset.Table, config *FitConfig) (Score, error) {
	config = config.LoadDefaultIfNil()
	matrix, labels, weights, err := ridge.Init(trainSet, config)
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	validMatrix, validLabels, err := ridge.Validation(trainSet, validSet)
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	log.Logger().Info("fit ridge",
		zap.Int("train_set_size", trainSet.NumRow()),
		zap.Int("valid_set_size", len(validLabels)),
		zap.Any("params", ridge.GetParams()),
		zap.Any("config", config))
	ridge.Mean, ridge.Scale = featureStats(matrix.Values)
	rescale(matrix, ridge.Mean, ridge.Scale)
	rescale(validMatrix, ridge.Mean, ridge.Scale)

	fitStart := time.Now()
	_, span := progress.Start(ctx, "Ridge.Fit", 1)
	// assemble the normal equations with an intercept column
	p := matrix.NumFeature() + 1
	a := mat.NewDense(p, p, nil)
	b := mat.NewDense(p, 1, nil)
	x := make([]float64, p)
	for i, row := range matrix.Values {
		x[0] = 1
		for j, v := range row {
			x[j+1] = float64(v)
		}
		w := float64(weights[i])
		y := float64(labels[i])
		for j := 0; j < p; j++ {
			b.Set(j, 0, b.At(j, 0)+w*y*x[j])
			for k := 0; k < p; k++ {
				a.Set(j, k, a.At(j, k)+w*x[j]*x[k])
			}
		}
	}
	for j := 1; j < p; j++ {
		a.Set(j, j, a.At(j, j)+float64(ridge.reg))
	}
	var beta mat.Dense
	if err := beta.Solve(a, b); err != nil {
		span.Fail(err)
		return Score{}, errors.Annotate(err, "failed to solve normal equations")
	}
	ridge.B = float32(beta.At(0, 0))
	ridge.W = make([]float32, matrix.NumFeature())
	for j := range ridge.W {
		ridge.W[j] = float32(beta.At(j+1, 0))
	}
	span.Add(1)
	span.End()
	fitTime := time.Since(fitStart)

	score := ridge.evaluate(validMatrix, validLabels)
	fields := append([]zap.Field{zap.String("fit_time", fitTime.String())}, score.ZapFields()...)
	log.Logger().Info("fit ridge complete", fields...)
	return score, nil
}

// Predict returns one probability per row, in row order.
func (ridge *Ridge) Predict(set *dataset.Table) ([]float32, error) {
	if ridge.Invalid() {
		return nil, errors.New("ridge is not fitted")
	}
	matrix, err := ridge.Features(set)
	if err != nil {
		return nil, errors.Trace(err)
	}
	rescale(matrix, ridge.Mean, ridge.Scale)
	predictions := make([]float32, matrix.NumRow())
	for i, row := range matrix.Values {
		predictions[i] = ridge.decision(row)
	}
	return predictions, nil
}

func (ridge *Ridge) evaluate(matrix *dataset.FeatureMatrix, labels []float32) Score {
	predictions := make([]float32, matrix.NumRow())
	for i, row := range matrix.Values {
		predictions[i] = ridge.decision(row)
	}
	return EvaluateClassification(predictions, labels, DefaultCutoff)
}

// decision returns the clamped linear score of a standardized row.
func (ridge *Ridge) decision(row []float32) float32 {
	s := ridge.B
	for j, v := range row {
		s += ridge.W[j] * v
	}
	return lo.Clamp(s, 0, 1)
}

// Marshal model into byte stream.
func (ridge *Ridge) Marshal(w io.Writer) error {
	if err := ridge.marshalBase(w); err != nil {
		return errors.Trace(err)
	}
	// write scalars
	if err := binary.Write(w, binary.LittleEndian, ridge.B); err != nil {
		return errors.Trace(err)
	}
	// write vectors
	if err := binary.Write(w, binary.LittleEndian, ridge.Mean); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, ridge.Scale); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, ridge.W); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Unmarshal model from byte stream.
func (ridge *Ridge) Unmarshal(r io.Reader) error {
	if err := ridge.unmarshalBase(r); err != nil {
		return errors.Trace(err)
	}
	ridge.SetParams(ridge.Params)
	// read scalars
	if err := binary.Read(r, binary.LittleEndian, &ridge.B); err != nil {
		return errors.Trace(err)
	}
	// read vectors
	numFeature := len(ridge.Encoding.FeatureNames())
	ridge.Mean = make([]float32, numFeature)
	if err := binary.Read(r, binary.LittleEndian, ridge.Mean); err != nil {
		return errors.Trace(err)
	}
	ridge.Scale = make([]float32, numFeature)
	if err := binary.Read(r, binary.LittleEndian, ridge.Scale); err != nil {
		return errors.Trace(err)
	}
	ridge.W = make([]float32, numFeature)
	if err := binary.Read(r, binary.LittleEndian, ridge.W); err != nil {
		return errors.Trace(err)
	}
	return nil
}
