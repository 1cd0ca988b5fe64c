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
	"io"

	"github.com/c-bata/goptuna"
	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/copier"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/encoding"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

// Type identifies a classifier family.
type Type string

const (
	TypeLogistic Type = "logistic"
	TypeRidge    Type = "ridge"
	TypeTree     Type = "tree"
	TypeForest   Type = "forest"
)

// Types lists all classifier families.
var Types = []Type{TypeLogistic, TypeRidge, TypeTree, TypeForest}

// ParseType parses a classifier family name.
func ParseType(name string) (Type, error) {
	switch Type(name) {
	case TypeLogistic, TypeRidge, TypeTree, TypeForest:
		return Type(name), nil
	default:
		return "", errors.NotValidf("classifier type %q", name)
	}
}

// WeightMismatchError reports sample weights that cannot be applied to the
// training set. It terminates the fit.
type WeightMismatchError struct {
	NumRow    int     // rows in the training set
	NumWeight int     // provided weights
	Row       int     // row of the first invalid weight, -1 when the count mismatches
	Value     float32 // invalid weight value
}

func (e *WeightMismatchError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("sample weight at row %d is invalid: %v", e.Row, e.Value)
	}
	return fmt.Sprintf("expected %d sample weights but got %d", e.NumRow, e.NumWeight)
}

// Score is the performance of a classifier on a validation set.
type Score struct {
	Accuracy  float32
	Precision float32
	Recall    float32
	AUC       float32
}

func (score Score) ZapFields() []zap.Field {
	return []zap.Field{
		zap.Float32("Accuracy", score.Accuracy),
		zap.Float32("Precision", score.Precision),
		zap.Float32("Recall", score.Recall),
		zap.Float32("AUC", score.AUC),
	}
}

func (score Score) GetValue() float32 {
	return score.AUC
}

func (score Score) BetterThan(s Score) bool {
	return score.AUC > s.AUC
}

// FitConfig carries runtime options of a fit: parallelism, logging interval,
// the label contract and optional per-row sample weights.
type FitConfig struct {
	Jobs     int
	Verbose  int
	Label    string    // label column name
	Positive string    // positive value for categorical label columns
	Drop     []string  // columns excluded from the design matrix
	Weights  []float32 // per-row sample weights, nil means uniform
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:    1,
		Verbose: 10,
		Label:   "label",
	}
}

func (config *FitConfig) SetJobs(jobs int) *FitConfig {
	config.Jobs = jobs
	return config
}

func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

func (config *FitConfig) SetLabel(label, positive string) *FitConfig {
	config.Label = label
	config.Positive = positive
	return config
}

func (config *FitConfig) SetDrop(drop ...string) *FitConfig {
	config.Drop = drop
	return config
}

func (config *FitConfig) SetWeights(weights []float32) *FitConfig {
	config.Weights = weights
	return config
}

func (config *FitConfig) LoadDefaultIfNil() *FitConfig {
	if config == nil {
		return NewFitConfig()
	}
	return config
}

// Model is the interface for all models. Any model in this
// package should implement it.
type Model interface {
	// Set parameters.
	SetParams(params Params)
	// Get parameters.
	GetParams() Params
	// Get hyper-parameters grid. Large grids are enabled by withSize.
	GetParamsGrid(withSize bool) ParamsGrid
	// Clear model weights.
	Clear()
	// Invalid reports whether the model has no weights.
	Invalid() bool
}

// Classifier is a binary classifier over tabular datasets. Predict returns
// one probability in [0, 1] per row, in row order.
type Classifier interface {
	Model
	Type() Type
	Fit(ctx context.Context, trainSet, validSet *dataset.Table, config *FitConfig) (Score, error)
	Predict(set *dataset.Table) ([]float32, error)
	SuggestParams(trial goptuna.Trial) Params
	Marshal(w io.Writer) error
	Unmarshal(r io.Reader) error
}

// NewClassifier creates a classifier of the given family.
func NewClassifier(t Type, params Params) (Classifier, error) {
	switch t {
	case TypeLogistic:
		return NewLogisticRegression(params), nil
	case TypeRidge:
		return NewRidge(params), nil
	case TypeTree:
		return NewDecisionTree(params), nil
	case TypeForest:
		return NewRandomForest(params), nil
	default:
		return nil, errors.NotValidf("classifier type %q", string(t))
	}
}

// BaseModel model must be included by every classifier. Hyper-parameters,
// random generator and fitting options are managed by the BaseModel model.
type BaseModel struct {
	Params    Params               // Hyper-parameters
	rng       base.RandomGenerator // Random generator
	randState int64                // Random seed
}

// SetParams sets hyper-parameters for the BaseModel model.
func (model *BaseModel) SetParams(params Params) {
	model.Params = params
	model.randState = model.Params.GetInt64(RandomState, 0)
	model.rng = base.NewRandomGenerator(model.randState)
}

// GetParams returns all hyper-parameters.
func (model *BaseModel) GetParams() Params {
	return model.Params
}

func (model *BaseModel) GetRandomGenerator() base.RandomGenerator {
	return model.rng
}

// BaseClassifier carries the feature encoding and label contract learned
// during Fit, so a fitted classifier can encode any table by itself.
type BaseClassifier struct {
	BaseModel
	Encoding *dataset.Encoding
	Label    string
	Positive string
}

// Init learns the feature encoding from the training set and resolves the
// design matrix, label vector and sample weights. Missing weights become
// uniform weights of one.
func (b *BaseClassifier) Init(trainSet *dataset.Table, config *FitConfig) (*dataset.FeatureMatrix, []float32, []float32, error) {
	b.Label = config.Label
	b.Positive = config.Positive
	drop := append([]string{config.Label}, config.Drop...)
	encoding, err := trainSet.Encode(drop...)
	if err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	b.Encoding = encoding
	matrix, err := encoding.Transform(trainSet)
	if err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	labels, err := trainSet.Labels(config.Label, config.Positive)
	if err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	weights := config.Weights
	if weights == nil {
		weights = base.RepeatFloat32s(trainSet.NumRow(), 1)
	} else {
		if len(weights) != trainSet.NumRow() {
			return nil, nil, nil, errors.Trace(&WeightMismatchError{
				NumRow:    trainSet.NumRow(),
				NumWeight: len(weights),
				Row:       -1,
			})
		}
		for i, w := range weights {
			if w < 0 || math32.IsNaN(w) {
				return nil, nil, nil, errors.Trace(&WeightMismatchError{
					NumRow:    trainSet.NumRow(),
					NumWeight: len(weights),
					Row:       i,
					Value:     w,
				})
			}
		}
	}
	return matrix, labels, weights, nil
}

// Features encodes a table with the encoding learned during Fit.
func (b *BaseClassifier) Features(set *dataset.Table) (*dataset.FeatureMatrix, error) {
	if b.Encoding == nil {
		return nil, errors.New("classifier is not fitted")
	}
	matrix, err := b.Encoding.Transform(set)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return matrix, nil
}

// Validation resolves the design matrix and label vector of the validation
// set. A nil validation set falls back to the training set.
func (b *BaseClassifier) Validation(trainSet, validSet *dataset.Table) (*dataset.FeatureMatrix, []float32, error) {
	if validSet == nil {
		validSet = trainSet
	}
	matrix, err := b.Features(validSet)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	labels, err := validSet.Labels(b.Label, b.Positive)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return matrix, labels, nil
}

func (b *BaseClassifier) marshalBase(w io.Writer) error {
	if err := encoding.WriteGob(w, b.Params); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteGob(w, b.Encoding); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteString(w, b.Label); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteString(w, b.Positive); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func (b *BaseClassifier) unmarshalBase(r io.Reader) error {
	if err := encoding.ReadGob(r, &b.Params); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.ReadGob(r, &b.Encoding); err != nil {
		return errors.Trace(err)
	}
	var err error
	if b.Label, err = encoding.ReadString(r); err != nil {
		return errors.Trace(err)
	}
	if b.Positive, err = encoding.ReadString(r); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Clone a model with deep copy.
func Clone(m Classifier) Classifier {
	var copied Classifier
	if err := copier.Copy(&copied, m); err != nil {
		panic(err)
	} else {
		copied.SetParams(copied.GetParams())
		return copied
	}
}

// MarshalModel writes a classifier with a family header.
func MarshalModel(w io.Writer, m Classifier) error {
	if err := encoding.WriteString(w, string(m.Type())); err != nil {
		return errors.Trace(err)
	}
	if err := m.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// UnmarshalModel reads a classifier written by MarshalModel.
func UnmarshalModel(r io.Reader) (Classifier, error) {
	name, err := encoding.ReadString(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	t, err := ParseType(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	m, err := NewClassifier(t, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := m.Unmarshal(r); err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}
