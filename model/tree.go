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
	"sort"
	"time"

	"github.com/c-bata/goptuna"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/encoding"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/progress"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

// Node is a node of a CART tree. Leaves carry the weighted positive rate of
// their training samples. Rows with values at or below the threshold go left.
type Node struct {
	Feature   int
	Threshold float32
	Left      *Node
	Right     *Node
	Leaf      bool
	Prob      float32
}

// predict walks the tree and returns the leaf probability of a row.
func (node *Node) predict(row []float32) float32 {
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Prob
}

// DecisionTree is a CART binary classifier on the weighted gini impurity.
type DecisionTree struct {
	BaseClassifier
	Root *Node
	// Hyper parameters
	maxDepth       int
	minSamplesLeaf int
}

// NewDecisionTree creates a decision tree classifier.
func NewDecisionTree(params Params) *DecisionTree {
	tree := new(DecisionTree)
	tree.SetParams(params)
	return tree
}

// SetParams sets hyper-parameters of the decision tree classifier. A zero
// max depth means unlimited depth.
func (tree *DecisionTree) SetParams(params Params) {
	tree.BaseModel.SetParams(params)
	tree.maxDepth = tree.Params.GetInt(MaxDepth, 10)
	tree.minSamplesLeaf = tree.Params.GetInt(MinSamplesLeaf, 1)
}

func (tree *DecisionTree) GetParamsGrid(withSize bool) ParamsGrid {
	return ParamsGrid{
		MaxDepth: lo.If(withSize, []interface{}{3, 5, 10, 20}).
			Else([]interface{}{3, 5, 10}),
		MinSamplesLeaf: []interface{}{1, 5, 10},
	}
}

func (tree *DecisionTree) SuggestParams(trial goptuna.Trial) Params {
	return Params{
		MaxDepth:       lo.Must(trial.SuggestInt(string(MaxDepth), 2, 20)),
		MinSamplesLeaf: lo.Must(trial.SuggestInt(string(MinSamplesLeaf), 1, 10)),
	}
}

func (tree *DecisionTree) Type() Type {
	return TypeTree
}

func (tree *DecisionTree) Clear() {
	tree.Root = nil
	tree.Encoding = nil
}

func (tree *DecisionTree) Invalid() bool {
	return tree == nil ||
		tree.Root == nil ||
		tree.Encoding == nil
}

// Fit the decision tree classifier.
func (tree *DecisionTree) Fit(ctx context.Context, trainSet, validSet *dataset.Table, config *FitConfig) (Score, error) {
	config = config.LoadDefaultIfNil()
	matrix, labels, weights, err := tree.Init(trainSet, config)
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	validMatrix, validLabels, err := tree.Validation(trainSet, validSet)
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	log.Logger().Info("fit decision tree",
		zap.Int("train_set_size", trainSet.NumRow()),
		zap.Int("valid_set_size", len(validLabels)),
		zap.Any("params", tree.GetParams()),
		zap.Any("config", config))
	fitStart := time.Now()
	_, span := progress.Start(ctx, "DecisionTree.Fit", 1)
	builder := treeBuilder{
		maxDepth:       tree.maxDepth,
		minSamplesLeaf: tree.minSamplesLeaf,
		rng:            tree.GetRandomGenerator(),
	}
	tree.Root = builder.build(matrix.Values, labels, weights, base.RangeInt(matrix.NumRow()), 0)
	span.Add(1)
	span.End()
	fitTime := time.Since(fitStart)

	score := tree.evaluate(validMatrix, validLabels)
	fields := append([]zap.Field{zap.String("fit_time", fitTime.String())}, score.ZapFields()...)
	log.Logger().Info("fit decision tree complete", fields...)
	return score, nil
}

// Predict returns one probability per row, in row order.
func (tree *DecisionTree) Predict(set *dataset.Table) ([]float32, error) {
	if tree.Invalid() {
		return nil, errors.New("decision tree is not fitted")
	}
	matrix, err := tree.Features(set)
	if err != nil {
		return nil, errors.Trace(err)
	}
	predictions := make([]float32, matrix.NumRow())
	for i, row := range matrix.Values {
		predictions[i] = tree.Root.predict(row)
	}
	return predictions, nil
}

func (tree *DecisionTree) evaluate(matrix *dataset.FeatureMatrix, labels []float32) Score {
	predictions := make([]float32, matrix.NumRow())
	for i, row := range matrix.Values {
		predictions[i] = tree.Root.predict(row)
	}
	return EvaluateClassification(predictions, labels, DefaultCutoff)
}

// Marshal model into byte stream.
func (tree *DecisionTree) Marshal(w io.Writer) error {
	if err := tree.marshalBase(w); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteGob(w, tree.Root); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Unmarshal model from byte stream.
func (tree *DecisionTree) Unmarshal(r io.Reader) error {
	if err := tree.unmarshalBase(r); err != nil {
		return errors.Trace(err)
	}
	tree.SetParams(tree.Params)
	if err := encoding.ReadGob(r, &tree.Root); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// treeBuilder grows a CART tree by recursive binary splitting. A positive
// maxFeatures samples that many candidate features at each node.
type treeBuilder struct {
	maxDepth       int
	minSamplesLeaf int
	maxFeatures    int
	rng            base.RandomGenerator
}

type split struct {
	gain      float32
	feature   int
	threshold float32
}

func (builder *treeBuilder) build(values [][]float32, labels, weights []float32, idx []int, depth int) *Node {
	var posWeight, totalWeight float32
	var posCount int
	for _, i := range idx {
		totalWeight += weights[i]
		posWeight += weights[i] * labels[i]
		if labels[i] > 0 {
			posCount++
		}
	}
	node := &Node{Leaf: true, Prob: leafProb(posWeight, totalWeight, posCount, len(idx))}
	pure := posCount == 0 || posCount == len(idx)
	if pure || len(idx) < 2*builder.minSamplesLeaf {
		return node
	}
	if builder.maxDepth > 0 && depth >= builder.maxDepth {
		return node
	}
	best, ok := builder.bestSplit(values, labels, weights, idx, posWeight, totalWeight)
	if !ok {
		return node
	}
	var left, right []int
	for _, i := range idx {
		if values[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	node.Leaf = false
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = builder.build(values, labels, weights, left, depth+1)
	node.Right = builder.build(values, labels, weights, right, depth+1)
	return node
}

// bestSplit scans candidate thresholds at midpoints between distinct sorted
// values and keeps the split with the largest weighted impurity decrease.
func (builder *treeBuilder) bestSplit(values [][]float32, labels, weights []float32, idx []int, posWeight, totalWeight float32) (split, bool) {
	parent := gini(posWeight, totalWeight)
	best := split{feature: -1}
	pairs := make([]valueIndex, len(idx))
	for _, feature := range builder.features(len(values[idx[0]])) {
		for p, i := range idx {
			pairs[p] = valueIndex{value: values[i][feature], index: i}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].value < pairs[b].value })
		var leftPos, leftWeight float32
		for s := 1; s < len(pairs); s++ {
			i := pairs[s-1].index
			leftWeight += weights[i]
			leftPos += weights[i] * labels[i]
			if pairs[s].value == pairs[s-1].value {
				continue
			}
			if s < builder.minSamplesLeaf || len(pairs)-s < builder.minSamplesLeaf {
				continue
			}
			rightWeight := totalWeight - leftWeight
			rightPos := posWeight - leftPos
			weighted := (leftWeight*gini(leftPos, leftWeight) + rightWeight*gini(rightPos, rightWeight)) / totalWeight
			gain := parent - weighted
			if gain > best.gain {
				best = split{
					gain:      gain,
					feature:   feature,
					threshold: (pairs[s-1].value + pairs[s].value) / 2,
				}
			}
		}
	}
	return best, best.feature >= 0 && best.gain > 0
}

// features returns the candidate feature indices of a node.
func (builder *treeBuilder) features(numFeature int) []int {
	features := base.RangeInt(numFeature)
	if builder.maxFeatures <= 0 || builder.maxFeatures >= numFeature {
		return features
	}
	builder.rng.Shuffle(numFeature, func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	return features[:builder.maxFeatures]
}

type valueIndex struct {
	value float32
	index int
}

// gini is the binary gini impurity of weighted counts.
func gini(pos, total float32) float32 {
	if total == 0 {
		return 0
	}
	p := pos / total
	return 2 * p * (1 - p)
}

// leafProb is the weighted positive rate of a leaf. Leaves whose samples all
// have zero weight fall back to the unweighted rate.
func leafProb(posWeight, totalWeight float32, posCount, count int) float32 {
	if totalWeight > 0 {
		return posWeight / totalWeight
	}
	if count > 0 {
		return float32(posCount) / float32(count)
	}
	return 0.5
}
