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
	"sort"

	"go.uber.org/zap"
	"modernc.org/sortutil"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/copier"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
)

// DefaultCutoff converts probabilities to class labels. Ties at the cutoff
// count as positive.
const DefaultCutoff float32 = 0.5

// EvaluateClassification evaluates predicted probabilities against binary
// labels at the given cutoff.
func EvaluateClassification(predictions, labels []float32, cutoff float32) Score {
	var posPrediction, negPrediction []float32
	for i, label := range labels {
		if label > 0 {
			posPrediction = append(posPrediction, predictions[i])
		} else {
			negPrediction = append(negPrediction, predictions[i])
		}
	}
	if len(labels) == 0 {
		return Score{}
	}
	return Score{
		Precision: Precision(posPrediction, negPrediction, cutoff),
		Recall:    Recall(posPrediction, negPrediction, cutoff),
		Accuracy:  Accuracy(posPrediction, negPrediction, cutoff),
		AUC:       AUC(posPrediction, negPrediction),
	}
}

func Precision(posPrediction, negPrediction []float32, cutoff float32) float32 {
	var tp, fp float32
	for _, p := range posPrediction {
		if p >= cutoff { // true positive
			tp++
		}
	}
	for _, p := range negPrediction {
		if p >= cutoff { // false positive
			fp++
		}
	}
	if tp+fp == 0 {
		return 0
	}
	return tp / (tp + fp)
}

func Recall(posPrediction, _ []float32, cutoff float32) float32 {
	var tp, fn float32
	for _, p := range posPrediction {
		if p >= cutoff { // true positive
			tp++
		} else { // false negative
			fn++
		}
	}
	if tp+fn == 0 {
		return 0
	}
	return tp / (tp + fn)
}

func Accuracy(posPrediction, negPrediction []float32, cutoff float32) float32 {
	var correct float32
	for _, p := range posPrediction {
		if p >= cutoff {
			correct++
		}
	}
	for _, p := range negPrediction {
		if p < cutoff {
			correct++
		}
	}
	if len(posPrediction)+len(negPrediction) == 0 {
		return 0
	}
	return correct / float32(len(posPrediction)+len(negPrediction))
}

func AUC(posPrediction, negPrediction []float32) float32 {
	sort.Sort(sortutil.Float32Slice(posPrediction))
	sort.Sort(sortutil.Float32Slice(negPrediction))
	var sum float32
	var nPos int
	for pPos := range posPrediction {
		// find the negative sample with the greatest prediction less than current positive sample
		for nPos < len(negPrediction) && negPrediction[nPos] < posPrediction[pPos] {
			nPos++
		}
		// add the number of negative samples have less prediction than current positive sample
		sum += float32(nPos)
	}
	if len(posPrediction)*len(negPrediction) == 0 {
		return 0
	}
	return sum / float32(len(posPrediction)*len(negPrediction))
}

// SnapshotManager manages the best snapshot.
type SnapshotManager struct {
	BestWeights []interface{}
	BestScore   Score
}

// AddSnapshot adds a copied snapshot.
func (sm *SnapshotManager) AddSnapshot(score Score, weights ...interface{}) {
	if sm.BestWeights == nil || score.BetterThan(sm.BestScore) {
		sm.BestScore = score
		if err := copier.Copy(&sm.BestWeights, weights); err != nil {
			log.Logger().Error("failed to copy weights", zap.Error(err))
		}
	}
}
