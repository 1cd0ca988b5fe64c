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

package dataset

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
)

// InvalidFractionError reports a split fraction outside the open interval
// (0, 1). It terminates the split.
type InvalidFractionError struct {
	Fraction float64
}

func (e *InvalidFractionError) Error() string {
	return fmt.Sprintf("split fraction must be in (0, 1): %v", e.Fraction)
}

// Split partitions the table into a training set holding fraction of the rows
// and a validation set holding the rest. The same fraction and seed always
// produce the same partition. Both sides keep the original row order.
func (t *Table) Split(fraction float64, seed int64) (*Table, *Table, error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, errors.Trace(&InvalidFractionError{Fraction: fraction})
	}
	numRow := t.NumRow()
	numTrain := int(fraction * float64(numRow))
	rng := base.NewRandomGenerator(seed)
	sampledIndex := mapset.NewSet(rng.Sample(0, numRow, numTrain)...)
	trainIndex := make([]int, 0, numTrain)
	validIndex := make([]int, 0, numRow-numTrain)
	for i := 0; i < numRow; i++ {
		if sampledIndex.Contains(i) {
			trainIndex = append(trainIndex, i)
		} else {
			validIndex = append(validIndex, i)
		}
	}
	trainSet := t.SubSet(trainIndex)
	validSet := t.SubSet(validIndex)
	log.Logger().Debug("split dataset",
		zap.Float64("fraction", fraction),
		zap.Int64("seed", seed),
		zap.Int("n_train", trainSet.NumRow()),
		zap.Int("n_valid", validSet.NumRow()))
	return trainSet, validSet, nil
}
