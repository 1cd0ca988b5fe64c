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

package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/fairness"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/model"
)

func parityReport() *fairness.Report {
	return &fairness.Report{
		Metric:     fairness.PredictiveRateParity,
		Privileged: "A",
		Cutoff:     0.5,
		Groups: []fairness.GroupResult{
			{Group: "A", N: 3, Statistic: 2.0 / 3.0, Ratio: 1},
			{Group: "B", N: 3, Statistic: 0.5, Ratio: 0.75},
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buffer bytes.Buffer
	err := RenderTable(&buffer, parityReport())
	assert.NoError(t, err)
	text := buffer.String()
	assert.Contains(t, text, "PRECISION")
	assert.Contains(t, text, "base")
	assert.Contains(t, text, "< four-fifths")
	assert.Contains(t, text, "0.7500")
}

func TestRenderScores(t *testing.T) {
	scores := []ModelScore{
		{Name: "logistic", Score: model.Score{Accuracy: 0.9, Precision: 0.8, Recall: 0.7, AUC: 0.95}},
		{Name: "forest", Score: model.Score{Accuracy: 0.85, Precision: 0.75, Recall: 0.8, AUC: 0.9}},
	}
	var buffer bytes.Buffer
	err := RenderScores(&buffer, scores)
	assert.NoError(t, err)
	text := buffer.String()
	assert.Contains(t, text, "logistic")
	assert.Contains(t, text, "forest")
	assert.Contains(t, text, "0.9500")
}

func TestRenderSummary(t *testing.T) {
	summary := &dataset.Summary{
		NumRow: 4,
		Columns: []dataset.ColumnSummary{
			{Name: "age", Type: dataset.Numeric, Count: 3, Missing: 1, Mean: 30, StdDev: 5, Min: 25, Max: 37},
			{Name: "race", Type: dataset.Categorical, Count: 4, Levels: 2, Mode: "A"},
			{Name: "recid", Type: dataset.Boolean, Count: 4, Mean: 0.5, Levels: 2},
		},
	}
	var buffer bytes.Buffer
	err := RenderSummary(&buffer, summary)
	assert.NoError(t, err)
	text := buffer.String()
	assert.Contains(t, text, "age")
	assert.Contains(t, text, "categorical")
	assert.Contains(t, text, "30.0000")
}

func TestRenderGroupRates(t *testing.T) {
	rates := []dataset.GroupRate{
		{Group: "A", Count: 4, Positive: 3, Rate: 0.75},
		{Group: "B", Count: 4, Positive: 1, Rate: 0.25},
	}
	var buffer bytes.Buffer
	err := RenderGroupRates(&buffer, rates)
	assert.NoError(t, err)
	text := buffer.String()
	assert.Contains(t, text, "0.7500")
	assert.Contains(t, text, "0.2500")
}

func TestRenderCellWeights(t *testing.T) {
	cells := []fairness.CellWeight{
		{Group: "A", Positive: false, Count: 0, Weight: 0},
		{Group: "A", Positive: true, Count: 2, Weight: 2.0 / 3.0},
	}
	var buffer bytes.Buffer
	err := RenderCellWeights(&buffer, cells)
	assert.NoError(t, err)
	text := buffer.String()
	assert.Contains(t, text, "negative")
	assert.Contains(t, text, "0.6667")
}
