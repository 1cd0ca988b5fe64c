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

package fairness

import (
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
)

// SampleWeights is a per-row training weight vector aligned 1:1 with dataset
// rows. Weights are consumed by the model trainer through
// model.FitConfig.SetWeights.
type SampleWeights []float32

type cell struct {
	group    string
	positive bool
}

type cellCounts struct {
	groups []string // first-appearance order
	group  map[string]float32
	label  map[bool]float32
	cell   map[cell]float32
	total  float32
}

func countCells(protected []string, labels []float32) (*cellCounts, error) {
	if len(protected) != len(labels) {
		return nil, errors.NotValidf("%d protected values against %d labels", len(protected), len(labels))
	}
	if len(protected) == 0 {
		return nil, errors.NotValidf("reweighing an empty dataset")
	}
	counts := &cellCounts{
		group: make(map[string]float32),
		label: make(map[bool]float32),
		cell:  make(map[cell]float32),
		total: float32(len(protected)),
	}
	for i, group := range protected {
		if _, seen := counts.group[group]; !seen {
			counts.groups = append(counts.groups, group)
		}
		positive := labels[i] > 0
		counts.group[group]++
		counts.label[positive]++
		counts.cell[cell{group, positive}]++
	}
	return counts, nil
}

// weight returns the reweighing weight of a cell, 0 for unobserved cells.
func (counts *cellCounts) weight(c cell) float32 {
	observed := counts.cell[c]
	if observed == 0 {
		return 0
	}
	return counts.group[c.group] * counts.label[c.positive] / (counts.total * observed)
}

// ComputeWeights computes reweighing sample weights from a protected
// attribute and a binary label. The weight of a row in cell (group, label) is
// the expected proportion of the cell under independence of the protected
// attribute and the label, divided by its observed proportion:
//
//	w = count(group) * count(label) / (n * count(group, label))
//
// After weighting, the label distribution is the same in every group, so the
// training objective no longer rewards predicting the label from the
// protected attribute.
func ComputeWeights(protected []string, labels []float32) (SampleWeights, error) {
	counts, err := countCells(protected, labels)
	if err != nil {
		return nil, errors.Trace(err)
	}
	weights := make(SampleWeights, len(protected))
	for i, group := range protected {
		weights[i] = counts.weight(cell{group, labels[i] > 0})
	}
	log.Logger().Debug("computed reweighing weights",
		zap.Int("n_rows", len(weights)),
		zap.Int("n_groups", len(counts.groups)),
		zap.Int("n_cells", len(counts.cell)))
	return weights, nil
}

// CellWeight is the reweighing weight of one (group, label) cell.
type CellWeight struct {
	Group    string
	Positive bool
	Count    int     // observed rows in the cell
	Weight   float32 // weight applied to each row of the cell
}

// CellWeights returns the reweighing table with one entry per (group, label)
// cell, groups in first-appearance order and the negative label cell first
// within each group. A cell with no observed rows has weight 0, it never
// fails on division.
func CellWeights(protected []string, labels []float32) ([]CellWeight, error) {
	counts, err := countCells(protected, labels)
	if err != nil {
		return nil, errors.Trace(err)
	}
	cells := make([]CellWeight, 0, 2*len(counts.groups))
	for _, group := range counts.groups {
		for _, positive := range []bool{false, true} {
			c := cell{group, positive}
			cells = append(cells, CellWeight{
				Group:    group,
				Positive: positive,
				Count:    int(counts.cell[c]),
				Weight:   counts.weight(c),
			})
		}
	}
	return cells, nil
}

// GroupLabelRate is the weighted positive label rate of one protected group.
type GroupLabelRate struct {
	Group string
	Rate  float32 // weighted share of positive labels within the group
}

// GroupLabelRates computes the weighted positive label rate per group, in
// first-appearance order. Under weights from ComputeWeights the rate is equal
// across groups.
func (weights SampleWeights) GroupLabelRates(protected []string, labels []float32) ([]GroupLabelRate, error) {
	if len(weights) != len(protected) || len(protected) != len(labels) {
		return nil, errors.NotValidf("%d weights against %d protected values and %d labels",
			len(weights), len(protected), len(labels))
	}
	type mass struct {
		positive float32
		total    float32
	}
	index := make(map[string]*mass)
	var groups []string
	for i, group := range protected {
		m, seen := index[group]
		if !seen {
			m = &mass{}
			index[group] = m
			groups = append(groups, group)
		}
		m.total += weights[i]
		if labels[i] > 0 {
			m.positive += weights[i]
		}
	}
	rates := make([]GroupLabelRate, len(groups))
	for i, group := range groups {
		rates[i].Group = group
		if m := index[group]; m.total > 0 {
			rates[i].Rate = m.positive / m.total
		}
	}
	return rates, nil
}
