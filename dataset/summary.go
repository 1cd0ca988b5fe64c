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
	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/montanaflynn/stats"
)

// ColumnSummary describes one column of a table.
type ColumnSummary struct {
	Name    string
	Type    ColumnType
	Count   int     // non-missing values
	Missing int     // missing values
	Mean    float64 // numeric columns
	StdDev  float64
	Min     float64
	Max     float64
	Levels  int    // categorical columns
	Mode    string // most frequent level
}

// Summary describes a table column by column.
type Summary struct {
	NumRow  int
	Columns []ColumnSummary
}

// Summarize computes per-column summary statistics.
func (t *Table) Summarize() (*Summary, error) {
	summary := &Summary{NumRow: t.NumRow()}
	for _, column := range t.columns {
		s := ColumnSummary{Name: column.Name, Type: column.Type}
		switch column.Type {
		case Numeric:
			values := make(stats.Float64Data, 0, len(column.Nums))
			for _, v := range column.Nums {
				if math32.IsNaN(v) {
					s.Missing++
				} else {
					values = append(values, float64(v))
				}
			}
			s.Count = len(values)
			if s.Count > 0 {
				var err error
				if s.Mean, err = stats.Mean(values); err != nil {
					return nil, errors.Trace(err)
				}
				if s.StdDev, err = stats.StandardDeviation(values); err != nil {
					return nil, errors.Trace(err)
				}
				if s.Min, err = stats.Min(values); err != nil {
					return nil, errors.Trace(err)
				}
				if s.Max, err = stats.Max(values); err != nil {
					return nil, errors.Trace(err)
				}
			}
		case Boolean:
			s.Count = len(column.Bools)
			positive := 0
			for _, v := range column.Bools {
				if v {
					positive++
				}
			}
			s.Mean = float64(positive) / float64(len(column.Bools))
			s.Levels = 2
		case Categorical:
			s.Count = len(column.Cats)
			counts := make(map[string]int)
			for _, v := range column.Cats {
				counts[v]++
			}
			s.Levels = len(counts)
			best := -1
			for level, count := range counts {
				if count > best || (count == best && level < s.Mode) {
					best = count
					s.Mode = level
				}
			}
		}
		summary.Columns = append(summary.Columns, s)
	}
	return summary, nil
}

// GroupRate is the positive label rate of one protected group.
type GroupRate struct {
	Group    string
	Count    int
	Positive int
	Rate     float64
}

// GroupBaseRates computes the positive label rate per protected group, in
// first-appearance order of the groups.
func (t *Table) GroupBaseRates(protected, label, positive string) ([]GroupRate, error) {
	groups, err := t.Strings(protected)
	if err != nil {
		return nil, errors.Trace(err)
	}
	labels, err := t.Labels(label, positive)
	if err != nil {
		return nil, errors.Trace(err)
	}
	index := make(map[string]int)
	var rates []GroupRate
	for i, group := range groups {
		j, exist := index[group]
		if !exist {
			j = len(rates)
			index[group] = j
			rates = append(rates, GroupRate{Group: group})
		}
		rates[j].Count++
		if labels[i] == 1 {
			rates[j].Positive++
		}
	}
	for i := range rates {
		rates[i].Rate = float64(rates[i].Positive) / float64(rates[i].Count)
	}
	return rates, nil
}
