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

// Package report renders fairness reports, model scores and dataset
// summaries as terminal tables and plot artifacts.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/fairness"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/model"
)

// RenderTable renders one fairness report as a table. The privileged row is
// marked as base, ratios below the four-fifths threshold are flagged.
func RenderTable(w io.Writer, report *fairness.Report) error {
	table := tablewriter.NewTable(w)
	table.Header([]string{"GROUP", "N", strings.ToUpper(report.Metric.Statistic()), "RATIO", ""})
	for _, group := range report.Groups {
		note := ""
		switch {
		case group.Group == report.Privileged:
			note = "base"
		case group.Ratio < fairness.FourFifths:
			note = "< four-fifths"
		}
		if err := table.Append([]string{
			group.Group,
			strconv.Itoa(group.N),
			fmt.Sprintf("%.4f", group.Statistic),
			fmt.Sprintf("%.4f", group.Ratio),
			note,
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// ModelScore pairs a model identifier with its validation score.
type ModelScore struct {
	Name  string
	Score model.Score
}

// RenderScores renders a model comparison table.
func RenderScores(w io.Writer, scores []ModelScore) error {
	table := tablewriter.NewTable(w)
	table.Header([]string{"MODEL", "ACCURACY", "PRECISION", "RECALL", "AUC"})
	for _, score := range scores {
		if err := table.Append([]string{
			score.Name,
			fmt.Sprintf("%.4f", score.Score.Accuracy),
			fmt.Sprintf("%.4f", score.Score.Precision),
			fmt.Sprintf("%.4f", score.Score.Recall),
			fmt.Sprintf("%.4f", score.Score.AUC),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// RenderSummary renders a dataset summary table.
func RenderSummary(w io.Writer, summary *dataset.Summary) error {
	table := tablewriter.NewTable(w)
	table.Header([]string{"COLUMN", "TYPE", "COUNT", "MISSING", "MEAN", "STDDEV", "MIN", "MAX", "LEVELS", "MODE"})
	for _, column := range summary.Columns {
		row := []string{
			column.Name,
			column.Type.String(),
			strconv.Itoa(column.Count),
			strconv.Itoa(column.Missing),
			"", "", "", "", "", "",
		}
		switch column.Type {
		case dataset.Numeric:
			row[4] = fmt.Sprintf("%.4f", column.Mean)
			row[5] = fmt.Sprintf("%.4f", column.StdDev)
			row[6] = fmt.Sprintf("%.4f", column.Min)
			row[7] = fmt.Sprintf("%.4f", column.Max)
		case dataset.Boolean:
			row[4] = fmt.Sprintf("%.4f", column.Mean)
			row[8] = strconv.Itoa(column.Levels)
		case dataset.Categorical:
			row[8] = strconv.Itoa(column.Levels)
			row[9] = column.Mode
		}
		if err := table.Append(row); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// RenderGroupRates renders the positive label rate per protected group.
func RenderGroupRates(w io.Writer, rates []dataset.GroupRate) error {
	table := tablewriter.NewTable(w)
	table.Header([]string{"GROUP", "N", "POSITIVE", "RATE"})
	for _, rate := range rates {
		if err := table.Append([]string{
			rate.Group,
			strconv.Itoa(rate.Count),
			strconv.Itoa(rate.Positive),
			fmt.Sprintf("%.4f", rate.Rate),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// RenderCellWeights renders the reweighing weight per (group, label) cell.
func RenderCellWeights(w io.Writer, cells []fairness.CellWeight) error {
	table := tablewriter.NewTable(w)
	table.Header([]string{"GROUP", "LABEL", "COUNT", "WEIGHT"})
	for _, cell := range cells {
		label := "negative"
		if cell.Positive {
			label = "positive"
		}
		if err := table.Append([]string{
			cell.Group,
			label,
			strconv.Itoa(cell.Count),
			fmt.Sprintf("%.4f", cell.Weight),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
