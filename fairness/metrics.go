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

// Package fairness computes reweighing sample weights and group fairness
// metrics of binary classifiers.
//
// One convention applies everywhere in this package: the positive label is 1,
// predictions binarize at the cutoff with ties counted positive, and the
// privileged group is the denominator of every ratio. A ratio of 1 is parity,
// a ratio below 1 marks a group disadvantaged relative to the privileged
// group, a ratio above 1 an advantaged one. The four-fifths rule flags ratios
// below FourFifths as likely adverse impact.
package fairness

import (
	std_errors "errors"
	"fmt"

	"github.com/juju/errors"
)

const (
	// DefaultCutoff converts probabilities to class labels. Ties at the
	// cutoff count as positive.
	DefaultCutoff float32 = 0.5
	// FourFifths is the disparate-impact threshold. Ratios below it indicate
	// likely adverse impact.
	FourFifths float32 = 0.8
)

// Metric identifies a group fairness metric.
type Metric string

const (
	StatisticalParity       Metric = "statistical-parity"
	PredictiveRateParity    Metric = "predictive-rate-parity"
	EqualOpportunity        Metric = "equal-opportunity"
	FalsePositiveRateParity Metric = "false-positive-rate-parity"
	AccuracyParity          Metric = "accuracy-parity"
)

// Metrics lists all fairness metrics.
var Metrics = []Metric{
	StatisticalParity,
	PredictiveRateParity,
	EqualOpportunity,
	FalsePositiveRateParity,
	AccuracyParity,
}

// ParseMetric parses a fairness metric name.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case StatisticalParity, PredictiveRateParity, EqualOpportunity, FalsePositiveRateParity, AccuracyParity:
		return Metric(name), nil
	default:
		return "", errors.NotValidf("fairness metric %q", name)
	}
}

// Description returns a one-line description of the metric.
func (metric Metric) Description() string {
	switch metric {
	case StatisticalParity:
		return "ratio of predicted-positive rates"
	case PredictiveRateParity:
		return "ratio of precisions among predicted-positive rows"
	case EqualOpportunity:
		return "ratio of true-positive rates"
	case FalsePositiveRateParity:
		return "ratio of false-positive rates"
	case AccuracyParity:
		return "ratio of accuracies"
	default:
		return "unknown metric"
	}
}

// Statistic returns the name of the group statistic the metric compares.
func (metric Metric) Statistic() string {
	switch metric {
	case StatisticalParity:
		return "rate"
	case PredictiveRateParity:
		return "precision"
	case EqualOpportunity:
		return "tpr"
	case FalsePositiveRateParity:
		return "fpr"
	case AccuracyParity:
		return "accuracy"
	default:
		return "unknown"
	}
}

// denominator describes the rows the metric's group statistic is computed
// over, used in EmptyGroupError messages.
func (metric Metric) denominator() string {
	switch metric {
	case PredictiveRateParity:
		return "predicted-positive rows"
	case EqualOpportunity:
		return "positive rows"
	case FalsePositiveRateParity:
		return "negative rows"
	default:
		return "rows"
	}
}

// EmptyGroupError reports a protected group with no rows satisfying the
// denominator condition of the requested metric. The group is skipped,
// evaluation of the remaining groups continues.
type EmptyGroupError struct {
	Group  string
	Metric Metric
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("group %q has no %s to compute %s", e.Group, e.Metric.denominator(), e.Metric)
}

// EvalConfig carries the options of a fairness evaluation.
type EvalConfig struct {
	Privileged string  // privileged group, the ratio denominator
	Cutoff     float32 // decision threshold, 0 falls back to DefaultCutoff
}

// NewEvalConfig creates an evaluation config with the default cutoff.
func NewEvalConfig(privileged string) *EvalConfig {
	return &EvalConfig{
		Privileged: privileged,
		Cutoff:     DefaultCutoff,
	}
}

func (config *EvalConfig) SetCutoff(cutoff float32) *EvalConfig {
	config.Cutoff = cutoff
	return config
}

// GroupResult is the metric outcome of one protected group.
type GroupResult struct {
	Group     string
	N         int     // rows in the group
	Statistic float32 // the metric's group statistic
	Ratio     float32 // statistic divided by the privileged statistic
}

// Report is the outcome of one fairness metric over all protected groups.
// The privileged group comes first with a ratio of exactly 1, the remaining
// groups follow in first-appearance order.
type Report struct {
	Metric     Metric
	Privileged string
	Cutoff     float32
	Groups     []GroupResult
}

// Ratio returns the ratio of the named group.
func (r *Report) Ratio(group string) (float32, bool) {
	for _, result := range r.Groups {
		if result.Group == group {
			return result.Ratio, true
		}
	}
	return 0, false
}

// groupTally is the confusion matrix of one protected group.
type groupTally struct {
	n              int
	tp, fp, tn, fn float32
}

// statistic computes the metric's group statistic. ok is false when the
// denominator condition selects no rows.
func (t *groupTally) statistic(metric Metric) (value float32, ok bool) {
	switch metric {
	case StatisticalParity:
		return (t.tp + t.fp) / float32(t.n), t.n > 0
	case PredictiveRateParity:
		return t.tp / (t.tp + t.fp), t.tp+t.fp > 0
	case EqualOpportunity:
		return t.tp / (t.tp + t.fn), t.tp+t.fn > 0
	case FalsePositiveRateParity:
		return t.fp / (t.fp + t.tn), t.fp+t.tn > 0
	case AccuracyParity:
		return (t.tp + t.tn) / float32(t.n), t.n > 0
	default:
		return 0, false
	}
}

// Evaluate computes one fairness metric over all protected groups. Groups
// whose denominator condition selects no rows are dropped from the report and
// their EmptyGroupErrors are returned joined, alongside the report covering
// the remaining groups. A degenerate or unknown privileged group fails the
// whole metric.
func Evaluate(predictions, labels []float32, protected []string, metric Metric, config *EvalConfig) (*Report, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, errors.Trace(err)
	}
	if config == nil || config.Privileged == "" {
		return nil, errors.NotValidf("evaluation without a privileged group")
	}
	cutoff := config.Cutoff
	if cutoff == 0 {
		cutoff = DefaultCutoff
	}
	if cutoff < 0 || cutoff >= 1 {
		return nil, errors.NotValidf("cutoff %v outside (0, 1)", cutoff)
	}
	if len(predictions) != len(labels) || len(labels) != len(protected) {
		return nil, errors.NotValidf("%d predictions against %d labels and %d protected values",
			len(predictions), len(labels), len(protected))
	}
	if len(predictions) == 0 {
		return nil, errors.NotValidf("evaluating an empty dataset")
	}
	// tally confusion matrices per group
	index := make(map[string]*groupTally)
	var groups []string
	for i, group := range protected {
		tally, seen := index[group]
		if !seen {
			tally = &groupTally{}
			index[group] = tally
			groups = append(groups, group)
		}
		tally.n++
		predicted := predictions[i] >= cutoff
		actual := labels[i] > 0
		switch {
		case predicted && actual:
			tally.tp++
		case predicted && !actual:
			tally.fp++
		case !predicted && actual:
			tally.fn++
		default:
			tally.tn++
		}
	}
	// the privileged statistic is the denominator of every ratio
	privileged, seen := index[config.Privileged]
	if !seen {
		return nil, errors.NotFoundf("privileged group %q", config.Privileged)
	}
	privilegedStat, ok := privileged.statistic(metric)
	if !ok {
		return nil, errors.Trace(&EmptyGroupError{Group: config.Privileged, Metric: metric})
	}
	report := &Report{
		Metric:     metric,
		Privileged: config.Privileged,
		Cutoff:     cutoff,
		Groups: []GroupResult{{
			Group:     config.Privileged,
			N:         privileged.n,
			Statistic: privilegedStat,
			Ratio:     1,
		}},
	}
	var groupErrs []error
	for _, group := range groups {
		if group == config.Privileged {
			continue
		}
		tally := index[group]
		stat, ok := tally.statistic(metric)
		if !ok {
			groupErrs = append(groupErrs, &EmptyGroupError{Group: group, Metric: metric})
			continue
		}
		report.Groups = append(report.Groups, GroupResult{
			Group:     group,
			N:         tally.n,
			Statistic: stat,
			Ratio:     stat / privilegedStat,
		})
	}
	return report, std_errors.Join(groupErrs...)
}

// EvaluateAll computes several fairness metrics. Failing metrics are dropped
// and their errors returned joined, the remaining metrics are still computed.
func EvaluateAll(predictions, labels []float32, protected []string, metrics []Metric, config *EvalConfig) ([]*Report, error) {
	reports := make([]*Report, 0, len(metrics))
	var errs []error
	for _, metric := range metrics {
		report, err := Evaluate(predictions, labels, protected, metric, config)
		if err != nil {
			errs = append(errs, err)
		}
		if report != nil {
			reports = append(reports, report)
		}
	}
	return reports, std_errors.Join(errs...)
}

// FairnessReport aggregates the reports of several models keyed by model
// identifier and metric.
type FairnessReport struct {
	Models  []string // insertion order
	reports map[string]map[Metric]*Report
}

// NewFairnessReport creates an empty aggregation.
func NewFairnessReport() *FairnessReport {
	return &FairnessReport{
		reports: make(map[string]map[Metric]*Report),
	}
}

// Add records reports of a model. Reports of a seen (model, metric) pair are
// replaced.
func (f *FairnessReport) Add(model string, reports ...*Report) {
	byMetric, seen := f.reports[model]
	if !seen {
		byMetric = make(map[Metric]*Report)
		f.reports[model] = byMetric
		f.Models = append(f.Models, model)
	}
	for _, report := range reports {
		byMetric[report.Metric] = report
	}
}

// Report returns the report of a (model, metric) pair.
func (f *FairnessReport) Report(model string, metric Metric) (*Report, bool) {
	report, seen := f.reports[model][metric]
	return report, seen
}

// Ratio returns the ratio of a (model, metric, group) triple.
func (f *FairnessReport) Ratio(model string, metric Metric, group string) (float32, bool) {
	report, seen := f.Report(model, metric)
	if !seen {
		return 0, false
	}
	return report.Ratio(group)
}
