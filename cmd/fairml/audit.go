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
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/fairness"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/model"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/report"
)

func init() {
	rootCommand.AddCommand(auditCommand)
	auditCommand.PersistentFlags().Int("verbose", 10, "verbose period")
	auditCommand.PersistentFlags().IntP("jobs", "j", runtime.NumCPU(), "number of jobs for model fitting")
}

var auditCommand = &cobra.Command{
	Use:   "audit",
	Short: "Audit classifier families for group parity",
	Run: func(cmd *cobra.Command, args []string) {
		conf, metaData := globalConfig(cmd)
		// load dataset
		table, err := dataset.LoadCSV(conf.Data.Path, &dataset.LoadOptions{
			Required: []string{conf.Data.Label, conf.Data.Protected},
		})
		if err != nil {
			log.Logger().Fatal("failed to load dataset", zap.Error(err))
		}
		rates, err := table.GroupBaseRates(conf.Data.Protected, conf.Data.Label, conf.Data.Positive)
		if err != nil {
			log.Logger().Fatal("failed to compute base rates", zap.Error(err))
		}
		fmt.Printf("Base rate per %s:\n", conf.Data.Protected)
		if err = report.RenderGroupRates(os.Stdout, rates); err != nil {
			log.Logger().Fatal("failed to render table", zap.Error(err))
		}
		// split dataset
		trainSet, testSet, err := table.Split(conf.Split.Fraction, conf.Split.Seed)
		if err != nil {
			log.Logger().Fatal("failed to split dataset", zap.Error(err))
		}
		// load runtime options
		fitConfig := model.NewFitConfig().
			SetLabel(conf.Data.Label, conf.Data.Positive).
			SetDrop(conf.Data.Drop...)
		fitConfig.Verbose, _ = cmd.PersistentFlags().GetInt("verbose")
		fitConfig.Jobs, _ = cmd.PersistentFlags().GetInt("jobs")
		// reweighing weights
		if conf.Audit.Reweigh {
			protected, err := trainSet.Strings(conf.Data.Protected)
			if err != nil {
				log.Logger().Fatal("failed to read protected attribute", zap.Error(err))
			}
			labels, err := trainSet.Labels(conf.Data.Label, conf.Data.Positive)
			if err != nil {
				log.Logger().Fatal("failed to read labels", zap.Error(err))
			}
			weights, err := fairness.ComputeWeights(protected, labels)
			if err != nil {
				log.Logger().Fatal("failed to compute reweighing weights", zap.Error(err))
			}
			fitConfig.SetWeights(weights)
			cells, err := fairness.CellWeights(protected, labels)
			if err != nil {
				log.Logger().Fatal("failed to compute reweighing cells", zap.Error(err))
			}
			fmt.Println("Reweighing cells:")
			if err = report.RenderCellWeights(os.Stdout, cells); err != nil {
				log.Logger().Fatal("failed to render table", zap.Error(err))
			}
		}
		// evaluation options
		metrics := make([]fairness.Metric, len(conf.Audit.Metrics))
		for i, name := range conf.Audit.Metrics {
			if metrics[i], err = fairness.ParseMetric(name); err != nil {
				log.Logger().Fatal("failed to parse metric", zap.Error(err))
			}
		}
		evalConfig := fairness.NewEvalConfig(conf.Audit.Privileged).
			SetCutoff(float32(conf.Audit.Cutoff))
		testProtected, err := testSet.Strings(conf.Data.Protected)
		if err != nil {
			log.Logger().Fatal("failed to read protected attribute", zap.Error(err))
		}
		testLabels, err := testSet.Labels(conf.Data.Label, conf.Data.Positive)
		if err != nil {
			log.Logger().Fatal("failed to read labels", zap.Error(err))
		}
		if err = os.MkdirAll(conf.Audit.Output, os.ModePerm); err != nil {
			log.Logger().Fatal("failed to create output directory", zap.Error(err))
		}
		// fit and evaluate each classifier family
		params := conf.Params.ToParams(metaData)
		scores := make([]report.ModelScore, 0, len(conf.Audit.Models))
		result := fairness.NewFairnessReport()
		bar := progressbar.Default(int64(len(conf.Audit.Models)), "audit")
		for _, name := range conf.Audit.Models {
			t, err := model.ParseType(name)
			if err != nil {
				log.Logger().Fatal("failed to parse classifier type", zap.Error(err))
			}
			m, err := model.NewClassifier(t, params)
			if err != nil {
				log.Logger().Fatal("failed to create classifier", zap.Error(err))
			}
			score, err := m.Fit(context.Background(), trainSet, testSet, fitConfig)
			if err != nil {
				log.Logger().Fatal("failed to fit classifier",
					zap.String("model", name), zap.Error(err))
			}
			scores = append(scores, report.ModelScore{Name: name, Score: score})
			predictions, err := m.Predict(testSet)
			if err != nil {
				log.Logger().Fatal("failed to predict",
					zap.String("model", name), zap.Error(err))
			}
			reports, err := fairness.EvaluateAll(predictions, testLabels, testProtected, metrics, evalConfig)
			if err != nil {
				log.Logger().Warn("some groups were dropped from the report",
					zap.String("model", name), zap.Error(err))
			}
			result.Add(name, reports...)
			_ = bar.Add(1)
		}
		_ = bar.Finish()
		// render scores and fairness reports
		fmt.Println("Scores:")
		if err = report.RenderScores(os.Stdout, scores); err != nil {
			log.Logger().Fatal("failed to render table", zap.Error(err))
		}
		for _, name := range result.Models {
			for _, metric := range metrics {
				r, seen := result.Report(name, metric)
				if !seen {
					continue
				}
				fmt.Printf("%s %s (%s):\n", name, metric, metric.Description())
				if err = report.RenderTable(os.Stdout, r); err != nil {
					log.Logger().Fatal("failed to render table", zap.Error(err))
				}
				path := filepath.Join(conf.Audit.Output, fmt.Sprintf("%s-%s.png", name, metric))
				if err = report.SavePlot(r, path); err != nil {
					log.Logger().Error("failed to save plot",
						zap.String("path", path), zap.Error(err))
				}
			}
		}
		log.Logger().Info("audit complete",
			zap.Int("n_models", len(conf.Audit.Models)),
			zap.Int("n_metrics", len(metrics)),
			zap.String("output", conf.Audit.Output))
	},
}
