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
	"runtime"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/model"
)

func init() {
	rootCommand.AddCommand(tuneCommand)
	tuneCommand.PersistentFlags().Int("n-trials", 10, "number of trials")
	tuneCommand.PersistentFlags().String("method", "tpe", "search method (tpe or random)")
	tuneCommand.PersistentFlags().Int("verbose", 10, "verbose period")
	tuneCommand.PersistentFlags().IntP("jobs", "j", runtime.NumCPU(), "number of jobs for model fitting")
}

var tuneCommand = &cobra.Command{
	Use:   "tune",
	Short: "Tune classifier families and hyper-parameters by TPE or random search",
	Run: func(cmd *cobra.Command, args []string) {
		conf, _ := globalConfig(cmd)
		trainSet, testSet := loadSplit(conf)
		// load runtime options
		fitConfig := model.NewFitConfig().
			SetLabel(conf.Data.Label, conf.Data.Positive).
			SetDrop(conf.Data.Drop...)
		fitConfig.Verbose, _ = cmd.PersistentFlags().GetInt("verbose")
		fitConfig.Jobs, _ = cmd.PersistentFlags().GetInt("jobs")
		// search families and hyper-parameters at once
		types := make([]model.Type, len(conf.Audit.Models))
		var err error
		for i, name := range conf.Audit.Models {
			if types[i], err = model.ParseType(name); err != nil {
				log.Logger().Fatal("failed to parse classifier type", zap.Error(err))
			}
		}
		nTrials, _ := cmd.PersistentFlags().GetInt("n-trials")
		method, _ := cmd.PersistentFlags().GetString("method")
		start := time.Now()
		var result model.BestResult
		switch method {
		case "tpe":
			result, err = model.FindBestModel(context.Background(),
				model.NewModelCreators(types...), trainSet, testSet, fitConfig, nTrials)
			if err != nil {
				log.Logger().Fatal("failed to search models", zap.Error(err))
			}
		case "random":
			// search each family over its default grid, keep the overall winner
			for _, t := range types {
				m, err := model.NewClassifier(t, nil)
				if err != nil {
					log.Logger().Fatal("failed to create classifier", zap.Error(err))
				}
				r, err := model.RandomSearchCV(context.Background(), m, trainSet, testSet,
					m.GetParamsGrid(false), nTrials, conf.Split.Seed, fitConfig)
				if err != nil {
					log.Logger().Fatal("failed to search parameters",
						zap.String("model", string(t)), zap.Error(err))
				}
				if result.Type == "" || r.BestScore.BetterThan(result.Score) {
					result = model.BestResult{
						Type:   string(t),
						Params: r.BestParams,
						Score:  r.BestScore,
					}
				}
			}
		default:
			log.Logger().Fatal("unknown search method", zap.String("method", method))
		}
		elapsed := time.Since(start)
		// render the winning configuration
		table := tablewriter.NewTable(os.Stdout)
		table.Header([]string{"MODEL", "ACCURACY", "PRECISION", "RECALL", "AUC", "PARAMS"})
		if err := table.Append([]string{
			result.Type,
			fmt.Sprintf("%.4f", result.Score.Accuracy),
			fmt.Sprintf("%.4f", result.Score.Precision),
			fmt.Sprintf("%.4f", result.Score.Recall),
			fmt.Sprintf("%.4f", result.Score.AUC),
			result.Params.ToString(),
		}); err != nil {
			log.Logger().Fatal("failed to render table", zap.Error(err))
		}
		if err := table.Render(); err != nil {
			log.Logger().Fatal("failed to render table", zap.Error(err))
		}
		log.Logger().Info("complete tune",
			zap.Int("n_trials", nTrials),
			zap.String("time", elapsed.String()))
	},
}
