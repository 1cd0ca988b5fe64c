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
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/model"
)

func init() {
	rootCommand.AddCommand(testCommand)
	testCommand.PersistentFlags().Int("verbose", 10, "verbose period")
	testCommand.PersistentFlags().IntP("jobs", "j", runtime.NumCPU(), "number of jobs for model fitting")
	for _, paramFlag := range paramFlags {
		testCommand.PersistentFlags().String(paramFlag.Name, "", paramFlag.Help)
	}
}

/* Flags for parameters */

const (
	intFlag     = 0
	float64Flag = 1
)

type paramFlag struct {
	Type int
	Key  model.ParamName
	Name string
	Help string
}

var paramFlags = []paramFlag{
	{float64Flag, model.Lr, "lr", "Learning rate"},
	{float64Flag, model.Reg, "reg", "Regularization strength"},
	{intFlag, model.NEpochs, "n-epochs", "Number of epochs"},
	{float64Flag, model.InitStdDev, "init-std", "Standard deviation of gaussian initial parameters"},
	{intFlag, model.NTrees, "n-trees", "Number of trees in a forest"},
	{intFlag, model.MaxDepth, "max-depth", "Maximum tree depth"},
	{intFlag, model.MinSamplesLeaf, "min-samples-leaf", "Minimum weighted samples in a leaf"},
	{intFlag, model.MaxFeatures, "max-features", "Number of features sampled per split"},
	{intFlag, model.RandomState, "random-state", "Random state (seed)"},
}

func parseParamFlags(cmd *cobra.Command) model.ParamsGrid {
	grid := make(model.ParamsGrid)
	for _, paramFlag := range paramFlags {
		if cmd.PersistentFlags().Changed(paramFlag.Name) {
			text, err := cmd.PersistentFlags().GetString(paramFlag.Name)
			if err != nil {
				log.Logger().Fatal("failed to get arguments", zap.Error(err))
			}
			grid[paramFlag.Key] = parseParamList(text, paramFlag.Type)
		}
	}
	return grid
}

func parseParamList(text string, tp int) []interface{} {
	if text == "" {
		log.Logger().Fatal("empty string for param list")
	}
	if text[0] == '[' && text[len(text)-1] == ']' {
		text = text[1 : len(text)-1]
	}
	paramTexts := strings.Split(text, ",")
	params := make([]interface{}, len(paramTexts))
	for i, paramText := range paramTexts {
		params[i] = parseParam(paramText, tp)
	}
	return params
}

func parseParam(text string, tp int) interface{} {
	switch tp {
	case intFlag:
		i, err := strconv.Atoi(text)
		if err != nil {
			log.Logger().Fatal("failed to parse param", zap.Error(err))
		}
		return i
	case float64Flag:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			log.Logger().Fatal("failed to parse param", zap.Error(err))
		}
		return f
	default:
		log.Logger().Fatal("unknown parameter type", zap.Int("type", tp))
		return nil
	}
}

var testCommand = &cobra.Command{
	Use:   "test",
	Short: "Test one classifier family, optionally over a parameter grid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		modelName := args[0]
		t, err := model.ParseType(modelName)
		if err != nil {
			log.Logger().Fatal("failed to parse classifier type",
				zap.String("name", modelName), zap.Error(err))
		}
		m, err := model.NewClassifier(t, nil)
		if err != nil {
			log.Logger().Fatal("failed to create classifier", zap.Error(err))
		}
		// load data
		conf, metaData := globalConfig(cmd)
		trainSet, testSet := loadSplit(conf)
		m.SetParams(conf.Params.ToParams(metaData))
		// load hyper-parameters grid
		grid := parseParamFlags(cmd)
		log.Logger().Info("load hyper-parameters grid", zap.Any("grid", grid))
		// load runtime options
		fitConfig := model.NewFitConfig().
			SetLabel(conf.Data.Label, conf.Data.Positive).
			SetDrop(conf.Data.Drop...)
		fitConfig.Verbose, _ = cmd.PersistentFlags().GetInt("verbose")
		fitConfig.Jobs, _ = cmd.PersistentFlags().GetInt("jobs")
		// fit, or grid search when a grid is given
		start := time.Now()
		var result model.ParamsSearchResult
		if grid.Len() == 0 {
			score, err := m.Fit(context.Background(), trainSet, testSet, fitConfig)
			if err != nil {
				log.Logger().Fatal("failed to fit classifier", zap.Error(err))
			}
			result.Scores = append(result.Scores, score)
			result.Params = append(result.Params, m.GetParams())
		} else {
			result, err = model.GridSearchCV(context.Background(), m, trainSet, testSet, grid, 0, fitConfig)
			if err != nil {
				log.Logger().Fatal("failed to search parameters", zap.Error(err))
			}
		}
		elapsed := time.Since(start)
		// render table
		table := tablewriter.NewTable(os.Stdout)
		table.Header([]string{"#", "ACCURACY", "PRECISION", "RECALL", "AUC", "PARAMS"})
		for i := range result.Params {
			score := result.Scores[i]
			if err := table.Append([]string{
				fmt.Sprintf("%v", i),
				fmt.Sprintf("%.4f", score.Accuracy),
				fmt.Sprintf("%.4f", score.Precision),
				fmt.Sprintf("%.4f", score.Recall),
				fmt.Sprintf("%.4f", score.AUC),
				result.Params[i].ToString(),
			}); err != nil {
				log.Logger().Fatal("failed to render table", zap.Error(err))
			}
		}
		if err := table.Render(); err != nil {
			log.Logger().Fatal("failed to render table", zap.Error(err))
		}
		log.Logger().Info("complete test", zap.String("time", elapsed.String()))
	},
}
