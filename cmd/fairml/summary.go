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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/report"
)

func init() {
	rootCommand.AddCommand(summaryCommand)
}

var summaryCommand = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the dataset and its group base rates",
	Run: func(cmd *cobra.Command, args []string) {
		conf, _ := globalConfig(cmd)
		table, err := dataset.LoadCSV(conf.Data.Path, &dataset.LoadOptions{
			Required: []string{conf.Data.Label, conf.Data.Protected},
		})
		if err != nil {
			log.Logger().Fatal("failed to load dataset", zap.Error(err))
		}
		summary, err := table.Summarize()
		if err != nil {
			log.Logger().Fatal("failed to summarize dataset", zap.Error(err))
		}
		fmt.Printf("Summary of %s (%d rows):\n", conf.Data.Path, summary.NumRow)
		if err = report.RenderSummary(os.Stdout, summary); err != nil {
			log.Logger().Fatal("failed to render table", zap.Error(err))
		}
		rates, err := table.GroupBaseRates(conf.Data.Protected, conf.Data.Label, conf.Data.Positive)
		if err != nil {
			log.Logger().Fatal("failed to compute base rates", zap.Error(err))
		}
		fmt.Printf("Base rate per %s:\n", conf.Data.Protected)
		if err = report.RenderGroupRates(os.Stdout, rates); err != nil {
			log.Logger().Fatal("failed to render table", zap.Error(err))
		}
	},
}
