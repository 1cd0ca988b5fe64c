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

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/cmd/version"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/config"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/dataset"
)

var rootCommand = &cobra.Command{
	Use:   "fairml",
	Short: "Fairness audit for binary classifiers on tabular datasets",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.Root().PersistentFlags(), debug)
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Check the version of fairml",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.BuildInfo())
	},
}

func init() {
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().StringP("config", "c", "fairml.toml", "configuration file path")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.AddCommand(versionCommand)
}

// globalConfig loads and validates the configuration named by --config.
func globalConfig(cmd *cobra.Command) (*config.Config, *toml.MetaData) {
	path, _ := cmd.Flags().GetString("config")
	log.Logger().Info("load config", zap.String("config", path))
	conf, metaData, err := config.LoadConfig(path)
	if err != nil {
		log.Logger().Fatal("failed to load config", zap.Error(err))
	}
	conf.Validate()
	return conf, metaData
}

// loadSplit loads the configured dataset and splits it into a train and a
// test set.
func loadSplit(conf *config.Config) (trainSet, testSet *dataset.Table) {
	table, err := dataset.LoadCSV(conf.Data.Path, &dataset.LoadOptions{
		Required: []string{conf.Data.Label, conf.Data.Protected},
	})
	if err != nil {
		log.Logger().Fatal("failed to load dataset", zap.Error(err))
	}
	trainSet, testSet, err = table.Split(conf.Split.Fraction, conf.Split.Seed)
	if err != nil {
		log.Logger().Fatal("failed to split dataset", zap.Error(err))
	}
	return trainSet, testSet
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
