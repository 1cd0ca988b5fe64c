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
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/juju/errors"
	"github.com/samber/lo"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/fairness"
	"github.com/ValentinoDucAnhNguyen/seminarFairML/model"
)

// Config is the configuration for an audit.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Split  SplitConfig  `toml:"split"`
	Audit  AuditConfig  `toml:"audit"`
	Params ParamsConfig `toml:"params"`
}

func (config *Config) LoadDefaultIfNil() *Config {
	if config == nil {
		return &Config{
			Data:  *(*DataConfig)(nil).LoadDefaultIfNil(),
			Split: *(*SplitConfig)(nil).LoadDefaultIfNil(),
			Audit: *(*AuditConfig)(nil).LoadDefaultIfNil(),
		}
	}
	return config
}

// DataConfig locates the dataset and names its special columns.
type DataConfig struct {
	Path      string   `toml:"path"`      // CSV source
	Label     string   `toml:"label"`     // label column
	Positive  string   `toml:"positive"`  // positive value for categorical labels
	Protected string   `toml:"protected"` // protected attribute column
	Drop      []string `toml:"drop"`      // columns excluded from the design matrix
}

func (config *DataConfig) LoadDefaultIfNil() *DataConfig {
	if config == nil {
		return &DataConfig{
			Label: "label",
		}
	}
	return config
}

// SplitConfig is the configuration for the train/test split.
type SplitConfig struct {
	Fraction float64 `toml:"fraction"` // train fraction
	Seed     int64   `toml:"seed"`     // shuffle seed
}

func (config *SplitConfig) LoadDefaultIfNil() *SplitConfig {
	if config == nil {
		return &SplitConfig{
			Fraction: 0.8,
		}
	}
	return config
}

// AuditConfig selects the classifier families to fit and the parity metrics
// to report.
type AuditConfig struct {
	Privileged string   `toml:"privileged"` // base group
	Cutoff     float64  `toml:"cutoff"`     // decision threshold
	Metrics    []string `toml:"metrics"`    // parity metrics to report
	Models     []string `toml:"models"`     // classifier families to fit
	Reweigh    bool     `toml:"reweigh"`    // fit with reweighing weights
	Output     string   `toml:"output"`     // report output directory
}

func (config *AuditConfig) LoadDefaultIfNil() *AuditConfig {
	if config == nil {
		return &AuditConfig{
			Cutoff:  float64(fairness.DefaultCutoff),
			Metrics: metricNames(),
			Models:  modelNames(),
			Output:  "reports",
		}
	}
	return config
}

// ParamsConfig overrides hyper-parameters of the fitted classifiers. Only
// keys defined in the file take effect.
type ParamsConfig struct {
	Lr             float64 `toml:"lr"`               // learning rate
	Reg            float64 `toml:"reg"`              // regularization strength
	NEpochs        int     `toml:"n_epochs"`         // number of epochs
	InitStdDev     float64 `toml:"init_std_dev"`     // standard deviation of gaussian initial parameter
	NTrees         int     `toml:"n_trees"`          // number of trees in a forest
	MaxDepth       int     `toml:"max_depth"`        // maximum tree depth
	MinSamplesLeaf int     `toml:"min_samples_leaf"` // minimum weighted samples in a leaf
	MaxFeatures    int     `toml:"max_features"`     // features sampled per split
	RandomState    int     `toml:"random_state"`     // random state (seed)
}

// ToParams converts the hyper-parameters defined in the file to model
// parameters.
func (config *ParamsConfig) ToParams(metaData *toml.MetaData) model.Params {
	type ParamValues struct {
		name  string
		key   model.ParamName
		value interface{}
	}
	values := []ParamValues{
		{"lr", model.Lr, config.Lr},
		{"reg", model.Reg, config.Reg},
		{"n_epochs", model.NEpochs, config.NEpochs},
		{"init_std_dev", model.InitStdDev, config.InitStdDev},
		{"n_trees", model.NTrees, config.NTrees},
		{"max_depth", model.MaxDepth, config.MaxDepth},
		{"min_samples_leaf", model.MinSamplesLeaf, config.MinSamplesLeaf},
		{"max_features", model.MaxFeatures, config.MaxFeatures},
		{"random_state", model.RandomState, config.RandomState},
	}
	params := model.Params{}
	for _, v := range values {
		if metaData.IsDefined("params", v.name) {
			params[v.key] = v.value
		}
	}
	return params
}

// FillDefault fill default values for missing values.
func (config *Config) FillDefault(meta toml.MetaData) {
	defaultDataConfig := *(*DataConfig)(nil).LoadDefaultIfNil()
	if !meta.IsDefined("data", "label") {
		config.Data.Label = defaultDataConfig.Label
	}
	defaultSplitConfig := *(*SplitConfig)(nil).LoadDefaultIfNil()
	if !meta.IsDefined("split", "fraction") {
		config.Split.Fraction = defaultSplitConfig.Fraction
	}
	if !meta.IsDefined("split", "seed") {
		config.Split.Seed = defaultSplitConfig.Seed
	}
	defaultAuditConfig := *(*AuditConfig)(nil).LoadDefaultIfNil()
	if !meta.IsDefined("audit", "cutoff") {
		config.Audit.Cutoff = defaultAuditConfig.Cutoff
	}
	if !meta.IsDefined("audit", "metrics") {
		config.Audit.Metrics = defaultAuditConfig.Metrics
	}
	if !meta.IsDefined("audit", "models") {
		config.Audit.Models = defaultAuditConfig.Models
	}
	if !meta.IsDefined("audit", "output") {
		config.Audit.Output = defaultAuditConfig.Output
	}
}

// Validate panics on values that cannot drive an audit.
func (config *Config) Validate() {
	validateNotBlank("data.path", config.Data.Path)
	validateNotBlank("data.label", config.Data.Label)
	validateNotBlank("data.protected", config.Data.Protected)
	validateOpenUnit("split.fraction", config.Split.Fraction)
	validateNotBlank("audit.privileged", config.Audit.Privileged)
	validateOpenUnit("audit.cutoff", config.Audit.Cutoff)
	validateNotEmpty("audit.metrics", config.Audit.Metrics)
	validateSubset("audit.metrics", config.Audit.Metrics, metricNames())
	validateNotEmpty("audit.models", config.Audit.Models)
	validateSubset("audit.models", config.Audit.Models, modelNames())
	validateNotBlank("audit.output", config.Audit.Output)
}

// LoadConfig loads configuration from toml file.
func LoadConfig(path string) (*Config, *toml.MetaData, error) {
	var conf Config
	metaData, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	conf.FillDefault(metaData)
	return &conf, &metaData, nil
}

func metricNames() []string {
	return lo.Map(fairness.Metrics, func(metric fairness.Metric, _ int) string {
		return string(metric)
	})
}

func modelNames() []string {
	return lo.Map(model.Types, func(t model.Type, _ int) string {
		return string(t)
	})
}
