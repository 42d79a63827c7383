// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/thor-oracle/oracle"
)

type APIConfig struct {
	Addr                 string `yaml:"addr"`
	Cors                 string `yaml:"cors"`
	ResultsLimit         uint64 `yaml:"results-limit"`
	EnableLogs           bool   `yaml:"enable-logs"`
	SlowQueriesThreshold uint64 `yaml:"slow-queries-threshold"`
	Log5xxErrors         bool   `yaml:"log-5xx-errors"`
	Pprof                bool   `yaml:"pprof"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type BeaconConfig struct {
	Key     string `yaml:"key"`
	KeyFile string `yaml:"key-file"`
}

// Config is the node configuration. Values come from flag defaults, then the config file,
// then flags set on the command line or through the environment.
type Config struct {
	Oracle    oracle.Config `yaml:"oracle"`
	DataDir   string        `yaml:"data-dir"`
	API       APIConfig     `yaml:"api"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Beacon    BeaconConfig  `yaml:"beacon"`
	Verbosity int           `yaml:"verbosity"`
}

func defaultConfig() *Config {
	cfg := &Config{
		Oracle:  oracle.DefaultConfig(),
		DataDir: dataDirFlag.Value,
		API: APIConfig{
			Addr:         apiAddrFlag.Value,
			ResultsLimit: apiResultsLimitFlag.Value,
		},
		Metrics: MetricsConfig{
			Addr: metricsAddrFlag.Value,
		},
		Verbosity: verbosityFlag.Value,
	}
	cfg.Oracle.CallGasLimit = callGasLimitFlag.Value
	cfg.Oracle.SlashRewardDivisor = slashRewardDivisorFlag.Value
	return cfg
}

// loadConfigFile overlays the YAML file at path on cfg. Keys absent from the file keep their value.
func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

func applyFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) {
		cfg.API.Addr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.API.Cors = ctx.String(apiCorsFlag.Name)
	}
	if ctx.IsSet(apiResultsLimitFlag.Name) {
		cfg.API.ResultsLimit = ctx.Uint64(apiResultsLimitFlag.Name)
	}
	if ctx.IsSet(enableAPILogsFlag.Name) {
		cfg.API.EnableLogs = ctx.Bool(enableAPILogsFlag.Name)
	}
	if ctx.IsSet(apiSlowQueriesThresholdFlag.Name) {
		cfg.API.SlowQueriesThreshold = ctx.Uint64(apiSlowQueriesThresholdFlag.Name)
	}
	if ctx.IsSet(apiLog5xxErrorsFlag.Name) {
		cfg.API.Log5xxErrors = ctx.Bool(apiLog5xxErrorsFlag.Name)
	}
	if ctx.IsSet(pprofFlag.Name) {
		cfg.API.Pprof = ctx.Bool(pprofFlag.Name)
	}
	if ctx.IsSet(callGasLimitFlag.Name) {
		cfg.Oracle.CallGasLimit = ctx.Uint64(callGasLimitFlag.Name)
	}
	if ctx.IsSet(slashRewardDivisorFlag.Name) {
		cfg.Oracle.SlashRewardDivisor = ctx.Uint64(slashRewardDivisorFlag.Name)
	}
	if ctx.IsSet(beaconKeyFlag.Name) {
		cfg.Beacon.Key = ctx.String(beaconKeyFlag.Name)
	}
	if ctx.IsSet(beaconKeyFileFlag.Name) {
		cfg.Beacon.KeyFile = ctx.String(beaconKeyFileFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(enableMetricsFlag.Name) {
		cfg.Metrics.Enabled = ctx.Bool(enableMetricsFlag.Name)
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		cfg.Metrics.Addr = ctx.String(metricsAddrFlag.Name)
	}
}

func loadConfig(ctx *cli.Context) (*Config, error) {
	cfg := defaultConfig()
	if path := ctx.String(configFileFlag.Name); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyFlags(ctx, cfg)

	if cfg.Beacon.Key == "" && cfg.Beacon.KeyFile == "" {
		cfg.Beacon.KeyFile = filepath.Join(cfg.DataDir, "beacon.key")
	}
	if err := cfg.Oracle.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
