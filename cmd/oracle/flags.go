// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/thor-oracle/thor"
)

var (
	configFileFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "path to a YAML config file, flags take precedence over it",
		EnvVar: "ORACLE_CONFIG",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the state and result databases",
		EnvVar: "ORACLE_DATA_DIR",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8679",
		Usage:  "API service listening address",
		EnvVar: "ORACLE_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "ORACLE_API_CORS",
	}
	apiResultsLimitFlag = cli.Uint64Flag{
		Name:   "api-results-limit",
		Value:  1000,
		Usage:  "limit the number of results returned by /results API",
		EnvVar: "ORACLE_API_RESULTS_LIMIT",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: "ORACLE_ENABLE_API_LOGS",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "all queries with duration (ms) higher than threshold will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all requests resulting in 5xx status codes",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	callGasLimitFlag = cli.Uint64Flag{
		Name:   "call-gas-limit",
		Value:  thor.DefaultCallGasLimit,
		Usage:  "gas limit of a single oracle call (0 for unlimited)",
		EnvVar: "ORACLE_CALL_GAS_LIMIT",
	}
	slashRewardDivisorFlag = cli.Uint64Flag{
		Name:   "slash-reward-divisor",
		Value:  thor.DefaultSlashRewardDivisor,
		Usage:  "a successful challenger receives slashed stake divided by this value",
		EnvVar: "ORACLE_SLASH_REWARD_DIVISOR",
	}
	beaconKeyFlag = cli.StringFlag{
		Name:   "beacon-key",
		Usage:  "hex encoded secp256k1 private key of the randomness beacon",
		EnvVar: "ORACLE_BEACON_KEY",
	}
	beaconKeyFileFlag = cli.StringFlag{
		Name:   "beacon-key-file",
		Usage:  "file holding the beacon key, generated when missing (defaults to <data-dir>/beacon.key)",
		EnvVar: "ORACLE_BEACON_KEY_FILE",
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: "ORACLE_VERBOSITY",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "ORACLE_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: "ORACLE_METRICS_ADDR",
	}

	// simulate flags
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "path to the YAML scenario to simulate",
	}
	persistResultsFlag = cli.StringFlag{
		Name:  "results-db",
		Usage: "record the simulated result in this sqlite file",
	}

	// beacon flags
	epochFlag = cli.Uint64Flag{
		Name:  "epoch",
		Value: 1,
		Usage: "epoch to prove",
	}
)
