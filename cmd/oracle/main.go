// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/thor-oracle/api"
	"github.com/vechain/thor-oracle/beacon"
	"github.com/vechain/thor-oracle/log"
	"github.com/vechain/thor-oracle/lvldb"
	"github.com/vechain/thor-oracle/metrics"
	"github.com/vechain/thor-oracle/oracle"
	"github.com/vechain/thor-oracle/resultdb"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "oracle",
		Usage:     "Schelling-point oracle node",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFileFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiResultsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			pprofFlag,
			callGasLimitFlag,
			slashRewardDivisorFlag,
			beaconKeyFlag,
			beaconKeyFileFlag,
			verbosityFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "simulate",
				Usage: "run one complete epoch of a scenario in memory and print the outcome",
				Flags: []cli.Flag{
					scenarioFlag,
					persistResultsFlag,
					beaconKeyFlag,
					verbosityFlag,
				},
				Action: simulateAction,
			},
			{
				Name:  "beacon",
				Usage: "print the beacon address and the seed proof of an epoch",
				Flags: []cli.Flag{
					configFileFlag,
					dataDirFlag,
					beaconKeyFlag,
					beaconKeyFileFlag,
					epochFlag,
				},
				Action: beaconAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	initLogger(cfg.Verbosity)
	defer func() { logger.Info("exited") }()

	if cfg.DataDir == "" {
		return errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return errors.Wrapf(err, "create data dir [%v]", cfg.DataDir)
	}

	key, err := loadBeaconKey(&cfg.Beacon)
	if err != nil {
		return err
	}
	vrf := beacon.NewVRF(key)

	if cfg.Metrics.Enabled {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(cfg.Metrics.Addr)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", url)
	}

	stateDB, err := lvldb.New(filepath.Join(cfg.DataDir, "state"), lvldb.Options{CacheSize: 128, OpenFilesCacheCapacity: 64})
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); stateDB.Close() }()

	resultDB, err := resultdb.New(filepath.Join(cfg.DataDir, "results.db"))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing result database..."); resultDB.Close() }()

	o, err := oracle.New(stateDB, vrf, cfg.Oracle, oracle.WithResultDB(resultDB))
	if err != nil {
		return err
	}

	var reqLogs atomic.Bool
	reqLogs.Store(cfg.API.EnableLogs)
	handler := api.New(o, resultDB, api.Options{
		AllowedOrigins:       cfg.API.Cors,
		PprofOn:              cfg.API.Pprof,
		EnableReqLogger:      &reqLogs,
		SlowQueriesThreshold: time.Duration(cfg.API.SlowQueriesThreshold) * time.Millisecond,
		Log5xxErrors:         cfg.API.Log5xxErrors,
		EnableMetrics:        cfg.Metrics.Enabled,
		ResultsLimit:         cfg.API.ResultsLimit,
	})
	apiURL, stopAPI, err := startAPIServer(cfg.API.Addr, handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printStartupMessage(cfg, vrf, resultDB, apiURL)

	<-handleExitSignal().Done()
	return nil
}

func printStartupMessage(cfg *Config, vrf *beacon.VRF, resultDB *resultdb.ResultDB, apiURL string) {
	fmt.Printf(`Starting oracle %v
    Beacon       [ %v ]
    Data dir     [ %v ]
    Result db    [ sqlite %v ]
    Call gas     [ %v ]
    API portal   [ %v ]
`,
		fullVersion(),
		vrf.Address(),
		cfg.DataDir,
		resultDB.DriverVersion(),
		cfg.Oracle.CallGasLimit,
		apiURL)
}

func beaconAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	key, err := loadBeaconKey(&cfg.Beacon)
	if err != nil {
		return err
	}
	vrf := beacon.NewVRF(key)
	proof, err := vrf.Prove(ctx.Uint64(epochFlag.Name))
	if err != nil {
		return err
	}
	fmt.Printf("address: %v\n", vrf.Address())
	fmt.Printf("pk:      %x\n", crypto.CompressPubkey(vrf.PublicKey()))
	fmt.Printf("epoch:   %v\n", proof.Epoch)
	fmt.Printf("seed:    %v\n", proof.Seed().Dec())
	fmt.Printf("proof:   %v\n", hex.EncodeToString(proof.Pi))
	return nil
}
