// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/hex"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.SetOutput(io.Discard)
	for _, f := range []cli.Flag{
		configFileFlag, dataDirFlag, apiAddrFlag, apiCorsFlag, apiResultsLimitFlag, enableAPILogsFlag,
		callGasLimitFlag, slashRewardDivisorFlag, beaconKeyFlag, beaconKeyFileFlag, verbosityFlag,
		enableMetricsFlag, metricsAddrFlag,
	} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newContext(t, "--data-dir", "/tmp/oracle"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/oracle", cfg.DataDir)
	assert.Equal(t, apiAddrFlag.Value, cfg.API.Addr)
	assert.Equal(t, callGasLimitFlag.Value, cfg.Oracle.CallGasLimit)
	assert.Equal(t, filepath.Join("/tmp/oracle", "beacon.key"), cfg.Beacon.KeyFile)
}

func TestLoadConfigFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oracle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data-dir: /var/lib/oracle
verbosity: 4
oracle:
  call-gas-limit: 500000
  slash-reward-divisor: 4
api:
  addr: 0.0.0.0:9000
  results-limit: 50
metrics:
  enabled: true
beacon:
  key-file: /etc/oracle/beacon.key
`), 0o600))

	cfg, err := loadConfig(newContext(t, "--config", path, "--api-addr", "localhost:9100"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/oracle", cfg.DataDir)
	assert.Equal(t, 4, cfg.Verbosity)
	assert.Equal(t, uint64(500000), cfg.Oracle.CallGasLimit)
	assert.Equal(t, uint64(4), cfg.Oracle.SlashRewardDivisor)
	assert.Equal(t, "localhost:9100", cfg.API.Addr)
	assert.Equal(t, uint64(50), cfg.API.ResultsLimit)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, metricsAddrFlag.Value, cfg.Metrics.Addr)
	assert.Equal(t, "/etc/oracle/beacon.key", cfg.Beacon.KeyFile)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := loadConfig(newContext(t, "--slash-reward-divisor", "0"))
	assert.Error(t, err)

	_, err = loadConfig(newContext(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestLoadBeaconKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	loaded, err := loadBeaconKey(&BeaconConfig{Key: "0x" + hex.EncodeToString(crypto.FromECDSA(key))})
	require.NoError(t, err)
	assert.Equal(t, key.D, loaded.D)

	_, err = loadBeaconKey(&BeaconConfig{Key: "not a key"})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "keys", "beacon.key")
	generated, err := loadBeaconKey(&BeaconConfig{KeyFile: file})
	require.NoError(t, err)
	again, err := loadBeaconKey(&BeaconConfig{KeyFile: file})
	require.NoError(t, err)
	assert.Equal(t, generated.D, again.D)
}
