// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/state"
	"github.com/vechain/thor-oracle/thor"
)

// Config of the oracle.
type Config struct {
	// CallGasLimit bounds the storage work of a single call; 0 means unlimited.
	CallGasLimit uint64 `yaml:"call-gas-limit"`
	// SlashRewardDivisor: a successful challenger receives stake/SlashRewardDivisor of the slashed proposer.
	SlashRewardDivisor uint64 `yaml:"slash-reward-divisor"`
	// StateCacheSize is the number of committed storage slots cached in memory.
	StateCacheSize int `yaml:"state-cache-size"`
}

func DefaultConfig() Config {
	return Config{
		CallGasLimit:       thor.DefaultCallGasLimit,
		SlashRewardDivisor: thor.DefaultSlashRewardDivisor,
		StateCacheSize:     state.DefaultCacheSize,
	}
}

func (c Config) Validate() error {
	if c.SlashRewardDivisor == 0 {
		return errors.New("slash reward divisor must be positive")
	}
	if c.StateCacheSize < 0 {
		return errors.New("state cache size must not be negative")
	}
	return nil
}
