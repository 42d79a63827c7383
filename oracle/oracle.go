// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package oracle serializes the caller-facing operations of the Schelling-point oracle and runs
// each of them as one atomic, gas-bounded state transition.
package oracle

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/beacon"
	"github.com/vechain/thor-oracle/builtin/arbiter"
	"github.com/vechain/thor-oracle/builtin/ballot"
	"github.com/vechain/thor-oracle/builtin/dispute"
	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/gascharger"
	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/builtin/staker"
	"github.com/vechain/thor-oracle/builtin/token"
	"github.com/vechain/thor-oracle/kv"
	"github.com/vechain/thor-oracle/log"
	"github.com/vechain/thor-oracle/resultdb"
	"github.com/vechain/thor-oracle/state"
	"github.com/vechain/thor-oracle/thor"
)

var logger = log.WithContext("pkg", "oracle")

// Oracle owns the contract state. Calls are applied one at a time.
type Oracle struct {
	mu      sync.Mutex
	config  Config
	state   *state.State
	beacon  beacon.Beacon
	results *resultdb.ResultDB
}

type Option func(*Oracle)

// WithResultDB records every finalized epoch in db.
func WithResultDB(db *resultdb.ResultDB) Option {
	return func(o *Oracle) {
		o.results = db
	}
}

func New(db kv.Store, b beacon.Beacon, config Config, opts ...Option) (*Oracle, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	st, err := state.New(db, config.StateCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "open state")
	}
	o := &Oracle{
		config: config,
		state:  st,
		beacon: b,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *Oracle) Config() Config {
	return o.config
}

// contracts are the built-in contracts bound to the state and gas meter of one call.
type contracts struct {
	charger *gascharger.Charger
	token   *token.Ledger
	clock   *epoch.Clock
	stakers *staker.Registry
	ballot  *ballot.Ledger
	dispute *dispute.Engine
	arbiter *arbiter.Arbiter
}

func (o *Oracle) bind(charger *gascharger.Charger) *contracts {
	ctx := func(addr thor.Address) *solidity.Context {
		return solidity.NewContext(addr, o.state, charger.Charge)
	}
	c := &contracts{charger: charger}
	c.token = token.New(ctx(thor.TokenAddress), thor.StakePoolHolder)
	c.clock = epoch.New(ctx(thor.EpochAddress))
	c.stakers = staker.New(ctx(thor.StakerAddress), c.token)
	c.ballot = ballot.New(ctx(thor.BallotAddress), c.clock, c.stakers)
	c.dispute = dispute.New(ctx(thor.DisputeAddress), c.clock, c.stakers, c.ballot)
	c.arbiter = arbiter.New(ctx(thor.ArbiterAddress), c.clock, c.stakers, c.ballot, c.dispute, c.token, o.config.SlashRewardDivisor)
	return c
}

// exec runs fn against a fresh gas meter, turning an out-of-gas abort into a revert.
func (o *Oracle) exec(charger *gascharger.Charger, fn func(c *contracts) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if !gascharger.IsOutOfGas(r) {
				panic(r)
			}
			err = reverts.OutOfGas.Withf("limit %d", charger.Limit())
		}
	}()
	return fn(o.bind(charger))
}

// atomic runs fn as one state transition: every write is committed, or none is.
// The caller must hold o.mu.
func (o *Oracle) atomic(op string, fn func(c *contracts) error) error {
	charger := gascharger.New(o.config.CallGasLimit)
	checkpoint := o.state.NewCheckpoint()

	err := o.exec(charger, fn)
	if err == nil {
		if err = o.state.Commit(); err != nil {
			logger.Error("failed to commit state", "op", op, "err", err)
		}
	}
	if err != nil {
		o.state.RevertTo(checkpoint)
	}

	result := "ok"
	switch {
	case err == nil:
		logger.Info("call applied", "op", op, "gas", charger.TotalGas())
	case reverts.IsRevertErr(err):
		result = reverts.CodeOf(err)
		logger.Info("call reverted", "op", op, "gas", charger.TotalGas(), "error", err)
	default:
		result = "error"
		logger.Error("call failed", "op", op, "err", err)
	}
	logger.Trace("gas breakdown", "op", op, "breakdown", charger.Breakdown())
	metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": result})
	metricCallGas().Observe(int64(charger.TotalGas()))
	return err
}

// call serializes an atomic operation.
func (o *Oracle) call(op string, fn func(c *contracts) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.atomic(op, fn)
}

// view runs a read without gas limit and discards anything it might have written.
func (o *Oracle) view(fn func(c *contracts) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	checkpoint := o.state.NewCheckpoint()
	defer o.state.RevertTo(checkpoint)
	return fn(o.bind(gascharger.New(0)))
}
