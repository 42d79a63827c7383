// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/thor"
)

var (
	slotEpoch = thor.BytesToBytes32([]byte("epoch"))
	slotPhase = thor.BytesToBytes32([]byte("phase"))
)

// Clock holds the current epoch and phase.
type Clock struct {
	epoch *solidity.Raw[uint64]
	phase *solidity.Raw[uint8]
}

func New(sctx *solidity.Context) *Clock {
	return &Clock{
		epoch: solidity.NewRaw[uint64](sctx, slotEpoch),
		phase: solidity.NewRaw[uint8](sctx, slotPhase),
	}
}

func (c *Clock) CurrentEpoch() (uint64, error) {
	e, err := c.epoch.Get()
	if err != nil {
		return 0, errors.Wrap(err, "get epoch")
	}
	if e == 0 {
		return thor.FirstEpoch, nil
	}
	return e, nil
}

func (c *Clock) CurrentPhase() (Phase, error) {
	p, err := c.phase.Get()
	if err != nil {
		return 0, errors.Wrap(err, "get phase")
	}
	return Phase(p), nil
}

func (c *Clock) Current() (uint64, Phase, error) {
	e, err := c.CurrentEpoch()
	if err != nil {
		return 0, 0, err
	}
	p, err := c.CurrentPhase()
	if err != nil {
		return 0, 0, err
	}
	return e, p, nil
}

// Require fails with WrongPhase unless the clock is at the given epoch and phase.
func (c *Clock) Require(epoch uint64, phase Phase) error {
	curEpoch, curPhase, err := c.Current()
	if err != nil {
		return err
	}
	if curEpoch != epoch || curPhase != phase {
		return reverts.WrongPhase.Withf("want epoch %d %s, current epoch %d %s", epoch, phase, curEpoch, curPhase)
	}
	return nil
}

// Advance moves the clock out of the given epoch and phase. The trigger must name the
// current position, so stale or repeated triggers fail with PhaseNotReady.
func (c *Clock) Advance(epoch uint64, phase Phase) (uint64, Phase, error) {
	curEpoch, curPhase, err := c.Current()
	if err != nil {
		return 0, 0, err
	}
	if curEpoch != epoch || curPhase != phase {
		return 0, 0, reverts.PhaseNotReady.Withf("trigger epoch %d %s, current epoch %d %s", epoch, phase, curEpoch, curPhase)
	}

	nextEpoch, nextPhase := curEpoch, curPhase+1
	if curPhase == Dispute {
		nextEpoch, nextPhase = curEpoch+1, Commit
	}
	if err := c.epoch.Set(nextEpoch); err != nil {
		return 0, 0, errors.Wrap(err, "set epoch")
	}
	if err := c.phase.Set(uint8(nextPhase)); err != nil {
		return 0, 0, errors.Wrap(err, "set phase")
	}
	return nextEpoch, nextPhase, nil
}
