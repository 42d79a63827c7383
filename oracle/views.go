// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/builtin/arbiter"
	"github.com/vechain/thor-oracle/builtin/ballot"
	"github.com/vechain/thor-oracle/builtin/dispute"
	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/staker"
	"github.com/vechain/thor-oracle/resultdb"
	"github.com/vechain/thor-oracle/thor"
)

// Clock returns the current epoch and phase.
func (o *Oracle) Clock() (e uint64, p epoch.Phase, err error) {
	err = o.view(func(c *contracts) error {
		e, p, err = c.clock.Current()
		return err
	})
	return
}

func (o *Oracle) Staker(id uint64) (s *staker.Staker, err error) {
	err = o.view(func(c *contracts) error {
		s, err = c.stakers.Get(id)
		return err
	})
	return
}

func (o *Oracle) StakerByAddress(addr thor.Address) (s *staker.Staker, err error) {
	err = o.view(func(c *contracts) error {
		s, err = c.stakers.GetByAddress(addr)
		return err
	})
	return
}

// Stakers lists stakers in join order.
func (o *Oracle) Stakers() (list []*staker.Staker, err error) {
	err = o.view(func(c *contracts) error {
		return c.stakers.Iterate(func(s *staker.Staker) (bool, error) {
			list = append(list, s)
			return true, nil
		})
	})
	return
}

func (o *Oracle) TotalStake() (total *uint256.Int, err error) {
	err = o.view(func(c *contracts) error {
		total, err = c.stakers.TotalStake()
		return err
	})
	return
}

func (o *Oracle) Balance(addr thor.Address) (bal *uint256.Int, err error) {
	err = o.view(func(c *contracts) error {
		bal, err = c.token.BalanceOf(addr)
		return err
	})
	return
}

func (o *Oracle) Commitment(epochNum uint64, stakerID uint64) (h thor.Bytes32, err error) {
	err = o.view(func(c *contracts) error {
		h, err = c.ballot.Commitment(epochNum, stakerID)
		return err
	})
	return
}

func (o *Oracle) Vote(epochNum uint64, stakerID uint64) (v *ballot.Vote, err error) {
	err = o.view(func(c *contracts) error {
		v, err = c.ballot.Vote(epochNum, stakerID)
		return err
	})
	return
}

// Tally summarizes the reveals of an epoch.
type Tally struct {
	Voters              uint64
	DistinctValues      uint64
	TotalRevealedWeight *uint256.Int
}

func (o *Oracle) Tally(epochNum uint64) (t *Tally, err error) {
	err = o.view(func(c *contracts) error {
		t = &Tally{}
		if t.Voters, err = c.ballot.Voters(epochNum); err != nil {
			return err
		}
		if t.DistinctValues, err = c.ballot.DistinctValues(epochNum); err != nil {
			return err
		}
		t.TotalRevealedWeight, err = c.ballot.TotalRevealedWeight(epochNum)
		return err
	})
	return
}

func (o *Oracle) WeightAtValue(epochNum uint64, value *uint256.Int) (w *uint256.Int, err error) {
	err = o.view(func(c *contracts) error {
		w, err = c.ballot.WeightAtValue(epochNum, value)
		return err
	})
	return
}

func (o *Oracle) Cursor(epochNum uint64, disputer thor.Address) (cur *dispute.Cursor, err error) {
	err = o.view(func(c *contracts) error {
		cur, err = c.dispute.Cursor(epochNum, disputer)
		return err
	})
	return
}

func (o *Oracle) CompletedCursors(epochNum uint64) (disputers []thor.Address, err error) {
	err = o.view(func(c *contracts) error {
		disputers, err = c.dispute.CompletedCursors(epochNum)
		return err
	})
	return
}

// Proposer returns the proposer elected for epoch, 0 if none.
func (o *Oracle) Proposer(epochNum uint64) (id uint64, err error) {
	err = o.view(func(c *contracts) error {
		id, err = c.arbiter.Proposer(epochNum)
		return err
	})
	return
}

// Result returns the standing or finalized proposal of epoch, nil if nothing was proposed.
func (o *Oracle) Result(epochNum uint64) (p *arbiter.Proposal, err error) {
	err = o.view(func(c *contracts) error {
		p, err = c.arbiter.Proposal(epochNum)
		return err
	})
	return
}

// History returns finalized results; it is empty when no result db is configured.
func (o *Oracle) History(ctx context.Context, filter *resultdb.Filter) ([]*resultdb.Result, error) {
	if o.results == nil {
		return nil, nil
	}
	return o.results.Filter(ctx, filter)
}
