// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/builtin/arbiter"
	"github.com/vechain/thor-oracle/builtin/ballot"
	"github.com/vechain/thor-oracle/builtin/dispute"
	"github.com/vechain/thor-oracle/builtin/election"
	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/resultdb"
	"github.com/vechain/thor-oracle/thor"
)

// Transition describes the clock position reached by AdvancePhase.
type Transition struct {
	Epoch uint64
	Phase epoch.Phase
	// Proposer elected when entering Dispute, 0 if there was no stake.
	Proposer uint64
	// Result of the epoch left when leaving Dispute, nil if nothing was proposed.
	Result *arbiter.Proposal
}

// Mint credits tokens to addr on the built-in ledger.
func (o *Oracle) Mint(addr thor.Address, amount *uint256.Int) error {
	logger.Debug("mint", "address", addr, "amount", amount)
	return o.call("mint", func(c *contracts) error {
		return c.token.Mint(addr, amount)
	})
}

func (o *Oracle) Join(addr thor.Address) (id uint64, err error) {
	logger.Debug("join", "address", addr)
	err = o.call("join", func(c *contracts) error {
		id, err = c.stakers.Join(addr)
		return err
	})
	return
}

func (o *Oracle) IncreaseStake(id uint64, amount *uint256.Int) error {
	logger.Debug("increase stake", "id", id, "amount", amount)
	return o.call("increaseStake", func(c *contracts) error {
		if err := c.stakers.IncreaseStake(id, amount); err != nil {
			return err
		}
		return o.reportStake(c)
	})
}

// DecreaseStake is refused during Dispute, so an elected proposer cannot withdraw ahead of a challenge.
func (o *Oracle) DecreaseStake(id uint64, amount *uint256.Int) error {
	logger.Debug("decrease stake", "id", id, "amount", amount)
	return o.call("decreaseStake", func(c *contracts) error {
		_, phase, err := c.clock.Current()
		if err != nil {
			return err
		}
		if phase == epoch.Dispute {
			return reverts.WrongPhase.Withf("stake is locked during %s", phase)
		}
		if err := c.stakers.DecreaseStake(id, amount); err != nil {
			return err
		}
		return o.reportStake(c)
	})
}

func (o *Oracle) reportStake(c *contracts) error {
	total, err := c.stakers.TotalStake()
	if err != nil {
		return err
	}
	if total.IsUint64() {
		metricTotalStake().Set(int64(total.Uint64()))
	}
	return nil
}

// AdvancePhase moves the clock out of (epochNum, phase). Entering Dispute elects the proposer
// with the beacon seed of the epoch; leaving Dispute finalizes the epoch result, unless a complete
// dispute still disagrees with the standing proposal.
func (o *Oracle) AdvancePhase(epochNum uint64, phase epoch.Phase) (*Transition, error) {
	logger.Debug("advance phase", "epoch", epochNum, "phase", phase)

	o.mu.Lock()
	defer o.mu.Unlock()

	var (
		tr     Transition
		record *resultdb.Result
	)
	err := o.atomic("advancePhase", func(c *contracts) error {
		next, nextPhase, err := c.clock.Advance(epochNum, phase)
		if err != nil {
			return err
		}
		tr.Epoch, tr.Phase = next, nextPhase

		switch phase {
		case epoch.Reveal:
			tr.Proposer, err = o.elect(c, epochNum)
			return err
		case epoch.Dispute:
			record, err = o.finalize(c, epochNum)
			if record != nil {
				tr.Result, err = c.arbiter.Proposal(epochNum)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metricEpoch().Set(int64(tr.Epoch))
	if record != nil && o.results != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.results.Insert(ctx, record); err != nil {
			logger.Error("failed to record epoch result", "epoch", record.Epoch, "err", err)
		}
	}
	return &tr, nil
}

func (o *Oracle) elect(c *contracts, epochNum uint64) (uint64, error) {
	seed, err := o.beacon.Seed(epochNum)
	if err != nil {
		return 0, errors.Wrap(err, "beacon seed")
	}
	id, err := election.Elect(c.stakers, epochNum, seed)
	if errors.Is(err, reverts.NoStake) {
		logger.Warn("no stake, epoch has no proposer", "epoch", epochNum)
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := c.arbiter.SetProposer(epochNum, id); err != nil {
		return 0, err
	}
	return id, nil
}

func (o *Oracle) finalize(c *contracts, epochNum uint64) (*resultdb.Result, error) {
	disputers, err := c.dispute.CompletedCursors(epochNum)
	if err != nil {
		return nil, err
	}
	disputer, outstanding, err := c.arbiter.Outstanding(epochNum, disputers)
	if err != nil {
		return nil, err
	}
	if outstanding {
		return nil, reverts.ChallengeOutstanding.Withf("disputer %s", disputer)
	}

	p, err := c.arbiter.Finalize(epochNum)
	if err != nil || p == nil {
		return nil, err
	}
	voters, err := c.ballot.Voters(epochNum)
	if err != nil {
		return nil, err
	}
	total, err := c.ballot.TotalRevealedWeight(epochNum)
	if err != nil {
		return nil, err
	}
	return &resultdb.Result{
		Epoch:       epochNum,
		Proposer:    p.Proposer,
		Median:      p.Median,
		TwoFive:     p.TwoFive,
		SevenFive:   p.SevenFive,
		Challenged:  p.Challenged,
		Challenger:  p.Challenger,
		Voters:      voters,
		TotalWeight: total,
		FinalizedAt: uint64(time.Now().Unix()),
	}, nil
}

func (o *Oracle) Commit(epochNum uint64, voter thor.Address, hash thor.Bytes32) error {
	logger.Debug("commit", "epoch", epochNum, "voter", voter, "hash", hash)
	return o.call("commit", func(c *contracts) error {
		return c.ballot.Commit(epochNum, voter, hash)
	})
}

func (o *Oracle) Reveal(epochNum uint64, voter thor.Address, value *uint256.Int, secret thor.Bytes32) (vote *ballot.Vote, err error) {
	logger.Debug("reveal", "epoch", epochNum, "voter", voter, "value", value)
	err = o.call("reveal", func(c *contracts) error {
		vote, err = c.ballot.Reveal(epochNum, voter, value, secret)
		return err
	})
	return
}

// ElectProposer replays the election of epoch with seed. It does not change state.
func (o *Oracle) ElectProposer(epochNum uint64, seed *uint256.Int) (id uint64, err error) {
	err = o.view(func(c *contracts) error {
		id, err = election.Elect(c.stakers, epochNum, seed)
		return err
	})
	return
}

func (o *Oracle) Propose(epochNum uint64, proposer thor.Address, claim *dispute.Percentiles) (p *arbiter.Proposal, err error) {
	logger.Debug("propose", "epoch", epochNum, "proposer", proposer,
		"median", claim.Median, "twoFive", claim.TwoFive, "sevenFive", claim.SevenFive)
	err = o.call("propose", func(c *contracts) error {
		p, err = c.arbiter.Propose(epochNum, proposer, claim)
		return err
	})
	return
}

// SubmitSortedSlice feeds values to the dispute cursor of disputer. When the slice overruns
// the revealed weight, or a final slice falls short of it, the call is rolled back and the
// cursor is then voided.
func (o *Oracle) SubmitSortedSlice(epochNum uint64, disputer thor.Address, values []*uint256.Int, final bool) (cursor *dispute.Cursor, err error) {
	logger.Debug("submit sorted slice", "epoch", epochNum, "disputer", disputer, "values", len(values), "final", final)

	o.mu.Lock()
	defer o.mu.Unlock()

	err = o.atomic("submitSortedSlice", func(c *contracts) error {
		cursor, err = c.dispute.SubmitSortedSlice(epochNum, disputer, values, final)
		return err
	})
	if dispute.IsVoiding(err) {
		if verr := o.atomic("voidCursor", func(c *contracts) error {
			return c.dispute.Void(epochNum, disputer)
		}); verr != nil {
			logger.Error("failed to void cursor", "epoch", epochNum, "disputer", disputer, "err", verr)
		}
	}
	if err != nil {
		return nil, err
	}
	return cursor, nil
}

func (o *Oracle) Challenge(epochNum uint64, disputer thor.Address) (outcome *arbiter.Outcome, err error) {
	logger.Debug("challenge", "epoch", epochNum, "disputer", disputer)
	err = o.call("challenge", func(c *contracts) error {
		outcome, err = c.arbiter.Challenge(epochNum, disputer)
		if err != nil {
			return err
		}
		return o.reportStake(c)
	})
	return
}
