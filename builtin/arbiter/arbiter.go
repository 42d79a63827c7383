// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package arbiter

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/builtin/dispute"
	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/builtin/token"
	"github.com/vechain/thor-oracle/log"
	"github.com/vechain/thor-oracle/thor"
)

var logger = log.WithContext("pkg", "arbiter")

var (
	slotProposers = thor.BytesToBytes32([]byte("proposers"))
	slotProposals = thor.BytesToBytes32([]byte("proposals"))
)

// Arbiter owns the block proposal of each epoch and settles challenges against it.
type Arbiter struct {
	clock   Clock
	stakers Stakers
	votes   Votes
	cursors Cursors
	token   token.Token
	divisor uint64

	proposers *solidity.Mapping[solidity.Uint64Key, uint64]
	proposals *solidity.Mapping[solidity.Uint64Key, *Proposal]
}

func New(
	sctx *solidity.Context,
	clock Clock,
	stakers Stakers,
	votes Votes,
	cursors Cursors,
	tok token.Token,
	slashRewardDivisor uint64,
) *Arbiter {
	if slashRewardDivisor == 0 {
		slashRewardDivisor = thor.DefaultSlashRewardDivisor
	}
	return &Arbiter{
		clock:     clock,
		stakers:   stakers,
		votes:     votes,
		cursors:   cursors,
		token:     tok,
		divisor:   slashRewardDivisor,
		proposers: solidity.NewMapping[solidity.Uint64Key, uint64](sctx, slotProposers),
		proposals: solidity.NewMapping[solidity.Uint64Key, *Proposal](sctx, slotProposals),
	}
}

// SetProposer records the elected proposer of epoch.
func (a *Arbiter) SetProposer(epochNum uint64, id uint64) error {
	if err := a.proposers.Set(solidity.Uint64Key(epochNum), id); err != nil {
		return errors.Wrap(err, "set proposer")
	}
	return nil
}

// Proposer returns the elected proposer of epoch, 0 if none was elected.
func (a *Arbiter) Proposer(epochNum uint64) (uint64, error) {
	id, err := a.proposers.Get(solidity.Uint64Key(epochNum))
	if err != nil {
		return 0, errors.Wrap(err, "get proposer")
	}
	return id, nil
}

// Proposal returns the standing proposal of epoch, nil if none.
func (a *Arbiter) Proposal(epochNum uint64) (*Proposal, error) {
	p, err := a.proposals.Get(solidity.Uint64Key(epochNum))
	if err != nil {
		return nil, errors.Wrap(err, "get proposal")
	}
	return p, nil
}

// Propose stores the claim of the elected proposer as the provisional result of epoch.
func (a *Arbiter) Propose(epochNum uint64, caller thor.Address, claim *dispute.Percentiles) (*Proposal, error) {
	if err := a.clock.Require(epochNum, epoch.Dispute); err != nil {
		return nil, err
	}
	elected, err := a.Proposer(epochNum)
	if err != nil {
		return nil, err
	}
	s, err := a.stakers.GetByAddress(caller)
	if err != nil {
		return nil, err
	}
	if elected == 0 || s == nil || s.ID != elected {
		return nil, reverts.NotProposer.Withf("%s", caller)
	}
	existing, err := a.Proposal(epochNum)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reverts.AlreadyProposed.Withf("epoch %d", epochNum)
	}
	total, err := a.votes.TotalRevealedWeight(epochNum)
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return nil, reverts.NoVotes.Withf("epoch %d", epochNum)
	}

	p := &Proposal{
		Proposer:  elected,
		Median:    claim.Median.Clone(),
		TwoFive:   claim.TwoFive.Clone(),
		SevenFive: claim.SevenFive.Clone(),
	}
	if err := a.proposals.Set(solidity.Uint64Key(epochNum), p); err != nil {
		return nil, errors.Wrap(err, "set proposal")
	}
	return p, nil
}

// Challenge compares the complete cursor of disputer with the standing proposal. On mismatch the
// proposer is slashed, the disputer rewarded and the proposal replaced by the verified values.
func (a *Arbiter) Challenge(epochNum uint64, disputer thor.Address) (*Outcome, error) {
	if err := a.clock.Require(epochNum, epoch.Dispute); err != nil {
		return nil, err
	}
	p, err := a.Proposal(epochNum)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, reverts.NoProposal.Withf("epoch %d", epochNum)
	}
	if p.Challenged || p.Finalized {
		return nil, reverts.ProposalFinalized.Withf("epoch %d", epochNum)
	}
	cursor, err := a.cursors.Cursor(epochNum, disputer)
	if err != nil {
		return nil, err
	}
	if cursor == nil || !cursor.Complete {
		return nil, reverts.DisputeIncomplete.Withf("%s", disputer)
	}
	proposer, err := a.stakers.Get(p.Proposer)
	if err != nil {
		return nil, err
	}
	if proposer != nil && proposer.Address == disputer {
		return nil, reverts.SelfChallenge
	}
	verified := cursor.Percentiles()
	if verified.Equal(p.Percentiles()) {
		return nil, reverts.ProposalConfirmed.Withf("epoch %d", epochNum)
	}

	outcome, err := a.slash(p.Proposer, disputer)
	if err != nil {
		return nil, err
	}

	p.Median, p.TwoFive, p.SevenFive = verified.Median, verified.TwoFive, verified.SevenFive
	p.Challenged = true
	p.Challenger = disputer
	if err := a.proposals.Set(solidity.Uint64Key(epochNum), p); err != nil {
		return nil, errors.Wrap(err, "set proposal")
	}
	logger.Debug("proposal overturned", "epoch", epochNum, "proposer", p.Proposer, "challenger", disputer,
		"slashed", outcome.Slashed, "reward", outcome.Reward)
	return outcome, nil
}

func (a *Arbiter) slash(proposer uint64, disputer thor.Address) (*Outcome, error) {
	slashed, err := a.stakers.Slash(proposer)
	if err != nil {
		return nil, err
	}
	reward := new(uint256.Int).Div(slashed, uint256.NewInt(a.divisor))
	if err := a.token.TransferStakeOut(disputer, reward); err != nil {
		return nil, reverts.TokenTransferFailed.Withf("%v", err)
	}
	burned := new(uint256.Int)
	if burner, ok := a.token.(token.Burner); ok {
		rest := new(uint256.Int).Sub(slashed, reward)
		if err := burner.Burn(rest); err != nil {
			return nil, reverts.TokenTransferFailed.Withf("burn: %v", err)
		}
		burned = rest
	}
	return &Outcome{Proposer: proposer, Slashed: slashed, Reward: reward, Burned: burned}, nil
}

// Outstanding returns a disputer whose complete cursor disagrees with the standing proposal of
// epoch, or false when there is none. Complete cursors of an epoch verify the same vote set and so
// carry the same percentiles: only the first one not owned by the proposer is loaded.
func (a *Arbiter) Outstanding(epochNum uint64, disputers []thor.Address) (thor.Address, bool, error) {
	p, err := a.Proposal(epochNum)
	if err != nil {
		return thor.Address{}, false, err
	}
	if p == nil {
		return thor.Address{}, false, nil
	}
	proposer, err := a.stakers.Get(p.Proposer)
	if err != nil {
		return thor.Address{}, false, err
	}
	for _, d := range disputers {
		// the proposer cannot challenge itself
		if proposer != nil && proposer.Address == d {
			continue
		}
		c, err := a.cursors.Cursor(epochNum, d)
		if err != nil {
			return thor.Address{}, false, err
		}
		if c == nil || !c.Complete {
			continue
		}
		if c.Percentiles().Equal(p.Percentiles()) {
			return thor.Address{}, false, nil
		}
		return d, true, nil
	}
	return thor.Address{}, false, nil
}

// Finalize closes the proposal of epoch. It returns nil when the epoch had no proposal.
func (a *Arbiter) Finalize(epochNum uint64) (*Proposal, error) {
	p, err := a.Proposal(epochNum)
	if err != nil || p == nil {
		return nil, err
	}
	p.Finalized = true
	if err := a.proposals.Set(solidity.Uint64Key(epochNum), p); err != nil {
		return nil, errors.Wrap(err, "set proposal")
	}
	return p, nil
}
