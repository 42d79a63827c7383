// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package arbiter

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-oracle/builtin/ballot"
	"github.com/vechain/thor-oracle/builtin/dispute"
	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/builtin/staker"
	"github.com/vechain/thor-oracle/builtin/token"
	"github.com/vechain/thor-oracle/lvldb"
	"github.com/vechain/thor-oracle/state"
	"github.com/vechain/thor-oracle/test/datagen"
	"github.com/vechain/thor-oracle/thor"
)

type testSetup struct {
	tok      *token.Ledger
	clock    *epoch.Clock
	registry *staker.Registry
	ballot   *ballot.Ledger
	engine   *dispute.Engine
	arbiter  *Arbiter
}

func newSetup(t *testing.T) *testSetup {
	st, err := state.New(lvldb.NewMem(), 0)
	require.NoError(t, err)
	ctx := func(addr thor.Address) *solidity.Context { return solidity.NewContext(addr, st, nil) }

	s := &testSetup{}
	s.tok = token.New(ctx(thor.TokenAddress), thor.StakePoolHolder)
	s.clock = epoch.New(ctx(thor.EpochAddress))
	s.registry = staker.New(ctx(thor.StakerAddress), s.tok)
	s.ballot = ballot.New(ctx(thor.BallotAddress), s.clock, s.registry)
	s.engine = dispute.New(ctx(thor.DisputeAddress), s.clock, s.registry, s.ballot)
	s.arbiter = New(ctx(thor.ArbiterAddress), s.clock, s.registry, s.ballot, s.engine, s.tok, 2)
	return s
}

// vote stakes a new voter, commits and remembers the reveal.
type vote struct {
	addr   thor.Address
	value  *uint256.Int
	secret thor.Bytes32
}

// runToDispute stakes one voter per (stake, value) pair, commits, reveals and advances to
// the dispute phase of epoch 1. It returns the voter addresses in order.
func (s *testSetup) runToDispute(t *testing.T, stakes, values []uint64) []thor.Address {
	var votes []vote
	for i, amount := range stakes {
		addr := datagen.RandAddress()
		require.NoError(t, s.tok.Mint(addr, uint256.NewInt(amount)))
		id, err := s.registry.Join(addr)
		require.NoError(t, err)
		require.NoError(t, s.registry.IncreaseStake(id, uint256.NewInt(amount)))

		v := vote{addr: addr, value: uint256.NewInt(values[i]), secret: datagen.RandomHash()}
		require.NoError(t, s.ballot.Commit(1, addr, ballot.CommitmentHash(v.secret, v.value, addr)))
		votes = append(votes, v)
	}
	_, _, err := s.clock.Advance(1, epoch.Commit)
	require.NoError(t, err)
	addrs := make([]thor.Address, 0, len(votes))
	for _, v := range votes {
		_, err := s.ballot.Reveal(1, v.addr, v.value, v.secret)
		require.NoError(t, err)
		addrs = append(addrs, v.addr)
	}
	_, _, err = s.clock.Advance(1, epoch.Reveal)
	require.NoError(t, err)
	return addrs
}

func percentiles(median, twoFive, sevenFive uint64) *dispute.Percentiles {
	return &dispute.Percentiles{
		Median:    uint256.NewInt(median),
		TwoFive:   uint256.NewInt(twoFive),
		SevenFive: uint256.NewInt(sevenFive),
	}
}

func (s *testSetup) completeDispute(t *testing.T, disputer thor.Address, values ...uint64) {
	vals := make([]*uint256.Int, len(values))
	for i, v := range values {
		vals[i] = uint256.NewInt(v)
	}
	c, err := s.engine.SubmitSortedSlice(1, disputer, vals, true)
	require.NoError(t, err)
	require.True(t, c.Complete)
}

func TestProposeRules(t *testing.T) {
	s := newSetup(t)
	addrs := s.runToDispute(t, []uint64{1, 1, 2}, []uint64{10, 20, 30})

	_, err := s.arbiter.Propose(1, addrs[0], percentiles(30, 20, 30))
	assert.ErrorIs(t, err, reverts.NotProposer)

	require.NoError(t, s.arbiter.SetProposer(1, 3))
	_, err = s.arbiter.Propose(1, addrs[0], percentiles(30, 20, 30))
	assert.ErrorIs(t, err, reverts.NotProposer)

	p, err := s.arbiter.Propose(1, addrs[2], percentiles(30, 20, 30))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), p.Proposer)

	_, err = s.arbiter.Propose(1, addrs[2], percentiles(30, 20, 30))
	assert.ErrorIs(t, err, reverts.AlreadyProposed)
	assert.Equal(t, reverts.KindArbitration, reverts.KindOf(err))

	_, err = s.arbiter.Propose(2, addrs[2], percentiles(30, 20, 30))
	assert.ErrorIs(t, err, reverts.WrongPhase)
}

func TestProposeWithoutVotes(t *testing.T) {
	s := newSetup(t)
	s.runToDispute(t, nil, nil)
	addr := datagen.RandAddress()
	id, err := s.registry.Join(addr)
	require.NoError(t, err)
	require.NoError(t, s.arbiter.SetProposer(1, id))

	_, err = s.arbiter.Propose(1, addr, percentiles(1, 1, 1))
	assert.ErrorIs(t, err, reverts.NoVotes)
}

func TestChallengeConfirmed(t *testing.T) {
	s := newSetup(t)
	addrs := s.runToDispute(t, []uint64{1, 1, 2}, []uint64{10, 20, 30})
	require.NoError(t, s.arbiter.SetProposer(1, 3))
	_, err := s.arbiter.Propose(1, addrs[2], percentiles(30, 20, 30))
	require.NoError(t, err)

	_, err = s.arbiter.Challenge(1, addrs[0])
	assert.ErrorIs(t, err, reverts.DisputeIncomplete)

	s.completeDispute(t, addrs[0], 10, 20, 30)
	_, err = s.arbiter.Challenge(1, addrs[0])
	assert.ErrorIs(t, err, reverts.ProposalConfirmed)

	proposer, err := s.registry.Get(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), proposer.Stake.Uint64())

	_, ok, err := s.arbiter.Outstanding(1, []thor.Address{addrs[0]})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChallengeSlashesProposer(t *testing.T) {
	s := newSetup(t)
	addrs := s.runToDispute(t, []uint64{1, 1, 2}, []uint64{10, 20, 30})
	require.NoError(t, s.arbiter.SetProposer(1, 3))
	_, err := s.arbiter.Propose(1, addrs[2], percentiles(20, 10, 30))
	require.NoError(t, err)

	s.completeDispute(t, addrs[2], 10, 20, 30)
	_, err = s.arbiter.Challenge(1, addrs[2])
	assert.ErrorIs(t, err, reverts.SelfChallenge)

	// the proposer's own cursor does not hold the epoch
	_, ok, err := s.arbiter.Outstanding(1, []thor.Address{addrs[2]})
	require.NoError(t, err)
	assert.False(t, ok)

	disputer := addrs[0]
	s.completeDispute(t, disputer, 10, 20, 30)

	outstanding, ok, err := s.arbiter.Outstanding(1, []thor.Address{addrs[2], disputer})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, disputer, outstanding)

	outcome, err := s.arbiter.Challenge(1, disputer)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), outcome.Slashed.Uint64())
	assert.Equal(t, uint64(1), outcome.Reward.Uint64())
	assert.Equal(t, uint64(1), outcome.Burned.Uint64())

	proposer, err := s.registry.Get(3)
	require.NoError(t, err)
	assert.True(t, proposer.Stake.IsZero())
	assert.True(t, proposer.Ineligible)

	bal, err := s.tok.BalanceOf(disputer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bal.Uint64())

	total, err := s.registry.TotalStake()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total.Uint64())

	p, err := s.arbiter.Proposal(1)
	require.NoError(t, err)
	assert.True(t, p.Challenged)
	assert.Equal(t, disputer, p.Challenger)
	assert.True(t, p.Percentiles().Equal(percentiles(30, 20, 30)))

	_, err = s.arbiter.Challenge(1, disputer)
	assert.ErrorIs(t, err, reverts.ProposalFinalized)

	_, ok, err = s.arbiter.Outstanding(1, []thor.Address{disputer})
	require.NoError(t, err)
	assert.False(t, ok)

	final, err := s.arbiter.Finalize(1)
	require.NoError(t, err)
	assert.True(t, final.Finalized)
}

func TestChallengeWithoutProposal(t *testing.T) {
	s := newSetup(t)
	addrs := s.runToDispute(t, []uint64{1}, []uint64{10})

	_, err := s.arbiter.Challenge(1, addrs[0])
	assert.ErrorIs(t, err, reverts.NoProposal)

	p, err := s.arbiter.Finalize(1)
	require.NoError(t, err)
	assert.Nil(t, p)
}
