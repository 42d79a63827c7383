// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ballot

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	clock    *epoch.Clock
	tok      *token.Ledger
	registry *staker.Registry
	ledger   *Ledger
}

func newSetup(t *testing.T) *testSetup {
	st, err := state.New(lvldb.NewMem(), 0)
	require.NoError(t, err)
	tok := token.New(solidity.NewContext(thor.TokenAddress, st, nil), thor.StakePoolHolder)
	clock := epoch.New(solidity.NewContext(thor.EpochAddress, st, nil))
	registry := staker.New(solidity.NewContext(thor.StakerAddress, st, nil), tok)
	return &testSetup{
		clock:    clock,
		tok:      tok,
		registry: registry,
		ledger:   New(solidity.NewContext(thor.BallotAddress, st, nil), clock, registry),
	}
}

func (s *testSetup) stake(t *testing.T, amount uint64) thor.Address {
	addr := datagen.RandAddress()
	require.NoError(t, s.tok.Mint(addr, uint256.NewInt(amount)))
	id, err := s.registry.Join(addr)
	require.NoError(t, err)
	require.NoError(t, s.registry.IncreaseStake(id, uint256.NewInt(amount)))
	return addr
}

func (s *testSetup) advance(t *testing.T, phase epoch.Phase) {
	e, err := s.clock.CurrentEpoch()
	require.NoError(t, err)
	_, _, err = s.clock.Advance(e, phase)
	require.NoError(t, err)
}

func TestCommitRevealFlow(t *testing.T) {
	s := newSetup(t)
	alice := s.stake(t, 10)
	bob := s.stake(t, 5)
	carol := s.stake(t, 7)

	secrets := map[thor.Address]thor.Bytes32{}
	values := map[thor.Address]uint64{alice: 100, bob: 100, carol: 120}
	for _, addr := range []thor.Address{alice, bob, carol} {
		secrets[addr] = datagen.RandomHash()
		hash := CommitmentHash(secrets[addr], uint256.NewInt(values[addr]), addr)
		require.NoError(t, s.ledger.Commit(1, addr, hash))
	}

	s.advance(t, epoch.Commit)

	for _, addr := range []thor.Address{alice, bob, carol} {
		vote, err := s.ledger.Reveal(1, addr, uint256.NewInt(values[addr]), secrets[addr])
		require.NoError(t, err)
		assert.Equal(t, values[addr], vote.Value.Uint64())
	}

	total, err := s.ledger.TotalRevealedWeight(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(22), total.Uint64())

	w, err := s.ledger.WeightAtValue(1, uint256.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(15), w.Uint64())

	w, err = s.ledger.WeightAtValue(1, uint256.NewInt(110))
	require.NoError(t, err)
	assert.True(t, w.IsZero())

	n, err := s.ledger.DistinctValues(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	n, err = s.ledger.Voters(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestWeightFixedAtReveal(t *testing.T) {
	s := newSetup(t)
	alice := s.stake(t, 10)
	secret := datagen.RandomHash()
	value := uint256.NewInt(42)

	require.NoError(t, s.ledger.Commit(1, alice, CommitmentHash(secret, value, alice)))
	s.advance(t, epoch.Commit)
	_, err := s.ledger.Reveal(1, alice, value, secret)
	require.NoError(t, err)

	id, err := s.registry.IDOf(alice)
	require.NoError(t, err)
	require.NoError(t, s.registry.DecreaseStake(id, uint256.NewInt(4)))

	vote, err := s.ledger.Vote(1, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), vote.Weight.Uint64())
}

func TestCommitErrors(t *testing.T) {
	s := newSetup(t)
	alice := s.stake(t, 10)
	hash := datagen.RandomHash()

	assert.ErrorIs(t, s.ledger.Commit(1, alice, thor.Bytes32{}), reverts.EmptyCommitment)
	assert.ErrorIs(t, s.ledger.Commit(1, datagen.RandAddress(), hash), reverts.UnknownStaker)

	broke := datagen.RandAddress()
	_, err := s.registry.Join(broke)
	require.NoError(t, err)
	assert.ErrorIs(t, s.ledger.Commit(1, broke, hash), reverts.NotStaked)

	assert.ErrorIs(t, s.ledger.Commit(2, alice, hash), reverts.WrongPhase)

	require.NoError(t, s.ledger.Commit(1, alice, hash))
	err = s.ledger.Commit(1, alice, datagen.RandomHash())
	assert.ErrorIs(t, err, reverts.AlreadyCommitted)
	assert.Equal(t, reverts.KindCommitment, reverts.KindOf(err))

	s.advance(t, epoch.Commit)
	assert.ErrorIs(t, s.ledger.Commit(1, alice, hash), reverts.WrongPhase)
}

func TestRevealErrors(t *testing.T) {
	s := newSetup(t)
	alice := s.stake(t, 10)
	bob := s.stake(t, 10)
	secret := datagen.RandomHash()
	value := uint256.NewInt(7)

	require.NoError(t, s.ledger.Commit(1, alice, CommitmentHash(secret, value, alice)))

	_, err := s.ledger.Reveal(1, alice, value, secret)
	assert.ErrorIs(t, err, reverts.WrongPhase)

	s.advance(t, epoch.Commit)

	_, err = s.ledger.Reveal(1, bob, value, secret)
	assert.ErrorIs(t, err, reverts.NotCommitted)

	_, err = s.ledger.Reveal(1, alice, uint256.NewInt(8), secret)
	assert.ErrorIs(t, err, reverts.CommitmentMismatch)

	_, err = s.ledger.Reveal(1, alice, value, datagen.RandomHash())
	assert.ErrorIs(t, err, reverts.CommitmentMismatch)

	_, err = s.ledger.Reveal(1, alice, value, secret)
	require.NoError(t, err)

	_, err = s.ledger.Reveal(1, alice, value, secret)
	assert.ErrorIs(t, err, reverts.AlreadyRevealed)
}

func TestRevealWithdrawnStake(t *testing.T) {
	s := newSetup(t)
	alice := s.stake(t, 10)
	secret := datagen.RandomHash()
	value := uint256.NewInt(7)

	require.NoError(t, s.ledger.Commit(1, alice, CommitmentHash(secret, value, alice)))
	id, err := s.registry.IDOf(alice)
	require.NoError(t, err)
	require.NoError(t, s.registry.DecreaseStake(id, uint256.NewInt(10)))

	s.advance(t, epoch.Commit)
	_, err = s.ledger.Reveal(1, alice, value, secret)
	assert.ErrorIs(t, err, reverts.NotStaked)
}

func TestCommitmentHashBindsVoter(t *testing.T) {
	secret := datagen.RandomHash()
	value := uint256.NewInt(1)
	a, b := datagen.RandAddress(), datagen.RandAddress()

	assert.NotEqual(t, CommitmentHash(secret, value, a), CommitmentHash(secret, value, b))
	assert.Equal(t, CommitmentHash(secret, value, a), CommitmentHash(secret, uint256.NewInt(1), a))
}
