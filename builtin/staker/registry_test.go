// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/builtin/token"
	"github.com/vechain/thor-oracle/lvldb"
	"github.com/vechain/thor-oracle/state"
	"github.com/vechain/thor-oracle/test/datagen"
	"github.com/vechain/thor-oracle/thor"
)

type rejectingToken struct{}

func (rejectingToken) TransferStakeIn(thor.Address, *uint256.Int) error  { return errors.New("rejected") }
func (rejectingToken) TransferStakeOut(thor.Address, *uint256.Int) error { return errors.New("rejected") }
func (rejectingToken) BalanceOf(thor.Address) (*uint256.Int, error)      { return new(uint256.Int), nil }

type testSetup struct {
	state    *state.State
	ledger   *token.Ledger
	registry *Registry
}

func newSetup(t *testing.T) *testSetup {
	st, err := state.New(lvldb.NewMem(), 0)
	require.NoError(t, err)
	ledger := token.New(solidity.NewContext(thor.TokenAddress, st, nil), thor.StakePoolHolder)
	return &testSetup{
		state:    st,
		ledger:   ledger,
		registry: New(solidity.NewContext(thor.StakerAddress, st, nil), ledger),
	}
}

// stake joins addr and stakes amount, minting the tokens first.
func (s *testSetup) stake(t *testing.T, addr thor.Address, amount uint64) uint64 {
	require.NoError(t, s.ledger.Mint(addr, uint256.NewInt(amount)))
	id, err := s.registry.Join(addr)
	require.NoError(t, err)
	require.NoError(t, s.registry.IncreaseStake(id, uint256.NewInt(amount)))
	return id
}

func (s *testSetup) totalStake(t *testing.T) uint64 {
	total, err := s.registry.TotalStake()
	require.NoError(t, err)
	return total.Uint64()
}

func TestJoinAssignsSequentialIDs(t *testing.T) {
	s := newSetup(t)
	addrs := datagen.RandAddresses(3)

	for i, addr := range addrs {
		id, err := s.registry.Join(addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), id)
	}

	count, err := s.registry.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	var visited []thor.Address
	require.NoError(t, s.registry.Iterate(func(st *Staker) (bool, error) {
		visited = append(visited, st.Address)
		return true, nil
	}))
	assert.Equal(t, addrs, visited)
}

func TestJoinDuplicateLeavesRegistryUnchanged(t *testing.T) {
	s := newSetup(t)
	addr := datagen.RandAddress()
	s.stake(t, addr, 10)
	other := s.stake(t, datagen.RandAddress(), 5)

	before, err := s.registry.Get(other)
	require.NoError(t, err)

	_, err = s.registry.Join(addr)
	assert.ErrorIs(t, err, reverts.AlreadyStaked)
	assert.Equal(t, reverts.KindIdentity, reverts.KindOf(err))

	count, err := s.registry.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
	assert.Equal(t, uint64(15), s.totalStake(t))

	after, err := s.registry.Get(other)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStakeChanges(t *testing.T) {
	s := newSetup(t)
	addr := datagen.RandAddress()
	id := s.stake(t, addr, 100)

	require.NoError(t, s.registry.DecreaseStake(id, uint256.NewInt(30)))
	assert.Equal(t, uint64(70), s.totalStake(t))

	bal, err := s.ledger.BalanceOf(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), bal.Uint64())

	err = s.registry.DecreaseStake(id, uint256.NewInt(71))
	assert.ErrorIs(t, err, reverts.InsufficientStake)

	err = s.registry.IncreaseStake(id, uint256.NewInt(31))
	assert.ErrorIs(t, err, reverts.TokenTransferFailed)
	assert.Equal(t, uint64(70), s.totalStake(t))

	err = s.registry.IncreaseStake(99, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.UnknownStaker)
}

func TestTokenFailureIsAtomic(t *testing.T) {
	st, err := state.New(lvldb.NewMem(), 0)
	require.NoError(t, err)
	r := New(solidity.NewContext(thor.StakerAddress, st, nil), rejectingToken{})

	id, err := r.Join(datagen.RandAddress())
	require.NoError(t, err)

	assert.ErrorIs(t, r.IncreaseStake(id, uint256.NewInt(1)), reverts.TokenTransferFailed)
	got, err := r.Get(id)
	require.NoError(t, err)
	assert.True(t, got.Stake.IsZero())

	total, err := r.TotalStake()
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestSlash(t *testing.T) {
	s := newSetup(t)
	id := s.stake(t, datagen.RandAddress(), 40)
	s.stake(t, datagen.RandAddress(), 60)

	slashed, err := s.registry.Slash(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), slashed.Uint64())
	assert.Equal(t, uint64(60), s.totalStake(t))

	got, err := s.registry.Get(id)
	require.NoError(t, err)
	assert.True(t, got.Ineligible)
	assert.False(t, got.IsStaked())

	// re-staking from zero restores eligibility
	require.NoError(t, s.ledger.Mint(got.Address, uint256.NewInt(1)))
	require.NoError(t, s.registry.IncreaseStake(id, uint256.NewInt(1)))
	got, err = s.registry.Get(id)
	require.NoError(t, err)
	assert.False(t, got.Ineligible)
}

func TestWeightedRandomStaker(t *testing.T) {
	s := newSetup(t)

	_, err := s.registry.WeightedRandomStaker(uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.NoStake)

	a := s.stake(t, datagen.RandAddress(), 10)
	b := s.stake(t, datagen.RandAddress(), 0)
	c := s.stake(t, datagen.RandAddress(), 30)
	_ = b

	tests := []struct {
		seed uint64
		want uint64
	}{
		{0, a},
		{9, a},
		{10, c},
		{39, c},
		{40, a},
		{49, a},
		{50, c},
	}
	for _, tt := range tests {
		got, err := s.registry.WeightedRandomStaker(uint256.NewInt(tt.seed))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "seed %d", tt.seed)
	}
}
