// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/lvldb"
	"github.com/vechain/thor-oracle/state"
	"github.com/vechain/thor-oracle/test/datagen"
	"github.com/vechain/thor-oracle/thor"
)

func newLedger(t *testing.T) *Ledger {
	st, err := state.New(lvldb.NewMem(), 0)
	require.NoError(t, err)
	return New(solidity.NewContext(thor.TokenAddress, st, nil), thor.StakePoolHolder)
}

func balance(t *testing.T, l *Ledger, addr thor.Address) uint64 {
	bal, err := l.BalanceOf(addr)
	require.NoError(t, err)
	return bal.Uint64()
}

func TestLedgerStakeFlow(t *testing.T) {
	l := newLedger(t)
	alice := datagen.RandAddress()

	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))
	require.NoError(t, l.TransferStakeIn(alice, uint256.NewInt(60)))
	assert.Equal(t, uint64(40), balance(t, l, alice))
	assert.Equal(t, uint64(60), balance(t, l, thor.StakePoolHolder))

	assert.ErrorIs(t, l.TransferStakeIn(alice, uint256.NewInt(41)), ErrInsufficientBalance)
	assert.Equal(t, uint64(40), balance(t, l, alice))

	require.NoError(t, l.TransferStakeOut(alice, uint256.NewInt(10)))
	assert.Equal(t, uint64(50), balance(t, l, alice))

	require.NoError(t, l.Burn(uint256.NewInt(20)))
	assert.Equal(t, uint64(30), balance(t, l, thor.StakePoolHolder))

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(80), supply.Uint64())
	burned, err := l.TotalBurned()
	require.NoError(t, err)
	assert.Equal(t, uint64(20), burned.Uint64())

	assert.ErrorIs(t, l.Burn(uint256.NewInt(31)), ErrInsufficientBalance)
}

func TestLedgerSelfTransfer(t *testing.T) {
	l := newLedger(t)
	alice := datagen.RandAddress()
	require.NoError(t, l.Mint(alice, uint256.NewInt(5)))
	require.NoError(t, l.Transfer(alice, alice, uint256.NewInt(5)))
	assert.Equal(t, uint64(5), balance(t, l, alice))
}
