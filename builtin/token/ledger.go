// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/thor"
)

var (
	slotBalances = thor.BytesToBytes32([]byte("balances"))
	slotSupply   = thor.BytesToBytes32([]byte("total-supply"))
	slotBurned   = thor.BytesToBytes32([]byte("total-burned"))
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger is a minimal in-state token. Stake moved in is held by the pool address,
// so its balance always equals the registry's total stake plus unburned slashes.
type Ledger struct {
	pool     thor.Address
	balances *solidity.Mapping[thor.Address, *uint256.Int]
	supply   *solidity.Uint256
	burned   *solidity.Uint256
}

var (
	_ Token  = (*Ledger)(nil)
	_ Burner = (*Ledger)(nil)
)

func New(sctx *solidity.Context, pool thor.Address) *Ledger {
	return &Ledger{
		pool:     pool,
		balances: solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotBalances),
		supply:   solidity.NewUint256(sctx, slotSupply),
		burned:   solidity.NewUint256(sctx, slotBurned),
	}
}

func (l *Ledger) BalanceOf(addr thor.Address) (*uint256.Int, error) {
	bal, err := l.balances.Get(addr)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return new(uint256.Int), nil
	}
	return bal, nil
}

func (l *Ledger) TotalSupply() (*uint256.Int, error) {
	return l.supply.Get()
}

func (l *Ledger) TotalBurned() (*uint256.Int, error) {
	return l.burned.Get()
}

// Mint credits new tokens to addr.
func (l *Ledger) Mint(addr thor.Address, amount *uint256.Int) error {
	if err := l.supply.Add(amount); err != nil {
		return err
	}
	bal, err := l.BalanceOf(addr)
	if err != nil {
		return err
	}
	return l.balances.Set(addr, bal.Add(bal, amount))
}

func (l *Ledger) Transfer(from, to thor.Address, amount *uint256.Int) error {
	fromBal, err := l.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	if from == to || amount.IsZero() {
		return nil
	}
	toBal, err := l.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := l.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.balances.Set(to, toBal.Add(toBal, amount))
}

func (l *Ledger) TransferStakeIn(staker thor.Address, amount *uint256.Int) error {
	return l.Transfer(staker, l.pool, amount)
}

func (l *Ledger) TransferStakeOut(staker thor.Address, amount *uint256.Int) error {
	return l.Transfer(l.pool, staker, amount)
}

// Burn destroys amount held by the pool.
func (l *Ledger) Burn(amount *uint256.Int) error {
	bal, err := l.BalanceOf(l.pool)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	if err := l.balances.Set(l.pool, bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := l.supply.Sub(amount); err != nil {
		return err
	}
	return l.burned.Add(amount)
}
