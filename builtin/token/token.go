// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/thor"
)

// Token is the staking token as seen by the registry. Transfers either succeed in full or fail.
type Token interface {
	// TransferStakeIn moves amount from the staker into the stake pool.
	TransferStakeIn(staker thor.Address, amount *uint256.Int) error
	// TransferStakeOut moves amount from the stake pool to the staker.
	TransferStakeOut(staker thor.Address, amount *uint256.Int) error
	BalanceOf(addr thor.Address) (*uint256.Int, error)
}

// Burner is implemented by tokens able to destroy pooled stake.
type Burner interface {
	Burn(amount *uint256.Int) error
}
