// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resultdb

import (
	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/thor"
)

// Result is the finalized outcome of an epoch.
type Result struct {
	Epoch       uint64
	Proposer    uint64
	Median      *uint256.Int
	TwoFive     *uint256.Int
	SevenFive   *uint256.Int
	Challenged  bool
	Challenger  thor.Address
	Voters      uint64
	TotalWeight *uint256.Int
	FinalizedAt uint64
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Filter selects a contiguous epoch range. To == 0 means unbounded.
type Filter struct {
	From   uint64
	To     uint64
	Order  Order
	Offset uint64
	Limit  uint64
}
