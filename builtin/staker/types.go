// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/thor"
)

// Staker is the record of a staked participant. Records are chained through Next in
// join order; Next == 0 terminates the chain.
type Staker struct {
	ID         uint64
	Address    thor.Address
	Stake      *uint256.Int
	Next       uint64
	Ineligible bool
}

// IsStaked returns true when the staker currently holds stake.
func (s *Staker) IsStaked() bool {
	return s.Stake != nil && !s.Stake.IsZero()
}
