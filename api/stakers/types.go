// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/thor-oracle/api/utils"
	"github.com/vechain/thor-oracle/builtin/staker"
	"github.com/vechain/thor-oracle/thor"
)

// Staker for marshal staker record
type Staker struct {
	ID         uint64                `json:"id"`
	Address    thor.Address          `json:"address"`
	Stake      *math.HexOrDecimal256 `json:"stake"`
	Ineligible bool                  `json:"ineligible"`
}

func convertStaker(s *staker.Staker) *Staker {
	return &Staker{
		ID:         s.ID,
		Address:    s.Address,
		Stake:      utils.U256(s.Stake),
		Ineligible: s.Ineligible,
	}
}

// StakerList is the registry in join order.
type StakerList struct {
	TotalStake *math.HexOrDecimal256 `json:"totalStake"`
	Stakers    []*Staker             `json:"stakers"`
}

// JoinRequest represents join body
type JoinRequest struct {
	Address thor.Address `json:"address"`
}

type JoinResponse struct {
	ID uint64 `json:"id"`
}

// StakeRequest represents the body of a stake increase or decrease.
type StakeRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// MintRequest credits tokens on the built-in ledger.
type MintRequest struct {
	Address thor.Address          `json:"address"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type Balance struct {
	Address thor.Address          `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}
