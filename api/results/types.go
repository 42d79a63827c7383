// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package results

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/thor-oracle/api/utils"
	"github.com/vechain/thor-oracle/resultdb"
	"github.com/vechain/thor-oracle/thor"
)

type Range struct {
	From *uint64 `json:"from"`
	To   *uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// ResultFilter selects finalized epochs.
type ResultFilter struct {
	Range   *Range         `json:"range"`
	Options *Options       `json:"options"`
	Order   resultdb.Order `json:"order"`
}

type Result struct {
	Epoch       uint64                `json:"epoch"`
	Proposer    uint64                `json:"proposer"`
	Median      *math.HexOrDecimal256 `json:"median"`
	TwoFive     *math.HexOrDecimal256 `json:"twoFive"`
	SevenFive   *math.HexOrDecimal256 `json:"sevenFive"`
	Challenged  bool                  `json:"challenged"`
	Challenger  *thor.Address         `json:"challenger,omitempty"`
	Voters      uint64                `json:"voters"`
	TotalWeight *math.HexOrDecimal256 `json:"totalWeight"`
	FinalizedAt uint64                `json:"finalizedAt"`
}

func convertResult(r *resultdb.Result) *Result {
	out := &Result{
		Epoch:       r.Epoch,
		Proposer:    r.Proposer,
		Median:      utils.U256(r.Median),
		TwoFive:     utils.U256(r.TwoFive),
		SevenFive:   utils.U256(r.SevenFive),
		Challenged:  r.Challenged,
		Voters:      r.Voters,
		TotalWeight: utils.U256(r.TotalWeight),
		FinalizedAt: r.FinalizedAt,
	}
	if r.Challenged {
		challenger := r.Challenger
		out.Challenger = &challenger
	}
	return out
}
