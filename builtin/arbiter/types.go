// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package arbiter

import (
	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/builtin/dispute"
	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/staker"
	"github.com/vechain/thor-oracle/thor"
)

type Clock interface {
	Require(epoch uint64, phase epoch.Phase) error
}

type Stakers interface {
	Get(id uint64) (*staker.Staker, error)
	GetByAddress(addr thor.Address) (*staker.Staker, error)
	Slash(id uint64) (*uint256.Int, error)
}

type Votes interface {
	TotalRevealedWeight(epoch uint64) (*uint256.Int, error)
}

type Cursors interface {
	Cursor(epoch uint64, disputer thor.Address) (*dispute.Cursor, error)
}

// Proposal is the standing result of an epoch. A successful challenge replaces the claimed
// values with the verified ones and records the challenger.
type Proposal struct {
	Proposer   uint64
	Median     *uint256.Int
	TwoFive    *uint256.Int
	SevenFive  *uint256.Int
	Challenged bool
	Challenger thor.Address
	Finalized  bool
}

func (p *Proposal) Percentiles() *dispute.Percentiles {
	return &dispute.Percentiles{
		Median:    p.Median,
		TwoFive:   p.TwoFive,
		SevenFive: p.SevenFive,
	}
}

// Outcome of a successful challenge.
type Outcome struct {
	Proposer uint64
	Slashed  *uint256.Int
	Reward   *uint256.Int
	Burned   *uint256.Int
}
