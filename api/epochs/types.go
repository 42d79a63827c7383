// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epochs

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/thor-oracle/api/utils"
	"github.com/vechain/thor-oracle/builtin/arbiter"
	"github.com/vechain/thor-oracle/builtin/ballot"
	"github.com/vechain/thor-oracle/builtin/dispute"
	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/oracle"
	"github.com/vechain/thor-oracle/thor"
)

type Clock struct {
	Epoch uint64      `json:"epoch"`
	Phase epoch.Phase `json:"phase"`
}

// AdvanceRequest names the position the clock is expected to leave.
type AdvanceRequest struct {
	Epoch uint64      `json:"epoch"`
	Phase epoch.Phase `json:"phase"`
}

type Transition struct {
	Epoch    uint64      `json:"epoch"`
	Phase    epoch.Phase `json:"phase"`
	Proposer uint64      `json:"proposer,omitempty"`
	Result   *Proposal   `json:"result,omitempty"`
}

func convertTransition(tr *oracle.Transition) *Transition {
	return &Transition{
		Epoch:    tr.Epoch,
		Phase:    tr.Phase,
		Proposer: tr.Proposer,
		Result:   convertProposal(tr.Result),
	}
}

type CommitRequest struct {
	Voter thor.Address `json:"voter"`
	Hash  thor.Bytes32 `json:"hash"`
}

type Commitment struct {
	StakerID uint64       `json:"stakerId"`
	Hash     thor.Bytes32 `json:"hash"`
}

type RevealRequest struct {
	Voter  thor.Address          `json:"voter"`
	Value  *math.HexOrDecimal256 `json:"value"`
	Secret thor.Bytes32          `json:"secret"`
}

type Vote struct {
	Value  *math.HexOrDecimal256 `json:"value"`
	Weight *math.HexOrDecimal256 `json:"weight"`
}

func convertVote(v *ballot.Vote) *Vote {
	return &Vote{
		Value:  utils.U256(v.Value),
		Weight: utils.U256(v.Weight),
	}
}

type Tally struct {
	Voters              uint64                `json:"voters"`
	DistinctValues      uint64                `json:"distinctValues"`
	TotalRevealedWeight *math.HexOrDecimal256 `json:"totalRevealedWeight"`
}

type Weight struct {
	Value  *math.HexOrDecimal256 `json:"value"`
	Weight *math.HexOrDecimal256 `json:"weight"`
}

type Proposer struct {
	Epoch    uint64 `json:"epoch"`
	Proposer uint64 `json:"proposer"`
}

type ProposeRequest struct {
	Proposer  thor.Address          `json:"proposer"`
	Median    *math.HexOrDecimal256 `json:"median"`
	TwoFive   *math.HexOrDecimal256 `json:"twoFive"`
	SevenFive *math.HexOrDecimal256 `json:"sevenFive"`
}

func (r *ProposeRequest) percentiles() (*dispute.Percentiles, error) {
	var (
		p   dispute.Percentiles
		err error
	)
	if p.Median, err = utils.ParseU256(r.Median, "median"); err != nil {
		return nil, err
	}
	if p.TwoFive, err = utils.ParseU256(r.TwoFive, "twoFive"); err != nil {
		return nil, err
	}
	if p.SevenFive, err = utils.ParseU256(r.SevenFive, "sevenFive"); err != nil {
		return nil, err
	}
	return &p, nil
}

type Proposal struct {
	Proposer   uint64                `json:"proposer"`
	Median     *math.HexOrDecimal256 `json:"median"`
	TwoFive    *math.HexOrDecimal256 `json:"twoFive"`
	SevenFive  *math.HexOrDecimal256 `json:"sevenFive"`
	Challenged bool                  `json:"challenged"`
	Challenger *thor.Address         `json:"challenger,omitempty"`
	Finalized  bool                  `json:"finalized"`
}

func convertProposal(p *arbiter.Proposal) *Proposal {
	if p == nil {
		return nil
	}
	out := &Proposal{
		Proposer:   p.Proposer,
		Median:     utils.U256(p.Median),
		TwoFive:    utils.U256(p.TwoFive),
		SevenFive:  utils.U256(p.SevenFive),
		Challenged: p.Challenged,
		Finalized:  p.Finalized,
	}
	if p.Challenged {
		challenger := p.Challenger
		out.Challenger = &challenger
	}
	return out
}

// SliceRequest carries the next strictly ascending run of revealed values.
type SliceRequest struct {
	Disputer thor.Address            `json:"disputer"`
	Values   []*math.HexOrDecimal256 `json:"values"`
	Final    bool                    `json:"final"`
}

// Cursor for marshal dispute cursor. Percentiles are omitted until reached.
type Cursor struct {
	AccWeight   *math.HexOrDecimal256 `json:"accWeight"`
	LastVisited *math.HexOrDecimal256 `json:"lastVisited,omitempty"`
	TwoFive     *math.HexOrDecimal256 `json:"twoFive,omitempty"`
	Median      *math.HexOrDecimal256 `json:"median,omitempty"`
	SevenFive   *math.HexOrDecimal256 `json:"sevenFive,omitempty"`
	Complete    bool                  `json:"complete"`
}

func convertCursor(c *dispute.Cursor) *Cursor {
	out := &Cursor{
		AccWeight: utils.U256(c.AccWeight),
		Complete:  c.Complete,
	}
	if c.Started {
		out.LastVisited = utils.U256(c.LastVisited)
	}
	if c.TwoFiveSet {
		out.TwoFive = utils.U256(c.TwoFive)
	}
	if c.MedianSet {
		out.Median = utils.U256(c.Median)
	}
	if c.SevenFiveSet {
		out.SevenFive = utils.U256(c.SevenFive)
	}
	return out
}

type ChallengeRequest struct {
	Disputer thor.Address `json:"disputer"`
}

type Outcome struct {
	Proposer uint64                `json:"proposer"`
	Slashed  *math.HexOrDecimal256 `json:"slashed"`
	Reward   *math.HexOrDecimal256 `json:"reward"`
	Burned   *math.HexOrDecimal256 `json:"burned"`
}

func convertOutcome(o *arbiter.Outcome) *Outcome {
	return &Outcome{
		Proposer: o.Proposer,
		Slashed:  utils.U256(o.Slashed),
		Reward:   utils.U256(o.Reward),
		Burned:   utils.U256(o.Burned),
	}
}
