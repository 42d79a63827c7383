// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ballot

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/builtin/staker"
	"github.com/vechain/thor-oracle/thor"
)

var (
	slotCommitments    = thor.BytesToBytes32([]byte("commitments"))
	slotVotes          = thor.BytesToBytes32([]byte("votes"))
	slotTotalWeight    = thor.BytesToBytes32([]byte("total-revealed-weight"))
	slotWeightAtValue  = thor.BytesToBytes32([]byte("weight-at-value"))
	slotDistinctValues = thor.BytesToBytes32([]byte("distinct-values"))
	slotVoters         = thor.BytesToBytes32([]byte("voters"))
)

// Ledger records commitments and reveals per epoch. Reveals feed an aggregate
// weight-per-value table that the dispute engine verifies sorted slices against.
type Ledger struct {
	clock   Clock
	stakers Stakers

	commitments    *solidity.Mapping[thor.Bytes32, thor.Bytes32]
	votes          *solidity.Mapping[thor.Bytes32, *Vote]
	totalWeight    *solidity.Mapping[solidity.Uint64Key, *uint256.Int]
	weightAtValue  *solidity.Mapping[thor.Bytes32, *uint256.Int]
	distinctValues *solidity.Mapping[solidity.Uint64Key, uint64]
	voters         *solidity.Mapping[solidity.Uint64Key, uint64]
}

func New(sctx *solidity.Context, clock Clock, stakers Stakers) *Ledger {
	return &Ledger{
		clock:          clock,
		stakers:        stakers,
		commitments:    solidity.NewMapping[thor.Bytes32, thor.Bytes32](sctx, slotCommitments),
		votes:          solidity.NewMapping[thor.Bytes32, *Vote](sctx, slotVotes),
		totalWeight:    solidity.NewMapping[solidity.Uint64Key, *uint256.Int](sctx, slotTotalWeight),
		weightAtValue:  solidity.NewMapping[thor.Bytes32, *uint256.Int](sctx, slotWeightAtValue),
		distinctValues: solidity.NewMapping[solidity.Uint64Key, uint64](sctx, slotDistinctValues),
		voters:         solidity.NewMapping[solidity.Uint64Key, uint64](sctx, slotVoters),
	}
}

func (l *Ledger) voter(addr thor.Address) (*staker.Staker, error) {
	s, err := l.stakers.GetByAddress(addr)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, reverts.UnknownStaker.Withf("%s", addr)
	}
	return s, nil
}

// Commit stores the commitment of voter for epoch.
func (l *Ledger) Commit(epochNum uint64, voter thor.Address, hash thor.Bytes32) error {
	if err := l.clock.Require(epochNum, epoch.Commit); err != nil {
		return err
	}
	if hash.IsZero() {
		return reverts.EmptyCommitment
	}
	s, err := l.voter(voter)
	if err != nil {
		return err
	}
	if !s.IsStaked() {
		return reverts.NotStaked.Withf("%s", voter)
	}

	key := epochKey(epochNum, s.ID)
	existing, err := l.commitments.Get(key)
	if err != nil {
		return errors.Wrap(err, "get commitment")
	}
	if !existing.IsZero() {
		return reverts.AlreadyCommitted.Withf("%s in epoch %d", voter, epochNum)
	}
	if err := l.commitments.Set(key, hash); err != nil {
		return errors.Wrap(err, "set commitment")
	}
	return nil
}

// Reveal opens the commitment of voter and records its vote, weighted by the voter's
// current stake.
func (l *Ledger) Reveal(epochNum uint64, voter thor.Address, value *uint256.Int, secret thor.Bytes32) (*Vote, error) {
	if err := l.clock.Require(epochNum, epoch.Reveal); err != nil {
		return nil, err
	}
	s, err := l.voter(voter)
	if err != nil {
		return nil, err
	}

	key := epochKey(epochNum, s.ID)
	commitment, err := l.commitments.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "get commitment")
	}
	if commitment.IsZero() {
		return nil, reverts.NotCommitted.Withf("%s in epoch %d", voter, epochNum)
	}
	existing, err := l.votes.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "get vote")
	}
	if existing != nil {
		return nil, reverts.AlreadyRevealed.Withf("%s in epoch %d", voter, epochNum)
	}
	if CommitmentHash(secret, value, voter) != commitment {
		return nil, reverts.CommitmentMismatch
	}
	if !s.IsStaked() {
		return nil, reverts.NotStaked.Withf("%s", voter)
	}

	vote := &Vote{Value: value.Clone(), Weight: s.Stake.Clone()}
	if err := l.votes.Set(key, vote); err != nil {
		return nil, errors.Wrap(err, "set vote")
	}
	if err := l.addWeight(epochNum, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

func (l *Ledger) addWeight(epochNum uint64, vote *Vote) error {
	ek := solidity.Uint64Key(epochNum)

	total, err := l.TotalRevealedWeight(epochNum)
	if err != nil {
		return err
	}
	if _, overflow := total.AddOverflow(total, vote.Weight); overflow {
		return errors.New("total revealed weight overflow")
	}
	if err := l.totalWeight.Set(ek, total); err != nil {
		return errors.Wrap(err, "set total revealed weight")
	}

	vk := valueKey(epochNum, vote.Value)
	w, err := l.WeightAtValue(epochNum, vote.Value)
	if err != nil {
		return err
	}
	if w.IsZero() {
		n, err := l.distinctValues.Get(ek)
		if err != nil {
			return errors.Wrap(err, "get distinct values")
		}
		if err := l.distinctValues.Set(ek, n+1); err != nil {
			return errors.Wrap(err, "set distinct values")
		}
	}
	// cannot overflow, bounded by total
	if err := l.weightAtValue.Set(vk, w.Add(w, vote.Weight)); err != nil {
		return errors.Wrap(err, "set weight at value")
	}

	n, err := l.voters.Get(ek)
	if err != nil {
		return errors.Wrap(err, "get voters")
	}
	if err := l.voters.Set(ek, n+1); err != nil {
		return errors.Wrap(err, "set voters")
	}
	return nil
}

// Commitment returns the commitment of a staker, zero if none.
func (l *Ledger) Commitment(epochNum uint64, stakerID uint64) (thor.Bytes32, error) {
	c, err := l.commitments.Get(epochKey(epochNum, stakerID))
	if err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "get commitment")
	}
	return c, nil
}

// Vote returns the revealed vote of a staker, nil if none.
func (l *Ledger) Vote(epochNum uint64, stakerID uint64) (*Vote, error) {
	v, err := l.votes.Get(epochKey(epochNum, stakerID))
	if err != nil {
		return nil, errors.Wrap(err, "get vote")
	}
	return v, nil
}

func (l *Ledger) TotalRevealedWeight(epochNum uint64) (*uint256.Int, error) {
	w, err := l.totalWeight.Get(solidity.Uint64Key(epochNum))
	if err != nil {
		return nil, errors.Wrap(err, "get total revealed weight")
	}
	if w == nil {
		return new(uint256.Int), nil
	}
	return w, nil
}

// WeightAtValue returns the summed weight of every vote revealed at exactly value.
func (l *Ledger) WeightAtValue(epochNum uint64, value *uint256.Int) (*uint256.Int, error) {
	w, err := l.weightAtValue.Get(valueKey(epochNum, value))
	if err != nil {
		return nil, errors.Wrap(err, "get weight at value")
	}
	if w == nil {
		return new(uint256.Int), nil
	}
	return w, nil
}

func (l *Ledger) DistinctValues(epochNum uint64) (uint64, error) {
	n, err := l.distinctValues.Get(solidity.Uint64Key(epochNum))
	if err != nil {
		return 0, errors.Wrap(err, "get distinct values")
	}
	return n, nil
}

// Voters returns the number of reveals in epoch.
func (l *Ledger) Voters(epochNum uint64) (uint64, error) {
	n, err := l.voters.Get(solidity.Uint64Key(epochNum))
	if err != nil {
		return 0, errors.Wrap(err, "get voters")
	}
	return n, nil
}
