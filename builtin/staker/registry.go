// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/builtin/token"
	"github.com/vechain/thor-oracle/log"
	"github.com/vechain/thor-oracle/thor"
)

var logger = log.WithContext("pkg", "staker")

var (
	slotStakers    = thor.BytesToBytes32([]byte("stakers"))
	slotIDs        = thor.BytesToBytes32([]byte("staker-ids"))
	slotHead       = thor.BytesToBytes32([]byte("stakers-head"))
	slotTail       = thor.BytesToBytes32([]byte("stakers-tail"))
	slotNextID     = thor.BytesToBytes32([]byte("stakers-next-id"))
	slotTotalStake = thor.BytesToBytes32([]byte("total-stake"))
)

// Registry owns the staker records and the contract-wide stake total.
type Registry struct {
	stakers    *solidity.Mapping[solidity.Uint64Key, *Staker]
	ids        *solidity.Mapping[thor.Address, uint64]
	head       *solidity.Raw[uint64]
	tail       *solidity.Raw[uint64]
	nextID     *solidity.Raw[uint64]
	totalStake *solidity.Uint256
	token      token.Token
}

func New(sctx *solidity.Context, tok token.Token) *Registry {
	return &Registry{
		stakers:    solidity.NewMapping[solidity.Uint64Key, *Staker](sctx, slotStakers),
		ids:        solidity.NewMapping[thor.Address, uint64](sctx, slotIDs),
		head:       solidity.NewRaw[uint64](sctx, slotHead),
		tail:       solidity.NewRaw[uint64](sctx, slotTail),
		nextID:     solidity.NewRaw[uint64](sctx, slotNextID),
		totalStake: solidity.NewUint256(sctx, slotTotalStake),
		token:      tok,
	}
}

// Get returns the staker with the given id, nil if there is none.
func (r *Registry) Get(id uint64) (*Staker, error) {
	if id == 0 {
		return nil, nil
	}
	s, err := r.stakers.Get(solidity.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "get staker")
	}
	return s, nil
}

// IDOf returns the id assigned to addr, 0 if it never joined.
func (r *Registry) IDOf(addr thor.Address) (uint64, error) {
	id, err := r.ids.Get(addr)
	if err != nil {
		return 0, errors.Wrap(err, "get staker id")
	}
	return id, nil
}

// GetByAddress returns the staker of addr, nil if it never joined.
func (r *Registry) GetByAddress(addr thor.Address) (*Staker, error) {
	id, err := r.IDOf(addr)
	if err != nil {
		return nil, err
	}
	return r.Get(id)
}

// mustGet returns the staker or UnknownStaker.
func (r *Registry) mustGet(id uint64) (*Staker, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, reverts.UnknownStaker.Withf("id %d", id)
	}
	return s, nil
}

// Count returns the number of stakers ever joined.
func (r *Registry) Count() (uint64, error) {
	next, err := r.nextID.Get()
	if err != nil {
		return 0, errors.Wrap(err, "get next id")
	}
	if next == 0 {
		return 0, nil
	}
	return next - 1, nil
}

func (r *Registry) TotalStake() (*uint256.Int, error) {
	total, err := r.totalStake.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get total stake")
	}
	return total, nil
}

// Join assigns the next id to addr and appends it to the list.
func (r *Registry) Join(addr thor.Address) (uint64, error) {
	existing, err := r.IDOf(addr)
	if err != nil {
		return 0, err
	}
	if existing != 0 {
		return 0, reverts.AlreadyStaked.Withf("%s has id %d", addr, existing)
	}

	id, err := r.nextID.Get()
	if err != nil {
		return 0, errors.Wrap(err, "get next id")
	}
	if id == 0 {
		id = 1
	}

	s := &Staker{ID: id, Address: addr, Stake: new(uint256.Int)}
	if err := r.stakers.Set(solidity.Uint64Key(id), s); err != nil {
		return 0, errors.Wrap(err, "set staker")
	}
	if err := r.ids.Set(addr, id); err != nil {
		return 0, errors.Wrap(err, "set staker id")
	}
	if err := r.link(id); err != nil {
		return 0, err
	}
	if err := r.nextID.Set(id + 1); err != nil {
		return 0, errors.Wrap(err, "set next id")
	}
	return id, nil
}

// link appends id to the tail of the list.
func (r *Registry) link(id uint64) error {
	tail, err := r.tail.Get()
	if err != nil {
		return errors.Wrap(err, "get tail")
	}
	if tail == 0 {
		if err := r.head.Set(id); err != nil {
			return errors.Wrap(err, "set head")
		}
	} else {
		prev, err := r.mustGet(tail)
		if err != nil {
			return err
		}
		prev.Next = id
		if err := r.stakers.Set(solidity.Uint64Key(tail), prev); err != nil {
			return errors.Wrap(err, "set staker")
		}
	}
	if err := r.tail.Set(id); err != nil {
		return errors.Wrap(err, "set tail")
	}
	return nil
}

// IncreaseStake pulls amount from the staker through the token and credits it.
// Re-staking from zero clears a previous ineligibility.
func (r *Registry) IncreaseStake(id uint64, amount *uint256.Int) error {
	s, err := r.mustGet(id)
	if err != nil {
		return err
	}
	if err := r.token.TransferStakeIn(s.Address, amount); err != nil {
		return reverts.TokenTransferFailed.Withf("%v", err)
	}

	if !s.IsStaked() && !amount.IsZero() {
		s.Ineligible = false
	}
	newStake, overflow := new(uint256.Int).AddOverflow(s.Stake, amount)
	if overflow {
		return errors.New("stake overflow")
	}
	s.Stake = newStake
	if err := r.stakers.Set(solidity.Uint64Key(id), s); err != nil {
		return errors.Wrap(err, "set staker")
	}
	if err := r.totalStake.Add(amount); err != nil {
		return errors.Wrap(err, "add total stake")
	}
	return nil
}

// DecreaseStake returns amount to the staker through the token.
func (r *Registry) DecreaseStake(id uint64, amount *uint256.Int) error {
	s, err := r.mustGet(id)
	if err != nil {
		return err
	}
	if s.Stake.Lt(amount) {
		return reverts.InsufficientStake.Withf("stake %s, requested %s", s.Stake, amount)
	}
	if err := r.token.TransferStakeOut(s.Address, amount); err != nil {
		return reverts.TokenTransferFailed.Withf("%v", err)
	}

	s.Stake = new(uint256.Int).Sub(s.Stake, amount)
	if err := r.stakers.Set(solidity.Uint64Key(id), s); err != nil {
		return errors.Wrap(err, "set staker")
	}
	if err := r.totalStake.Sub(amount); err != nil {
		return errors.Wrap(err, "sub total stake")
	}
	return nil
}

// Slash zeroes the stake of the staker and marks it ineligible to propose.
// The slashed amount stays in the token pool; the caller decides where it goes.
func (r *Registry) Slash(id uint64) (*uint256.Int, error) {
	s, err := r.mustGet(id)
	if err != nil {
		return nil, err
	}
	slashed := s.Stake
	s.Stake = new(uint256.Int)
	s.Ineligible = true
	if err := r.stakers.Set(solidity.Uint64Key(id), s); err != nil {
		return nil, errors.Wrap(err, "set staker")
	}
	if err := r.totalStake.Sub(slashed); err != nil {
		return nil, errors.Wrap(err, "sub total stake")
	}
	logger.Debug("staker slashed", "id", id, "address", s.Address, "amount", slashed)
	return slashed, nil
}

// Iterate walks the stakers in join order until fn returns false or an error.
func (r *Registry) Iterate(fn func(*Staker) (bool, error)) error {
	id, err := r.head.Get()
	if err != nil {
		return errors.Wrap(err, "get head")
	}
	for id != 0 {
		s, err := r.mustGet(id)
		if err != nil {
			return err
		}
		cont, err := fn(s)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		id = s.Next
	}
	return nil
}

// WeightedRandomStaker walks the list from the head, accumulating stake, and returns the
// first staker whose cumulative stake exceeds seed mod total stake.
func (r *Registry) WeightedRandomStaker(seed *uint256.Int) (uint64, error) {
	total, err := r.TotalStake()
	if err != nil {
		return 0, err
	}
	if total.IsZero() {
		return 0, reverts.NoStake
	}

	target := new(uint256.Int).Mod(seed, total)
	acc := new(uint256.Int)
	var picked uint64
	err = r.Iterate(func(s *Staker) (bool, error) {
		acc.Add(acc, s.Stake)
		if acc.Gt(target) {
			picked = s.ID
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	if picked == 0 {
		return 0, errors.New("total stake does not match staker list")
	}
	return picked, nil
}
