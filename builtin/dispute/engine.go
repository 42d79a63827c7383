// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispute

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/log"
	"github.com/vechain/thor-oracle/thor"
)

var logger = log.WithContext("pkg", "dispute")

var (
	slotCursors       = thor.BytesToBytes32([]byte("cursors"))
	slotComplete      = thor.BytesToBytes32([]byte("complete-cursors"))
	slotCompleteCount = thor.BytesToBytes32([]byte("complete-cursors-count"))
)

// Engine verifies disputer-sorted slices of an epoch's revealed values against the aggregate
// weight per value, accumulating the weighted percentiles across any number of calls.
type Engine struct {
	clock   Clock
	stakers Stakers
	votes   Votes

	cursors       *solidity.Mapping[thor.Bytes32, *Cursor]
	complete      *solidity.Mapping[thor.Bytes32, thor.Address]
	completeCount *solidity.Mapping[solidity.Uint64Key, uint64]
}

func New(sctx *solidity.Context, clock Clock, stakers Stakers, votes Votes) *Engine {
	return &Engine{
		clock:         clock,
		stakers:       stakers,
		votes:         votes,
		cursors:       solidity.NewMapping[thor.Bytes32, *Cursor](sctx, slotCursors),
		complete:      solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotComplete),
		completeCount: solidity.NewMapping[solidity.Uint64Key, uint64](sctx, slotCompleteCount),
	}
}

// IsVoiding reports whether err leaves the disputer's cursor void.
func IsVoiding(err error) bool {
	return errors.Is(err, reverts.WeightOverrun) || errors.Is(err, reverts.IncompleteVoteSet)
}

// Cursor returns the cursor of disputer, nil if none exists.
func (e *Engine) Cursor(epochNum uint64, disputer thor.Address) (*Cursor, error) {
	c, err := e.cursors.Get(cursorKey(epochNum, disputer))
	if err != nil {
		return nil, errors.Wrap(err, "get cursor")
	}
	return c, nil
}

// SubmitSortedSlice advances the cursor of disputer over values, which must continue the
// strictly ascending walk of the cursor. final declares that no values remain.
// A failure that IsVoiding reports on must be followed by Void once the call is rolled back.
func (e *Engine) SubmitSortedSlice(epochNum uint64, disputer thor.Address, values []*uint256.Int, final bool) (*Cursor, error) {
	if err := e.clock.Require(epochNum, epoch.Dispute); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, reverts.EmptySlice
	}
	s, err := e.stakers.GetByAddress(disputer)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, reverts.UnknownStaker.Withf("%s", disputer)
	}

	cursor, err := e.Cursor(epochNum, disputer)
	if err != nil {
		return nil, err
	}
	if cursor == nil {
		cursor = newCursor()
	}
	if cursor.Complete {
		return nil, reverts.CursorComplete
	}

	total, err := e.votes.TotalRevealedWeight(epochNum)
	if err != nil {
		return nil, err
	}
	q1, q2, q3 := thresholds(total)

	for i, v := range values {
		if cursor.Started {
			switch v.Cmp(cursor.LastVisited) {
			case -1:
				if i == 0 {
					return nil, reverts.BelowLastVisited.Withf("%s below %s", v, cursor.LastVisited)
				}
				return nil, reverts.NotSorted.Withf("%s after %s at index %d", v, cursor.LastVisited, i)
			case 0:
				// the aggregate weight of a value is consumed in full on its first visit
				return nil, reverts.WeightOverrun.Withf("value %s presented twice", v)
			}
		}

		w, err := e.votes.WeightAtValue(epochNum, v)
		if err != nil {
			return nil, err
		}
		if w.IsZero() {
			return nil, reverts.UnknownValue.Withf("%s", v)
		}
		if _, overflow := cursor.AccWeight.AddOverflow(cursor.AccWeight, w); overflow || cursor.AccWeight.Gt(total) {
			return nil, reverts.WeightOverrun.Withf("accumulated weight exceeds %s", total)
		}

		if !cursor.TwoFiveSet && cursor.AccWeight.Gt(q1) {
			cursor.TwoFive, cursor.TwoFiveSet = v.Clone(), true
		}
		if !cursor.MedianSet && cursor.AccWeight.Gt(q2) {
			cursor.Median, cursor.MedianSet = v.Clone(), true
		}
		if !cursor.SevenFiveSet && cursor.AccWeight.Gt(q3) {
			cursor.SevenFive, cursor.SevenFiveSet = v.Clone(), true
		}
		cursor.LastVisited = v.Clone()
		cursor.Started = true
	}

	if cursor.AccWeight.Eq(total) {
		cursor.Complete = true
		if err := e.indexComplete(epochNum, disputer); err != nil {
			return nil, err
		}
		logger.Debug("dispute complete", "epoch", epochNum, "disputer", disputer,
			"median", cursor.Median, "twoFive", cursor.TwoFive, "sevenFive", cursor.SevenFive)
	} else if final {
		return nil, reverts.IncompleteVoteSet.Withf("accumulated %s of %s", cursor.AccWeight, total)
	}

	if err := e.cursors.Set(cursorKey(epochNum, disputer), cursor); err != nil {
		return nil, errors.Wrap(err, "set cursor")
	}
	return cursor, nil
}

// Void deletes the cursor of disputer; the next submission starts from zero.
func (e *Engine) Void(epochNum uint64, disputer thor.Address) error {
	cursor, err := e.Cursor(epochNum, disputer)
	if err != nil {
		return err
	}
	if cursor == nil || cursor.Complete {
		return nil
	}
	e.cursors.Delete(cursorKey(epochNum, disputer))
	logger.Debug("cursor voided", "epoch", epochNum, "disputer", disputer)
	return nil
}

func (e *Engine) indexComplete(epochNum uint64, disputer thor.Address) error {
	n, err := e.completeCount.Get(solidity.Uint64Key(epochNum))
	if err != nil {
		return errors.Wrap(err, "get complete count")
	}
	if err := e.complete.Set(completeKey(epochNum, n), disputer); err != nil {
		return errors.Wrap(err, "set complete cursor")
	}
	if err := e.completeCount.Set(solidity.Uint64Key(epochNum), n+1); err != nil {
		return errors.Wrap(err, "set complete count")
	}
	return nil
}

// CompletedCursors returns the disputers whose cursor completed in epoch, in completion order.
func (e *Engine) CompletedCursors(epochNum uint64) ([]thor.Address, error) {
	n, err := e.completeCount.Get(solidity.Uint64Key(epochNum))
	if err != nil {
		return nil, errors.Wrap(err, "get complete count")
	}
	disputers := make([]thor.Address, 0, n)
	for i := range n {
		addr, err := e.complete.Get(completeKey(epochNum, i))
		if err != nil {
			return nil, errors.Wrap(err, "get complete cursor")
		}
		disputers = append(disputers, addr)
	}
	return disputers, nil
}
