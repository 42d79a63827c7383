// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dispute

import (
	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/staker"
	"github.com/vechain/thor-oracle/thor"
)

type Clock interface {
	Require(epoch uint64, phase epoch.Phase) error
}

type Stakers interface {
	GetByAddress(addr thor.Address) (*staker.Staker, error)
}

// Votes exposes the aggregate weights a slice is verified against.
type Votes interface {
	TotalRevealedWeight(epoch uint64) (*uint256.Int, error)
	WeightAtValue(epoch uint64, value *uint256.Int) (*uint256.Int, error)
}

// Cursor is the progress of one disputer through the sorted vote set of an epoch.
type Cursor struct {
	AccWeight    *uint256.Int
	LastVisited  *uint256.Int
	TwoFive      *uint256.Int
	Median       *uint256.Int
	SevenFive    *uint256.Int
	Started      bool
	TwoFiveSet   bool
	MedianSet    bool
	SevenFiveSet bool
	Complete     bool
}

func newCursor() *Cursor {
	return &Cursor{
		AccWeight:   new(uint256.Int),
		LastVisited: new(uint256.Int),
		TwoFive:     new(uint256.Int),
		Median:      new(uint256.Int),
		SevenFive:   new(uint256.Int),
	}
}

// Percentiles is a (median, 25th, 75th) triple.
type Percentiles struct {
	Median    *uint256.Int
	TwoFive   *uint256.Int
	SevenFive *uint256.Int
}

// Equal reports whether both triples hold the same values.
func (p *Percentiles) Equal(o *Percentiles) bool {
	return p.Median.Eq(o.Median) && p.TwoFive.Eq(o.TwoFive) && p.SevenFive.Eq(o.SevenFive)
}

// Percentiles returns the computed triple of a complete cursor.
func (c *Cursor) Percentiles() *Percentiles {
	return &Percentiles{
		Median:    c.Median.Clone(),
		TwoFive:   c.TwoFive.Clone(),
		SevenFive: c.SevenFive.Clone(),
	}
}

// thresholds of the 25th, 50th and 75th percentiles. 3*total/4 is computed in 512 bits.
func thresholds(total *uint256.Int) (q1, q2, q3 *uint256.Int) {
	q1 = new(uint256.Int).Rsh(total, 2)
	q2 = new(uint256.Int).Rsh(total, 1)
	q3, _ = new(uint256.Int).MulDivOverflow(total, uint256.NewInt(3), uint256.NewInt(4))
	return
}

func cursorKey(epoch uint64, disputer thor.Address) thor.Bytes32 {
	return thor.Blake2b(thor.EpochBytes(epoch), disputer[:])
}

func completeKey(epoch uint64, index uint64) thor.Bytes32 {
	return thor.Blake2b(thor.EpochBytes(epoch), thor.EpochBytes(index))
}
