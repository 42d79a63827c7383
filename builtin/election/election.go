// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/log"
)

var logger = log.WithContext("pkg", "election")

// Stakers is the cumulative-stake walk of the registry.
type Stakers interface {
	WeightedRandomStaker(seed *uint256.Int) (uint64, error)
}

// Elect picks the proposer of epoch. It only reads the registry, so the same seed and
// registry state always elect the same staker.
func Elect(stakers Stakers, epoch uint64, seed *uint256.Int) (uint64, error) {
	id, err := stakers.WeightedRandomStaker(seed)
	if err != nil {
		return 0, err
	}
	logger.Debug("proposer elected", "epoch", epoch, "id", id)
	return id, nil
}
