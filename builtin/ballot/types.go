// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ballot

import (
	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/staker"
	"github.com/vechain/thor-oracle/thor"
)

// Clock gates commit and reveal by phase.
type Clock interface {
	Require(epoch uint64, phase epoch.Phase) error
}

// Stakers resolves voters.
type Stakers interface {
	GetByAddress(addr thor.Address) (*staker.Staker, error)
}

// Vote is a revealed value and the stake it carried at reveal time.
type Vote struct {
	Value  *uint256.Int
	Weight *uint256.Int
}

// CommitmentHash is the digest a voter commits to: Blake2b(secret ‖ value ‖ address),
// with value as 32 bytes big-endian.
func CommitmentHash(secret thor.Bytes32, value *uint256.Int, voter thor.Address) thor.Bytes32 {
	v := value.Bytes32()
	return thor.Blake2b(secret[:], v[:], voter[:])
}

func epochKey(epoch uint64, id uint64) thor.Bytes32 {
	return thor.Blake2b(thor.EpochBytes(epoch), thor.EpochBytes(id))
}

func valueKey(epoch uint64, value *uint256.Int) thor.Bytes32 {
	v := value.Bytes32()
	return thor.Blake2b(thor.EpochBytes(epoch), v[:])
}
