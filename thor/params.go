// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Storage gas, same schedule the VM charges for contract storage.
const (
	SloadGas       uint64 = 200
	SstoreSetGas   uint64 = 20000
	SstoreResetGas uint64 = 5000
)

const (
	// DefaultCallGasLimit is the gas budget granted to a single oracle call.
	DefaultCallGasLimit uint64 = 10_000_000

	// DefaultSlashRewardDivisor: the disputer receives stake/divisor of a slashed proposer.
	DefaultSlashRewardDivisor uint64 = 2

	// FirstEpoch is the epoch the clock starts in.
	FirstEpoch uint64 = 1
)

// Built-in contract addresses, each one owns a disjoint storage space.
var (
	StakerAddress   = BytesToAddress([]byte("Staker"))
	EpochAddress    = BytesToAddress([]byte("Epoch"))
	BallotAddress   = BytesToAddress([]byte("Ballot"))
	DisputeAddress  = BytesToAddress([]byte("Dispute"))
	ArbiterAddress  = BytesToAddress([]byte("Arbiter"))
	TokenAddress    = BytesToAddress([]byte("Token"))
	StakePoolHolder = BytesToAddress([]byte("StakePool"))
)
