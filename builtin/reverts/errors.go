// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// phase
var (
	WrongPhase           = New(KindPhase, "WrongPhase", "operation not allowed in current phase")
	PhaseNotReady        = New(KindPhase, "PhaseNotReady", "phase transition does not match current epoch and phase")
	ChallengeOutstanding = New(KindPhase, "ChallengeOutstanding", "a completed dispute disagrees with the proposal")
)

// identity
var (
	AlreadyStaked = New(KindIdentity, "AlreadyStaked", "address already has a staker record")
	UnknownStaker = New(KindIdentity, "UnknownStaker", "address has no staker record")
)

// stake
var (
	NotStaked           = New(KindStake, "NotStaked", "staker has zero stake")
	InsufficientStake   = New(KindStake, "InsufficientStake", "stake is lower than the requested amount")
	TokenTransferFailed = New(KindStake, "TokenTransferFailed", "stake token transfer failed")
	NoStake             = New(KindStake, "NoStake", "total stake is zero")
)

// commitment
var (
	AlreadyCommitted   = New(KindCommitment, "AlreadyCommitted", "commitment already recorded for this epoch")
	NotCommitted       = New(KindCommitment, "NotCommitted", "no commitment recorded for this epoch")
	AlreadyRevealed    = New(KindCommitment, "AlreadyRevealed", "value already revealed for this epoch")
	CommitmentMismatch = New(KindCommitment, "CommitmentMismatch", "revealed value does not match commitment")
	EmptyCommitment    = New(KindCommitment, "EmptyCommitment", "commitment hash is empty")
)

// ordering
var (
	NotSorted        = New(KindOrdering, "NotSorted", "values are not strictly ascending")
	BelowLastVisited = New(KindOrdering, "BelowLastVisited", "slice starts at or below the last visited value")
	EmptySlice       = New(KindOrdering, "EmptySlice", "slice has no values")
)

// weight
var (
	WeightOverrun     = New(KindWeight, "WeightOverrun", "accumulated weight exceeds total revealed weight")
	IncompleteVoteSet = New(KindWeight, "IncompleteVoteSet", "final slice does not cover the total revealed weight")
	CursorComplete    = New(KindWeight, "CursorComplete", "dispute cursor already complete")
	UnknownValue      = New(KindWeight, "UnknownValue", "value was not revealed in this epoch")
)

// arbitration
var (
	ProposalConfirmed = New(KindArbitration, "ProposalConfirmed", "completed dispute agrees with the proposal")
	AlreadyProposed   = New(KindArbitration, "AlreadyProposed", "proposal already submitted for this epoch")
	NotProposer       = New(KindArbitration, "NotProposer", "caller is not the elected proposer")
	NoVotes           = New(KindArbitration, "NoVotes", "no revealed votes in this epoch")
	NoProposal        = New(KindArbitration, "NoProposal", "no proposal submitted for this epoch")
	DisputeIncomplete = New(KindArbitration, "DisputeIncomplete", "dispute cursor is not complete")
	SelfChallenge     = New(KindArbitration, "SelfChallenge", "proposer cannot challenge its own proposal")
	ProposalFinalized = New(KindArbitration, "ProposalFinalized", "epoch result already finalized")
)

// resource
var (
	OutOfGas = New(KindResource, "OutOfGas", "out of gas")
)
