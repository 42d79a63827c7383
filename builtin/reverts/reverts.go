// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// Kind groups revert reasons by the precondition that failed.
type Kind string

const (
	KindPhase       Kind = "phase"
	KindIdentity    Kind = "identity"
	KindStake       Kind = "stake"
	KindCommitment  Kind = "commitment"
	KindOrdering    Kind = "ordering"
	KindWeight      Kind = "weight"
	KindArbitration Kind = "arbitration"
	KindResource    Kind = "resource"
)

// ErrRevert is returned when a call is rejected. The state touched by the call is rolled back.
// Two reverts are considered the same when their codes match, whatever the message says.
type ErrRevert struct {
	kind    Kind
	code    string
	message string
}

func New(kind Kind, code, message string) *ErrRevert {
	return &ErrRevert{kind: kind, code: code, message: message}
}

func (e *ErrRevert) Kind() Kind      { return e.kind }
func (e *ErrRevert) Code() string    { return e.code }
func (e *ErrRevert) Message() string { return e.message }

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

// Withf returns a copy of the revert carrying extra detail in its message.
func (e *ErrRevert) Withf(format string, args ...any) *ErrRevert {
	return &ErrRevert{
		kind:    e.kind,
		code:    e.code,
		message: e.message + ": " + fmt.Sprintf(format, args...),
	}
}

// Bytes abi-encodes the message as Error(string).
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}

	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.message)
	msgLen := uint64(len(msgBytes))

	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

// IsRevertErr reports whether err is, or wraps, a revert.
func IsRevertErr(err error) bool {
	var e *ErrRevert
	return errors.As(err, &e)
}

// KindOf returns the kind of the revert wrapped by err, or an empty kind.
func KindOf(err error) Kind {
	var e *ErrRevert
	if errors.As(err, &e) {
		return e.kind
	}
	return ""
}

// CodeOf returns the code of the revert wrapped by err, or an empty string.
func CodeOf(err error) string {
	var e *ErrRevert
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}
