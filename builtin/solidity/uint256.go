// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/vechain/thor-oracle/thor"
)

var (
	ErrUint256Overflow  = errors.New("uint256 overflow")
	ErrUint256Underflow = errors.New("uint256 underflow")
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	raw *Raw[*uint256.Int]
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{raw: NewRaw[*uint256.Int](context, pos)}
}

// Get returns the stored value, zero when never set.
func (u *Uint256) Get() (*uint256.Int, error) {
	v, err := u.raw.Get()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(uint256.Int), nil
	}
	return v, nil
}

func (u *Uint256) Set(value *uint256.Int) error {
	return u.raw.Set(value)
}

func (u *Uint256) Add(value *uint256.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := current.AddOverflow(current, value); overflow {
		return ErrUint256Overflow
	}
	return u.Set(current)
}

func (u *Uint256) Sub(value *uint256.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	if current.Lt(value) {
		return ErrUint256Underflow
	}
	return u.Set(current.Sub(current, value))
}
