// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/thor-oracle/state"
	"github.com/vechain/thor-oracle/thor"
)

type UseGasFunc func(gas uint64)

// Context binds a built-in contract address to the state it reads and writes, and to the
// gas meter of the current call.
type Context struct {
	address thor.Address
	state   *state.State
	charger UseGasFunc
}

func NewContext(address thor.Address, state *state.State, charger UseGasFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) UseGas(gas uint64) {
	if c.charger != nil {
		c.charger(gas)
	}
}

// exists reports whether a slot holds a value, without charging gas.
func (c *Context) exists(pos thor.Bytes32) (bool, error) {
	raw, err := c.state.GetRawStorage(c.address, pos)
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}
