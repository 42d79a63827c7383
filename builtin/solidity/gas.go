// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/vechain/thor-oracle/thor"

// toWordSize converts bytes length to 32-byte words, at least one.
func toWordSize(length int) uint64 {
	if length <= 32 {
		return 1
	}
	return uint64(length+31) / 32
}

func (c *Context) chargeLoad(raw []byte) {
	c.UseGas(toWordSize(len(raw)) * thor.SloadGas)
}

func (c *Context) chargeStore(raw []byte, isNew bool) {
	if isNew {
		c.UseGas(toWordSize(len(raw)) * thor.SstoreSetGas)
	} else {
		c.UseGas(toWordSize(len(raw)) * thor.SstoreResetGas)
	}
}
