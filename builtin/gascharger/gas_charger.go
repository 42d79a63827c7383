// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"fmt"

	"github.com/vechain/thor-oracle/thor"
)

// outOfGas is the panic value raised when a call exceeds its gas limit.
type outOfGas struct {
	limit uint64
	used  uint64
}

func (o outOfGas) String() string {
	return fmt.Sprintf("out of gas: used %d, limit %d", o.used, o.limit)
}

// Charger meters storage access of a single call.
// Charge panics once the limit is exceeded, unwinding the built-in code back to the caller.
type Charger struct {
	limit          uint64
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	customGas      uint64
	totalGas       uint64
}

func New(limit uint64) *Charger {
	return &Charger{limit: limit}
}

func (c *Charger) Charge(gas uint64) {
	c.totalGas += gas

	switch {
	case gas%thor.SstoreSetGas == 0 && gas > 0:
		c.sstoreSetOps += gas / thor.SstoreSetGas
	case gas%thor.SstoreResetGas == 0 && gas > 0:
		c.sstoreResetOps += gas / thor.SstoreResetGas
	case gas%thor.SloadGas == 0 && gas > 0:
		c.sloadOps += gas / thor.SloadGas
	default:
		c.customGas += gas
	}

	if c.limit > 0 && c.totalGas > c.limit {
		panic(outOfGas{limit: c.limit, used: c.totalGas})
	}
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE_SET: %d ops (%d gas) | SSTORE_RESET: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*thor.SloadGas,
		c.sstoreSetOps,
		c.sstoreSetOps*thor.SstoreSetGas,
		c.sstoreResetOps,
		c.sstoreResetOps*thor.SstoreResetGas,
		c.customGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}

func (c *Charger) Limit() uint64 {
	return c.limit
}

// IsOutOfGas reports whether a recovered panic value was raised by Charge.
func IsOutOfGas(r any) bool {
	_, ok := r.(outOfGas)
	return ok
}
