// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/thor-oracle/thor"
)

func TestChargerBreakdown(t *testing.T) {
	c := New(0)
	c.Charge(thor.SloadGas)
	c.Charge(2 * thor.SstoreSetGas)
	c.Charge(thor.SstoreResetGas)
	c.Charge(7)

	assert.Equal(t, thor.SloadGas+2*thor.SstoreSetGas+thor.SstoreResetGas+7, c.TotalGas())
	assert.Contains(t, c.Breakdown(), "SLOAD: 1 ops")
	assert.Contains(t, c.Breakdown(), "SSTORE_SET: 2 ops")
	assert.Contains(t, c.Breakdown(), "SSTORE_RESET: 1 ops")
	assert.Contains(t, c.Breakdown(), "CUSTOM: 7 gas")
}

func TestChargerOutOfGas(t *testing.T) {
	c := New(thor.SstoreSetGas)
	c.Charge(thor.SstoreSetGas)

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		c.Charge(1)
	}()

	assert.True(t, IsOutOfGas(recovered))
	assert.False(t, IsOutOfGas("other"))
	assert.Equal(t, thor.SstoreSetGas+1, c.TotalGas())
}
