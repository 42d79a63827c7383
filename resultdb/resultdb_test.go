// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resultdb

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-oracle/test/datagen"
)

func newResult(epoch uint64) *Result {
	return &Result{
		Epoch:       epoch,
		Proposer:    epoch + 100,
		Median:      uint256.NewInt(epoch * 10),
		TwoFive:     uint256.NewInt(epoch*10 - 1),
		SevenFive:   uint256.NewInt(epoch*10 + 1),
		Voters:      3,
		TotalWeight: uint256.NewInt(40),
		FinalizedAt: 1700000000 + epoch,
	}
}

func TestInsertAndGet(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	got, err := db.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	r := newResult(1)
	require.NoError(t, db.Insert(ctx, r))
	got, err = db.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	challenged := newResult(1)
	challenged.Challenged = true
	challenged.Challenger = datagen.RandAddress()
	challenged.Median = uint256.NewInt(11)
	require.NoError(t, db.Insert(ctx, challenged))
	got, err = db.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, challenged, got)

	assert.NotEmpty(t, db.DriverVersion())
	assert.Equal(t, ":memory:", db.Path())
}

func TestFilter(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	for e := uint64(1); e <= 10; e++ {
		require.NoError(t, db.Insert(ctx, newResult(e)))
	}

	tests := []struct {
		name   string
		filter *Filter
		want   []uint64
	}{
		{"all", nil, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"range", &Filter{From: 3, To: 5}, []uint64{3, 4, 5}},
		{"open end desc", &Filter{From: 8, Order: DESC}, []uint64{10, 9, 8}},
		{"paged", &Filter{From: 1, Offset: 2, Limit: 3}, []uint64{3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := db.Filter(ctx, tt.filter)
			require.NoError(t, err)
			epochs := make([]uint64, 0, len(results))
			for _, r := range results {
				epochs = append(epochs, r.Epoch)
			}
			assert.Equal(t, tt.want, epochs)
		})
	}

	latest, err := db.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), latest.Epoch)
}
