// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/builtin/solidity"
	"github.com/vechain/thor-oracle/lvldb"
	"github.com/vechain/thor-oracle/state"
	"github.com/vechain/thor-oracle/thor"
)

func newClock(t *testing.T) *Clock {
	st, err := state.New(lvldb.NewMem(), 0)
	require.NoError(t, err)
	return New(solidity.NewContext(thor.EpochAddress, st, nil))
}

func TestClockCycle(t *testing.T) {
	c := newClock(t)

	e, p, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, thor.FirstEpoch, e)
	assert.Equal(t, Commit, p)

	steps := []struct {
		from      Phase
		wantEpoch uint64
		wantPhase Phase
	}{
		{Commit, 1, Reveal},
		{Reveal, 1, Dispute},
		{Dispute, 2, Commit},
	}
	for _, s := range steps {
		e, p, err := c.Advance(e, s.from)
		require.NoError(t, err)
		assert.Equal(t, s.wantEpoch, e)
		assert.Equal(t, s.wantPhase, p)
	}

	e, p, err = c.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), e)
	assert.Equal(t, Commit, p)
}

func TestClockRejectsStaleTriggers(t *testing.T) {
	c := newClock(t)

	_, _, err := c.Advance(1, Reveal)
	assert.ErrorIs(t, err, reverts.PhaseNotReady)

	_, _, err = c.Advance(2, Commit)
	assert.ErrorIs(t, err, reverts.PhaseNotReady)

	_, _, err = c.Advance(1, Commit)
	require.NoError(t, err)

	// duplicate trigger
	_, _, err = c.Advance(1, Commit)
	assert.ErrorIs(t, err, reverts.PhaseNotReady)
	assert.Equal(t, reverts.KindPhase, reverts.KindOf(err))
}

func TestClockRequire(t *testing.T) {
	c := newClock(t)

	assert.NoError(t, c.Require(1, Commit))
	assert.ErrorIs(t, c.Require(1, Reveal), reverts.WrongPhase)
	assert.ErrorIs(t, c.Require(2, Commit), reverts.WrongPhase)
}

func TestParsePhase(t *testing.T) {
	for _, p := range []Phase{Commit, Reveal, Dispute} {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePhase("propose")
	assert.Error(t, err)
	assert.Equal(t, "phase(9)", Phase(9).String())
}
