// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-oracle/lvldb"
	"github.com/vechain/thor-oracle/thor"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db := lvldb.NewMem()
	t.Cleanup(func() { db.Close() })

	st, err := New(db, 0)
	require.NoError(t, err)
	return st, db
}

func TestStateCheckpointRevert(t *testing.T) {
	st, _ := newTestState(t)
	addr := thor.BytesToAddress([]byte("contract"))
	key := thor.BytesToBytes32([]byte("slot"))

	st.SetRawStorage(addr, key, []byte{1})

	cp := st.NewCheckpoint()
	st.SetRawStorage(addr, key, []byte{2})
	raw, err := st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, []byte{2}, raw)

	st.RevertTo(cp)
	raw, err = st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1}, raw)
}

func TestStateCommitPersists(t *testing.T) {
	st, db := newTestState(t)
	addr := thor.BytesToAddress([]byte("contract"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetRawStorage(addr, k1, []byte("a"))
	st.SetRawStorage(addr, k2, []byte("b"))
	require.NoError(t, st.Commit())

	// a fresh state on the same store sees committed values
	st2, err := New(db, 0)
	require.NoError(t, err)
	raw, err := st2.GetRawStorage(addr, k1)
	assert.NoError(t, err)
	assert.Equal(t, []byte("a"), raw)

	// deleting through an empty value
	st2.SetRawStorage(addr, k2, nil)
	require.NoError(t, st2.Commit())

	st3, err := New(db, 0)
	require.NoError(t, err)
	raw, err = st3.GetRawStorage(addr, k2)
	assert.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStateRevertedWritesNotCommitted(t *testing.T) {
	st, db := newTestState(t)
	addr := thor.BytesToAddress([]byte("contract"))
	key := thor.BytesToBytes32([]byte("slot"))

	cp := st.NewCheckpoint()
	st.SetRawStorage(addr, key, []byte("dropped"))
	st.RevertTo(cp)
	require.NoError(t, st.Commit())

	st2, err := New(db, 0)
	require.NoError(t, err)
	raw, err := st2.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Nil(t, raw)
}

func TestEncodeDecodeStorage(t *testing.T) {
	st, _ := newTestState(t)
	addr := thor.BytesToAddress([]byte("contract"))
	key := thor.BytesToBytes32([]byte("slot"))

	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return []byte("encoded"), nil
	}))
	var got string
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		got = string(raw)
		return nil
	}))
	assert.Equal(t, "encoded", got)
}
