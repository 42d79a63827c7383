// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/thor-oracle/kv"
)

func TestLevelDB(t *testing.T) {
	db := NewMem()
	defer db.Close()

	_, err := db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := db.Has([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestBulkIsAtomic(t *testing.T) {
	db := NewMem()
	defer db.Close()

	bulk := db.Bulk()
	bulk.Put([]byte("a"), []byte("1"))
	bulk.Put([]byte("b"), []byte("2"))
	assert.Equal(t, 2, bulk.Len())

	has, _ := db.Has([]byte("a"))
	assert.False(t, has, "bulk must not be visible before Write")

	require.NoError(t, bulk.Write())
	v, err := db.Get([]byte("b"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}

func TestBucket(t *testing.T) {
	db := NewMem()
	defer db.Close()

	a := kv.Bucket("a.").NewStore(db)
	b := kv.Bucket("b.").NewStore(db)

	require.NoError(t, a.Put([]byte("k"), []byte("in-a")))
	_, err := b.Get([]byte("k"))
	assert.True(t, b.IsNotFound(err))

	raw, err := db.Get([]byte("a.k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("in-a"), raw)

	bulk := b.Bulk()
	bulk.Put([]byte("k"), []byte("in-b"))
	require.NoError(t, bulk.Write())
	v, err := b.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("in-b"), v)
}

func TestPersistentReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	db, err := New(dir, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = New(dir, Options{})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
