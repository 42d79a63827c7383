// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/vechain/thor-oracle/kv"
	"github.com/vechain/thor-oracle/log"
	"github.com/vechain/thor-oracle/metrics"
)

var (
	logger = log.WithContext("pkg", "lvldb")

	metricReads    = metrics.LazyLoadCounterVec("store_reads_total", []string{"result"})
	metricBulkSize = metrics.LazyLoadHistogram("store_bulk_size", metrics.BucketBulkSize)
)

var _ kv.Store = (*LevelDB)(nil)

// Options options for creating level db instance.
type Options struct {
	// CacheSize in MiB, split between block cache and write buffer.
	CacheSize              int
	OpenFilesCacheCapacity int
}

const minCacheSize = 16

var (
	readOpt  = opt.ReadOptions{}
	writeOpt = opt.WriteOptions{}
	// bulks carry committed oracle calls and must survive a crash
	syncOpt = opt.WriteOptions{Sync: true}
)

// LevelDB is the persistent kv.Store of the oracle state.
type LevelDB struct {
	db  *leveldb.DB
	stg storage.Storage
}

// New opens the level db at path, creating it when absent.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	ldb, err := open(stg, opts)
	if err != nil {
		stg.Close()
		return nil, err
	}
	logger.Debug("level db opened", "path", path, "cache", opts.CacheSize)
	return ldb, nil
}

// NewMem creates a level db in memory, for tests and simulations.
func NewMem() *LevelDB {
	ldb, err := open(storage.NewMemStorage(), Options{})
	if err != nil {
		panic(err)
	}
	return ldb
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheSize := max(opts.CacheSize, minCacheSize)
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFilesCacheCapacity, minCacheSize),
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db, stg}, nil
}

// IsNotFound reports whether err is the not-found error of Get.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get returns the value of key, or an error satisfying IsNotFound.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := ldb.db.Get(key, &readOpt)
	switch {
	case err == nil:
		metricReads().AddWithLabel(1, map[string]string{"result": "hit"})
	case ldb.IsNotFound(err):
		metricReads().AddWithLabel(1, map[string]string{"result": "miss"})
	}
	return val, err
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

// Close closes the db and releases its storage lock. Later operations all fail.
func (ldb *LevelDB) Close() error {
	if err := ldb.db.Close(); err != nil {
		return err
	}
	return ldb.stg.Close()
}

// Bulk creates a batch whose writes are applied atomically and synced on Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &batch{ldb.db, new(leveldb.Batch)}
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int {
	return b.b.Len()
}

// Write applies the batch and resets it for reuse.
func (b *batch) Write() error {
	n := b.b.Len()
	if err := b.db.Write(b.b, &syncOpt); err != nil {
		return errors.Wrap(err, "write bulk")
	}
	metricBulkSize().Observe(int64(n))
	b.b.Reset()
	return nil
}
