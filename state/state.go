// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/thor-oracle/kv"
	"github.com/vechain/thor-oracle/stackedmap"
	"github.com/vechain/thor-oracle/thor"
)

const storeName = "s"

// DefaultCacheSize number of committed slots kept in memory.
const DefaultCacheSize = 16384

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, thor.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages contract storage of the built-in contracts.
// Uncommitted writes are kept in a stacked map so that any call can be reverted to a checkpoint.
type State struct {
	store kv.Store
	cache *lru.Cache
	sm    *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object on top of the given store.
func New(db kv.Store, cacheSize int) (*State, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, &Error{err}
	}
	s := &State{
		store: kv.Bucket(storeName).NewStore(db),
		cache: cache,
	}
	s.sm = stackedmap.New(s.committedGetter)
	return s, nil
}

// committedGetter implements stackedmap.MapGetter.
func (s *State) committedGetter(key storageKey) ([]byte, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]byte), true, nil
	}
	raw, err := s.store.Get(key.dbKey())
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	s.cache.Add(key, raw)
	return raw, true, nil
}

// GetRawStorage returns the raw storage value for the given contract and key.
// An absent value is returned as nil.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) ([]byte, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set storage value in raw form. Empty raw deletes the value.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Commit writes every pending change into the store in one bulk and clears the journal.
func (s *State) Commit() error {
	changes := make(map[storageKey][]byte)
	var order []storageKey
	s.sm.Journal(func(k storageKey, v []byte) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	if len(order) == 0 {
		return nil
	}

	bulk := s.store.Bulk()
	for _, k := range order {
		v := changes[k]
		if len(v) == 0 {
			if err := bulk.Delete(k.dbKey()); err != nil {
				return &Error{err}
			}
			continue
		}
		if err := bulk.Put(k.dbKey(), v); err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}

	for _, k := range order {
		if v := changes[k]; len(v) == 0 {
			s.cache.Remove(k)
		} else {
			s.cache.Add(k, v)
		}
	}
	s.sm.Reset()
	return nil
}
