// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the storage contract the oracle state is persisted through.
package kv

// Getter reads committed slots.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// IsNotFound reports whether err is the error Get returns for an absent key.
	IsNotFound(err error) bool
}

// Putter writes slots.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes until Write, which applies them atomically.
// State commits every successful oracle call through a single Bulk.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Store is a kv store able to apply bulk writes.
type Store interface {
	Getter
	Putter

	Bulk() Bulk
}
