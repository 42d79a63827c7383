// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package beacon supplies the per-epoch randomness used to elect proposers.
package beacon

import (
	"crypto/ecdsa"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/go-ecvrf"

	"github.com/vechain/thor-oracle/thor"
)

var alphaPrefix = []byte("oracle-epoch-seed")

// Beacon returns one unpredictable seed per epoch.
type Beacon interface {
	Seed(epoch uint64) (*uint256.Int, error)
}

// Func adapts a function to Beacon.
type Func func(epoch uint64) (*uint256.Int, error)

func (f Func) Seed(epoch uint64) (*uint256.Int, error) {
	return f(epoch)
}

// Fixed returns the same seed for every epoch.
func Fixed(seed *uint256.Int) Beacon {
	return Func(func(uint64) (*uint256.Int, error) {
		return seed.Clone(), nil
	})
}

// Alpha is the VRF input of epoch.
func Alpha(epoch uint64) thor.Bytes32 {
	return thor.Blake2b(alphaPrefix, thor.EpochBytes(epoch))
}

// Proof is a published seed with the VRF proof that binds it to the beacon key.
type Proof struct {
	Epoch uint64
	Beta  []byte
	Pi    []byte
}

// Seed interprets the VRF output as a big-endian u256.
func (p *Proof) Seed() *uint256.Int {
	return new(uint256.Int).SetBytes32(p.Beta)
}

// VRF derives seeds with ECVRF-SECP256K1-SHA256-TAI, so anyone holding the public key can
// check that a seed was not chosen by the beacon operator.
type VRF struct {
	key    *ecdsa.PrivateKey
	proofs *lru.Cache
	mu     sync.Mutex
}

func NewVRF(key *ecdsa.PrivateKey) *VRF {
	proofs, _ := lru.New(256)
	return &VRF{key: key, proofs: proofs}
}

func (v *VRF) PublicKey() *ecdsa.PublicKey {
	return &v.key.PublicKey
}

func (v *VRF) Address() thor.Address {
	return thor.Address(crypto.PubkeyToAddress(v.key.PublicKey))
}

// Prove returns the proof for epoch, computing it at most once while cached.
func (v *VRF) Prove(epoch uint64) (*Proof, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if cached, ok := v.proofs.Get(epoch); ok {
		return cached.(*Proof), nil
	}
	alpha := Alpha(epoch)
	beta, pi, err := ecvrf.Secp256k1Sha256Tai.Prove(v.key, alpha[:])
	if err != nil {
		return nil, errors.Wrap(err, "vrf prove")
	}
	p := &Proof{Epoch: epoch, Beta: beta, Pi: pi}
	v.proofs.Add(epoch, p)
	return p, nil
}

func (v *VRF) Seed(epoch uint64) (*uint256.Int, error) {
	p, err := v.Prove(epoch)
	if err != nil {
		return nil, err
	}
	return p.Seed(), nil
}

// Verify checks pi against the beacon public key and returns the seed it proves.
func Verify(pub *ecdsa.PublicKey, epoch uint64, pi []byte) (*uint256.Int, error) {
	alpha := Alpha(epoch)
	beta, err := ecvrf.Secp256k1Sha256Tai.Verify(pub, alpha[:], pi)
	if err != nil {
		return nil, errors.Wrap(err, "vrf verify")
	}
	return new(uint256.Int).SetBytes32(beta), nil
}
