// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// U256 converts v for JSON output, nil stays nil.
func U256(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

// ParseU256 converts a JSON quantity to a uint256, rejecting negative and oversized values.
func ParseU256(v *math.HexOrDecimal256, name string) (*uint256.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.Errorf("%s: missing", name))
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, BadRequest(errors.Errorf("%s: negative", name))
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return nil, BadRequest(errors.Errorf("%s: exceeds 256 bits", name))
	}
	return u, nil
}

// ParseUint64 parses a decimal or 0x prefixed path or query parameter.
func ParseUint64(s string, name string) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}
