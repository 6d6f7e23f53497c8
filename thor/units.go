// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Time units, in seconds.
const (
	Hour uint64 = 3600
	Day         = 24 * Hour
)

// BasisPoints is the denominator of every percentage expressed in basis points.
const BasisPoints uint64 = 10_000

// Token is one whole token expressed in wei.
var Token = big.NewInt(1e18)

// Tokens returns n whole tokens in wei.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Token)
}

// Wei parses a decimal amount of wei. Returns nil if s is not a number.
func Wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return v
}
