// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"
)

// Deposit is a single locked amount of a user.
type Deposit struct {
	Amount      *big.Int
	CreatedAt   uint64
	LastClaimAt uint64
	Lockup      uint64 // seconds, one of the configured lockup tiers
}

func NewDeposit(amount *big.Int, now, lockup uint64) *Deposit {
	return &Deposit{
		Amount:      new(big.Int).Set(amount),
		CreatedAt:   now,
		LastClaimAt: now,
		Lockup:      lockup,
	}
}

// UnlockAt is the first timestamp at which the deposit may be withdrawn.
func (d *Deposit) UnlockAt() uint64 {
	return d.CreatedAt + d.Lockup
}

func (d *Deposit) IsLocked(now uint64) bool {
	return now < d.UnlockAt()
}

// Age returns the seconds elapsed since creation, zero if now precedes it.
func (d *Deposit) Age(now uint64) uint64 {
	if now <= d.CreatedAt {
		return 0
	}
	return now - d.CreatedAt
}

// SinceClaim returns the seconds elapsed since the last claim, zero if now precedes it.
func (d *Deposit) SinceClaim(now uint64) uint64 {
	if now <= d.LastClaimAt {
		return 0
	}
	return now - d.LastClaimAt
}

// Sum returns the total amount of the deposits.
func Sum(deposits []*Deposit) *big.Int {
	total := new(big.Int)
	for _, d := range deposits {
		total.Add(total, d.Amount)
	}
	return total
}
