// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeposit(t *testing.T) {
	amount := big.NewInt(100)
	d := NewDeposit(amount, 1000, 30)
	amount.SetInt64(1) // the deposit keeps its own copy

	assert.Equal(t, big.NewInt(100), d.Amount)
	assert.Equal(t, uint64(1030), d.UnlockAt())
	assert.True(t, d.IsLocked(1029))
	assert.False(t, d.IsLocked(1030))

	assert.Equal(t, uint64(0), d.Age(999))
	assert.Equal(t, uint64(5), d.Age(1005))

	d.LastClaimAt = 1010
	assert.Equal(t, uint64(0), d.SinceClaim(1005))
	assert.Equal(t, uint64(10), d.SinceClaim(1020))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0, Sum(nil).Sign())
	deposits := []*Deposit{
		NewDeposit(big.NewInt(3), 0, 0),
		NewDeposit(big.NewInt(4), 0, 0),
	}
	assert.Equal(t, big.NewInt(7), Sum(deposits))
}
