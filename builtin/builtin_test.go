// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/skillstake/thor"
)

func TestAddressesDistinct(t *testing.T) {
	seen := make(map[thor.Address]bool)
	for _, addr := range []thor.Address{Ledger, Rewards, Skills, Gamification, Bank} {
		assert.False(t, addr.IsZero())
		assert.False(t, seen[addr])
		seen[addr] = true
	}
}
