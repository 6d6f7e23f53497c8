// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/vechain/skillstake/thor"
)

// Event is a notification emitted by a module during a call.
type Event struct {
	Address thor.Address      // emitting module
	Name    string            // e.g. "Deposited", "GrantExpired"
	User    thor.Address      // the account the event is about
	Amount  *big.Int          // optional
	Fields  map[string]string // extra attributes
}
