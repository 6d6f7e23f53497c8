// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin holds the addresses of the native modules.
package builtin

import "github.com/vechain/skillstake/thor"

// Native module addresses. They act as the caller identity when one module calls another.
var (
	Ledger       = thor.BytesToAddress([]byte("Ledger"))
	Rewards      = thor.BytesToAddress([]byte("Rewards"))
	Skills       = thor.BytesToAddress([]byte("Skills"))
	Gamification = thor.BytesToAddress([]byte("Gamification"))
	Bank         = thor.BytesToAddress([]byte("Bank"))
)
