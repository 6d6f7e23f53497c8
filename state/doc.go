// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides the journaled storage shared by the native modules.
// Writes go to an in-memory stack of maps so that a call can be rolled back as a unit,
// and are flushed to the kv store only when staged and committed.
package state
