// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

type OrderType string

const (
	ASC  OrderType = "asc"
	DESC OrderType = "desc"
)

// Range bounds the timestamp of events, inclusive. A To below From leaves the range open.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Address *thor.Address `json:"address"`
	User    *thor.Address `json:"user"`
	Names   []string      `json:"names"`
	Range   *Range        `json:"range"`
	Order   OrderType     `json:"order"`
	Options *Options      `json:"options"`
}

// Event is a persisted module event.
type Event struct {
	Seq       uint64
	Timestamp uint64
	Address   thor.Address
	Name      string
	User      thor.Address
	Amount    *big.Int
	Fields    map[string]string
}

// Topic identifies the event kind independently of its name encoding, as keccak256(name).
func (e *Event) Topic() thor.Bytes32 {
	return thor.Keccak256([]byte(e.Name))
}

// NewEvent wraps a committed state event with the time of the call that emitted it.
func NewEvent(timestamp uint64, ev *state.Event) *Event {
	var amount *big.Int
	if ev.Amount != nil {
		amount = new(big.Int).Set(ev.Amount)
	}
	return &Event{
		Timestamp: timestamp,
		Address:   ev.Address,
		Name:      ev.Name,
		User:      ev.User,
		Amount:    amount,
		Fields:    ev.Fields,
	}
}
