// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/thor"
)

// FilteredEvent is the JSON form of a persisted event.
type FilteredEvent struct {
	Seq       uint64                `json:"seq"`
	Timestamp uint64                `json:"timestamp"`
	Address   thor.Address          `json:"address"`
	Name      string                `json:"name"`
	Topic     thor.Bytes32          `json:"topic"`
	User      thor.Address          `json:"user"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	Fields    map[string]string     `json:"fields,omitempty"`
}

func ConvertEvent(e *eventdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Seq:       e.Seq,
		Timestamp: e.Timestamp,
		Address:   e.Address,
		Name:      e.Name,
		Topic:     e.Topic(),
		User:      e.User,
		Amount:    utils.Amount(e.Amount),
		Fields:    e.Fields,
	}
}
