// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/vechain/skillstake/api/events"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/thor"
)

// readBatch is the number of events fetched per read.
const readBatch = 100

// eventReader follows the event log from a sequence number, keeping the events that match.
type eventReader struct {
	db    *eventdb.EventDB
	cache *messageCache
	seq   uint64
	user  *thor.Address
	names []string
}

func newEventReader(db *eventdb.EventDB, cache *messageCache, seq uint64, user *thor.Address, names []string) *eventReader {
	return &eventReader{
		db:    db,
		cache: cache,
		seq:   seq,
		user:  user,
		names: names,
	}
}

func (r *eventReader) match(e *eventdb.Event) bool {
	if r.user != nil && e.User != *r.user {
		return false
	}
	return len(r.names) == 0 || slices.Contains(r.names, e.Name)
}

// Read returns the encoded messages of the next matching events. The bool reports
// whether more events may be pending.
func (r *eventReader) Read(ctx context.Context) ([][]byte, bool, error) {
	evs, err := r.db.After(ctx, r.seq, readBatch)
	if err != nil {
		return nil, false, err
	}
	var msgs [][]byte
	for _, e := range evs {
		r.seq = e.Seq
		if !r.match(e) {
			continue
		}
		msg, _, err := r.cache.GetOrAdd(e.Seq, func() ([]byte, error) {
			return json.Marshal(events.ConvertEvent(e))
		})
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, len(evs) == readBatch, nil
}
