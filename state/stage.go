// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"
)

// Stage abstracts the changes pending on a state.
type Stage struct {
	state   *State
	changes map[storageKey][]byte
	events  []Event
}

// Len returns the count of changed storage entries.
func (s *Stage) Len() int { return len(s.changes) }

// Events returns the events that will be committed with the changes.
func (s *Stage) Events() []Event { return s.events }

// Commit writes all changes into the kv store in one atomic batch and resets the journal.
func (s *Stage) Commit() error {
	st := s.state
	bulk := st.db.Bulk()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.dbKey())
		} else {
			err = bulk.Put(k.dbKey(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	for k, v := range s.changes {
		if len(v) == 0 {
			st.cache.Set(k.dbKey(), []byte{absent})
		} else {
			st.cache.Set(k.dbKey(), append([]byte{present}, v...))
		}
	}
	st.reset()

	metricCommittedEntries().Add(int64(len(s.changes)))
	if changed, hit, miss := st.stats.Stats(); changed {
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"event": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"event": "miss"})
	}
	return nil
}
