// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"slices"

	"github.com/qianbin/directcache"

	"github.com/vechain/skillstake/cache"
	"github.com/vechain/skillstake/kv"
	"github.com/vechain/skillstake/stackedmap"
	"github.com/vechain/skillstake/thor"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

// dbKey is addr || key.
func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, 52)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// cached values are prefixed with a presence flag so that misses on the
// store can be cached too.
const (
	absent  byte = 0
	present byte = 1
)

// State manages the storage of every module.
// Changes are journaled in a stacked map and only reach the kv store on Stage().Commit().
type State struct {
	db     kv.Store
	cache  *directcache.Cache
	stats  cache.Stats
	sm     *stackedmap.StackedMap[storageKey, []byte]
	events []Event
	marks  []int // len(events) at each checkpoint level
}

// New create state object. cacheSizeMB sizes the read cache in front of db.
func New(db kv.Store, cacheSizeMB int) *State {
	s := &State{
		db:    db,
		cache: directcache.New(max(cacheSizeMB, 1) * 1024 * 1024),
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.load)
	s.sm.Push()
	s.events = nil
	s.marks = []int{0}
}

// load implements stackedmap.MapGetter.
func (s *State) load(k storageKey) ([]byte, bool, error) {
	dbKey := k.dbKey()

	var cached []byte
	if s.cache.AdvGet(dbKey, func(val []byte) {
		cached = slices.Clone(val)
	}, false) && len(cached) > 0 {
		s.stats.Hit()
		if cached[0] == absent {
			return nil, true, nil
		}
		return cached[1:], true, nil
	}
	s.stats.Miss()

	val, err := s.db.Get(dbKey)
	if err != nil {
		if s.db.IsNotFound(err) {
			s.cache.Set(dbKey, []byte{absent})
			return nil, true, nil
		}
		return nil, false, err
	}
	s.cache.Set(dbKey, append([]byte{present}, val...))
	return val, true, nil
}

// GetRawStorage returns the raw value stored at key of addr. nil means empty.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage sets the raw value. An empty value deletes the entry.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, slices.Clone(raw))
}

// GetStorage returns the storage value as a 32 byte word.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	return thor.BytesToBytes32(raw), nil
}

// SetStorage sets the storage value as a 32 byte word with leading zeros trimmed.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	b := value[:]
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	s.SetRawStorage(addr, key, b)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be passed through.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// Emit appends an event. Events are dropped together with storage changes on revert.
func (s *State) Emit(ev Event) {
	s.events = append(s.events, ev)
}

// Events returns events emitted since the last commit.
func (s *State) Events() []Event {
	return slices.Clone(s.events)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	rev := s.sm.Push()
	s.marks = append(s.marks[:rev], len(s.events))
	return rev
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < len(s.marks) {
		s.events = s.events[:s.marks[revision]]
		s.marks = s.marks[:revision]
	}
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.reset()
	}
}

// Stage collects the pending changes for committing.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k storageKey, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{state: s, changes: changes, events: s.Events()}
}
