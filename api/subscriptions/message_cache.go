// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/vechain/skillstake/cache"
)

const maxCachedMessages = 1000

// messageCache keeps the encoded messages of recent events, shared by every subscriber.
type messageCache struct {
	cache *cache.LRU[uint64, []byte]
	mu    sync.Mutex
}

func newMessageCache(size int) *messageCache {
	if size > maxCachedMessages {
		size = maxCachedMessages
	}
	if size <= 0 {
		size = 1
	}
	c, err := cache.NewLRU[uint64, []byte](size)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &messageCache{cache: c}
}

// GetOrAdd returns the message of the event with seq, creating and caching it when missing.
// The second return value tells whether the message was created by this call.
func (mc *messageCache) GetOrAdd(seq uint64, create func() ([]byte, error)) ([]byte, bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if msg, ok := mc.cache.Get(seq); ok {
		return msg, false, nil
	}
	msg, err := create()
	if err != nil {
		return nil, false, err
	}
	mc.cache.Add(seq, msg)
	return msg, true, nil
}
