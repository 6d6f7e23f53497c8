// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Waiter is woken by the broadcast following its creation.
type Waiter interface {
	C() <-chan struct{}
}

// Signal broadcasts to every goroutine holding a Waiter. Unlike sync.Cond it is
// channel based, so waiting can be combined with other cases in a select.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters created before the call.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.current())
	s.ch = make(chan struct{})
}

// NewWaiter returns a one-shot waiter for the next broadcast.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return waiter(s.current())
}

type waiter <-chan struct{}

func (w waiter) C() <-chan struct{} { return w }
