// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/vechain/skillstake/thor"

// Record is a single rlp encoded value stored at a fixed position.
type Record[V any] struct {
	inner *Mapping[thor.Bytes32, V]
}

func NewRecord[V any](context *Context, pos thor.Bytes32) *Record[V] {
	return &Record[V]{inner: NewMapping[thor.Bytes32, V](context, pos)}
}

func (r *Record[V]) Get() (V, error) {
	return r.inner.Get(thor.Bytes32{})
}

func (r *Record[V]) Set(value V) error {
	return r.inner.Set(thor.Bytes32{}, value)
}
