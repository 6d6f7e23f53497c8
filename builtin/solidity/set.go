// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/skillstake/thor"
)

// Set is an enumerable set of addresses, laid out like OpenZeppelin's EnumerableSet:
// a length counter, an index -> item mapping and an item -> 1-based index mapping.
type Set struct {
	length  *Uint256
	items   *Mapping[thor.Bytes32, thor.Address]
	indexes *Mapping[thor.Address, uint64]
}

func NewSet(context *Context, pos thor.Bytes32) *Set {
	return &Set{
		length:  NewUint256(context, thor.Blake2b(pos.Bytes(), []byte("length"))),
		items:   NewMapping[thor.Bytes32, thor.Address](context, thor.Blake2b(pos.Bytes(), []byte("items"))),
		indexes: NewMapping[thor.Address, uint64](context, thor.Blake2b(pos.Bytes(), []byte("indexes"))),
	}
}

func (s *Set) Len() (uint64, error) {
	n, err := s.length.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (s *Set) Contains(addr thor.Address) (bool, error) {
	idx, err := s.indexes.Get(addr)
	return idx != 0, err
}

// Add inserts addr. It returns false if it was already present.
func (s *Set) Add(addr thor.Address) (bool, error) {
	if ok, err := s.Contains(addr); err != nil || ok {
		return false, err
	}
	n, err := s.Len()
	if err != nil {
		return false, err
	}
	if err := s.items.Set(thor.Uint64ToBytes32(n), addr); err != nil {
		return false, err
	}
	if err := s.indexes.Set(addr, n+1); err != nil {
		return false, err
	}
	s.length.Set(new(big.Int).SetUint64(n + 1))
	return true, nil
}

// Remove deletes addr by moving the last item into its place. It returns false if addr was absent.
func (s *Set) Remove(addr thor.Address) (bool, error) {
	idx, err := s.indexes.Get(addr)
	if err != nil || idx == 0 {
		return false, err
	}
	n, err := s.Len()
	if err != nil {
		return false, err
	}
	last := n - 1
	if idx-1 != last {
		moved, err := s.items.Get(thor.Uint64ToBytes32(last))
		if err != nil {
			return false, err
		}
		if err := s.items.Set(thor.Uint64ToBytes32(idx-1), moved); err != nil {
			return false, err
		}
		if err := s.indexes.Set(moved, idx); err != nil {
			return false, err
		}
	}
	s.items.Delete(thor.Uint64ToBytes32(last))
	s.indexes.Delete(addr)
	s.length.Set(new(big.Int).SetUint64(last))
	return true, nil
}

// At returns the item at position i. Order is not stable across removals.
func (s *Set) At(i uint64) (thor.Address, error) {
	return s.items.Get(thor.Uint64ToBytes32(i))
}

// Iterate calls fn for every item until fn returns false.
func (s *Set) Iterate(fn func(thor.Address) (bool, error)) error {
	n, err := s.Len()
	if err != nil {
		return err
	}
	for i := range n {
		addr, err := s.At(i)
		if err != nil {
			return err
		}
		if cont, err := fn(addr); err != nil || !cont {
			return err
		}
	}
	return nil
}

// Values returns all items.
func (s *Set) Values() ([]thor.Address, error) {
	var out []thor.Address
	err := s.Iterate(func(addr thor.Address) (bool, error) {
		out = append(out, addr)
		return true, nil
	})
	return out, err
}
