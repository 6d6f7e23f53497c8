// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

type TestStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  thor.Address
	Flag   bool
}

func newTestContext() *Context {
	return NewContext(thor.Address{1}, state.New(lvldb.NewMem(), 1))
}

func TestMapping_StructPointer(t *testing.T) {
	mapping := NewMapping[thor.Bytes32, *TestStruct](newTestContext(), thor.BytesToBytes32([]byte("structs")))
	key := thor.Blake2b([]byte("key"))
	value := &TestStruct{Field1: 100, Amount: big.NewInt(42), Addr1: thor.Address{9}, Flag: true}

	t.Run("missing key returns nil", func(t *testing.T) {
		got, err := mapping.Get(key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, mapping.Set(key, value))
		got, err := mapping.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("nil pointer clears", func(t *testing.T) {
		require.NoError(t, mapping.Set(key, nil))
		got, err := mapping.Get(key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestMapping_Values(t *testing.T) {
	ctx := newTestContext()
	addrs := NewMapping[thor.Address, thor.Address](ctx, thor.BytesToBytes32([]byte("addrs")))
	counts := NewMapping[thor.Address, uint64](ctx, thor.BytesToBytes32([]byte("counts")))

	got, err := addrs.Get(thor.Address{2})
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, addrs.Set(thor.Address{2}, thor.Address{3}))
	require.NoError(t, counts.Set(thor.Address{2}, 7))

	got, _ = addrs.Get(thor.Address{2})
	assert.Equal(t, thor.Address{3}, got)
	n, _ := counts.Get(thor.Address{2})
	assert.Equal(t, uint64(7), n)

	// same key under another base position does not collide
	other, _ := counts.Get(thor.Address{3})
	assert.Zero(t, other)

	counts.Delete(thor.Address{2})
	n, _ = counts.Get(thor.Address{2})
	assert.Zero(t, n)
}

func TestRecord(t *testing.T) {
	rec := NewRecord[TestStruct](newTestContext(), thor.BytesToBytes32([]byte("record")))
	v, err := rec.Get()
	require.NoError(t, err)
	assert.Nil(t, v.Amount)

	require.NoError(t, rec.Set(TestStruct{Field1: 1, Amount: big.NewInt(5)}))
	v, err = rec.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Field1)
	assert.Equal(t, big.NewInt(5), v.Amount)
}

func TestUint256(t *testing.T) {
	u := NewUint256(newTestContext(), thor.BytesToBytes32([]byte("counter")))

	value, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, value.Sign())

	u.Set(big.NewInt(1000))
	require.NoError(t, u.Add(big.NewInt(500)))
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1500), value)

	require.NoError(t, u.Sub(big.NewInt(200)))
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1300), value)

	require.NoError(t, u.Sub(big.NewInt(5000)))
	value, _ = u.Get()
	assert.Equal(t, 0, value.Sign())
}

func TestSet(t *testing.T) {
	set := NewSet(newTestContext(), thor.BytesToBytes32([]byte("users")))
	a, b, c := thor.Address{1}, thor.Address{2}, thor.Address{3}

	for _, addr := range []thor.Address{a, b, c} {
		added, err := set.Add(addr)
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := set.Add(b)
	require.NoError(t, err)
	assert.False(t, added)

	n, _ := set.Len()
	assert.Equal(t, uint64(3), n)

	removed, err := set.Remove(a)
	require.NoError(t, err)
	assert.True(t, removed)

	values, err := set.Values()
	require.NoError(t, err)
	assert.ElementsMatch(t, []thor.Address{b, c}, values)

	ok, _ := set.Contains(a)
	assert.False(t, ok)
	ok, _ = set.Contains(c)
	assert.True(t, ok)

	removed, _ = set.Remove(a)
	assert.False(t, removed)

	// remove the last item
	removed, _ = set.Remove(b)
	assert.True(t, removed)
	values, _ = set.Values()
	assert.Equal(t, []thor.Address{c}, values)

	var visited int
	require.NoError(t, set.Iterate(func(thor.Address) (bool, error) {
		visited++
		return false, nil
	}))
	assert.Equal(t, 1, visited)
}
