// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

var (
	admin       = thor.BytesToAddress([]byte("admin"))
	marketplace = thor.BytesToAddress([]byte("marketplace"))
	alice       = thor.BytesToAddress([]byte("alice"))
	bob         = thor.BytesToAddress([]byte("bob"))
)

const now = uint64(1_700_000_000)

func newSkills(t *testing.T) *Skills {
	st := state.New(lvldb.NewMem(), 1)
	s := New(solidity.NewContext(builtin.Skills, st), params.Default())
	require.NoError(t, s.Initialize(admin, marketplace))
	return s
}

func TestBoostStacking(t *testing.T) {
	s := newSkills(t)

	_, err := s.Activate(marketplace, alice, 1, StakingBoost, 500, now)
	require.NoError(t, err)
	_, err = s.Activate(alice, alice, 2, StakingBoost, 1000, now)
	require.NoError(t, err)

	boost, err := s.StakingBoost(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), boost)

	require.NoError(t, s.Deactivate(marketplace, alice, 1, now))
	boost, err = s.StakingBoost(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), boost)

	active, err := s.ActiveSkills(alice)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, uint64(2), active[0].ObjectID)
}

func TestActivateErrors(t *testing.T) {
	s := newSkills(t)
	_, err := s.Activate(alice, alice, 1, StakingBoost, 500, now)
	require.NoError(t, err)

	tests := []struct {
		name   string
		caller thor.Address
		object uint64
		kind   Kind
		effect uint64
		want   reverts.Kind
	}{
		{"stranger", bob, 7, StakingBoost, 100, reverts.Unauthorized},
		{"already active", alice, 1, StakingBoost, 100, reverts.AlreadyActive},
		{"zero effect", alice, 7, StakingBoost, 0, reverts.InvalidAmount},
		{"effect too high", alice, 7, StakingBoost, 10_001, reverts.InvalidAmount},
		{"unknown kind", alice, 7, Kind(9), 100, reverts.InvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Activate(tt.caller, alice, tt.object, tt.kind, tt.effect, now)
			assert.True(t, reverts.Is(err, tt.want), "got %v", err)
		})
	}

	assert.True(t, reverts.Is(s.Deactivate(alice, alice, 99, now), reverts.NotActive))
	assert.True(t, reverts.Is(s.Deactivate(bob, alice, 1, now), reverts.Unauthorized))
}

func TestMaxSkillsAndLevel(t *testing.T) {
	s := newSkills(t)
	for i := uint64(1); i <= 3; i++ {
		_, err := s.Activate(alice, alice, i, StakingBoost, 100, now)
		require.NoError(t, err)
	}
	_, err := s.Activate(alice, alice, 4, StakingBoost, 100, now)
	assert.True(t, reverts.Is(err, reverts.MaxSkillsReached))

	// level 10 opens a fourth slot
	require.NoError(t, s.SyncLevel(alice, 10, 10_000))
	_, err = s.Activate(alice, alice, 4, StakingBoost, 100, now)
	require.NoError(t, err)

	p, err := s.Profile(alice)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), p.MaxActiveSkills)
	assert.Equal(t, uint64(4), p.ActiveSkills)
	assert.Equal(t, uint16(10), p.Level)

	// slots never exceed the maximum
	require.NoError(t, s.SyncLevel(alice, 5000, 5_000_000))
	p, _ = s.Profile(alice)
	assert.Equal(t, uint8(10), p.MaxActiveSkills)
}

func TestCooldown(t *testing.T) {
	s := newSkills(t)
	_, err := s.Activate(alice, alice, 1, StakingBoost, 100, now)
	require.NoError(t, err)
	require.NoError(t, s.Deactivate(alice, alice, 1, now))

	_, err = s.Activate(alice, alice, 1, StakingBoost, 100, now+thor.Hour-1)
	assert.True(t, reverts.Is(err, reverts.SkillOnCooldown))
	_, err = s.Activate(alice, alice, 1, StakingBoost, 100, now+thor.Hour)
	assert.NoError(t, err)
}

func TestFeeDiscountAndAutoCompound(t *testing.T) {
	s := newSkills(t)
	_, err := s.Activate(alice, alice, 1, FeeReduction, 3000, now)
	require.NoError(t, err)
	_, err = s.Activate(alice, alice, 2, FeeReduction, 4000, now)
	require.NoError(t, err)
	_, err = s.Activate(alice, alice, 3, AutoCompound, 200, now)
	require.NoError(t, err)

	discount, err := s.FeeDiscount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), discount, "capped")

	p, _ := s.Profile(alice)
	assert.True(t, p.HasAutoCompound())
	assert.Equal(t, uint64(200), p.StakingBoostTotal)

	// the raw sum is kept so removing one reduction is exact
	require.NoError(t, s.Deactivate(alice, alice, 2, now))
	discount, _ = s.FeeDiscount(alice)
	assert.Equal(t, uint64(3000), discount)

	require.NoError(t, s.Deactivate(alice, alice, 3, now))
	p, _ = s.Profile(alice)
	assert.False(t, p.HasAutoCompound())
	assert.Equal(t, uint64(0), p.StakingBoostTotal)
}

func TestRarity(t *testing.T) {
	s := newSkills(t)

	m, err := s.RarityMultiplier(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), m)

	assert.True(t, reverts.Is(s.SetRarity(alice, 1, Epic), reverts.Unauthorized))
	assert.True(t, reverts.Is(s.SetRarity(admin, 1, Rarity(5)), reverts.InvalidAmount))
	require.NoError(t, s.SetRarity(admin, 1, Rare))

	a, err := s.Activate(alice, alice, 1, StakingBoost, 100, now)
	require.NoError(t, err)
	assert.Equal(t, Rare, a.Rarity)
	_, err = s.Activate(alice, alice, 2, StakingBoost, 100, now)
	require.NoError(t, err)

	m, _ = s.RarityMultiplier(alice)
	assert.Equal(t, uint64(120), m)

	require.NoError(t, s.BatchSetRarity(marketplace, []RarityUpdate{
		{ObjectID: 1, Rarity: Common},
		{ObjectID: 2, Rarity: Legendary},
	}))
	m, _ = s.RarityMultiplier(alice)
	assert.Equal(t, uint64(180), m)

	r, _ := s.RarityOf(2)
	assert.Equal(t, Legendary, r)
	a, _ = s.Activation(alice, 1)
	assert.Equal(t, Common, a.Rarity)
}

func TestSetMarketplace(t *testing.T) {
	s := newSkills(t)
	other := thor.BytesToAddress([]byte("other"))

	assert.True(t, reverts.Is(s.SetMarketplace(alice, other), reverts.Unauthorized))
	require.NoError(t, s.SetMarketplace(admin, other))

	_, err := s.Activate(marketplace, alice, 1, StakingBoost, 100, now)
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	_, err = s.Activate(other, alice, 1, StakingBoost, 100, now)
	assert.NoError(t, err)
}
