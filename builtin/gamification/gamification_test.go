// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gamification

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
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

func newGamification(t *testing.T) (*Gamification, *state.State) {
	st := state.New(lvldb.NewMem(), 1)
	g := New(solidity.NewContext(builtin.Gamification, st), params.Default())
	require.NoError(t, g.Initialize(admin, marketplace))
	return g, st
}

func countEvents(st *state.State, name string) int {
	n := 0
	for _, ev := range st.Events() {
		if ev.Name == name {
			n++
		}
	}
	return n
}

func TestAwardXP(t *testing.T) {
	g, st := newGamification(t)

	p, err := g.AwardXP(alice, Stake, thor.Tokens(94))
	require.NoError(t, err)
	assert.Equal(t, uint64(94), p.XP)
	assert.Equal(t, uint16(0), p.Level)

	p, err = g.AwardXP(alice, Compound, thor.Tokens(2000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1094), p.XP)
	assert.Equal(t, uint16(1), p.Level)
	assert.Equal(t, 1, countEvents(st, "LevelUp"))

	// fractions of a token are worth nothing
	p, err = g.AwardXP(alice, Stake, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1094), p.XP)

	p, err = g.AwardXP(alice, Quest, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1194), p.XP)

	// saturates at the maximum
	p, err = g.AwardXP(alice, Stake, thor.Tokens(1_000_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), p.XP)
	assert.Equal(t, uint16(10_000), p.Level)
}

func TestXPMonotonic(t *testing.T) {
	g, _ := newGamification(t)
	f := fuzz.New().NilChance(0)

	var prev Progress
	for range 200 {
		var (
			action uint8
			amount uint64
		)
		f.Fuzz(&action)
		f.Fuzz(&amount)
		value := new(big.Int).Mul(new(big.Int).SetUint64(amount), big.NewInt(1e9))

		p, err := g.AwardXP(alice, Action(action%5), value)
		require.NoError(t, err)
		require.GreaterOrEqual(t, p.XP, prev.XP)
		require.GreaterOrEqual(t, p.Level, prev.Level)
		require.LessOrEqual(t, p.XP, uint64(10_000_000))
		prev = *p
	}
}

func TestDuplicateQuest(t *testing.T) {
	g, _ := newGamification(t)

	_, err := g.CompleteQuest(marketplace, alice, 1, big.NewInt(10), 30, now)
	require.NoError(t, err)
	_, err = g.CompleteQuest(marketplace, alice, 1, big.NewInt(99), 30, now)
	assert.True(t, reverts.Is(err, reverts.DuplicateGrant), "got %v", err)

	grant, err := g.Grant(alice, QuestGrant, 1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), grant.Amount)
	assert.Equal(t, now+30*thor.Day, grant.ExpiresAt)

	// ids are scoped per kind and per user
	_, err = g.UnlockAchievement(marketplace, alice, 1, big.NewInt(5), 30, now)
	assert.NoError(t, err)
	_, err = g.CompleteQuest(marketplace, bob, 1, big.NewInt(5), 30, now)
	assert.NoError(t, err)

	p, _ := g.Progress(alice)
	assert.Equal(t, uint64(100+250), p.XP)
}

func TestCreateGrantErrors(t *testing.T) {
	g, _ := newGamification(t)

	tests := []struct {
		name   string
		caller thor.Address
		user   thor.Address
		reward *big.Int
		days   uint64
		want   reverts.Kind
	}{
		{"not marketplace", alice, alice, big.NewInt(1), 30, reverts.Unauthorized},
		{"zero user", marketplace, thor.Address{}, big.NewInt(1), 30, reverts.InvalidAddress},
		{"zero reward", marketplace, alice, big.NewInt(0), 30, reverts.InvalidAmount},
		{"no expiry", marketplace, alice, big.NewInt(1), 0, reverts.InvalidAmount},
		{"expiry too far", marketplace, alice, big.NewInt(1), 366, reverts.InvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.CompleteQuest(tt.caller, tt.user, 1, tt.reward, tt.days, now)
			assert.True(t, reverts.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestClaim(t *testing.T) {
	g, _ := newGamification(t)
	_, err := g.CompleteQuest(marketplace, alice, 1, big.NewInt(10), 1, now)
	require.NoError(t, err)

	holders, _ := g.GrantHolders()
	assert.Equal(t, []thor.Address{alice}, holders)

	_, err = g.ClaimQuest(alice, 2, now)
	assert.True(t, reverts.Is(err, reverts.GrantNotFound))
	// only the owner can reach its grant
	_, err = g.ClaimQuest(bob, 1, now)
	assert.True(t, reverts.Is(err, reverts.GrantNotFound))

	total, _ := g.UnclaimedTotal(alice, now)
	assert.Equal(t, big.NewInt(10), total)

	amount, err := g.ClaimQuest(alice, 1, now+thor.Day)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), amount)

	_, err = g.ClaimQuest(alice, 1, now+thor.Day)
	assert.True(t, reverts.Is(err, reverts.AlreadyClaimed))

	holders, _ = g.GrantHolders()
	assert.Empty(t, holders)
	total, _ = g.UnclaimedTotal(alice, now)
	assert.Equal(t, 0, total.Sign())

	// a claimed grant still blocks re-creation
	_, err = g.CompleteQuest(marketplace, alice, 1, big.NewInt(10), 1, now)
	assert.True(t, reverts.Is(err, reverts.DuplicateGrant))
}

func TestExpireGrants(t *testing.T) {
	g, st := newGamification(t)
	_, err := g.UnlockAchievement(marketplace, alice, 7, big.NewInt(10), 1, now)
	require.NoError(t, err)
	_, err = g.UnlockAchievement(marketplace, alice, 8, big.NewInt(10), 30, now)
	require.NoError(t, err)

	expiry := now + thor.Day
	expired, err := g.ExpireGrants(alice, AchievementGrant, []uint64{7, 8, 9}, expiry)
	require.NoError(t, err)
	assert.Empty(t, expired, "not past expiry yet")

	_, err = g.ClaimAchievement(alice, 7, expiry+1)
	assert.True(t, reverts.Is(err, reverts.GrantExpired))

	expired, err = g.ExpireGrants(alice, AchievementGrant, []uint64{7, 8, 9}, expiry+1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, expired)
	assert.Equal(t, 1, countEvents(st, "GrantExpired"))

	grant, _ := g.Grant(alice, AchievementGrant, 7)
	assert.True(t, grant.Expired)
	assert.Equal(t, 0, grant.Amount.Sign())

	// second sweep is a no-op
	expired, err = g.ExpireGrants(alice, AchievementGrant, []uint64{7}, expiry+2)
	require.NoError(t, err)
	assert.Empty(t, expired)
	assert.Equal(t, 1, countEvents(st, "GrantExpired"))

	open, _ := g.OpenGrants(alice, AchievementGrant)
	assert.Equal(t, []uint64{8}, open)

	// an expired grant was zeroed, so the id can be granted again
	_, err = g.UnlockAchievement(marketplace, alice, 7, big.NewInt(3), 1, expiry+2)
	assert.NoError(t, err)
}

func TestAutoCompound(t *testing.T) {
	g, _ := newGamification(t)

	assert.True(t, reverts.Is(g.EnableAutoCompound(alice, big.NewInt(1), now), reverts.InvalidAmount))
	assert.True(t, reverts.Is(g.DisableAutoCompound(alice), reverts.AutoCompoundNotEligible))
	require.NoError(t, g.EnableAutoCompound(alice, thor.Tokens(2), now))

	users, _ := g.AutoCompoundUsers()
	assert.Equal(t, []thor.Address{alice}, users)

	ok, err := g.CheckAutoCompound(alice, thor.Tokens(1), now)
	require.NoError(t, err)
	assert.False(t, ok, "below minimum")
	ok, _ = g.CheckAutoCompound(alice, thor.Tokens(2), now)
	assert.True(t, ok)
	ok, _ = g.CheckAutoCompound(bob, thor.Tokens(2), now)
	assert.False(t, ok, "not opted in")

	err = g.PerformAutoCompound(alice, alice, thor.Tokens(2), now)
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	require.NoError(t, g.PerformAutoCompound(builtin.Ledger, alice, thor.Tokens(2), now))

	cfg, _ := g.AutoCompoundConfig(alice)
	assert.Equal(t, now, cfg.LastCompoundAt)

	// interval not elapsed
	err = g.PerformAutoCompound(builtin.Ledger, alice, thor.Tokens(2), now+thor.Day-1)
	assert.True(t, reverts.Is(err, reverts.AutoCompoundNotEligible))
	ok, _ = g.CheckAutoCompound(alice, thor.Tokens(2), now+thor.Day)
	assert.True(t, ok)

	require.NoError(t, g.DisableAutoCompound(alice))
	users, _ = g.AutoCompoundUsers()
	assert.Empty(t, users)
	ok, _ = g.CheckAutoCompound(alice, thor.Tokens(2), now+thor.Day)
	assert.False(t, ok)
}
