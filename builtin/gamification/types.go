// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gamification

import (
	"math/big"
	"strconv"

	"github.com/vechain/skillstake/thor"
)

// Action is a player action worth XP.
type Action uint8

const (
	Stake Action = iota
	Compound
	Quest
	Achievement
	SkillActivation
)

func (a Action) String() string {
	switch a {
	case Stake:
		return "stake"
	case Compound:
		return "compound"
	case Quest:
		return "quest"
	case Achievement:
		return "achievement"
	case SkillActivation:
		return "skill-activation"
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

// GrantKind separates quest grants from achievement grants. Ids are scoped per kind.
type GrantKind uint8

const (
	QuestGrant GrantKind = iota
	AchievementGrant
)

func (k GrantKind) String() string {
	if k == AchievementGrant {
		return "achievement"
	}
	return "quest"
}

// ParseGrantKind accepts "quest" or "achievement".
func ParseGrantKind(s string) (GrantKind, bool) {
	switch s {
	case "quest":
		return QuestGrant, true
	case "achievement":
		return AchievementGrant, true
	}
	return 0, false
}

// Progress is the XP and level of a user.
type Progress struct {
	XP    uint64
	Level uint16
}

// Grant is a time boxed reward entitlement.
type Grant struct {
	ID        uint64
	Amount    *big.Int
	CreatedAt uint64
	ExpiresAt uint64
	Claimed   bool
	Expired   bool
}

// Claimable reports whether the grant can still be claimed at now.
func (g *Grant) Claimable(now uint64) bool {
	return !g.Claimed && !g.Expired && now <= g.ExpiresAt
}

// AutoCompoundConfig is the auto-compound opt-in of a user.
type AutoCompoundConfig struct {
	Enabled        bool
	MinAmount      *big.Int
	LastCompoundAt uint64
}

// Settings holds the identities allowed to drive the module.
type Settings struct {
	Admin       thor.Address
	Marketplace thor.Address
}

type grantIDs struct {
	IDs []uint64
}
