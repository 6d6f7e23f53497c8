// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package skills

import (
	"strconv"

	"github.com/vechain/skillstake/thor"
)

// Kind is the effect family of a skill object.
type Kind uint8

const (
	StakingBoost Kind = iota
	FeeReduction
	AutoCompound
)

func (k Kind) String() string {
	switch k {
	case StakingBoost:
		return "staking-boost"
	case FeeReduction:
		return "fee-reduction"
	case AutoCompound:
		return "auto-compound"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) valid() bool {
	return k <= AutoCompound
}

// Rarity is the tier of a skill object. It indexes the rarity multiplier table.
type Rarity uint8

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

// Activation is the state of one skill object for its owner.
type Activation struct {
	Owner        thor.Address
	ObjectID     uint64
	Kind         Kind
	Effect       uint64 // bp
	Rarity       Rarity
	ActivatedAt  uint64
	CooldownEnds uint64
	Active       bool
}

// Profile aggregates the active skills of a user.
type Profile struct {
	Level             uint16
	TotalXP           uint64
	MaxActiveSkills   uint8
	ActiveSkills      uint64
	StakingBoostTotal uint64 // bp
	FeeDiscountSum    uint64 // bp, before the cap
	AutoCompoundCount uint64
}

// HasAutoCompound reports whether an auto-compound skill is active.
func (p *Profile) HasAutoCompound() bool {
	return p.AutoCompoundCount > 0
}

// Settings holds the identities allowed to drive the module.
type Settings struct {
	Admin       thor.Address
	Marketplace thor.Address
}

type activeList struct {
	ObjectIDs []uint64
}

// RarityUpdate is one entry of a batch rarity update.
type RarityUpdate struct {
	ObjectID uint64
	Rarity   Rarity
}
