// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/builtin/gamification"
	"github.com/vechain/skillstake/builtin/ledger"
	"github.com/vechain/skillstake/builtin/skills"
	"github.com/vechain/skillstake/thor"
)

// Account summarises the stake of one user.
type Account struct {
	Address        thor.Address          `json:"address"`
	Balance        *math.HexOrDecimal256 `json:"balance"`
	TotalDeposited *math.HexOrDecimal256 `json:"totalDeposited"`
	DepositCount   uint64                `json:"depositCount"`
	LastWithdrawAt uint64                `json:"lastWithdrawAt"`
	Pending        *math.HexOrDecimal256 `json:"pending"`
	Boosted        *math.HexOrDecimal256 `json:"boosted"`
	Withdrawable   *math.HexOrDecimal256 `json:"withdrawable"`
	Allowance      *math.HexOrDecimal256 `json:"allowance"`
}

type Deposit struct {
	Index       int                   `json:"index"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	CreatedAt   uint64                `json:"createdAt"`
	LastClaimAt uint64                `json:"lastClaimAt"`
	Lockup      uint64                `json:"lockup"`
	UnlockAt    uint64                `json:"unlockAt"`
	Locked      bool                  `json:"locked"`
	Pending     *math.HexOrDecimal256 `json:"pending"`
}

func convertDeposit(d *ledger.DepositView) *Deposit {
	return &Deposit{
		Index:       d.Index,
		Amount:      utils.Amount(d.Amount),
		CreatedAt:   d.CreatedAt,
		LastClaimAt: d.LastClaimAt,
		Lockup:      d.Lockup,
		UnlockAt:    d.UnlockAt,
		Locked:      d.Locked,
		Pending:     utils.Amount(d.Pending),
	}
}

type Skill struct {
	ObjectID    uint64 `json:"objectId"`
	Kind        string `json:"kind"`
	Effect      uint64 `json:"effect"`
	Rarity      uint8  `json:"rarity"`
	ActivatedAt uint64 `json:"activatedAt"`
}

// Skills is the boost profile of a user with its active skills.
type Skills struct {
	Level            uint16   `json:"level"`
	TotalXP          uint64   `json:"totalXp"`
	MaxActiveSkills  uint8    `json:"maxActiveSkills"`
	StakingBoost     uint64   `json:"stakingBoost"`
	FeeDiscount      uint64   `json:"feeDiscount"`
	RarityMultiplier uint64   `json:"rarityMultiplier"`
	HasAutoCompound  bool     `json:"hasAutoCompound"`
	Active           []*Skill `json:"active"`
}

func convertSkills(p *skills.Profile, boost, discount, multiplier uint64, active []*skills.Activation) *Skills {
	s := &Skills{
		Level:            p.Level,
		TotalXP:          p.TotalXP,
		MaxActiveSkills:  p.MaxActiveSkills,
		StakingBoost:     boost,
		FeeDiscount:      discount,
		RarityMultiplier: multiplier,
		HasAutoCompound:  p.HasAutoCompound(),
		Active:           make([]*Skill, 0, len(active)),
	}
	for _, a := range active {
		s.Active = append(s.Active, &Skill{
			ObjectID:    a.ObjectID,
			Kind:        a.Kind.String(),
			Effect:      a.Effect,
			Rarity:      uint8(a.Rarity),
			ActivatedAt: a.ActivatedAt,
		})
	}
	return s
}

type AutoCompound struct {
	Enabled        bool                  `json:"enabled"`
	MinAmount      *math.HexOrDecimal256 `json:"minAmount"`
	LastCompoundAt uint64                `json:"lastCompoundAt"`
}

// Progression is the XP state of a user.
type Progression struct {
	XP           uint64                `json:"xp"`
	Level        uint16                `json:"level"`
	Unclaimed    *math.HexOrDecimal256 `json:"unclaimed"`
	Quests       []uint64              `json:"quests"`
	Achievements []uint64              `json:"achievements"`
	AutoCompound *AutoCompound         `json:"autoCompound"`
}

type Grant struct {
	ID        uint64                `json:"id"`
	Kind      string                `json:"kind"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	CreatedAt uint64                `json:"createdAt"`
	ExpiresAt uint64                `json:"expiresAt"`
	Claimed   bool                  `json:"claimed"`
	Expired   bool                  `json:"expired"`
	Claimable bool                  `json:"claimable"`
}

func convertGrant(kind gamification.GrantKind, g *gamification.Grant, now uint64) *Grant {
	return &Grant{
		ID:        g.ID,
		Kind:      kind.String(),
		Amount:    utils.Amount(g.Amount),
		CreatedAt: g.CreatedAt,
		ExpiresAt: g.ExpiresAt,
		Claimed:   g.Claimed,
		Expired:   g.Expired,
		Claimable: g.Claimable(now),
	}
}
