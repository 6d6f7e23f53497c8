// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/builtin/ledger"
	"github.com/vechain/skillstake/builtin/rewards"
	"github.com/vechain/skillstake/thor"
)

type Health struct {
	Balance   *math.HexOrDecimal256 `json:"balance"`
	Liability *math.HexOrDecimal256 `json:"liability"`
	Reserve   *math.HexOrDecimal256 `json:"reserve"`
	RatioBP   uint64                `json:"ratioBP"`
}

// Summary is the aggregate state of the ledger with its health.
type Summary struct {
	TotalPoolBalance  *math.HexOrDecimal256 `json:"totalPoolBalance"`
	UniqueUsers       uint64                `json:"uniqueUsers"`
	PendingCommission *math.HexOrDecimal256 `json:"pendingCommission"`
	Paused            bool                  `json:"paused"`
	Migrated          bool                  `json:"migrated"`
	MigratedTo        *thor.Address         `json:"migratedTo,omitempty"`
	Treasury          thor.Address          `json:"treasury"`
	Health            *Health               `json:"health"`
}

type Projection struct {
	Lockup     uint64                `json:"lockup"`
	Deposited  *math.HexOrDecimal256 `json:"deposited"`
	Commission *math.HexOrDecimal256 `json:"commission"`
	Reward     *math.HexOrDecimal256 `json:"reward"`
	HourlyRate uint64                `json:"hourlyRate"`
	BonusBP    uint64                `json:"bonusBP"`
	Capped     bool                  `json:"capped"`
}

func convertProjection(p *rewards.Projection) *Projection {
	return &Projection{
		Lockup:     p.Lockup,
		Deposited:  utils.Amount(p.Deposited),
		Commission: utils.Amount(p.Commission),
		Reward:     utils.Amount(p.Reward),
		HourlyRate: p.HourlyRate,
		BonusBP:    p.BonusBP,
		Capped:     p.Capped,
	}
}

func convertSummary(p *ledger.Pool, h *ledger.Health) *Summary {
	s := &Summary{
		TotalPoolBalance:  utils.Amount(p.TotalPoolBalance),
		UniqueUsers:       p.UniqueUsers,
		PendingCommission: utils.Amount(p.PendingCommission),
		Paused:            p.Paused,
		Migrated:          p.Migrated,
		Treasury:          p.Treasury,
		Health: &Health{
			Balance:   utils.Amount(h.Balance),
			Liability: utils.Amount(h.Liability),
			Reserve:   utils.Amount(h.Reserve),
			RatioBP:   h.RatioBP,
		},
	}
	if p.Migrated {
		to := p.MigratedTo
		s.MigratedTo = &to
	}
	return s
}
