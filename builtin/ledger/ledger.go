// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger owns deposits, pool totals, commission and the pause/migration lifecycle.
package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/builtin/bank"
	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/rewards"
	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "ledger")

// Boosts is the read-only view of a user's skill effects.
type Boosts interface {
	StakingBoost(user thor.Address) (uint64, error)
	FeeDiscount(user thor.Address) (uint64, error)
	RarityMultiplier(user thor.Address) (uint64, error)
}

type Ledger struct {
	sctx    *solidity.Context
	repo    *repository
	params  *params.Params
	engine  *rewards.Engine
	bank    *bank.Bank
	boosts  Boosts
	entered bool
}

func New(sctx *solidity.Context, p *params.Params, engine *rewards.Engine, bank *bank.Bank) *Ledger {
	return &Ledger{
		sctx:   sctx,
		repo:   newRepository(sctx),
		params: p,
		engine: engine,
		bank:   bank,
	}
}

// SetBoosts wires the skill effects used for fee discounts and boosted reward queries.
func (l *Ledger) SetBoosts(b Boosts) {
	l.boosts = b
}

// Address is the ledger's own account at the bank.
func (l *Ledger) Address() thor.Address {
	return l.sctx.Address()
}

// Initialize creates the pool with its treasury and admin. It is a no-op when already done.
func (l *Ledger) Initialize(admin, treasury thor.Address) error {
	ok, err := l.repo.initialized()
	if err != nil || ok {
		return err
	}
	if admin.IsZero() || treasury.IsZero() {
		return reverts.New(reverts.InvalidAddress, "admin and treasury are required")
	}
	if err := l.repo.setPool(&Pool{
		TotalPoolBalance:  new(big.Int),
		PendingCommission: new(big.Int),
		Treasury:          treasury,
	}); err != nil {
		return err
	}
	logger.Info("ledger initialized", "admin", admin, "treasury", treasury)
	return l.repo.setSettings(&Settings{Admin: admin, RewardsModule: builtin.Rewards})
}

// enter sets the re-entrancy guard for an operation that moves value.
func (l *Ledger) enter() (func(), error) {
	if l.entered {
		return nil, reverts.New(reverts.Reentrancy, "re-entrant call")
	}
	l.entered = true
	return func() { l.entered = false }, nil
}

// rewardsEngine returns the engine of the registered rewards module. Only the native module is
// served in-process, so any other registration leaves the reward paths unavailable.
func (l *Ledger) rewardsEngine() (*rewards.Engine, error) {
	s, err := l.repo.getSettings()
	if err != nil {
		return nil, err
	}
	if s.RewardsModule != builtin.Rewards {
		return nil, reverts.Newf(reverts.ModuleUnavailable, "rewards module %v is not served by this ledger", s.RewardsModule)
	}
	return l.engine, nil
}

func (l *Ledger) requireAdmin(caller thor.Address) (*Settings, error) {
	s, err := l.repo.getSettings()
	if err != nil {
		return nil, err
	}
	if caller != s.Admin {
		return nil, reverts.Newf(reverts.Unauthorized, "%v is not the admin", caller)
	}
	return s, nil
}

// requireActive rejects user operations on a migrated or paused pool.
func requireActive(pool *Pool) error {
	if pool.Migrated {
		return reverts.Newf(reverts.ContractIsMigrated, "ledger migrated to %v", pool.MigratedTo)
	}
	if pool.Paused {
		return reverts.New(reverts.Paused, "ledger is paused")
	}
	return nil
}

// reserve is the balance that backs neither principal nor pending commission.
func (l *Ledger) reserve(pool *Pool) (*big.Int, error) {
	bal, err := l.bank.BalanceOf(l.Address())
	if err != nil {
		return nil, err
	}
	r := bal.Sub(bal, pool.TotalPoolBalance)
	r.Sub(r, pool.PendingCommission)
	if r.Sign() < 0 {
		r.SetUint64(0)
	}
	return r, nil
}

// payCommission forwards commission to the treasury. When the transfer fails the amount is
// kept as pending commission and the operation carries on.
func (l *Ledger) payCommission(pool *Pool, user thor.Address, commission *big.Int) (deferred bool, err error) {
	if commission.Sign() == 0 {
		return false, nil
	}
	if terr := l.bank.Transfer(l.Address(), pool.Treasury, commission); terr != nil {
		var stErr *state.Error
		if errors.As(terr, &stErr) {
			return false, terr
		}
		pool.PendingCommission.Add(pool.PendingCommission, commission)
		logger.Info("commission deferred", "user", user, "amount", commission, "err", terr)
		l.sctx.Emit("CommissionDeferred", user, commission, map[string]string{"treasury": pool.Treasury.String()})
		return true, nil
	}
	l.sctx.Emit("CommissionPaid", user, commission, map[string]string{"treasury": pool.Treasury.String()})
	return false, nil
}

// feeDiscount returns the user's discount when the skills module is wired.
func (l *Ledger) feeDiscount(user thor.Address) (uint64, error) {
	s, err := l.repo.getSettings()
	if err != nil {
		return 0, err
	}
	if l.boosts == nil || s.SkillsModule.IsZero() {
		return 0, nil
	}
	d, err := l.boosts.FeeDiscount(user)
	if err != nil {
		return 0, err
	}
	return min(d, l.params.MaxFeeDiscountBP), nil
}

// rewardCommissionBP is the commission rate on reward payouts after the fee discount.
func (l *Ledger) rewardCommissionBP(user thor.Address) (uint64, error) {
	discount, err := l.feeDiscount(user)
	if err != nil {
		return 0, err
	}
	bp := l.params.CommissionBP
	return bp - bp*discount/thor.BasisPoints, nil
}
