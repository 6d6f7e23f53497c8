// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/thor"
)

// Module identifies a pluggable module slot of the ledger.
type Module string

const (
	RewardsModule      Module = "rewards"
	SkillsModule       Module = "skills"
	GamificationModule Module = "gamification"
)

func (l *Ledger) Pause(caller thor.Address) error {
	return l.setPaused(caller, true)
}

func (l *Ledger) Unpause(caller thor.Address) error {
	return l.setPaused(caller, false)
}

func (l *Ledger) setPaused(caller thor.Address, paused bool) error {
	logger.Debug("set paused", "caller", caller, "paused", paused)
	if _, err := l.requireAdmin(caller); err != nil {
		return err
	}
	pool, err := l.repo.getPool()
	if err != nil {
		return err
	}
	if pool.Paused == paused {
		if paused {
			return reverts.New(reverts.Paused, "already paused")
		}
		return reverts.New(reverts.NotPaused, "not paused")
	}
	pool.Paused = paused
	if err := l.repo.setPool(pool); err != nil {
		return err
	}
	name := "Unpaused"
	if paused {
		name = "Paused"
	}
	l.sctx.Emit(name, caller, nil, nil)
	logger.Info("pause state changed", "paused", paused)
	return nil
}

// Migrate marks the ledger as moved to another address. It can happen only once.
func (l *Ledger) Migrate(caller, to thor.Address) error {
	logger.Debug("migrate", "caller", caller, "to", to)
	if _, err := l.requireAdmin(caller); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.New(reverts.InvalidAddress, "migration target is required")
	}
	pool, err := l.repo.getPool()
	if err != nil {
		return err
	}
	if pool.Migrated {
		return reverts.Newf(reverts.AlreadyMigrated, "already migrated to %v", pool.MigratedTo)
	}
	pool.Migrated = true
	pool.MigratedTo = to
	if err := l.repo.setPool(pool); err != nil {
		return err
	}
	l.sctx.Emit("Migrated", caller, nil, map[string]string{"to": to.String()})
	logger.Info("ledger migrated", "to", to)
	return nil
}

// SetModule records the address of a module. The skills and gamification modules may be
// unset with the zero address, which turns off fee discounts or progression notifications.
// Reward paths run only while the rewards module is the native one; any other address makes
// them revert with ModuleUnavailable.
func (l *Ledger) SetModule(caller thor.Address, module Module, addr thor.Address) error {
	logger.Debug("set module", "caller", caller, "module", module, "addr", addr)
	s, err := l.requireAdmin(caller)
	if err != nil {
		return err
	}
	switch module {
	case RewardsModule:
		if addr.IsZero() {
			return reverts.New(reverts.InvalidAddress, "rewards module is required")
		}
		s.RewardsModule = addr
	case SkillsModule:
		s.SkillsModule = addr
	case GamificationModule:
		s.GamificationModule = addr
	default:
		return reverts.Newf(reverts.InvalidAddress, "unknown module %q", module)
	}
	if err := l.repo.setSettings(s); err != nil {
		return err
	}
	l.sctx.Emit("ModuleChanged", caller, nil, map[string]string{"module": string(module), "address": addr.String()})
	logger.Info("module changed", "module", module, "addr", addr)
	return nil
}

func (l *Ledger) ChangeTreasury(caller, treasury thor.Address) error {
	logger.Debug("change treasury", "caller", caller, "treasury", treasury)
	if _, err := l.requireAdmin(caller); err != nil {
		return err
	}
	if treasury.IsZero() {
		return reverts.New(reverts.InvalidAddress, "treasury is required")
	}
	pool, err := l.repo.getPool()
	if err != nil {
		return err
	}
	old := pool.Treasury
	pool.Treasury = treasury
	if err := l.repo.setPool(pool); err != nil {
		return err
	}
	l.sctx.Emit("TreasuryChanged", caller, nil, map[string]string{"from": old.String(), "to": treasury.String()})
	logger.Info("treasury changed", "from", old, "to", treasury)
	return nil
}

// WithdrawPendingCommission releases the commission that could not reach the treasury earlier.
func (l *Ledger) WithdrawPendingCommission(caller thor.Address) (*big.Int, error) {
	logger.Debug("withdraw pending commission", "caller", caller)
	if _, err := l.requireAdmin(caller); err != nil {
		return nil, err
	}
	release, err := l.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	pool, err := l.repo.getPool()
	if err != nil {
		return nil, err
	}
	amount := new(big.Int).Set(pool.PendingCommission)
	if amount.Sign() == 0 {
		return nil, reverts.New(reverts.InvalidAmount, "no pending commission")
	}
	pool.PendingCommission.SetUint64(0)
	if err := l.repo.setPool(pool); err != nil {
		return nil, err
	}
	if err := l.bank.Transfer(l.Address(), pool.Treasury, amount); err != nil {
		return nil, err
	}
	l.sctx.Emit("PendingCommissionWithdrawn", caller, amount, map[string]string{"treasury": pool.Treasury.String()})
	logger.Info("pending commission withdrawn", "amount", amount, "treasury", pool.Treasury)
	return amount, nil
}

// EmergencyWithdrawOwner sweeps the whole ledger balance to a safe address. Paused only.
func (l *Ledger) EmergencyWithdrawOwner(caller, to thor.Address) (*big.Int, error) {
	logger.Debug("emergency sweep", "caller", caller, "to", to)
	if _, err := l.requireAdmin(caller); err != nil {
		return nil, err
	}
	release, err := l.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if to.IsZero() {
		return nil, reverts.New(reverts.InvalidAddress, "sweep target is required")
	}
	pool, err := l.repo.getPool()
	if err != nil {
		return nil, err
	}
	if !pool.Paused {
		return nil, reverts.New(reverts.NotPaused, "emergency sweep requires a paused ledger")
	}
	bal, err := l.bank.BalanceOf(l.Address())
	if err != nil {
		return nil, err
	}
	if err := l.bank.Transfer(l.Address(), to, bal); err != nil {
		return nil, err
	}
	l.sctx.Emit("EmergencySwept", caller, bal, map[string]string{"to": to.String()})
	logger.Info("ledger balance swept", "to", to, "amount", bal)
	return bal, nil
}

func (l *Ledger) SetRewardsModule(caller, addr thor.Address) error {
	return l.SetModule(caller, RewardsModule, addr)
}

func (l *Ledger) SetSkillsModule(caller, addr thor.Address) error {
	return l.SetModule(caller, SkillsModule, addr)
}

func (l *Ledger) SetGamificationModule(caller, addr thor.Address) error {
	return l.SetModule(caller, GamificationModule, addr)
}
