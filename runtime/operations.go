// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/builtin/gamification"
	"github.com/vechain/skillstake/builtin/ledger"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/skills"
	"github.com/vechain/skillstake/thor"
)

func (r *Runtime) Deposit(caller thor.Address, lockup uint64, value *big.Int) (receipt *ledger.Receipt, err error) {
	err = r.exec("deposit", func(now uint64) error {
		if receipt, err = r.ledger.Deposit(caller, lockup, value, now); err != nil {
			return err
		}
		return r.awardXP(caller, gamification.Stake, receipt.Principal)
	})
	return
}

func (r *Runtime) Withdraw(caller thor.Address) (receipt *ledger.Receipt, err error) {
	err = r.exec("withdraw", func(now uint64) error {
		receipt, err = r.ledger.Withdraw(caller, now)
		return err
	})
	return
}

func (r *Runtime) WithdrawAll(caller thor.Address) (receipt *ledger.Receipt, err error) {
	err = r.exec("withdraw-all", func(now uint64) error {
		receipt, err = r.ledger.WithdrawAll(caller, now)
		return err
	})
	return
}

func (r *Runtime) Compound(caller thor.Address) (receipt *ledger.Receipt, err error) {
	err = r.exec("compound", func(now uint64) error {
		if receipt, err = r.ledger.Compound(caller, now); err != nil {
			return err
		}
		return r.awardXP(caller, gamification.Compound, receipt.Reward)
	})
	return
}

func (r *Runtime) EmergencyWithdraw(caller thor.Address) (receipt *ledger.Receipt, err error) {
	err = r.exec("emergency-withdraw", func(uint64) error {
		receipt, err = r.ledger.EmergencyWithdraw(caller)
		return err
	})
	return
}

func (r *Runtime) FundRewards(caller thor.Address, value *big.Int) error {
	return r.exec("fund-rewards", func(uint64) error {
		return r.ledger.FundRewards(caller, value)
	})
}

// AutoCompound compounds the rewards of an opted-in user when it is due.
func (r *Runtime) AutoCompound(user thor.Address) (receipt *ledger.Receipt, err error) {
	err = r.exec("auto-compound", func(now uint64) error {
		pending, err := r.ledger.PendingRewards(user, now)
		if err != nil {
			return err
		}
		ok, err := r.gam.CheckAutoCompound(user, pending, now)
		if err != nil {
			return err
		}
		if !ok {
			return reverts.Newf(reverts.AutoCompoundNotEligible, "%v is not due for auto-compound", user)
		}
		if receipt, err = r.ledger.Compound(user, now); err != nil {
			return err
		}
		if err := r.gam.PerformAutoCompound(builtin.Ledger, user, receipt.Reward, now); err != nil {
			return err
		}
		return r.awardXP(user, gamification.Compound, receipt.Reward)
	})
	return
}

// admin

func (r *Runtime) Pause(caller thor.Address) error {
	return r.exec("pause", func(uint64) error { return r.ledger.Pause(caller) })
}

func (r *Runtime) Unpause(caller thor.Address) error {
	return r.exec("unpause", func(uint64) error { return r.ledger.Unpause(caller) })
}

func (r *Runtime) Migrate(caller, to thor.Address) error {
	return r.exec("migrate", func(uint64) error { return r.ledger.Migrate(caller, to) })
}

func (r *Runtime) SetModule(caller thor.Address, module ledger.Module, addr thor.Address) error {
	return r.exec("set-module", func(uint64) error { return r.ledger.SetModule(caller, module, addr) })
}

func (r *Runtime) ChangeTreasury(caller, treasury thor.Address) error {
	return r.exec("change-treasury", func(uint64) error { return r.ledger.ChangeTreasury(caller, treasury) })
}

func (r *Runtime) WithdrawPendingCommission(caller thor.Address) (amount *big.Int, err error) {
	err = r.exec("withdraw-pending-commission", func(uint64) error {
		amount, err = r.ledger.WithdrawPendingCommission(caller)
		return err
	})
	return
}

func (r *Runtime) EmergencyWithdrawOwner(caller, to thor.Address) (amount *big.Int, err error) {
	err = r.exec("emergency-withdraw-owner", func(uint64) error {
		amount, err = r.ledger.EmergencyWithdrawOwner(caller, to)
		return err
	})
	return
}

// SetMarketplace replaces the collaborator of both the skills and the gamification module.
func (r *Runtime) SetMarketplace(caller, marketplace thor.Address) error {
	return r.exec("set-marketplace", func(uint64) error {
		if err := r.skills.SetMarketplace(caller, marketplace); err != nil {
			return err
		}
		return r.gam.SetMarketplace(caller, marketplace)
	})
}

// skills

func (r *Runtime) ActivateSkill(caller, user thor.Address, objectID uint64, kind skills.Kind, effect uint64) (a *skills.Activation, err error) {
	err = r.exec("activate-skill", func(now uint64) error {
		if a, err = r.skills.Activate(caller, user, objectID, kind, effect, now); err != nil {
			return err
		}
		return r.awardXP(user, gamification.SkillActivation, nil)
	})
	return
}

func (r *Runtime) DeactivateSkill(caller, user thor.Address, objectID uint64) error {
	return r.exec("deactivate-skill", func(now uint64) error {
		return r.skills.Deactivate(caller, user, objectID, now)
	})
}

func (r *Runtime) SetSkillRarity(caller thor.Address, objectID uint64, rarity skills.Rarity) error {
	return r.exec("set-rarity", func(uint64) error {
		return r.skills.SetRarity(caller, objectID, rarity)
	})
}

func (r *Runtime) BatchSetSkillRarity(caller thor.Address, updates []skills.RarityUpdate) error {
	return r.exec("batch-set-rarity", func(uint64) error {
		return r.skills.BatchSetRarity(caller, updates)
	})
}

// gamification

func (r *Runtime) CompleteQuest(caller, user thor.Address, id uint64, reward *big.Int, expireDays uint64) (g *gamification.Grant, err error) {
	err = r.exec("complete-quest", func(now uint64) error {
		if g, err = r.gam.CompleteQuest(caller, user, id, reward, expireDays, now); err != nil {
			return err
		}
		return r.syncLevel(user)
	})
	return
}

func (r *Runtime) UnlockAchievement(caller, user thor.Address, id uint64, reward *big.Int, expireDays uint64) (g *gamification.Grant, err error) {
	err = r.exec("unlock-achievement", func(now uint64) error {
		if g, err = r.gam.UnlockAchievement(caller, user, id, reward, expireDays, now); err != nil {
			return err
		}
		return r.syncLevel(user)
	})
	return
}

// ClaimGrant settles a grant of caller and pays it from the ledger reserve.
func (r *Runtime) ClaimGrant(caller thor.Address, kind gamification.GrantKind, id uint64) (amount *big.Int, err error) {
	err = r.exec("claim-"+kind.String(), func(now uint64) error {
		if amount, err = r.gam.Claim(caller, kind, id, now); err != nil {
			return err
		}
		return r.ledger.PayGrant(caller, amount, kind.String(), id)
	})
	return
}

func (r *Runtime) ExpireGrants(user thor.Address, kind gamification.GrantKind, ids []uint64) (expired []uint64, err error) {
	err = r.exec("expire-grants", func(now uint64) error {
		expired, err = r.gam.ExpireGrants(user, kind, ids, now)
		return err
	})
	return
}

func (r *Runtime) EnableAutoCompound(caller thor.Address, minAmount *big.Int) error {
	return r.exec("enable-auto-compound", func(now uint64) error {
		return r.gam.EnableAutoCompound(caller, minAmount, now)
	})
}

func (r *Runtime) DisableAutoCompound(caller thor.Address) error {
	return r.exec("disable-auto-compound", func(uint64) error {
		return r.gam.DisableAutoCompound(caller)
	})
}

// Mint credits new value at the bank. Only dev deployments expose it.
func (r *Runtime) Mint(to thor.Address, amount *big.Int) error {
	return r.exec("mint", func(uint64) error {
		return r.bank.Mint(to, amount)
	})
}
