// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/vechain/skillstake/builtin/gamification"
	"github.com/vechain/skillstake/builtin/ledger"
	"github.com/vechain/skillstake/builtin/rewards"
	"github.com/vechain/skillstake/builtin/skills"
	"github.com/vechain/skillstake/thor"
)

// LedgerReader is the query surface of the ledger.
type LedgerReader interface {
	Pool() (*ledger.Pool, error)
	Settings() (*ledger.Settings, error)
	Account(user thor.Address) (*ledger.Account, error)
	TotalDeposited(user thor.Address) (*big.Int, error)
	Deposits(user thor.Address, now uint64) ([]*ledger.DepositView, error)
	PendingRewards(user thor.Address, now uint64) (*big.Int, error)
	BoostedRewards(user thor.Address, now uint64) (*big.Int, error)
	WithdrawablePrincipal(user thor.Address, now uint64) (*big.Int, error)
	RemainingAllowance(user thor.Address, now uint64) (*big.Int, error)
	Depositors() ([]thor.Address, error)
	Health(now uint64) (*ledger.Health, error)
}

// SkillsReader is the query surface of the skills module.
type SkillsReader interface {
	Profile(user thor.Address) (*skills.Profile, error)
	ActiveSkills(user thor.Address) ([]*skills.Activation, error)
	Activation(user thor.Address, objectID uint64) (*skills.Activation, error)
	RarityOf(objectID uint64) (skills.Rarity, error)
	RarityMultiplier(user thor.Address) (uint64, error)
	StakingBoost(user thor.Address) (uint64, error)
	FeeDiscount(user thor.Address) (uint64, error)
	Settings() (*skills.Settings, error)
}

// GamificationReader is the query surface of the gamification module.
type GamificationReader interface {
	Progress(user thor.Address) (*gamification.Progress, error)
	Grant(user thor.Address, kind gamification.GrantKind, id uint64) (*gamification.Grant, error)
	OpenGrants(user thor.Address, kind gamification.GrantKind) ([]uint64, error)
	GrantHolders() ([]thor.Address, error)
	AutoCompoundConfig(user thor.Address) (*gamification.AutoCompoundConfig, error)
	AutoCompoundUsers() ([]thor.Address, error)
	UnclaimedTotal(user thor.Address, now uint64) (*big.Int, error)
	CheckAutoCompound(user thor.Address, pending *big.Int, now uint64) (bool, error)
	Settings() (*gamification.Settings, error)
}

// View is a read-only window on committed state. It is valid only inside Runtime.View.
// State changes go through the Runtime operations.
type View struct {
	r   *Runtime
	now uint64
}

// Now is the time the view is evaluated at.
func (v *View) Now() uint64 { return v.now }

func (v *View) Ledger() LedgerReader             { return v.r.ledger }
func (v *View) Skills() SkillsReader             { return v.r.skills }
func (v *View) Gamification() GamificationReader { return v.r.gam }
func (v *View) Engine() *rewards.Engine          { return v.r.engine }

func (v *View) Balance(addr thor.Address) (*big.Int, error) {
	return v.r.bank.BalanceOf(addr)
}

func (v *View) TotalSupply() (*big.Int, error) {
	return v.r.bank.TotalSupply()
}
