// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/skillstake/builtin/rewards"
	"github.com/vechain/skillstake/thor"
)

func (l *Ledger) Pool() (*Pool, error) {
	return l.repo.getPool()
}

func (l *Ledger) Settings() (*Settings, error) {
	return l.repo.getSettings()
}

func (l *Ledger) Account(user thor.Address) (*Account, error) {
	return l.repo.getAccount(user)
}

func (l *Ledger) TotalDeposited(user thor.Address) (*big.Int, error) {
	acc, err := l.repo.getAccount(user)
	if err != nil {
		return nil, err
	}
	return acc.TotalDeposited, nil
}

// Deposits lists the deposits of user with their lockup classification at now.
func (l *Ledger) Deposits(user thor.Address, now uint64) ([]*DepositView, error) {
	acc, err := l.repo.getAccount(user)
	if err != nil {
		return nil, err
	}
	engine, err := l.rewardsEngine()
	if err != nil {
		return nil, err
	}
	views := make([]*DepositView, 0, len(acc.Deposits))
	for i, d := range acc.Deposits {
		views = append(views, &DepositView{
			Index:       i,
			Amount:      d.Amount,
			CreatedAt:   d.CreatedAt,
			LastClaimAt: d.LastClaimAt,
			Lockup:      d.Lockup,
			UnlockAt:    d.UnlockAt(),
			Locked:      d.IsLocked(now),
			Pending:     engine.DepositReward(d, now),
		})
	}
	return views, nil
}

func (l *Ledger) PendingRewards(user thor.Address, now uint64) (*big.Int, error) {
	acc, err := l.repo.getAccount(user)
	if err != nil {
		return nil, err
	}
	engine, err := l.rewardsEngine()
	if err != nil {
		return nil, err
	}
	return engine.TotalRewards(acc.Deposits, now), nil
}

// BoostedRewards is the pending reward with the user's staking boost and rarity applied.
// Payouts use the unboosted figure.
func (l *Ledger) BoostedRewards(user thor.Address, now uint64) (*big.Int, error) {
	base, err := l.PendingRewards(user, now)
	if err != nil {
		return nil, err
	}
	s, err := l.repo.getSettings()
	if err != nil {
		return nil, err
	}
	if l.boosts == nil || s.SkillsModule.IsZero() {
		return base, nil
	}
	boost, err := l.boosts.StakingBoost(user)
	if err != nil {
		return nil, err
	}
	rarity, err := l.boosts.RarityMultiplier(user)
	if err != nil {
		return nil, err
	}
	return rewards.Boosted(base, boost, rarity), nil
}

// WithdrawablePrincipal sums the deposits outside their lockup.
func (l *Ledger) WithdrawablePrincipal(user thor.Address, now uint64) (*big.Int, error) {
	acc, err := l.repo.getAccount(user)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, d := range acc.Deposits {
		if !d.IsLocked(now) {
			total.Add(total, d.Amount)
		}
	}
	return total, nil
}

// RemainingAllowance is what user can still withdraw in the current window.
func (l *Ledger) RemainingAllowance(user thor.Address, now uint64) (*big.Int, error) {
	w, err := l.repo.getWindow(user, now/l.params.WithdrawalWindow)
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Sub(l.params.DailyWithdrawalLimit, w.Withdrawn)
	if remaining.Sign() < 0 {
		remaining.SetUint64(0)
	}
	return remaining, nil
}

// Depositors lists the users holding deposits.
func (l *Ledger) Depositors() ([]thor.Address, error) {
	return l.repo.depositors.Values()
}

// Health relates the ledger balance to principal plus every pending reward.
func (l *Ledger) Health(now uint64) (*Health, error) {
	pool, err := l.repo.getPool()
	if err != nil {
		return nil, err
	}
	bal, err := l.bank.BalanceOf(l.Address())
	if err != nil {
		return nil, err
	}
	reserve, err := l.reserve(pool)
	if err != nil {
		return nil, err
	}

	liability := new(big.Int).Set(pool.TotalPoolBalance)
	err = l.repo.depositors.Iterate(func(user thor.Address) (bool, error) {
		pending, err := l.PendingRewards(user, now)
		if err != nil {
			return false, err
		}
		liability.Add(liability, pending)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	h := &Health{Balance: bal, Liability: liability, Reserve: reserve, RatioBP: thor.BasisPoints}
	if liability.Sign() > 0 {
		ratio := new(big.Int).Mul(bal, new(big.Int).SetUint64(thor.BasisPoints))
		ratio.Quo(ratio, liability)
		if ratio.IsUint64() {
			h.RatioBP = ratio.Uint64()
		} else {
			h.RatioBP = ^uint64(0)
		}
	}
	return h, nil
}

// Initialized reports whether Initialize has run.
func (l *Ledger) Initialized() (bool, error) {
	return l.repo.initialized()
}
