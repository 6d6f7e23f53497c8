// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"strconv"

	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/rewards"
	"github.com/vechain/skillstake/builtin/stakes"
	"github.com/vechain/skillstake/thor"
)

// Deposit locks value for lockup seconds. Commission is taken from value up front.
func (l *Ledger) Deposit(caller thor.Address, lockup uint64, value *big.Int, now uint64) (*Receipt, error) {
	logger.Debug("deposit", "user", caller, "lockup", lockup, "value", value)

	release, err := l.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	pool, err := l.repo.getPool()
	if err != nil {
		return nil, err
	}
	if err := requireActive(pool); err != nil {
		return nil, err
	}
	if value == nil || value.Cmp(l.params.MinDeposit) < 0 {
		return nil, reverts.Newf(reverts.DepositTooLow, "deposit below minimum %v", l.params.MinDeposit)
	}
	if value.Cmp(l.params.MaxDeposit) > 0 {
		return nil, reverts.Newf(reverts.DepositTooHigh, "deposit above maximum %v", l.params.MaxDeposit)
	}
	if _, err := l.engine.HourlyRate(lockup); err != nil {
		return nil, err
	}

	acc, err := l.repo.getAccount(caller)
	if err != nil {
		return nil, err
	}
	if uint64(len(acc.Deposits)) >= l.params.MaxDepositsPerUser {
		return nil, reverts.Newf(reverts.MaxDepositsReached, "at most %d deposits per user", l.params.MaxDepositsPerUser)
	}

	if err := l.bank.Transfer(caller, l.Address(), value); err != nil {
		return nil, err
	}

	net, commission := rewards.Split(value, l.params.CommissionBP)
	if acc.IsEmpty() {
		pool.UniqueUsers++
		if _, err := l.repo.depositors.Add(caller); err != nil {
			return nil, err
		}
	}
	acc.Deposits = append(acc.Deposits, stakes.NewDeposit(net, now, lockup))
	acc.TotalDeposited.Add(acc.TotalDeposited, net)
	acc.DepositCount++
	pool.TotalPoolBalance.Add(pool.TotalPoolBalance, net)
	if err := l.repo.setAccount(caller, acc); err != nil {
		return nil, err
	}

	deferred, err := l.payCommission(pool, caller, commission)
	if err != nil {
		return nil, err
	}
	if err := l.repo.setPool(pool); err != nil {
		return nil, err
	}

	l.sctx.Emit("Deposited", caller, net, map[string]string{
		"lockup":     strconv.FormatUint(lockup, 10),
		"commission": commission.String(),
	})
	logger.Info("deposited", "user", caller, "net", net, "commission", commission, "lockup", lockup)

	r := newReceipt(caller)
	r.Principal.Set(net)
	r.Commission.Set(commission)
	r.Deferred = deferred
	return r, nil
}

// firstLocked returns the first deposit still inside its lockup.
func firstLocked(acc *Account, now uint64) *stakes.Deposit {
	for _, d := range acc.Deposits {
		if d.IsLocked(now) {
			return d
		}
	}
	return nil
}

// consumeAllowance charges reward against the daily withdrawal limit.
func (l *Ledger) consumeAllowance(user thor.Address, reward *big.Int, now uint64) (*WithdrawWindow, error) {
	w, err := l.repo.getWindow(user, now/l.params.WithdrawalWindow)
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Sub(l.params.DailyWithdrawalLimit, w.Withdrawn)
	if remaining.Sign() < 0 {
		remaining.SetUint64(0)
	}
	if reward.Cmp(remaining) > 0 {
		return nil, reverts.NewLimitExceeded(remaining)
	}
	w.Withdrawn.Add(w.Withdrawn, reward)
	return w, nil
}

func (l *Ledger) requireReserve(pool *Pool, amount *big.Int) error {
	reserve, err := l.reserve(pool)
	if err != nil {
		return err
	}
	if reserve.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "reward reserve %v cannot cover %v", reserve, amount)
	}
	return nil
}

// Withdraw pays out the pending reward of every deposit and keeps the principal staked.
func (l *Ledger) Withdraw(caller thor.Address, now uint64) (*Receipt, error) {
	logger.Debug("withdraw", "user", caller)

	release, err := l.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	pool, err := l.repo.getPool()
	if err != nil {
		return nil, err
	}
	if err := requireActive(pool); err != nil {
		return nil, err
	}
	acc, err := l.repo.getAccount(caller)
	if err != nil {
		return nil, err
	}

	engine, err := l.rewardsEngine()
	if err != nil {
		return nil, err
	}
	reward := engine.TotalRewards(acc.Deposits, now)
	if reward.Sign() == 0 {
		return nil, reverts.New(reverts.NoRewardsAvailable, "no rewards available")
	}
	if d := firstLocked(acc, now); d != nil {
		return nil, reverts.Newf(reverts.FundsAreLocked, "deposit locked until %d", d.UnlockAt())
	}
	window, err := l.consumeAllowance(caller, reward, now)
	if err != nil {
		return nil, err
	}
	if err := l.requireReserve(pool, reward); err != nil {
		return nil, err
	}
	bp, err := l.rewardCommissionBP(caller)
	if err != nil {
		return nil, err
	}
	net, commission := rewards.Split(reward, bp)

	for _, d := range acc.Deposits {
		d.LastClaimAt = now
	}
	acc.LastWithdrawAt = now
	if err := l.repo.setAccount(caller, acc); err != nil {
		return nil, err
	}
	if err := l.repo.setWindow(caller, window); err != nil {
		return nil, err
	}

	if err := l.bank.Transfer(l.Address(), caller, net); err != nil {
		return nil, err
	}
	deferred, err := l.payCommission(pool, caller, commission)
	if err != nil {
		return nil, err
	}
	if err := l.repo.setPool(pool); err != nil {
		return nil, err
	}

	l.sctx.Emit("Withdrawn", caller, net, map[string]string{
		"reward":     reward.String(),
		"commission": commission.String(),
	})
	logger.Info("withdrawn", "user", caller, "reward", reward, "net", net, "commission", commission)

	r := newReceipt(caller)
	r.Reward.Set(reward)
	r.Commission.Set(commission)
	r.Paid.Set(net)
	r.Deferred = deferred
	return r, nil
}

// closeAccount removes the user from the pool and returns the principal released.
func (l *Ledger) closeAccount(pool *Pool, user thor.Address, acc *Account) (*big.Int, error) {
	principal := new(big.Int).Set(acc.TotalDeposited)
	pool.TotalPoolBalance.Sub(pool.TotalPoolBalance, principal)
	if pool.UniqueUsers > 0 {
		pool.UniqueUsers--
	}
	if _, err := l.repo.depositors.Remove(user); err != nil {
		return nil, err
	}
	if err := l.repo.setAccount(user, newAccount()); err != nil {
		return nil, err
	}
	return principal, nil
}

// WithdrawAll returns the principal together with the pending reward and closes the account.
func (l *Ledger) WithdrawAll(caller thor.Address, now uint64) (*Receipt, error) {
	logger.Debug("withdraw all", "user", caller)

	release, err := l.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	pool, err := l.repo.getPool()
	if err != nil {
		return nil, err
	}
	if err := requireActive(pool); err != nil {
		return nil, err
	}
	acc, err := l.repo.getAccount(caller)
	if err != nil {
		return nil, err
	}
	if acc.IsEmpty() {
		return nil, reverts.New(reverts.NoDepositsFound, "no deposits found")
	}
	if d := firstLocked(acc, now); d != nil {
		return nil, reverts.Newf(reverts.FundsAreLocked, "deposit locked until %d", d.UnlockAt())
	}

	engine, err := l.rewardsEngine()
	if err != nil {
		return nil, err
	}
	reward := engine.TotalRewards(acc.Deposits, now)
	net, commission := new(big.Int), new(big.Int)
	if reward.Sign() > 0 {
		window, err := l.consumeAllowance(caller, reward, now)
		if err != nil {
			return nil, err
		}
		if err := l.requireReserve(pool, reward); err != nil {
			return nil, err
		}
		if err := l.repo.setWindow(caller, window); err != nil {
			return nil, err
		}
		bp, err := l.rewardCommissionBP(caller)
		if err != nil {
			return nil, err
		}
		net, commission = rewards.Split(reward, bp)
	}

	principal, err := l.closeAccount(pool, caller, acc)
	if err != nil {
		return nil, err
	}
	paid := new(big.Int).Add(principal, net)
	if err := l.bank.Transfer(l.Address(), caller, paid); err != nil {
		return nil, err
	}
	deferred, err := l.payCommission(pool, caller, commission)
	if err != nil {
		return nil, err
	}
	if err := l.repo.setPool(pool); err != nil {
		return nil, err
	}

	l.sctx.Emit("WithdrawnAll", caller, paid, map[string]string{
		"principal":  principal.String(),
		"reward":     reward.String(),
		"commission": commission.String(),
	})
	logger.Info("withdrawn all", "user", caller, "principal", principal, "reward", reward, "commission", commission)

	r := newReceipt(caller)
	r.Principal.Set(principal)
	r.Reward.Set(reward)
	r.Commission.Set(commission)
	r.Paid.Set(paid)
	r.Deferred = deferred
	return r, nil
}

// Compound turns the pending reward into a new flexible deposit.
func (l *Ledger) Compound(caller thor.Address, now uint64) (*Receipt, error) {
	logger.Debug("compound", "user", caller)

	release, err := l.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	pool, err := l.repo.getPool()
	if err != nil {
		return nil, err
	}
	if err := requireActive(pool); err != nil {
		return nil, err
	}
	acc, err := l.repo.getAccount(caller)
	if err != nil {
		return nil, err
	}
	engine, err := l.rewardsEngine()
	if err != nil {
		return nil, err
	}
	reward := engine.TotalRewards(acc.Deposits, now)
	if reward.Sign() == 0 {
		return nil, reverts.New(reverts.NoRewardsAvailable, "no rewards available")
	}
	if uint64(len(acc.Deposits)) >= l.params.MaxDepositsPerUser {
		return nil, reverts.Newf(reverts.MaxDepositsReached, "at most %d deposits per user", l.params.MaxDepositsPerUser)
	}
	if err := l.requireReserve(pool, reward); err != nil {
		return nil, err
	}

	for _, d := range acc.Deposits {
		d.LastClaimAt = now
	}
	acc.Deposits = append(acc.Deposits, stakes.NewDeposit(reward, now, 0))
	acc.TotalDeposited.Add(acc.TotalDeposited, reward)
	acc.DepositCount++
	pool.TotalPoolBalance.Add(pool.TotalPoolBalance, reward)

	if err := l.repo.setAccount(caller, acc); err != nil {
		return nil, err
	}
	if err := l.repo.setPool(pool); err != nil {
		return nil, err
	}

	l.sctx.Emit("Compounded", caller, reward, nil)
	logger.Info("compounded", "user", caller, "reward", reward)

	r := newReceipt(caller)
	r.Reward.Set(reward)
	r.Principal.Set(reward)
	return r, nil
}

// EmergencyWithdraw returns the principal of the caller, ignoring lockups and rewards. Paused only.
func (l *Ledger) EmergencyWithdraw(caller thor.Address) (*Receipt, error) {
	logger.Debug("emergency withdraw", "user", caller)

	release, err := l.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	pool, err := l.repo.getPool()
	if err != nil {
		return nil, err
	}
	if !pool.Paused {
		return nil, reverts.New(reverts.NotPaused, "emergency withdraw requires a paused ledger")
	}
	acc, err := l.repo.getAccount(caller)
	if err != nil {
		return nil, err
	}
	if acc.IsEmpty() {
		return nil, reverts.New(reverts.NoDepositsFound, "no deposits found")
	}
	principal, err := l.closeAccount(pool, caller, acc)
	if err != nil {
		return nil, err
	}
	if err := l.repo.setPool(pool); err != nil {
		return nil, err
	}
	if err := l.bank.Transfer(l.Address(), caller, principal); err != nil {
		return nil, err
	}

	l.sctx.Emit("EmergencyWithdrawn", caller, principal, nil)
	logger.Info("emergency withdrawn", "user", caller, "principal", principal)

	r := newReceipt(caller)
	r.Principal.Set(principal)
	r.Paid.Set(principal)
	return r, nil
}

// FundRewards tops up the reward reserve. Anyone may fund it.
func (l *Ledger) FundRewards(caller thor.Address, value *big.Int) error {
	logger.Debug("fund rewards", "from", caller, "value", value)

	release, err := l.enter()
	if err != nil {
		return err
	}
	defer release()

	if value == nil || value.Sign() <= 0 {
		return reverts.New(reverts.InvalidAmount, "funding must be positive")
	}
	if err := l.bank.Transfer(caller, l.Address(), value); err != nil {
		return err
	}
	l.sctx.Emit("RewardsFunded", caller, value, nil)
	logger.Info("rewards funded", "from", caller, "value", value)
	return nil
}

// PayGrant pays a claimed quest or achievement reward from the reserve.
func (l *Ledger) PayGrant(user thor.Address, amount *big.Int, kind string, id uint64) error {
	logger.Debug("pay grant", "user", user, "kind", kind, "id", id, "amount", amount)

	release, err := l.enter()
	if err != nil {
		return err
	}
	defer release()

	pool, err := l.repo.getPool()
	if err != nil {
		return err
	}
	if err := requireActive(pool); err != nil {
		return err
	}
	if err := l.requireReserve(pool, amount); err != nil {
		return err
	}
	if err := l.bank.Transfer(l.Address(), user, amount); err != nil {
		return err
	}
	l.sctx.Emit("GrantPaid", user, amount, map[string]string{"kind": kind, "id": strconv.FormatUint(id, 10)})
	logger.Info("grant paid", "user", user, "kind", kind, "id", id, "amount", amount)
	return nil
}
