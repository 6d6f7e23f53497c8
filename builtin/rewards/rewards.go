// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards computes deposit rewards. It holds no state.
package rewards

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/stakes"
	"github.com/vechain/skillstake/thor"
)

var (
	bigBasisPoints = new(big.Int).SetUint64(thor.BasisPoints)
	bigHundred     = big.NewInt(100)
)

// Engine computes rewards against a parameter table.
type Engine struct {
	params *params.Params
}

func New(p *params.Params) *Engine {
	return &Engine{params: p}
}

// HourlyRate returns the rate of a lockup duration, over RatePrecision.
func (e *Engine) HourlyRate(lockup uint64) (uint64, error) {
	rate, ok := e.params.HourlyRate(lockup)
	if !ok {
		return 0, reverts.Newf(reverts.InvalidLockupDuration, "lockup of %d seconds is not a tier", lockup)
	}
	return rate, nil
}

// Cap returns the largest base reward a deposit of amount can accrue between two claims.
func (e *Engine) Cap(amount *big.Int) *big.Int {
	c := new(big.Int).Mul(amount, new(big.Int).SetUint64(e.params.MaxROIBP))
	return c.Quo(c, bigBasisPoints)
}

// BaseReward is amount * rate * elapsedHours / precision, capped. Partial hours do not accrue.
func (e *Engine) BaseReward(d *stakes.Deposit, now uint64) *big.Int {
	hours := d.SinceClaim(now) / thor.Hour
	if hours == 0 || d.Amount.Sign() <= 0 {
		return new(big.Int)
	}
	rate, ok := e.params.HourlyRate(d.Lockup)
	if !ok {
		return new(big.Int)
	}

	limit := e.Cap(d.Amount)
	amount, overflow := uint256.FromBig(d.Amount)
	if overflow {
		return limit
	}
	factor := new(uint256.Int).Mul(uint256.NewInt(rate), uint256.NewInt(hours))
	reward, overflow := new(uint256.Int).MulDivOverflow(amount, factor, uint256.NewInt(e.params.RatePrecision))
	if overflow {
		return limit
	}
	out := reward.ToBig()
	if out.Cmp(limit) > 0 {
		return limit
	}
	return out
}

// TimeBonusBP returns the bonus of the highest tier reached by age.
func (e *Engine) TimeBonusBP(age uint64) uint64 {
	var bp uint64
	for _, tier := range e.params.TimeBonuses {
		if age >= tier.Days*thor.Day {
			bp = tier.BP
		}
	}
	return bp
}

// DepositReward is the capped base reward plus the time bonus computed on it.
func (e *Engine) DepositReward(d *stakes.Deposit, now uint64) *big.Int {
	base := e.BaseReward(d, now)
	if base.Sign() == 0 {
		return base
	}
	bonus := new(big.Int).Mul(base, new(big.Int).SetUint64(e.TimeBonusBP(d.Age(now))))
	bonus.Quo(bonus, bigBasisPoints)
	return base.Add(base, bonus)
}

// TotalRewards sums DepositReward over the deposits.
func (e *Engine) TotalRewards(deposits []*stakes.Deposit, now uint64) *big.Int {
	total := new(big.Int)
	for _, d := range deposits {
		total.Add(total, e.DepositReward(d, now))
	}
	return total
}

// Boosted applies the staking boost and then the rarity multiplier (over 100).
func Boosted(base *big.Int, boostBP, rarityMultiplier uint64) *big.Int {
	boosted := new(big.Int).Mul(base, new(big.Int).SetUint64(thor.BasisPoints+boostBP))
	boosted.Quo(boosted, bigBasisPoints)
	boosted.Mul(boosted, new(big.Int).SetUint64(rarityMultiplier))
	return boosted.Quo(boosted, bigHundred)
}

// Split takes bp basis points out of value. It returns the remainder and the cut.
func Split(value *big.Int, bp uint64) (net, cut *big.Int) {
	cut = new(big.Int).Mul(value, new(big.Int).SetUint64(bp))
	cut.Quo(cut, bigBasisPoints)
	return new(big.Int).Sub(value, cut), cut
}

// Projection estimates the earnings of a hypothetical deposit.
type Projection struct {
	Lockup     uint64
	Deposited  *big.Int // after commission
	Commission *big.Int
	Reward     *big.Int
	HourlyRate uint64
	BonusBP    uint64
	Capped     bool
}

// Project estimates the reward of depositing amount under lockup and claiming once after duration seconds.
func (e *Engine) Project(amount *big.Int, lockup, duration uint64) (*Projection, error) {
	rate, err := e.HourlyRate(lockup)
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidAmount, "amount must be positive")
	}
	net, commission := Split(amount, e.params.CommissionBP)
	d := stakes.NewDeposit(net, 0, lockup)
	base := e.BaseReward(d, duration)
	return &Projection{
		Lockup:     lockup,
		Deposited:  net,
		Commission: commission,
		Reward:     e.DepositReward(d, duration),
		HourlyRate: rate,
		BonusBP:    e.TimeBonusBP(duration),
		Capped:     base.Cmp(e.Cap(net)) == 0 && base.Sign() > 0,
	}, nil
}

// ProjectAll projects amount over every lockup tier.
func (e *Engine) ProjectAll(amount *big.Int, duration uint64) ([]*Projection, error) {
	var out []*Projection
	for _, lockup := range e.params.LockupSeconds() {
		p, err := e.Project(amount, lockup, duration)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
