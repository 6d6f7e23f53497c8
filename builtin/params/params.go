// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"os"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/skillstake/thor"
)

// LockupRate is the hourly accrual rate of a lockup tier.
type LockupRate struct {
	Days       uint64 `yaml:"days"`
	HourlyRate uint64 `yaml:"hourlyRate"` // over RatePrecision
}

// TimeBonus is the bonus granted to deposits at least Days old.
type TimeBonus struct {
	Days uint64 `yaml:"days"`
	BP   uint64 `yaml:"bp"`
}

// XPTable defines how many XP each action is worth.
type XPTable struct {
	StakePerTokenBP    uint64 `yaml:"stakePerTokenBP"`    // XP per whole token staked, in bp
	CompoundPerTokenBP uint64 `yaml:"compoundPerTokenBP"` // XP per whole token compounded, in bp
	Quest              uint64 `yaml:"quest"`
	Achievement        uint64 `yaml:"achievement"`
	SkillActivation    uint64 `yaml:"skillActivation"`
	PerLevel           uint64 `yaml:"perLevel"`
	Max                uint64 `yaml:"max"`
}

// Params holds every economic constant of the system.
type Params struct {
	MinDeposit         *big.Int `yaml:"minDeposit"`
	MaxDeposit         *big.Int `yaml:"maxDeposit"`
	MaxDepositsPerUser uint64   `yaml:"maxDepositsPerUser"`
	CommissionBP       uint64   `yaml:"commissionBP"`

	RatePrecision uint64       `yaml:"ratePrecision"`
	Lockups       []LockupRate `yaml:"lockups"`
	MaxROIBP      uint64       `yaml:"maxROIBP"`
	TimeBonuses   []TimeBonus  `yaml:"timeBonuses"`

	DailyWithdrawalLimit *big.Int `yaml:"dailyWithdrawalLimit"`
	WithdrawalWindow     uint64   `yaml:"withdrawalWindow"` // seconds

	XP XPTable `yaml:"xp"`

	RarityMultipliers []uint64 `yaml:"rarityMultipliers"` // over 100, indexed by rarity
	BaseSkillSlots    uint64   `yaml:"baseSkillSlots"`
	LevelsPerSlot     uint64   `yaml:"levelsPerSlot"`
	MaxSkillSlots     uint64   `yaml:"maxSkillSlots"`
	MaxFeeDiscountBP  uint64   `yaml:"maxFeeDiscountBP"`
	SkillCooldown     uint64   `yaml:"skillCooldown"` // seconds before a deactivated object can be re-activated

	AutoCompoundFloor    *big.Int `yaml:"autoCompoundFloor"`
	AutoCompoundInterval uint64   `yaml:"autoCompoundInterval"` // seconds
	MaxGrantExpireDays   uint64   `yaml:"maxGrantExpireDays"`
}

// Default returns the parameters used when no config file overrides them.
func Default() *Params {
	return &Params{
		MinDeposit:         thor.Wei("10000000000000000"), // 0.01 token
		MaxDeposit:         thor.Tokens(1_000_000),
		MaxDepositsPerUser: 100,
		CommissionBP:       600,

		RatePrecision: 1_000_000_000,
		Lockups: []LockupRate{
			{Days: 0, HourlyRate: 100_000},
			{Days: 30, HourlyRate: 125_000},
			{Days: 90, HourlyRate: 150_000},
			{Days: 180, HourlyRate: 200_000},
			{Days: 365, HourlyRate: 300_000},
		},
		MaxROIBP: 12_500,
		TimeBonuses: []TimeBonus{
			{Days: 30, BP: 50},
			{Days: 90, BP: 100},
			{Days: 180, BP: 300},
			{Days: 365, BP: 500},
		},

		DailyWithdrawalLimit: thor.Tokens(1000),
		WithdrawalWindow:     thor.Day,

		XP: XPTable{
			StakePerTokenBP:    10_000,
			CompoundPerTokenBP: 5_000,
			Quest:              100,
			Achievement:        250,
			SkillActivation:    25,
			PerLevel:           1000,
			Max:                10_000_000,
		},

		RarityMultipliers: []uint64{100, 110, 120, 140, 180},
		BaseSkillSlots:    3,
		LevelsPerSlot:     10,
		MaxSkillSlots:     10,
		MaxFeeDiscountBP:  5000,
		SkillCooldown:     thor.Hour,

		AutoCompoundFloor:    thor.Tokens(1),
		AutoCompoundInterval: thor.Day,
		MaxGrantExpireDays:   365,
	}
}

// Load reads a yaml file over the defaults. Fields absent from the file keep their default value.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read params")
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrap(err, "decode params")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LockupSeconds returns the lockup tiers in seconds, ascending.
func (p *Params) LockupSeconds() []uint64 {
	out := make([]uint64, 0, len(p.Lockups))
	for _, l := range p.Lockups {
		out = append(out, l.Days*thor.Day)
	}
	return out
}

// HourlyRate returns the hourly rate of a lockup duration in seconds.
func (p *Params) HourlyRate(lockup uint64) (uint64, bool) {
	for _, l := range p.Lockups {
		if l.Days*thor.Day == lockup {
			return l.HourlyRate, true
		}
	}
	return 0, false
}

// Validate checks the parameters are internally consistent.
func (p *Params) Validate() error {
	switch {
	case p.MinDeposit == nil || p.MinDeposit.Sign() <= 0:
		return errors.New("params: minDeposit must be positive")
	case p.MaxDeposit == nil || p.MaxDeposit.Cmp(p.MinDeposit) < 0:
		return errors.New("params: maxDeposit must not be below minDeposit")
	case p.MaxDepositsPerUser == 0:
		return errors.New("params: maxDepositsPerUser must be positive")
	case p.CommissionBP >= thor.BasisPoints:
		return errors.New("params: commissionBP must be below 10000")
	case p.RatePrecision == 0:
		return errors.New("params: ratePrecision must be positive")
	case p.MaxROIBP == 0:
		return errors.New("params: maxROIBP must be positive")
	case p.DailyWithdrawalLimit == nil || p.DailyWithdrawalLimit.Sign() <= 0:
		return errors.New("params: dailyWithdrawalLimit must be positive")
	case p.WithdrawalWindow == 0:
		return errors.New("params: withdrawalWindow must be positive")
	case p.XP.PerLevel == 0 || p.XP.Max < p.XP.PerLevel:
		return errors.New("params: invalid xp table")
	case p.XP.Max/p.XP.PerLevel > 0xffff:
		return errors.New("params: xp table allows levels beyond 65535")
	case len(p.RarityMultipliers) == 0:
		return errors.New("params: rarityMultipliers must not be empty")
	case p.MaxSkillSlots == 0 || p.BaseSkillSlots > p.MaxSkillSlots || p.MaxSkillSlots > 0xff:
		return errors.New("params: invalid skill slots")
	case p.LevelsPerSlot == 0:
		return errors.New("params: levelsPerSlot must be positive")
	case p.MaxFeeDiscountBP > thor.BasisPoints:
		return errors.New("params: maxFeeDiscountBP must not exceed 10000")
	case p.AutoCompoundFloor == nil || p.AutoCompoundFloor.Sign() < 0:
		return errors.New("params: autoCompoundFloor must not be negative")
	case p.MaxGrantExpireDays == 0:
		return errors.New("params: maxGrantExpireDays must be positive")
	}

	if len(p.Lockups) == 0 || p.Lockups[0].Days != 0 {
		return errors.New("params: lockups must start with the flexible tier")
	}
	if !slices.IsSortedFunc(p.Lockups, func(a, b LockupRate) int {
		return compare(a.Days, b.Days)
	}) {
		return errors.New("params: lockups must be sorted by days")
	}
	for i := 1; i < len(p.Lockups); i++ {
		if p.Lockups[i].Days == p.Lockups[i-1].Days || p.Lockups[i].HourlyRate <= p.Lockups[i-1].HourlyRate {
			return errors.New("params: longer lockups must have strictly higher rates")
		}
	}
	if !slices.IsSortedFunc(p.TimeBonuses, func(a, b TimeBonus) int {
		return compare(a.Days, b.Days)
	}) {
		return errors.New("params: timeBonuses must be sorted by days")
	}
	for _, m := range p.RarityMultipliers {
		if m < 100 {
			return errors.New("params: rarity multipliers must be at least 100")
		}
	}
	return nil
}

func compare(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
