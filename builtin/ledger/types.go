// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/skillstake/builtin/stakes"
	"github.com/vechain/skillstake/thor"
)

// Account is the staking record of a user.
type Account struct {
	Deposits       []*stakes.Deposit
	TotalDeposited *big.Int
	DepositCount   uint64 // deposits made since the account was opened
	LastWithdrawAt uint64
}

func newAccount() *Account {
	return &Account{TotalDeposited: new(big.Int)}
}

// IsEmpty reports whether the account holds no deposits.
func (a *Account) IsEmpty() bool {
	return len(a.Deposits) == 0
}

// Pool is the process wide aggregate.
type Pool struct {
	TotalPoolBalance  *big.Int
	UniqueUsers       uint64
	PendingCommission *big.Int
	Paused            bool
	Migrated          bool
	MigratedTo        thor.Address
	Treasury          thor.Address
}

// Settings holds the privileged identities known to the ledger.
type Settings struct {
	Admin              thor.Address
	RewardsModule      thor.Address
	SkillsModule       thor.Address
	GamificationModule thor.Address
}

// WithdrawWindow tracks reward withdrawals within a fixed window.
type WithdrawWindow struct {
	Index     uint64
	Withdrawn *big.Int
}

// DepositView is a deposit with its lockup classification.
type DepositView struct {
	Index       int
	Amount      *big.Int
	CreatedAt   uint64
	LastClaimAt uint64
	Lockup      uint64
	UnlockAt    uint64
	Locked      bool
	Pending     *big.Int
}

// Health compares what the ledger holds with what it owes.
type Health struct {
	Balance   *big.Int // ledger balance at the bank
	Liability *big.Int // principal plus every pending reward
	Reserve   *big.Int // balance not backing principal or pending commission
	RatioBP   uint64   // Balance / Liability in bp, saturating
}

// Receipt describes the value movements of a user operation.
type Receipt struct {
	User       thor.Address
	Principal  *big.Int // principal moved in or out
	Reward     *big.Int // gross reward
	Commission *big.Int
	Paid       *big.Int // sent to the user
	Deferred   bool     // commission went to pendingCommission
}

func newReceipt(user thor.Address) *Receipt {
	return &Receipt{
		User:       user,
		Principal:  new(big.Int),
		Reward:     new(big.Int),
		Commission: new(big.Int),
		Paid:       new(big.Int),
	}
}
