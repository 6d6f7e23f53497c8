// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"math/big"
)

// Kind classifies a revert so that callers can branch on it.
type Kind uint8

const (
	Unknown Kind = iota
	DepositTooLow
	DepositTooHigh
	InvalidLockupDuration
	MaxDepositsReached
	FundsAreLocked
	NoRewardsAvailable
	NoDepositsFound
	DailyWithdrawalLimitExceeded
	ContractIsMigrated
	AlreadyMigrated
	InsufficientBalance
	AlreadyActive
	NotActive
	MaxSkillsReached
	DuplicateGrant
	GrantExpired
	AlreadyClaimed
	Unauthorized
	Reentrancy
	SkillOnCooldown
	InvalidAmount
	Paused
	NotPaused
	InvalidAddress
	GrantNotFound
	AutoCompoundNotEligible
	ModuleUnavailable
)

var kindNames = [...]string{
	Unknown:                      "Unknown",
	DepositTooLow:                "DepositTooLow",
	DepositTooHigh:               "DepositTooHigh",
	InvalidLockupDuration:        "InvalidLockupDuration",
	MaxDepositsReached:           "MaxDepositsReached",
	FundsAreLocked:               "FundsAreLocked",
	NoRewardsAvailable:           "NoRewardsAvailable",
	NoDepositsFound:              "NoDepositsFound",
	DailyWithdrawalLimitExceeded: "DailyWithdrawalLimitExceeded",
	ContractIsMigrated:           "ContractIsMigrated",
	AlreadyMigrated:              "AlreadyMigrated",
	InsufficientBalance:          "InsufficientBalance",
	AlreadyActive:                "AlreadyActive",
	NotActive:                    "NotActive",
	MaxSkillsReached:             "MaxSkillsReached",
	DuplicateGrant:               "DuplicateGrant",
	GrantExpired:                 "GrantExpired",
	AlreadyClaimed:               "AlreadyClaimed",
	Unauthorized:                 "Unauthorized",
	Reentrancy:                   "Reentrancy",
	SkillOnCooldown:              "SkillOnCooldown",
	InvalidAmount:                "InvalidAmount",
	Paused:                       "Paused",
	NotPaused:                    "NotPaused",
	InvalidAddress:               "InvalidAddress",
	GrantNotFound:                "GrantNotFound",
	AutoCompoundNotEligible:      "AutoCompoundNotEligible",
	ModuleUnavailable:            "ModuleUnavailable",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ErrRevert is a business rule violation. The whole call it happened in is undone.
type ErrRevert struct {
	kind      Kind
	message   string
	remaining *big.Int
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

// NewLimitExceeded reports a daily withdrawal limit violation along with the allowance left.
func NewLimitExceeded(remaining *big.Int) *ErrRevert {
	return &ErrRevert{
		kind:      DailyWithdrawalLimitExceeded,
		message:   "daily withdrawal limit exceeded, remaining " + remaining.String(),
		remaining: new(big.Int).Set(remaining),
	}
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.kind.String()
	}
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// IsRevertErr reports whether err is, or wraps, an ErrRevert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return Unknown, false
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Remaining returns the allowance carried by a DailyWithdrawalLimitExceeded revert.
func Remaining(err error) (*big.Int, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) && ve.remaining != nil {
		return new(big.Int).Set(ve.remaining), true
	}
	return nil, false
}
