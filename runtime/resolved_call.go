// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin/gamification"
	"github.com/vechain/skillstake/builtin/ledger"
	"github.com/vechain/skillstake/builtin/skills"
	"github.com/vechain/skillstake/thor"
)

// Call is an externally submitted invocation of one operation on behalf of Caller.
// Only the fields the method reads need to be set.
type Call struct {
	Caller     thor.Address          `json:"caller"`
	Method     string                `json:"method"`
	Value      *math.HexOrDecimal256 `json:"value,omitempty"`
	Lockup     uint64                `json:"lockup,omitempty"`
	To         *thor.Address         `json:"to,omitempty"`
	User       *thor.Address         `json:"user,omitempty"`
	Module     string                `json:"module,omitempty"`
	ObjectID   uint64                `json:"objectId,omitempty"`
	Kind       uint8                 `json:"kind,omitempty"`
	Effect     uint64                `json:"effect,omitempty"`
	Rarity     uint8                 `json:"rarity,omitempty"`
	Rarities   []skills.RarityUpdate `json:"rarities,omitempty"`
	ID         uint64                `json:"id,omitempty"`
	IDs        []uint64              `json:"ids,omitempty"`
	GrantKind  string                `json:"grantKind,omitempty"`
	ExpireDays uint64                `json:"expireDays,omitempty"`
}

// ResolvedCall is a Call whose arguments passed validation.
type ResolvedCall struct {
	call      *Call
	value     *big.Int
	grantKind gamification.GrantKind
}

var callMethods = map[string]struct {
	needValue, needTo, needUser, needGrantKind bool
}{
	"deposit":                   {needValue: true},
	"withdraw":                  {},
	"withdrawAll":               {},
	"compound":                  {},
	"emergencyWithdraw":         {},
	"fundRewards":               {needValue: true},
	"autoCompound":              {needUser: true},
	"pause":                     {},
	"unpause":                   {},
	"migrate":                   {needTo: true},
	"setModule":                 {needTo: true},
	"changeTreasury":            {needTo: true},
	"withdrawPendingCommission": {},
	"emergencyWithdrawOwner":    {needTo: true},
	"setMarketplace":            {needTo: true},
	"activateSkill":             {needUser: true},
	"deactivateSkill":           {needUser: true},
	"setRarity":                 {},
	"batchSetRarity":            {},
	"completeQuest":             {needValue: true, needUser: true},
	"unlockAchievement":         {needValue: true, needUser: true},
	"claim":                     {needGrantKind: true},
	"expireGrants":              {needUser: true, needGrantKind: true},
	"enableAutoCompound":        {needValue: true},
	"disableAutoCompound":       {},
	"mint":                      {needValue: true, needTo: true},
}

// ResolveCall checks that call names a known method and carries the arguments it needs.
func ResolveCall(call *Call) (*ResolvedCall, error) {
	if call == nil {
		return nil, errors.New("nil call")
	}
	m, ok := callMethods[call.Method]
	if !ok {
		return nil, errors.Errorf("unknown method %q", call.Method)
	}
	rc := &ResolvedCall{call: call}
	if m.needValue {
		if call.Value == nil {
			return nil, errors.New("value required")
		}
		rc.value = (*big.Int)(call.Value)
		if rc.value.Sign() < 0 || rc.value.Cmp(math.MaxBig256) > 0 {
			return nil, errors.New("value out of range")
		}
	}
	if m.needTo && call.To == nil {
		return nil, errors.New("to required")
	}
	if m.needUser && call.User == nil {
		return nil, errors.New("user required")
	}
	if m.needGrantKind {
		if rc.grantKind, ok = gamification.ParseGrantKind(strings.ToLower(call.GrantKind)); !ok {
			return nil, errors.Errorf("unknown grant kind %q", call.GrantKind)
		}
	}
	return rc, nil
}

// Method returns the resolved method name.
func (rc *ResolvedCall) Method() string { return rc.call.Method }

// Execute runs the resolved call. The result is the operation's return value, nil when it has none.
func (r *Runtime) Execute(rc *ResolvedCall) (any, error) {
	c := rc.call
	switch c.Method {
	case "deposit":
		return r.Deposit(c.Caller, c.Lockup, rc.value)
	case "withdraw":
		return r.Withdraw(c.Caller)
	case "withdrawAll":
		return r.WithdrawAll(c.Caller)
	case "compound":
		return r.Compound(c.Caller)
	case "emergencyWithdraw":
		return r.EmergencyWithdraw(c.Caller)
	case "fundRewards":
		return nil, r.FundRewards(c.Caller, rc.value)
	case "autoCompound":
		return r.AutoCompound(*c.User)
	case "pause":
		return nil, r.Pause(c.Caller)
	case "unpause":
		return nil, r.Unpause(c.Caller)
	case "migrate":
		return nil, r.Migrate(c.Caller, *c.To)
	case "setModule":
		return nil, r.SetModule(c.Caller, ledger.Module(c.Module), *c.To)
	case "changeTreasury":
		return nil, r.ChangeTreasury(c.Caller, *c.To)
	case "withdrawPendingCommission":
		return r.WithdrawPendingCommission(c.Caller)
	case "emergencyWithdrawOwner":
		return r.EmergencyWithdrawOwner(c.Caller, *c.To)
	case "setMarketplace":
		return nil, r.SetMarketplace(c.Caller, *c.To)
	case "activateSkill":
		return r.ActivateSkill(c.Caller, *c.User, c.ObjectID, skills.Kind(c.Kind), c.Effect)
	case "deactivateSkill":
		return nil, r.DeactivateSkill(c.Caller, *c.User, c.ObjectID)
	case "setRarity":
		return nil, r.SetSkillRarity(c.Caller, c.ObjectID, skills.Rarity(c.Rarity))
	case "batchSetRarity":
		return nil, r.BatchSetSkillRarity(c.Caller, c.Rarities)
	case "completeQuest":
		return r.CompleteQuest(c.Caller, *c.User, c.ID, rc.value, c.ExpireDays)
	case "unlockAchievement":
		return r.UnlockAchievement(c.Caller, *c.User, c.ID, rc.value, c.ExpireDays)
	case "claim":
		return r.ClaimGrant(c.Caller, rc.grantKind, c.ID)
	case "expireGrants":
		return r.ExpireGrants(*c.User, rc.grantKind, c.IDs)
	case "enableAutoCompound":
		return nil, r.EnableAutoCompound(c.Caller, rc.value)
	case "disableAutoCompound":
		return nil, r.DisableAutoCompound(c.Caller)
	case "mint":
		return nil, r.Mint(*c.To, rc.value)
	}
	return nil, errors.Errorf("unknown method %q", c.Method)
}
