// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gamification tracks progression, time boxed grants and auto-compound bookkeeping.
package gamification

import (
	"math/big"
	"strconv"

	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/thor"
)

var (
	logger   = log.WithContext("pkg", "gamification")
	oneToken = thor.Tokens(1)
)

type Gamification struct {
	sctx   *solidity.Context
	repo   *repository
	params *params.Params
}

func New(sctx *solidity.Context, p *params.Params) *Gamification {
	return &Gamification{sctx: sctx, repo: newRepository(sctx), params: p}
}

// Initialize sets the admin and the marketplace collaborator. It is a no-op when already done.
func (g *Gamification) Initialize(admin, marketplace thor.Address) error {
	settings, err := g.repo.getSettings()
	if err != nil || !settings.Admin.IsZero() {
		return err
	}
	if admin.IsZero() {
		return reverts.New(reverts.InvalidAddress, "admin is required")
	}
	logger.Info("gamification initialized", "admin", admin, "marketplace", marketplace)
	return g.repo.setSettings(&Settings{Admin: admin, Marketplace: marketplace})
}

// SetMarketplace replaces the collaborator allowed to create grants.
func (g *Gamification) SetMarketplace(caller, marketplace thor.Address) error {
	settings, err := g.repo.getSettings()
	if err != nil {
		return err
	}
	if caller != settings.Admin {
		return reverts.Newf(reverts.Unauthorized, "%v is not the admin", caller)
	}
	settings.Marketplace = marketplace
	if err := g.repo.setSettings(settings); err != nil {
		return err
	}
	g.sctx.Emit("MarketplaceChanged", caller, nil, map[string]string{"marketplace": marketplace.String()})
	return nil
}

func (g *Gamification) requireMarketplace(caller thor.Address) error {
	settings, err := g.repo.getSettings()
	if err != nil {
		return err
	}
	if settings.Marketplace.IsZero() || caller != settings.Marketplace {
		return reverts.Newf(reverts.Unauthorized, "%v is not the marketplace", caller)
	}
	return nil
}

// xpFor is the XP delta of an action. Value based actions scale per whole token.
func (g *Gamification) xpFor(action Action, amount *big.Int) uint64 {
	perToken := func(bp uint64) uint64 {
		if amount == nil || amount.Sign() <= 0 {
			return 0
		}
		xp := new(big.Int).Mul(amount, new(big.Int).SetUint64(bp))
		xp.Quo(xp, oneToken)
		xp.Quo(xp, new(big.Int).SetUint64(thor.BasisPoints))
		if !xp.IsUint64() {
			return g.params.XP.Max
		}
		return xp.Uint64()
	}
	switch action {
	case Stake:
		return perToken(g.params.XP.StakePerTokenBP)
	case Compound:
		return perToken(g.params.XP.CompoundPerTokenBP)
	case Quest:
		return g.params.XP.Quest
	case Achievement:
		return g.params.XP.Achievement
	case SkillActivation:
		return g.params.XP.SkillActivation
	}
	return 0
}

// AwardXP credits the XP of an action. XP saturates at the maximum and the level never decreases.
func (g *Gamification) AwardXP(user thor.Address, action Action, amount *big.Int) (*Progress, error) {
	logger.Debug("award xp", "user", user, "action", action, "amount", amount)

	p, err := g.repo.getProgress(user)
	if err != nil {
		return nil, err
	}
	delta := g.xpFor(action, amount)
	if delta == 0 || p.XP >= g.params.XP.Max {
		return p, nil
	}
	xp := p.XP + delta
	if xp < p.XP || xp > g.params.XP.Max {
		xp = g.params.XP.Max
	}
	gained := xp - p.XP
	p.XP = xp

	prevLevel := p.Level
	if level := uint16(xp / g.params.XP.PerLevel); level > p.Level {
		p.Level = level
	}
	if err := g.repo.setProgress(user, p); err != nil {
		return nil, err
	}

	g.sctx.Emit("XPAwarded", user, nil, map[string]string{
		"action": action.String(),
		"xp":     strconv.FormatUint(gained, 10),
		"total":  strconv.FormatUint(p.XP, 10),
	})
	if p.Level > prevLevel {
		g.sctx.Emit("LevelUp", user, nil, map[string]string{"level": strconv.Itoa(int(p.Level))})
		logger.Info("level up", "user", user, "level", p.Level)
	}
	return p, nil
}

// CompleteQuest creates a quest grant on behalf of the marketplace.
func (g *Gamification) CompleteQuest(caller, user thor.Address, id uint64, reward *big.Int, expireDays uint64, now uint64) (*Grant, error) {
	return g.createGrant(caller, user, QuestGrant, id, reward, expireDays, now)
}

// UnlockAchievement creates an achievement grant on behalf of the marketplace.
func (g *Gamification) UnlockAchievement(caller, user thor.Address, id uint64, reward *big.Int, expireDays uint64, now uint64) (*Grant, error) {
	return g.createGrant(caller, user, AchievementGrant, id, reward, expireDays, now)
}

func (g *Gamification) createGrant(caller, user thor.Address, kind GrantKind, id uint64, reward *big.Int, expireDays uint64, now uint64) (*Grant, error) {
	logger.Debug("create grant", "caller", caller, "user", user, "kind", kind, "id", id, "reward", reward, "days", expireDays)

	if err := g.requireMarketplace(caller); err != nil {
		return nil, err
	}
	if user.IsZero() {
		return nil, reverts.New(reverts.InvalidAddress, "grant owner is required")
	}
	if reward == nil || reward.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidAmount, "grant reward must be positive")
	}
	if expireDays == 0 || expireDays > g.params.MaxGrantExpireDays {
		return nil, reverts.Newf(reverts.InvalidAmount, "grant must expire within 1 to %d days", g.params.MaxGrantExpireDays)
	}

	existing, err := g.repo.getGrant(user, kind, id)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Amount.Sign() > 0 {
		return nil, reverts.Newf(reverts.DuplicateGrant, "%v %d already granted", kind, id)
	}

	grant := &Grant{
		ID:        id,
		Amount:    new(big.Int).Set(reward),
		CreatedAt: now,
		ExpiresAt: now + expireDays*thor.Day,
	}
	if err := g.repo.setGrant(user, kind, grant); err != nil {
		return nil, err
	}
	if err := g.repo.addOpen(user, kind, id); err != nil {
		return nil, err
	}

	g.sctx.Emit("GrantCreated", user, reward, map[string]string{
		"kind":      kind.String(),
		"id":        strconv.FormatUint(id, 10),
		"expiresAt": strconv.FormatUint(grant.ExpiresAt, 10),
	})
	logger.Info("grant created", "user", user, "kind", kind, "id", id, "reward", reward)

	action := Quest
	if kind == AchievementGrant {
		action = Achievement
	}
	if _, err := g.AwardXP(user, action, nil); err != nil {
		return nil, err
	}
	return grant, nil
}

// ClaimQuest marks a quest grant of caller as claimed and returns its amount.
func (g *Gamification) ClaimQuest(caller thor.Address, id uint64, now uint64) (*big.Int, error) {
	return g.Claim(caller, QuestGrant, id, now)
}

// ClaimAchievement marks an achievement grant of caller as claimed and returns its amount.
func (g *Gamification) ClaimAchievement(caller thor.Address, id uint64, now uint64) (*big.Int, error) {
	return g.Claim(caller, AchievementGrant, id, now)
}

// Claim settles a grant owned by caller. Payment is left to the caller of this method.
func (g *Gamification) Claim(caller thor.Address, kind GrantKind, id uint64, now uint64) (*big.Int, error) {
	logger.Debug("claim grant", "user", caller, "kind", kind, "id", id)

	grant, err := g.repo.getGrant(caller, kind, id)
	if err != nil {
		return nil, err
	}
	switch {
	case grant == nil:
		return nil, reverts.Newf(reverts.GrantNotFound, "%v %d not found", kind, id)
	case grant.Claimed:
		return nil, reverts.Newf(reverts.AlreadyClaimed, "%v %d already claimed", kind, id)
	case grant.Expired || now > grant.ExpiresAt:
		return nil, reverts.Newf(reverts.GrantExpired, "%v %d expired at %d", kind, id, grant.ExpiresAt)
	}

	grant.Claimed = true
	if err := g.repo.setGrant(caller, kind, grant); err != nil {
		return nil, err
	}
	if err := g.repo.removeOpen(caller, kind, id); err != nil {
		return nil, err
	}

	g.sctx.Emit("GrantClaimed", caller, grant.Amount, map[string]string{
		"kind": kind.String(),
		"id":   strconv.FormatUint(id, 10),
	})
	logger.Info("grant claimed", "user", caller, "kind", kind, "id", id, "amount", grant.Amount)
	return new(big.Int).Set(grant.Amount), nil
}

// ExpireGrants zeroes the listed grants of user that are unclaimed and past expiry.
// Grants already expired are skipped, so repeated sweeps change nothing. It returns the ids expired by this call.
func (g *Gamification) ExpireGrants(user thor.Address, kind GrantKind, ids []uint64, now uint64) ([]uint64, error) {
	logger.Debug("expire grants", "user", user, "kind", kind, "count", len(ids))

	var expired []uint64
	for _, id := range ids {
		grant, err := g.repo.getGrant(user, kind, id)
		if err != nil {
			return nil, err
		}
		if grant == nil || grant.Claimed || grant.Expired || now <= grant.ExpiresAt {
			continue
		}
		amount := grant.Amount
		grant.Amount = new(big.Int)
		grant.Expired = true
		if err := g.repo.setGrant(user, kind, grant); err != nil {
			return nil, err
		}
		if err := g.repo.removeOpen(user, kind, id); err != nil {
			return nil, err
		}
		g.sctx.Emit("GrantExpired", user, amount, map[string]string{
			"kind": kind.String(),
			"id":   strconv.FormatUint(id, 10),
		})
		expired = append(expired, id)
	}
	if len(expired) > 0 {
		logger.Info("grants expired", "user", user, "kind", kind, "ids", expired)
	}
	return expired, nil
}

// EnableAutoCompound opts caller in with a minimum reward per run.
func (g *Gamification) EnableAutoCompound(caller thor.Address, minAmount *big.Int, now uint64) error {
	logger.Debug("enable auto-compound", "user", caller, "min", minAmount)

	if minAmount == nil || minAmount.Cmp(g.params.AutoCompoundFloor) < 0 {
		return reverts.Newf(reverts.InvalidAmount, "minimum must be at least %v", g.params.AutoCompoundFloor)
	}
	cfg, err := g.repo.getAutoCompound(caller)
	if err != nil {
		return err
	}
	cfg.Enabled = true
	cfg.MinAmount = new(big.Int).Set(minAmount)
	if err := g.repo.setAutoCompound(caller, cfg); err != nil {
		return err
	}
	if _, err := g.repo.optedIn.Add(caller); err != nil {
		return err
	}
	g.sctx.Emit("AutoCompoundEnabled", caller, minAmount, map[string]string{"at": strconv.FormatUint(now, 10)})
	logger.Info("auto-compound enabled", "user", caller, "min", minAmount)
	return nil
}

func (g *Gamification) DisableAutoCompound(caller thor.Address) error {
	logger.Debug("disable auto-compound", "user", caller)

	cfg, err := g.repo.getAutoCompound(caller)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		return reverts.New(reverts.AutoCompoundNotEligible, "auto-compound is not enabled")
	}
	cfg.Enabled = false
	if err := g.repo.setAutoCompound(caller, cfg); err != nil {
		return err
	}
	if _, err := g.repo.optedIn.Remove(caller); err != nil {
		return err
	}
	g.sctx.Emit("AutoCompoundDisabled", caller, nil, nil)
	logger.Info("auto-compound disabled", "user", caller)
	return nil
}

// CheckAutoCompound reports whether user is due for an auto-compound of pending.
func (g *Gamification) CheckAutoCompound(user thor.Address, pending *big.Int, now uint64) (bool, error) {
	cfg, err := g.repo.getAutoCompound(user)
	if err != nil {
		return false, err
	}
	return g.eligible(cfg, pending, now), nil
}

func (g *Gamification) eligible(cfg *AutoCompoundConfig, pending *big.Int, now uint64) bool {
	if !cfg.Enabled || pending == nil || pending.Sign() == 0 {
		return false
	}
	if cfg.LastCompoundAt != 0 && now < cfg.LastCompoundAt+g.params.AutoCompoundInterval {
		return false
	}
	return pending.Cmp(cfg.MinAmount) >= 0
}

// PerformAutoCompound records an auto-compound of amount that the ledger has carried out.
func (g *Gamification) PerformAutoCompound(caller, user thor.Address, amount *big.Int, now uint64) error {
	logger.Debug("perform auto-compound", "caller", caller, "user", user, "amount", amount)

	if caller != builtin.Ledger {
		return reverts.Newf(reverts.Unauthorized, "%v is not the ledger", caller)
	}
	cfg, err := g.repo.getAutoCompound(user)
	if err != nil {
		return err
	}
	if !g.eligible(cfg, amount, now) {
		return reverts.Newf(reverts.AutoCompoundNotEligible, "%v is not due for auto-compound", user)
	}
	cfg.LastCompoundAt = now
	if err := g.repo.setAutoCompound(user, cfg); err != nil {
		return err
	}
	g.sctx.Emit("AutoCompounded", user, amount, nil)
	logger.Info("auto-compounded", "user", user, "amount", amount)
	return nil
}
