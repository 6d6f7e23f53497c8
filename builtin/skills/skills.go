// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package skills aggregates the effects of activated skill objects per user.
package skills

import (
	"strconv"

	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "skills")

type Skills struct {
	sctx   *solidity.Context
	repo   *repository
	params *params.Params
}

func New(sctx *solidity.Context, p *params.Params) *Skills {
	return &Skills{sctx: sctx, repo: newRepository(sctx), params: p}
}

// Initialize sets the admin and the marketplace collaborator. It is a no-op when already done.
func (s *Skills) Initialize(admin, marketplace thor.Address) error {
	settings, err := s.repo.getSettings()
	if err != nil || !settings.Admin.IsZero() {
		return err
	}
	if admin.IsZero() {
		return reverts.New(reverts.InvalidAddress, "admin is required")
	}
	logger.Info("skills initialized", "admin", admin, "marketplace", marketplace)
	return s.repo.setSettings(&Settings{Admin: admin, Marketplace: marketplace})
}

// SetMarketplace replaces the single collaborator allowed to drive activations.
func (s *Skills) SetMarketplace(caller, marketplace thor.Address) error {
	settings, err := s.repo.getSettings()
	if err != nil {
		return err
	}
	if caller != settings.Admin {
		return reverts.Newf(reverts.Unauthorized, "%v is not the admin", caller)
	}
	settings.Marketplace = marketplace
	if err := s.repo.setSettings(settings); err != nil {
		return err
	}
	s.sctx.Emit("MarketplaceChanged", caller, nil, map[string]string{"marketplace": marketplace.String()})
	return nil
}

// authorizeUser accepts the marketplace or the user acting on its own skills.
func (s *Skills) authorizeUser(caller, user thor.Address) error {
	if caller == user {
		return nil
	}
	settings, err := s.repo.getSettings()
	if err != nil {
		return err
	}
	if settings.Marketplace.IsZero() || caller != settings.Marketplace {
		return reverts.Newf(reverts.Unauthorized, "%v may not manage skills of %v", caller, user)
	}
	return nil
}

// authorizeRarity accepts the admin or the marketplace.
func (s *Skills) authorizeRarity(caller thor.Address) error {
	settings, err := s.repo.getSettings()
	if err != nil {
		return err
	}
	if caller == settings.Admin || (!settings.Marketplace.IsZero() && caller == settings.Marketplace) {
		return nil
	}
	return reverts.Newf(reverts.Unauthorized, "%v may not set rarities", caller)
}

// slots is the number of skills a user of level may keep active.
func (s *Skills) slots(level uint16) uint64 {
	return min(s.params.BaseSkillSlots+uint64(level)/s.params.LevelsPerSlot, s.params.MaxSkillSlots)
}

func (p *Profile) apply(a *Activation, activate bool) {
	add := func(v *uint64, d uint64) {
		if activate {
			*v += d
		} else if *v >= d {
			*v -= d
		} else {
			*v = 0
		}
	}
	add(&p.ActiveSkills, 1)
	switch a.Kind {
	case FeeReduction:
		add(&p.FeeDiscountSum, a.Effect)
	case AutoCompound:
		add(&p.AutoCompoundCount, 1)
		add(&p.StakingBoostTotal, a.Effect)
	default:
		add(&p.StakingBoostTotal, a.Effect)
	}
}

// Activate turns a skill object on for user.
func (s *Skills) Activate(caller, user thor.Address, objectID uint64, kind Kind, effect uint64, now uint64) (*Activation, error) {
	logger.Debug("activate skill", "caller", caller, "user", user, "object", objectID, "kind", kind, "effect", effect)

	if err := s.authorizeUser(caller, user); err != nil {
		return nil, err
	}
	if !kind.valid() {
		return nil, reverts.Newf(reverts.InvalidAmount, "unknown skill kind %v", kind)
	}
	if effect == 0 || effect > thor.BasisPoints {
		return nil, reverts.Newf(reverts.InvalidAmount, "effect %d out of range", effect)
	}

	a, err := s.repo.getActivation(user, objectID)
	if err != nil {
		return nil, err
	}
	if a != nil {
		if a.Active {
			return nil, reverts.Newf(reverts.AlreadyActive, "object %d already active", objectID)
		}
		if now < a.CooldownEnds {
			return nil, reverts.Newf(reverts.SkillOnCooldown, "object %d on cooldown until %d", objectID, a.CooldownEnds)
		}
	}

	profile, err := s.repo.getProfile(user)
	if err != nil {
		return nil, err
	}
	maxActive := s.slots(profile.Level)
	if profile.ActiveSkills >= maxActive {
		return nil, reverts.Newf(reverts.MaxSkillsReached, "at most %d active skills", maxActive)
	}

	rarity, err := s.repo.getRarity(objectID)
	if err != nil {
		return nil, err
	}
	a = &Activation{
		Owner:       user,
		ObjectID:    objectID,
		Kind:        kind,
		Effect:      effect,
		Rarity:      rarity,
		ActivatedAt: now,
		Active:      true,
	}
	profile.apply(a, true)
	profile.MaxActiveSkills = uint8(maxActive)

	if err := s.repo.setActivation(a); err != nil {
		return nil, err
	}
	if err := s.repo.setProfile(user, profile); err != nil {
		return nil, err
	}
	if err := s.repo.addActive(user, objectID); err != nil {
		return nil, err
	}
	if err := s.repo.setOwner(objectID, user); err != nil {
		return nil, err
	}

	s.sctx.Emit("SkillActivated", user, nil, map[string]string{
		"object": strconv.FormatUint(objectID, 10),
		"kind":   kind.String(),
		"effect": strconv.FormatUint(effect, 10),
	})
	logger.Info("skill activated", "user", user, "object", objectID, "boost", profile.StakingBoostTotal)
	return a, nil
}

// Deactivate turns a skill object off and starts its re-activation cooldown.
func (s *Skills) Deactivate(caller, user thor.Address, objectID uint64, now uint64) error {
	logger.Debug("deactivate skill", "caller", caller, "user", user, "object", objectID)

	if err := s.authorizeUser(caller, user); err != nil {
		return err
	}
	a, err := s.repo.getActivation(user, objectID)
	if err != nil {
		return err
	}
	if a == nil || !a.Active {
		return reverts.Newf(reverts.NotActive, "object %d is not active", objectID)
	}
	profile, err := s.repo.getProfile(user)
	if err != nil {
		return err
	}
	profile.apply(a, false)

	a.Active = false
	a.CooldownEnds = now + s.params.SkillCooldown
	if err := s.repo.setActivation(a); err != nil {
		return err
	}
	if err := s.repo.setProfile(user, profile); err != nil {
		return err
	}
	if err := s.repo.removeActive(user, objectID); err != nil {
		return err
	}

	s.sctx.Emit("SkillDeactivated", user, nil, map[string]string{"object": strconv.FormatUint(objectID, 10)})
	logger.Info("skill deactivated", "user", user, "object", objectID, "boost", profile.StakingBoostTotal)
	return nil
}

// SetRarity records the rarity of an object and refreshes the snapshot of its active activation.
func (s *Skills) SetRarity(caller thor.Address, objectID uint64, rarity Rarity) error {
	logger.Debug("set rarity", "caller", caller, "object", objectID, "rarity", rarity)
	if err := s.authorizeRarity(caller); err != nil {
		return err
	}
	return s.setRarity(caller, objectID, rarity)
}

// BatchSetRarity applies every update or none.
func (s *Skills) BatchSetRarity(caller thor.Address, updates []RarityUpdate) error {
	logger.Debug("batch set rarity", "caller", caller, "count", len(updates))
	if err := s.authorizeRarity(caller); err != nil {
		return err
	}
	for _, u := range updates {
		if err := s.setRarity(caller, u.ObjectID, u.Rarity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Skills) setRarity(caller thor.Address, objectID uint64, rarity Rarity) error {
	if int(rarity) >= len(s.params.RarityMultipliers) {
		return reverts.Newf(reverts.InvalidAmount, "unknown rarity %d", rarity)
	}
	if err := s.repo.setRarity(objectID, rarity); err != nil {
		return err
	}
	owner, err := s.repo.getOwner(objectID)
	if err != nil {
		return err
	}
	if !owner.IsZero() {
		a, err := s.repo.getActivation(owner, objectID)
		if err != nil {
			return err
		}
		if a != nil && a.Active {
			a.Rarity = rarity
			if err := s.repo.setActivation(a); err != nil {
				return err
			}
		}
	}
	s.sctx.Emit("RarityChanged", caller, nil, map[string]string{
		"object": strconv.FormatUint(objectID, 10),
		"rarity": strconv.Itoa(int(rarity)),
	})
	return nil
}

// SyncLevel caches the progression of user, which widens the skill slots.
func (s *Skills) SyncLevel(user thor.Address, level uint16, xp uint64) error {
	profile, err := s.repo.getProfile(user)
	if err != nil {
		return err
	}
	if profile.Level == level && profile.TotalXP == xp {
		return nil
	}
	profile.Level = level
	profile.TotalXP = xp
	profile.MaxActiveSkills = uint8(s.slots(level))
	return s.repo.setProfile(user, profile)
}
