// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gamification

import (
	"math/big"

	"github.com/vechain/skillstake/thor"
)

func (g *Gamification) Progress(user thor.Address) (*Progress, error) {
	return g.repo.getProgress(user)
}

// Grant returns the grant, or nil when none was created.
func (g *Gamification) Grant(user thor.Address, kind GrantKind, id uint64) (*Grant, error) {
	return g.repo.getGrant(user, kind, id)
}

// OpenGrants lists the ids of grants neither claimed nor expired.
func (g *Gamification) OpenGrants(user thor.Address, kind GrantKind) ([]uint64, error) {
	return g.repo.openGrants(user, kind)
}

// GrantHolders lists users holding at least one open grant.
func (g *Gamification) GrantHolders() ([]thor.Address, error) {
	return g.repo.holders.Values()
}

func (g *Gamification) AutoCompoundConfig(user thor.Address) (*AutoCompoundConfig, error) {
	return g.repo.getAutoCompound(user)
}

// AutoCompoundUsers lists users opted in to auto-compounding.
func (g *Gamification) AutoCompoundUsers() ([]thor.Address, error) {
	return g.repo.optedIn.Values()
}

// UnclaimedTotal sums the claimable grants of user at now.
func (g *Gamification) UnclaimedTotal(user thor.Address, now uint64) (*big.Int, error) {
	total := new(big.Int)
	for _, kind := range []GrantKind{QuestGrant, AchievementGrant} {
		ids, err := g.repo.openGrants(user, kind)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			grant, err := g.repo.getGrant(user, kind, id)
			if err != nil {
				return nil, err
			}
			if grant != nil && grant.Claimable(now) {
				total.Add(total, grant.Amount)
			}
		}
	}
	return total, nil
}

func (g *Gamification) Settings() (*Settings, error) {
	return g.repo.getSettings()
}
