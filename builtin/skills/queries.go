// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package skills

import "github.com/vechain/skillstake/thor"

// Profile returns the skill profile of user. MaxActiveSkills is always current.
func (s *Skills) Profile(user thor.Address) (*Profile, error) {
	p, err := s.repo.getProfile(user)
	if err != nil {
		return nil, err
	}
	p.MaxActiveSkills = uint8(s.slots(p.Level))
	return p, nil
}

// ActiveSkills lists the active activations of user in activation order.
func (s *Skills) ActiveSkills(user thor.Address) ([]*Activation, error) {
	ids, err := s.repo.getActive(user)
	if err != nil {
		return nil, err
	}
	list := make([]*Activation, 0, len(ids))
	for _, id := range ids {
		a, err := s.repo.getActivation(user, id)
		if err != nil {
			return nil, err
		}
		if a != nil && a.Active {
			list = append(list, a)
		}
	}
	return list, nil
}

func (s *Skills) Activation(user thor.Address, objectID uint64) (*Activation, error) {
	return s.repo.getActivation(user, objectID)
}

func (s *Skills) RarityOf(objectID uint64) (Rarity, error) {
	return s.repo.getRarity(objectID)
}

func (s *Skills) multiplier(r Rarity) uint64 {
	if int(r) < len(s.params.RarityMultipliers) {
		return s.params.RarityMultipliers[r]
	}
	return s.params.RarityMultipliers[0]
}

// RarityMultiplier is the multiplier of the rarest active skill, over 100.
func (s *Skills) RarityMultiplier(user thor.Address) (uint64, error) {
	active, err := s.ActiveSkills(user)
	if err != nil {
		return 0, err
	}
	m := uint64(100)
	for _, a := range active {
		m = max(m, s.multiplier(a.Rarity))
	}
	return m, nil
}

func (s *Skills) StakingBoost(user thor.Address) (uint64, error) {
	p, err := s.repo.getProfile(user)
	if err != nil {
		return 0, err
	}
	return p.StakingBoostTotal, nil
}

// FeeDiscount is the summed fee reduction, capped.
func (s *Skills) FeeDiscount(user thor.Address) (uint64, error) {
	p, err := s.repo.getProfile(user)
	if err != nil {
		return 0, err
	}
	return min(p.FeeDiscountSum, s.params.MaxFeeDiscountBP), nil
}

func (s *Skills) Settings() (*Settings, error) {
	return s.repo.getSettings()
}
