// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package skills

import (
	"encoding/binary"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/thor"
)

var (
	slotActivations = thor.BytesToBytes32([]byte("activations"))
	slotProfiles    = thor.BytesToBytes32([]byte("profiles"))
	slotActive      = thor.BytesToBytes32([]byte("active"))
	slotRarities    = thor.BytesToBytes32([]byte("rarities"))
	slotOwners      = thor.BytesToBytes32([]byte("owners"))
	slotSettings    = thor.BytesToBytes32([]byte("settings"))
)

func objectKey(objectID uint64) thor.Bytes32 {
	return thor.Blake2b(binary.BigEndian.AppendUint64(nil, objectID))
}

func activationKey(owner thor.Address, objectID uint64) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), binary.BigEndian.AppendUint64(nil, objectID))
}

type repository struct {
	activations *solidity.Mapping[thor.Bytes32, *Activation]
	profiles    *solidity.Mapping[thor.Address, *Profile]
	active      *solidity.Mapping[thor.Address, *activeList]
	rarities    *solidity.Mapping[thor.Bytes32, uint8]
	owners      *solidity.Mapping[thor.Bytes32, thor.Address]
	settings    *solidity.Record[*Settings]
}

func newRepository(sctx *solidity.Context) *repository {
	return &repository{
		activations: solidity.NewMapping[thor.Bytes32, *Activation](sctx, slotActivations),
		profiles:    solidity.NewMapping[thor.Address, *Profile](sctx, slotProfiles),
		active:      solidity.NewMapping[thor.Address, *activeList](sctx, slotActive),
		rarities:    solidity.NewMapping[thor.Bytes32, uint8](sctx, slotRarities),
		owners:      solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotOwners),
		settings:    solidity.NewRecord[*Settings](sctx, slotSettings),
	}
}

func (r *repository) getActivation(owner thor.Address, objectID uint64) (*Activation, error) {
	a, err := r.activations.Get(activationKey(owner, objectID))
	return a, errors.Wrap(err, "failed to get activation")
}

func (r *repository) setActivation(a *Activation) error {
	return errors.Wrap(r.activations.Set(activationKey(a.Owner, a.ObjectID), a), "failed to set activation")
}

func (r *repository) getProfile(user thor.Address) (*Profile, error) {
	p, err := r.profiles.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}
	if p == nil {
		return &Profile{}, nil
	}
	return p, nil
}

func (r *repository) setProfile(user thor.Address, p *Profile) error {
	return errors.Wrap(r.profiles.Set(user, p), "failed to set profile")
}

func (r *repository) getActive(user thor.Address) ([]uint64, error) {
	l, err := r.active.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get active skills")
	}
	if l == nil {
		return nil, nil
	}
	return l.ObjectIDs, nil
}

func (r *repository) setActive(user thor.Address, ids []uint64) error {
	if len(ids) == 0 {
		r.active.Delete(user)
		return nil
	}
	return errors.Wrap(r.active.Set(user, &activeList{ObjectIDs: ids}), "failed to set active skills")
}

func (r *repository) addActive(user thor.Address, objectID uint64) error {
	ids, err := r.getActive(user)
	if err != nil {
		return err
	}
	return r.setActive(user, append(ids, objectID))
}

func (r *repository) removeActive(user thor.Address, objectID uint64) error {
	ids, err := r.getActive(user)
	if err != nil {
		return err
	}
	return r.setActive(user, slices.DeleteFunc(ids, func(id uint64) bool { return id == objectID }))
}

func (r *repository) getRarity(objectID uint64) (Rarity, error) {
	v, err := r.rarities.Get(objectKey(objectID))
	return Rarity(v), errors.Wrap(err, "failed to get rarity")
}

func (r *repository) setRarity(objectID uint64, rarity Rarity) error {
	return errors.Wrap(r.rarities.Set(objectKey(objectID), uint8(rarity)), "failed to set rarity")
}

func (r *repository) getOwner(objectID uint64) (thor.Address, error) {
	o, err := r.owners.Get(objectKey(objectID))
	return o, errors.Wrap(err, "failed to get owner")
}

func (r *repository) setOwner(objectID uint64, owner thor.Address) error {
	return errors.Wrap(r.owners.Set(objectKey(objectID), owner), "failed to set owner")
}

func (r *repository) getSettings() (*Settings, error) {
	s, err := r.settings.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get settings")
	}
	if s == nil {
		return &Settings{}, nil
	}
	return s, nil
}

func (r *repository) setSettings(s *Settings) error {
	return errors.Wrap(r.settings.Set(s), "failed to set settings")
}
