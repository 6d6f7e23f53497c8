// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gamification

import (
	"encoding/binary"
	"math/big"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/thor"
)

var (
	slotProgress     = thor.BytesToBytes32([]byte("progress"))
	slotGrants       = thor.BytesToBytes32([]byte("grants"))
	slotOpenGrants   = thor.BytesToBytes32([]byte("open-grants"))
	slotGrantHolders = thor.BytesToBytes32([]byte("grant-holders"))
	slotAutoCompound = thor.BytesToBytes32([]byte("auto-compound"))
	slotOptedIn      = thor.BytesToBytes32([]byte("auto-compound-users"))
	slotSettings     = thor.BytesToBytes32([]byte("settings"))
)

func grantKey(user thor.Address, kind GrantKind, id uint64) thor.Bytes32 {
	return thor.Blake2b(user.Bytes(), []byte{byte(kind)}, binary.BigEndian.AppendUint64(nil, id))
}

func openKey(user thor.Address, kind GrantKind) thor.Bytes32 {
	return thor.Blake2b(user.Bytes(), []byte{byte(kind)})
}

type repository struct {
	progress     *solidity.Mapping[thor.Address, *Progress]
	grants       *solidity.Mapping[thor.Bytes32, *Grant]
	open         *solidity.Mapping[thor.Bytes32, *grantIDs]
	holders      *solidity.Set
	autoCompound *solidity.Mapping[thor.Address, *AutoCompoundConfig]
	optedIn      *solidity.Set
	settings     *solidity.Record[*Settings]
}

func newRepository(sctx *solidity.Context) *repository {
	return &repository{
		progress:     solidity.NewMapping[thor.Address, *Progress](sctx, slotProgress),
		grants:       solidity.NewMapping[thor.Bytes32, *Grant](sctx, slotGrants),
		open:         solidity.NewMapping[thor.Bytes32, *grantIDs](sctx, slotOpenGrants),
		holders:      solidity.NewSet(sctx, slotGrantHolders),
		autoCompound: solidity.NewMapping[thor.Address, *AutoCompoundConfig](sctx, slotAutoCompound),
		optedIn:      solidity.NewSet(sctx, slotOptedIn),
		settings:     solidity.NewRecord[*Settings](sctx, slotSettings),
	}
}

func (r *repository) getProgress(user thor.Address) (*Progress, error) {
	p, err := r.progress.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get progress")
	}
	if p == nil {
		return &Progress{}, nil
	}
	return p, nil
}

func (r *repository) setProgress(user thor.Address, p *Progress) error {
	return errors.Wrap(r.progress.Set(user, p), "failed to set progress")
}

func (r *repository) getGrant(user thor.Address, kind GrantKind, id uint64) (*Grant, error) {
	g, err := r.grants.Get(grantKey(user, kind, id))
	return g, errors.Wrap(err, "failed to get grant")
}

func (r *repository) setGrant(user thor.Address, kind GrantKind, g *Grant) error {
	return errors.Wrap(r.grants.Set(grantKey(user, kind, g.ID), g), "failed to set grant")
}

func (r *repository) openGrants(user thor.Address, kind GrantKind) ([]uint64, error) {
	l, err := r.open.Get(openKey(user, kind))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get open grants")
	}
	if l == nil {
		return nil, nil
	}
	return l.IDs, nil
}

func (r *repository) setOpenGrants(user thor.Address, kind GrantKind, ids []uint64) error {
	if len(ids) == 0 {
		r.open.Delete(openKey(user, kind))
		return nil
	}
	return errors.Wrap(r.open.Set(openKey(user, kind), &grantIDs{IDs: ids}), "failed to set open grants")
}

// addOpen indexes an unsettled grant and its holder.
func (r *repository) addOpen(user thor.Address, kind GrantKind, id uint64) error {
	ids, err := r.openGrants(user, kind)
	if err != nil {
		return err
	}
	if err := r.setOpenGrants(user, kind, append(ids, id)); err != nil {
		return err
	}
	_, err = r.holders.Add(user)
	return err
}

// removeOpen drops a settled grant and releases the holder once nothing is left open.
func (r *repository) removeOpen(user thor.Address, kind GrantKind, id uint64) error {
	ids, err := r.openGrants(user, kind)
	if err != nil {
		return err
	}
	if err := r.setOpenGrants(user, kind, slices.DeleteFunc(ids, func(v uint64) bool { return v == id })); err != nil {
		return err
	}
	for _, k := range []GrantKind{QuestGrant, AchievementGrant} {
		left, err := r.openGrants(user, k)
		if err != nil {
			return err
		}
		if len(left) > 0 {
			return nil
		}
	}
	_, err = r.holders.Remove(user)
	return err
}

func (r *repository) getAutoCompound(user thor.Address) (*AutoCompoundConfig, error) {
	c, err := r.autoCompound.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auto-compound config")
	}
	if c == nil {
		return &AutoCompoundConfig{MinAmount: new(big.Int)}, nil
	}
	return c, nil
}

func (r *repository) setAutoCompound(user thor.Address, c *AutoCompoundConfig) error {
	return errors.Wrap(r.autoCompound.Set(user, c), "failed to set auto-compound config")
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
