// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/thor"
)

var (
	slotAccounts   = thor.BytesToBytes32([]byte("accounts"))
	slotPool       = thor.BytesToBytes32([]byte("pool"))
	slotSettings   = thor.BytesToBytes32([]byte("settings"))
	slotWindows    = thor.BytesToBytes32([]byte("withdraw-windows"))
	slotDepositors = thor.BytesToBytes32([]byte("depositors"))
)

// repository hides the storage layout of the ledger.
type repository struct {
	accounts   *solidity.Mapping[thor.Address, *Account]
	windows    *solidity.Mapping[thor.Address, *WithdrawWindow]
	pool       *solidity.Record[*Pool]
	settings   *solidity.Record[*Settings]
	depositors *solidity.Set
}

func newRepository(sctx *solidity.Context) *repository {
	return &repository{
		accounts:   solidity.NewMapping[thor.Address, *Account](sctx, slotAccounts),
		windows:    solidity.NewMapping[thor.Address, *WithdrawWindow](sctx, slotWindows),
		pool:       solidity.NewRecord[*Pool](sctx, slotPool),
		settings:   solidity.NewRecord[*Settings](sctx, slotSettings),
		depositors: solidity.NewSet(sctx, slotDepositors),
	}
}

func (r *repository) getAccount(user thor.Address) (*Account, error) {
	acc, err := r.accounts.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	if acc == nil {
		return newAccount(), nil
	}
	return acc, nil
}

func (r *repository) setAccount(user thor.Address, acc *Account) error {
	if acc.IsEmpty() && acc.DepositCount == 0 && acc.LastWithdrawAt == 0 {
		r.accounts.Delete(user)
		return nil
	}
	return errors.Wrap(r.accounts.Set(user, acc), "failed to set account")
}

func (r *repository) getPool() (*Pool, error) {
	p, err := r.pool.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if p == nil {
		return nil, errors.New("ledger is not initialized")
	}
	return p, nil
}

func (r *repository) setPool(p *Pool) error {
	return errors.Wrap(r.pool.Set(p), "failed to set pool")
}

func (r *repository) initialized() (bool, error) {
	p, err := r.pool.Get()
	return p != nil, err
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

// getWindow returns the window of index, starting a fresh one when the stored window is older.
func (r *repository) getWindow(user thor.Address, index uint64) (*WithdrawWindow, error) {
	w, err := r.windows.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get withdraw window")
	}
	if w == nil || index > w.Index {
		return &WithdrawWindow{Index: index, Withdrawn: new(big.Int)}, nil
	}
	return w, nil
}

func (r *repository) setWindow(user thor.Address, w *WithdrawWindow) error {
	return errors.Wrap(r.windows.Set(user, w), "failed to set withdraw window")
}
