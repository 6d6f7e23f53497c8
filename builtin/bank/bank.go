// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bank keeps native balances. It is the value transfer collaborator of the other modules.
package bank

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/thor"
)

var (
	logger = log.WithContext("pkg", "bank")

	slotBalances = thor.BytesToBytes32([]byte("balances"))
	slotSupply   = thor.BytesToBytes32([]byte("total-supply"))
)

// Receiver is notified when value arrives at its address.
// Returning an error rejects the transfer.
type Receiver interface {
	OnReceive(from thor.Address, amount *big.Int) error
}

// ReceiverFunc adapts a function to Receiver.
type ReceiverFunc func(from thor.Address, amount *big.Int) error

func (f ReceiverFunc) OnReceive(from thor.Address, amount *big.Int) error { return f(from, amount) }

type Bank struct {
	sctx      *solidity.Context
	balances  *solidity.Mapping[thor.Address, *big.Int]
	supply    *solidity.Uint256
	receivers map[thor.Address]Receiver
}

func New(sctx *solidity.Context) *Bank {
	return &Bank{
		sctx:      sctx,
		balances:  solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		supply:    solidity.NewUint256(sctx, slotSupply),
		receivers: make(map[thor.Address]Receiver),
	}
}

// SetReceiver installs the hook of addr. A nil receiver removes it.
// Hooks live in memory only.
func (b *Bank) SetReceiver(addr thor.Address, r Receiver) {
	if r == nil {
		delete(b.receivers, addr)
		return
	}
	b.receivers[addr] = r
}

func (b *Bank) BalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := b.balances.Get(addr)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

func (b *Bank) TotalSupply() (*big.Int, error) {
	return b.supply.Get()
}

func (b *Bank) setBalance(addr thor.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		b.balances.Delete(addr)
		return nil
	}
	return b.balances.Set(addr, bal)
}

// Mint creates value out of thin air. Used for funding accounts in dev and test setups.
func (b *Bank) Mint(to thor.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return reverts.New(reverts.InvalidAmount, "mint amount must be positive")
	}
	bal, err := b.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := b.setBalance(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := b.supply.Add(amount); err != nil {
		return err
	}
	b.sctx.Emit("Minted", to, amount, nil)
	return nil
}

// Transfer moves amount from one address to another and notifies the receiver hook, if any.
// It is all-or-nothing: when the hook rejects, the balances are restored.
func (b *Bank) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "negative transfer")
	}
	if amount.Sign() == 0 {
		return nil
	}
	st := b.sctx.State()
	checkpoint := st.NewCheckpoint()

	if err := b.move(from, to, amount); err != nil {
		st.RevertTo(checkpoint)
		return err
	}
	if r, ok := b.receivers[to]; ok {
		if err := r.OnReceive(from, amount); err != nil {
			st.RevertTo(checkpoint)
			logger.Debug("transfer rejected by receiver", "from", from, "to", to, "amount", amount, "err", err)
			return errors.WithMessage(err, "receiver rejected transfer")
		}
	}
	return nil
}

func (b *Bank) move(from, to thor.Address, amount *big.Int) error {
	fromBal, err := b.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "balance of %v is %v, need %v", from, fromBal, amount)
	}
	if err := b.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := b.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := b.setBalance(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	b.sctx.Emit("Transfer", from, amount, map[string]string{"to": to.String()})
	return nil
}
