// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

// Context binds a native module to its storage.
type Context struct {
	address thor.Address
	state   *state.State
}

func NewContext(address thor.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Emit records an event on behalf of the module.
func (c *Context) Emit(name string, user thor.Address, amount *big.Int, fields map[string]string) {
	var amt *big.Int
	if amount != nil {
		amt = new(big.Int).Set(amount)
	}
	c.state.Emit(state.Event{
		Address: c.address,
		Name:    name,
		User:    user,
		Amount:  amt,
		Fields:  fields,
	})
}
