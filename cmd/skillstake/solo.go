// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

// devKeys are the well known keys of the solo dev accounts.
var devKeys = []string{
	"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
	"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
	"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
	"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
	"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
}

func devAccounts() []thor.Address {
	accs := make([]thor.Address, 0, len(devKeys))
	for _, str := range devKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, thor.Address(crypto.PubkeyToAddress(pk.PublicKey)))
	}
	return accs
}

// soloDefaults fills the identities left unset with dev accounts: the owner, the treasury and the marketplace
// take the first three.
func soloDefaults(opts *runtime.Options, devs []thor.Address) {
	if opts.Admin.IsZero() {
		opts.Admin = devs[0]
	}
	if opts.Treasury.IsZero() {
		opts.Treasury = devs[1]
	}
	if opts.Marketplace.IsZero() {
		opts.Marketplace = devs[2]
	}
}
