// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/builtin/ledger"
)

// Receipt is the JSON form of the value movements of a ledger operation.
type Receipt struct {
	User       string                `json:"user"`
	Principal  *math.HexOrDecimal256 `json:"principal"`
	Reward     *math.HexOrDecimal256 `json:"reward"`
	Commission *math.HexOrDecimal256 `json:"commission"`
	Paid       *math.HexOrDecimal256 `json:"paid"`
	Deferred   bool                  `json:"deferred"`
}

// Result is the response of a submitted call.
type Result struct {
	Method string `json:"method"`
	Result any    `json:"result,omitempty"`
}

func convertResult(method string, res any) *Result {
	switch v := res.(type) {
	case *ledger.Receipt:
		res = &Receipt{
			User:       v.User.String(),
			Principal:  utils.Amount(v.Principal),
			Reward:     utils.Amount(v.Reward),
			Commission: utils.Amount(v.Commission),
			Paid:       utils.Amount(v.Paid),
			Deferred:   v.Deferred,
		}
	case *big.Int:
		res = utils.Amount(v)
	}
	return &Result{Method: method, Result: res}
}
