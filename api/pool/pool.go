// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/builtin/rewards"
	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

// maxProjectionDays bounds the projection horizon.
const maxProjectionDays = 3650

type Pool struct {
	rt     *runtime.Runtime
	health singleflight.Group
}

func New(rt *runtime.Runtime) *Pool {
	return &Pool{rt: rt}
}

// snapshot reads the pool state and its health. Concurrent requests share one computation,
// since the health walks every depositor.
func (p *Pool) snapshot() (*Summary, error) {
	v, err, _ := p.health.Do("pool", func() (any, error) {
		var result *Summary
		err := p.rt.View(func(v *runtime.View) error {
			state, err := v.Ledger().Pool()
			if err != nil {
				return err
			}
			h, err := v.Ledger().Health(v.Now())
			if err != nil {
				return err
			}
			result = convertSummary(state, h)
			return nil
		})
		return result, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*Summary), nil
}

func (p *Pool) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	result, err := p.snapshot()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (p *Pool) handleGetProjections(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	amountStr := query.Get("amount")
	if amountStr == "" {
		return utils.BadRequest(errors.New("amount: required"))
	}
	amount, err := utils.ParseAmount(amountStr, "amount")
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return utils.BadRequest(errors.New("amount: must be positive"))
	}
	days, err := utils.ParseUint(query.Get("days"), 30, "days")
	if err != nil {
		return err
	}
	if days == 0 || days > maxProjectionDays {
		return utils.BadRequest(errors.Errorf("days: must be within 1 and %d", maxProjectionDays))
	}

	var projections []*rewards.Projection
	err = p.rt.View(func(v *runtime.View) error {
		duration := days * thor.Day
		if lockup := query.Get("lockup"); lockup != "" {
			l, err := utils.ParseUint(lockup, 0, "lockup")
			if err != nil {
				return err
			}
			pr, err := v.Engine().Project(amount, l, duration)
			if err != nil {
				return err
			}
			projections = []*rewards.Projection{pr}
			return nil
		}
		projections, err = v.Engine().ProjectAll(amount, duration)
		return err
	})
	if err != nil {
		return err
	}

	result := make([]*Projection, 0, len(projections))
	for _, pr := range projections {
		result = append(result, convertProjection(pr))
	}
	return utils.WriteJSON(w, result)
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/projections").
		Methods(http.MethodGet).
		Name("GET /pool/projections").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetProjections))
}
