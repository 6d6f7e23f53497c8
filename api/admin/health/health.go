// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

// Status reports whether the system accepts user operations and can pay what it owes.
type Status struct {
	Healthy  bool   `json:"healthy"`
	Paused   bool   `json:"paused"`
	Migrated bool   `json:"migrated"`
	RatioBP  uint64 `json:"ratioBP"`
	LastSeq  uint64 `json:"lastSeq"`
}

type API struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *API {
	return &API{rt: rt}
}

func (h *API) status(req *http.Request) (*Status, error) {
	var s Status
	err := h.rt.View(func(v *runtime.View) error {
		pool, err := v.Ledger().Pool()
		if err != nil {
			return err
		}
		health, err := v.Ledger().Health(v.Now())
		if err != nil {
			return err
		}
		s.Paused = pool.Paused
		s.Migrated = pool.Migrated
		s.RatioBP = health.RatioBP
		return nil
	})
	if err != nil {
		return nil, err
	}
	if db := h.rt.EventDB(); db != nil {
		if s.LastSeq, err = db.LastSeq(req.Context()); err != nil {
			return nil, err
		}
	}
	s.Healthy = !s.Paused && !s.Migrated && s.RatioBP >= thor.BasisPoints
	return &s, nil
}

func (h *API) handleGetHealth(w http.ResponseWriter, req *http.Request) error {
	s, err := h.status(req)
	if err != nil {
		return err
	}
	if !s.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, s)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
