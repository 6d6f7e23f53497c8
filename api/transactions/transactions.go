// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/runtime"
)

var logger = log.WithContext("pkg", "transactions")

// Transactions submits calls on behalf of any caller. Only dev deployments mount it.
type Transactions struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Transactions {
	return &Transactions{rt}
}

func (t *Transactions) handleSendCall(w http.ResponseWriter, req *http.Request) error {
	var call runtime.Call
	if err := utils.ParseJSON(req.Body, &call); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	rc, err := runtime.ResolveCall(&call)
	if err != nil {
		return utils.BadRequest(err)
	}
	metricCallMethod().AddWithLabel(1, map[string]string{"method": rc.Method()})

	res, err := t.rt.Execute(rc)
	if err != nil {
		return err
	}
	logger.Debug("call executed", "caller", call.Caller, "method", rc.Method())
	return utils.WriteJSON(w, convertResult(rc.Method(), res))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendCall))
}
