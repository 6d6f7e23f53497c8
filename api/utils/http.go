// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/thor"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusNotFound,
	}
}

// RevertResponse is the body of a reverted call.
type RevertResponse struct {
	Kind      string                `json:"kind"`
	Message   string                `json:"message"`
	Remaining *math.HexOrDecimal256 `json:"remaining,omitempty"`
}

// StatusOfRevert returns the http status a revert kind is reported with.
func StatusOfRevert(kind reverts.Kind) int {
	switch kind {
	case reverts.Unauthorized:
		return http.StatusForbidden
	case reverts.GrantNotFound:
		return http.StatusNotFound
	case reverts.ModuleUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// a revert is responded as a RevertResponse, otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if errors.As(err, &he) {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		var re *reverts.ErrRevert
		if errors.As(err, &re) {
			resp := RevertResponse{Kind: re.Kind().String(), Message: re.Error()}
			if remaining, ok := reverts.Remaining(re); ok {
				resp.Remaining = (*math.HexOrDecimal256)(remaining)
			}
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(StatusOfRevert(re.Kind()))
			_ = json.NewEncoder(w).Encode(&resp)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// ParseAddress parses a hex address taken from a request.
func ParseAddress(s string) (thor.Address, error) {
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

// ParseUint parses an optional uint64 query value, def is returned when it is empty.
func ParseUint(s string, def uint64, name string) (uint64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// ParseAmount parses a hex or decimal wei amount.
func ParseAmount(s string, name string) (*big.Int, error) {
	var v math.HexOrDecimal256
	if err := v.UnmarshalText([]byte(s)); err != nil {
		return nil, BadRequest(errors.WithMessage(err, name))
	}
	return (*big.Int)(&v), nil
}

// Amount converts a wei amount for JSON output. Nil stays nil.
func Amount(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

// M shortcut for type map[string]any.
type M map[string]any
