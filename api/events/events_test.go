// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

var (
	admin = thor.BytesToAddress([]byte("admin"))
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func newServer(t *testing.T, limit uint64) *httptest.Server {
	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(edb.Close)

	now := 10 * thor.Day
	rt, err := runtime.New(lvldb.NewMem(), edb, params.Default(), runtime.Options{
		Admin:    admin,
		Treasury: admin,
		Clock:    func() uint64 { now += 60; return now },
	})
	require.NoError(t, err)
	for _, u := range []thor.Address{alice, bob} {
		require.NoError(t, rt.Mint(u, thor.Tokens(1000)))
		_, err = rt.Deposit(u, 0, thor.Tokens(100))
		require.NoError(t, err)
	}

	router := mux.NewRouter()
	New(edb, limit).Mount(router, "/events")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return out, res.StatusCode
}

func TestFilter(t *testing.T) {
	ts := newServer(t, 100)

	body, status := post(t, ts.URL+"/events", &eventdb.Filter{Names: []string{"Deposited"}, Order: eventdb.DESC})
	require.Equal(t, http.StatusOK, status, string(body))
	var fes []*FilteredEvent
	require.NoError(t, json.Unmarshal(body, &fes))
	require.Len(t, fes, 2)
	assert.Equal(t, bob, fes[0].User)
	assert.Equal(t, alice, fes[1].User)
	assert.Greater(t, fes[0].Seq, fes[1].Seq)
	assert.Equal(t, "0", fes[0].Fields["lockup"])
	assert.Equal(t, thor.Keccak256([]byte("Deposited")), fes[0].Topic)

	body, status = post(t, ts.URL+"/events", &eventdb.Filter{User: &alice, Options: &eventdb.Options{Limit: 1}})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &fes))
	require.Len(t, fes, 1)
	assert.Equal(t, alice, fes[0].User)
}

func TestFilterLimits(t *testing.T) {
	ts := newServer(t, 3)

	_, status := post(t, ts.URL+"/events", &eventdb.Filter{Options: &eventdb.Options{Limit: 4}})
	assert.Equal(t, http.StatusForbidden, status)

	// more matches than the limit without paging
	_, status = post(t, ts.URL+"/events", &eventdb.Filter{})
	assert.Equal(t, http.StatusForbidden, status)

	_, status = post(t, ts.URL+"/events", map[string]any{"order": "sideways"})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = post(t, ts.URL+"/events", map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, status)
}
