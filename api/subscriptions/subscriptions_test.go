// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/api/events"
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

func newRuntime(t *testing.T) *runtime.Runtime {
	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(edb.Close)

	rt, err := runtime.New(lvldb.NewMem(), edb, params.Default(), runtime.Options{
		Admin:    admin,
		Treasury: admin,
		Clock:    func() uint64 { return 10 * thor.Day },
	})
	require.NoError(t, err)
	return rt
}

func TestMessageCache(t *testing.T) {
	mc := newMessageCache(2)
	created := 0
	create := func() ([]byte, error) {
		created++
		return []byte("msg"), nil
	}

	msg, isNew, err := mc.GetOrAdd(1, create)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, []byte("msg"), msg)

	_, isNew, _ = mc.GetOrAdd(1, create)
	assert.False(t, isNew)
	assert.Equal(t, 1, created)

	mc.GetOrAdd(2, create)
	mc.GetOrAdd(3, create)
	_, isNew, _ = mc.GetOrAdd(1, create)
	assert.True(t, isNew, "evicted")
}

func TestEventReader(t *testing.T) {
	rt := newRuntime(t)
	require.NoError(t, rt.Mint(alice, thor.Tokens(10)))
	require.NoError(t, rt.Mint(bob, thor.Tokens(10)))

	r := newEventReader(rt.EventDB(), newMessageCache(10), 0, &bob, []string{"Minted"})
	msgs, more, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, msgs, 1)

	var fe events.FilteredEvent
	require.NoError(t, json.Unmarshal(msgs[0], &fe))
	assert.Equal(t, bob, fe.User)
	assert.Equal(t, "Minted", fe.Name)

	// nothing new
	msgs, _, err = r.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSubscribeEvents(t *testing.T) {
	rt := newRuntime(t)
	require.NoError(t, rt.Mint(alice, thor.Tokens(10)))

	subs := New(rt, []string{"*"}, 100)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events?user=" + alice.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// starts from the tip, the mint above is not replayed
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = rt.Mint(bob, thor.Tokens(1))
		_ = rt.Mint(alice, thor.Tokens(2))
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var fe events.FilteredEvent
	require.NoError(t, json.Unmarshal(msg, &fe))
	assert.Equal(t, alice, fe.User)
	assert.Equal(t, "Minted", fe.Name)
	assert.Equal(t, thor.Tokens(2).String(), (*big.Int)(fe.Amount).String())

	subs.Close()
}

func TestSubscribeBadRequest(t *testing.T) {
	rt := newRuntime(t)
	subs := New(rt, nil, 10)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events?user=bad"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 400, res.StatusCode)
}
