// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/skillstake/api/accounts"
	"github.com/vechain/skillstake/api/subscriptions"
	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/metrics"
	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newTestRuntime(t *testing.T, edb *eventdb.EventDB) *runtime.Runtime {
	admin := thor.BytesToAddress([]byte("admin"))
	rt, err := runtime.New(lvldb.NewMem(), edb, params.Default(), runtime.Options{
		Admin:    admin,
		Treasury: admin,
	})
	require.NoError(t, err)
	return rt
}

func TestMetricsMiddleware(t *testing.T) {
	rt := newTestRuntime(t, nil)

	router := mux.NewRouter()
	accounts.New(rt).Mount(router, "/accounts")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	httpGet(t, ts.URL+"/accounts/0x")
	httpGet(t, ts.URL+"/accounts/"+thor.Address{}.String())
	httpGet(t, ts.URL+"/accounts/"+thor.Address{}.String())

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["skillstake_api_request_count"].GetMetric()
	require.Equal(t, 2, len(m), "should be 2 metric entries")
	assert.Equal(t, float64(2), m[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), m[1].GetCounter().GetValue())

	labels := m[0].GetLabel()
	assert.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "200", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "name", labels[2].GetName())
	assert.Equal(t, "GET /accounts/{address}", labels[2].GetValue())

	labels = m[1].GetLabel()
	assert.Equal(t, "400", labels[0].GetValue())
	assert.Equal(t, "GET /accounts/{address}", labels[2].GetValue())

	// unnamed routes are not recorded
	_, ok := families["skillstake_api_duration_ms"]
	assert.True(t, ok)
	for _, metric := range families["skillstake_api_duration_ms"].GetMetric() {
		assert.NotContains(t, metric.GetLabel()[2].GetValue(), "metrics")
	}
}

func TestWebsocketMetrics(t *testing.T) {
	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	defer edb.Close()
	rt := newTestRuntime(t, edb)

	router := mux.NewRouter()
	sub := subscriptions.New(rt, []string{"*"}, 10)
	sub.Mount(router, "/subscriptions")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()
	defer sub.Close()

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events"}
	conn1, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn1.Close()

	parser := expfmt.TextParser{}
	body, _ := httpGet(t, ts.URL+"/metrics")
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["skillstake_api_active_websocket_gauge"].GetMetric()
	require.Equal(t, 1, len(m), "should be 1 metric entries")
	assert.Equal(t, float64(1), m[0].GetGauge().GetValue())
	labels := m[0].GetLabel()
	assert.Equal(t, "name", labels[0].GetName())
	assert.Equal(t, "WS /subscriptions/events", labels[0].GetValue())

	conn2, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn2.Close()

	body, _ = httpGet(t, ts.URL+"/metrics")
	families, err = parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m = families["skillstake_api_active_websocket_gauge"].GetMetric()
	require.Equal(t, 1, len(m))
	assert.Equal(t, float64(2), m[0].GetGauge().GetValue())
}

func TestNewRoutes(t *testing.T) {
	rt := newTestRuntime(t, nil)

	handler, closeFn := New(rt, Options{AllowedOrigins: "*", SubscriptionCacheSize: 10})
	defer closeFn()
	ts := httptest.NewServer(handler)
	defer ts.Close()

	_, code := httpGet(t, ts.URL+"/pool")
	assert.Equal(t, http.StatusOK, code)

	// no event store and not solo
	_, code = httpGet(t, ts.URL+"/events")
	assert.Equal(t, http.StatusNotFound, code)
	res, err := http.Post(ts.URL+"/transactions", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	soloHandler, soloClose := New(rt, Options{SoloMode: true, SubscriptionCacheSize: 10})
	defer soloClose()
	solo := httptest.NewServer(soloHandler)
	defer solo.Close()

	res, err = http.Post(solo.URL+"/transactions", "application/json", strings.NewReader(`{"method":"unknown"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}
