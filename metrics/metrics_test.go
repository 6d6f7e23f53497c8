// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("deposits").Add(1)
	CounterVec("calls", []string{"op"}).AddWithLabel(1, map[string]string{"nonsense": "ok"})
	GaugeVec("pool", []string{"field"}).SetWithLabel(1, map[string]string{"nonsense": "ok"})
	Histogram("latency", nil).Observe(10)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPromMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	InitializePrometheusMetrics()

	deposits := Counter("test_deposits")
	calls := CounterVec("test_calls", []string{"op"})
	balance := Gauge("test_pool_balance")
	pool := GaugeVec("test_pool", []string{"field"})
	latency := Histogram("test_latency", BucketCallMicros)

	deposits.Add(1)
	n := rand.N(50) + 2
	total := 0
	for i := range n {
		calls.AddWithLabel(int64(i), map[string]string{"op": strconv.Itoa(i % 2)})
		latency.Observe(int64(i))
		total += i
	}
	balance.Set(42)
	balance.Add(-2)
	pool.SetWithLabel(7, map[string]string{"field": "users"})
	pool.AddWithLabel(3, map[string]string{"field": "users"})

	// same name returns the same meter
	require.Same(t, deposits, Counter("test_deposits"))

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Equal(t, float64(1), byName["skillstake_test_deposits"].Metric[0].GetCounter().GetValue())
	sum := byName["skillstake_test_calls"].Metric[0].GetCounter().GetValue() +
		byName["skillstake_test_calls"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(total), sum)
	require.Equal(t, float64(40), byName["skillstake_test_pool_balance"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(10), byName["skillstake_test_pool"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(total), byName["skillstake_test_latency"].Metric[0].GetHistogram().GetSampleSum())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
