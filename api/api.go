// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/skillstake/api/accounts"
	"github.com/vechain/skillstake/api/events"
	"github.com/vechain/skillstake/api/middleware"
	"github.com/vechain/skillstake/api/pool"
	"github.com/vechain/skillstake/api/subscriptions"
	"github.com/vechain/skillstake/api/transactions"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/metrics"
	"github.com/vechain/skillstake/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins        string
	PprofOn               bool
	EnableReqLogger       *atomic.Bool
	SlowQueriesThreshold  time.Duration
	Log5xxErrors          bool
	EnableMetrics         bool
	EventsLimit           uint64
	SubscriptionCacheSize int
	// SoloMode exposes the call endpoint that executes state changing methods.
	SoloMode bool
}

// New return api router
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt).
		Mount(router, "/accounts")
	pool.New(rt).
		Mount(router, "/pool")
	if db := rt.EventDB(); db != nil {
		events.New(db, opts.EventsLimit).
			Mount(router, "/events")
	}
	if opts.SoloMode {
		transactions.New(rt).
			Mount(router, "/transactions")
	}
	subs := subscriptions.New(rt, origins, opts.SubscriptionCacheSize)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}

// MetricsHandler serves the prometheus registry, or nil when metrics are disabled.
func MetricsHandler() http.Handler {
	if metrics.NoOp() {
		return nil
	}
	return metrics.HTTPHandler()
}
