// Copyright (c) 2018 The VeChainThor developers

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

	"github.com/vechain/thor-oracle/api/epochs"
	"github.com/vechain/thor-oracle/api/middleware"
	"github.com/vechain/thor-oracle/api/results"
	"github.com/vechain/thor-oracle/api/stakers"
	"github.com/vechain/thor-oracle/log"
	"github.com/vechain/thor-oracle/oracle"
	"github.com/vechain/thor-oracle/resultdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	ResultsLimit         uint64
}

// New return api router. The results routes are mounted only when db is not nil.
func New(o *oracle.Oracle, db *resultdb.ResultDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, origin := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(origin))
	}

	router := mux.NewRouter()

	stakers.New(o).
		Mount(router, "/stakers", "/tokens")
	epochs.New(o).
		Mount(router, "/epochs", "/clock")
	if db != nil {
		results.New(db, opts.ResultsLimit).
			Mount(router, "/results")
	}

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

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)

	return handler.ServeHTTP
}
