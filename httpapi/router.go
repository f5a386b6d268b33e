/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package httpapi exposes use cases as JSON REST resources on a chi router.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/utils"
)

var log = utils.NewLogger("HTTP")

// Options configures NewRouter.
type Options struct {
	// Health reports the status served by GET /health. It defaults to the
	// global database health.
	Health func(ctx context.Context) *database.HealthStatus
	// Stats reports the pool statistics served with the health status. It
	// defaults to the global database statistics.
	Stats func() *database.DBStats
}

type healthResponse struct {
	*database.HealthStatus
	Stats *database.DBStats `json:"stats"`
}

// NewRouter returns a router with request ids, access logging, panic
// recovery, permissive CORS, and a health endpoint. Resources are added with
// Mount.
func NewRouter(opts Options) chi.Router {
	health := opts.Health
	if health == nil {
		health = database.GetHealthStatus
	}
	stats := opts.Stats
	if stats == nil {
		stats = database.GetDatabaseStats
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		// every origin is echoed back; a wildcard is rejected with credentials
		AllowOriginFunc: func(*http.Request, string) bool { return true },
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := health(r.Context())
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, healthResponse{HealthStatus: status, Stats: stats()})
	})
	return r
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		entry := log.WithFields(logrus.Fields{
			"req_method":   r.Method,
			"req_uri":      r.RequestURI,
			"client_ip":    r.RemoteAddr,
			"status_code":  status,
			"latency_time": time.Since(start).String(),
			"request_id":   middleware.GetReqID(r.Context()),
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Info("request")
	})
}
