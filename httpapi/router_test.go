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

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/crudkit/database"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		healthy bool
		status  int
	}{
		{name: "healthy", healthy: true, status: http.StatusOK},
		{name: "unhealthy", healthy: false, status: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(Options{
				Health: func(context.Context) *database.HealthStatus {
					return &database.HealthStatus{Healthy: tt.healthy}
				},
				Stats: func() *database.DBStats { return &database.DBStats{MaxOpenConns: 4, InUse: 1} },
			})
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body struct {
				Healthy bool              `json:"healthy"`
				Stats   *database.DBStats `json:"stats"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.healthy, body.Healthy)
			require.NotNil(t, body.Stats)
			assert.Equal(t, 4, body.Stats.MaxOpenConns)
			assert.Equal(t, 1, body.Stats.InUse)
		})
	}
}

func TestCORS(t *testing.T) {
	r := NewRouter(Options{Health: func(context.Context) *database.HealthStatus {
		return &database.HealthStatus{Healthy: true}
	}})

	preflight := httptest.NewRequest(http.MethodOptions, "/health", nil)
	preflight.Header.Set("Origin", "https://ui.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPut)
	preflight.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Trace")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://ui.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "Content-Type, X-Trace", rec.Header().Get("Access-Control-Allow-Headers"))

	get := httptest.NewRequest(http.MethodGet, "/health", nil)
	get.Header.Set("Origin", "https://ui.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://ui.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthDefaultsToGlobalDatabase(t *testing.T) {
	require.NoError(t, database.CloseDB())
	r := NewRouter(Options{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stats":{"max_open_conns":0`)
	assert.Contains(t, rec.Body.String(), "Database not initialized")
}

func TestRecoversPanics(t *testing.T) {
	r := NewRouter(Options{})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
