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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tomoncle/crudkit"
	"github.com/tomoncle/crudkit/database"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a use case error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, crudkit.ErrInvalidEntity):
		return http.StatusBadRequest
	case errors.Is(err, crudkit.ErrEntityNotFound):
		return http.StatusNotFound
	}
	if kind, ok := database.ClassifySQLError(err); ok {
		switch {
		case kind == database.DuplicateKeyErr:
			return http.StatusConflict
		case kind.IsConstraintViolation():
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// writeError writes err with its mapped status. Server errors are logged and
// their text is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("req_uri", r.RequestURI).Error("unhandled error")
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}
