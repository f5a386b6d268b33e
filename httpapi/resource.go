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
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tomoncle/crudkit"
)

// Mount registers the CRUD routes of uc under prefix:
//
//	POST   /            create
//	GET    /            list, one page when ?page= is given
//	GET    /{id}        read, {"entity": null} when absent
//	PUT    /{id}        partial update
//	DELETE /{id}        delete
//	GET    /{id}/{rel}  related entities
func Mount[R, W, Rd any](r chi.Router, prefix string, uc *crudkit.UseCase[R, W, Rd]) {
	h := &resource[R, W, Rd]{uc: uc}
	r.Route(prefix, func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.read)
			r.Put("/", h.update)
			r.Delete("/", h.delete)
			r.Get("/{relationship}", h.relationship)
		})
	})
}

type resource[R, W, Rd any] struct {
	uc *crudkit.UseCase[R, W, Rd]
}

func (h *resource[R, W, Rd]) create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeWrite[W](r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.uc.WriteEntity(r.Context(), req, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *resource[R, W, Rd]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decodeWrite[W](r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.uc.WriteEntity(r.Context(), req, &id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *resource[R, W, Rd]) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("page") {
		resp, err := h.uc.ReadAllEntities(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	page, err := queryInt(q.Get("page"), "page")
	if err != nil {
		writeError(w, r, err)
		return
	}
	size, err := queryInt(q.Get("page_size"), "page_size")
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.uc.ReadEntitiesPage(r.Context(), crudkit.ReadEntitiesPageRequest{Page: page, PageSize: size})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *resource[R, W, Rd]) read(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.uc.ReadEntity(r.Context(), crudkit.ReadEntityRequest{EntityID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *resource[R, W, Rd]) relationship(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.uc.ReadEntityRelationship(r.Context(), crudkit.ReadEntityRelationshipRequest{
		EntityID:     id,
		Relationship: chi.URLParam(r, "relationship"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *resource[R, W, Rd]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.uc.DeleteEntity(r.Context(), crudkit.DeleteEntityRequest{EntityID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeWrite[W any](r *http.Request) (crudkit.WriteEntityRequest[W], error) {
	var req crudkit.WriteEntityRequest[W]
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return req, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter; empty is zero.
func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}
	return n, nil
}
