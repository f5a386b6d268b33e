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

package crudkit

// WriteEntityRequest carries the write DTO of a create or update.
type WriteEntityRequest[W any] struct {
	Entity W `json:"entity"`
}

// WriteEntityResponse carries the stored record projected to its read DTO.
type WriteEntityResponse[Rd any] struct {
	Entity Rd `json:"entity"`
}

type ReadEntityRequest struct {
	EntityID int64 `json:"entity_id"`
}

// ReadEntityResponse holds a nil Entity when no record has the requested id.
type ReadEntityResponse[Rd any] struct {
	Entity *Rd `json:"entity"`
}

type ReadEntityRelationshipRequest struct {
	EntityID     int64  `json:"entity_id"`
	Relationship string `json:"relationship"`
}

type ReadEntityRelationshipResponse[Rd any] struct {
	RelatedEntities []Rd `json:"related_entities"`
}

type ReadAllEntitiesResponse[Rd any] struct {
	Entities []Rd `json:"entities"`
}

// ReadEntitiesPageRequest selects one page of records ordered by id. Page is
// one-based; values below 1 select the first page.
type ReadEntitiesPageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type ReadEntitiesPageResponse[Rd any] struct {
	Entities []Rd `json:"entities"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
}

type DeleteEntityRequest struct {
	EntityID int64 `json:"entity_id"`
}

// DeleteEntityResponse carries a confirmation message. It reads the same
// whether or not a record was deleted.
type DeleteEntityResponse struct {
	Message string `json:"message"`
}
