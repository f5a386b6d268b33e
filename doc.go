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

// Package crudkit implements generic create, read, update and delete use
// cases over relational records.
//
// A Spec binds a storage record type R to a write DTO W and a read DTO Rd and
// states the mapping functions between them. A UseCase pairs a Spec with a
// repository.Repository and exposes the operations behind request/response
// envelopes:
//
//	spec := crudkit.NewSpec(toCategory, categoryChanges, toCategoryRead)
//	uc := crudkit.NewUseCaseWithDB(db, spec)
//	resp, err := uc.WriteEntity(ctx, crudkit.WriteEntityRequest[CategoryWrite]{Entity: w}, nil)
//
// Single-record reads report absence with a nil entity. Updating a record that
// does not exist returns ErrEntityNotFound.
package crudkit
