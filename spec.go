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

import (
	"maps"
	"slices"

	"github.com/tomoncle/crudkit/repository"
)

// DefaultIDField is the identifying column used unless a Spec overrides it.
const DefaultIDField = "id"

// Spec binds a record type R to its write DTO W and read DTO Rd.
//
// A Spec is a value; the With methods return modified copies and never change
// the receiver, so one Spec can be shared by any number of use cases.
type Spec[R, W, Rd any] struct {
	idField       string
	toRecord      func(W) *R
	changes       func(W) repository.Fields
	toRead        func(*R) Rd
	relationships map[string]Relationship[R, Rd]
}

// NewSpec returns a Spec with the given mapping functions.
//
// toRecord builds a new record from a write DTO for creation. changes returns
// the columns an update writes and must contain only the fields the DTO
// explicitly sets (see repository.SetIfPresent). toRead projects a record to
// its read DTO and is used on every read path.
func NewSpec[R, W, Rd any](toRecord func(W) *R, changes func(W) repository.Fields, toRead func(*R) Rd) Spec[R, W, Rd] {
	return Spec[R, W, Rd]{
		idField:  DefaultIDField,
		toRecord: toRecord,
		changes:  changes,
		toRead:   toRead,
	}
}

// WithIDField returns a copy of s identifying records by column name.
func (s Spec[R, W, Rd]) WithIDField(name string) Spec[R, W, Rd] {
	if name != "" {
		s.idField = name
	}
	return s
}

// WithRelationship returns a copy of s that exposes rel under name.
func (s Spec[R, W, Rd]) WithRelationship(name string, rel Relationship[R, Rd]) Spec[R, W, Rd] {
	rels := make(map[string]Relationship[R, Rd], len(s.relationships)+1)
	maps.Copy(rels, s.relationships)
	rels[name] = rel
	s.relationships = rels
	return s
}

// IDField returns the identifying column name.
func (s Spec[R, W, Rd]) IDField() string { return s.idField }

// ToRecord builds a new storage record from a write payload.
func (s Spec[R, W, Rd]) ToRecord(w W) *R { return s.toRecord(w) }

// ToRead converts a storage record into its read payload.
func (s Spec[R, W, Rd]) ToRead(r *R) Rd { return s.toRead(r) }

// Changes returns the update columns of w. The result is never nil.
func (s Spec[R, W, Rd]) Changes(w W) repository.Fields {
	fields := s.changes(w)
	if fields == nil {
		return repository.Fields{}
	}
	return fields
}

// Relationship returns the relationship registered under name.
func (s Spec[R, W, Rd]) Relationship(name string) (Relationship[R, Rd], bool) {
	rel, ok := s.relationships[name]
	return rel, ok
}

// Relationships returns the registered relationship names in sorted order.
func (s Spec[R, W, Rd]) Relationships() []string {
	return slices.Sorted(maps.Keys(s.relationships))
}

// Relationship describes a named association of R whose elements project to
// Rd. Relation is the Bun relation loaded together with the owning record.
type Relationship[R, Rd any] struct {
	relation string
	related  func(*R) []Rd
}

// Relation returns the bun relation name loaded for the relationship.
func (r Relationship[R, Rd]) Relation() string { return r.relation }

// HasMany describes a to-many association read through get.
func HasMany[R, E, Rd any](relation string, get func(*R) []*E, toRead func(*E) Rd) Relationship[R, Rd] {
	return Relationship[R, Rd]{
		relation: relation,
		related: func(owner *R) []Rd {
			items := get(owner)
			out := make([]Rd, 0, len(items))
			for _, item := range items {
				if item != nil {
					out = append(out, toRead(item))
				}
			}
			return out
		},
	}
}

// HasOne describes a to-one association read through get. A nil target
// yields an empty list.
func HasOne[R, E, Rd any](relation string, get func(*R) *E, toRead func(*E) Rd) Relationship[R, Rd] {
	return Relationship[R, Rd]{
		relation: relation,
		related: func(owner *R) []Rd {
			item := get(owner)
			if item == nil {
				return []Rd{}
			}
			return []Rd{toRead(item)}
		},
	}
}
