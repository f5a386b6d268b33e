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

package repository

import (
	"context"

	"github.com/tomoncle/crudkit/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// WriteRepository adds, updates, and deletes records.
//
// Update methods return a nil record and a nil error when no record matches.
type WriteRepository[T any] interface {
	// AddValue inserts one record and returns it refreshed from storage.
	AddValue(ctx context.Context, entity *T) (*T, error)

	// AddValues inserts all records in one statement and returns every record
	// of the type. The returned order is not the insertion order.
	AddValues(ctx context.Context, entities ...*T) ([]*T, error)

	// UpdateValues overwrites the given columns of the record with the id.
	UpdateValues(ctx context.Context, id any, fields Fields) (*T, error)

	// UpdateValue sets one column on the first record matching match.
	UpdateValue(ctx context.Context, column string, value any, match Match) (*T, error)

	// DeleteValue deletes every record matching match and reports whether at
	// least one row was deleted.
	DeleteValue(ctx context.Context, match Match) (bool, error)

	// DeleteAllValues deletes every record of the type.
	DeleteAllValues(ctx context.Context) error
}

// ReadRepository looks records up by equality filters.
//
// ReadValue returns a nil record and a nil error when nothing matches.
type ReadRepository[T any] interface {
	ReadValue(ctx context.Context, match Match, relations ...string) (*T, error)

	ReadValues(ctx context.Context, match Match) ([]*T, error)

	ReadAllValues(ctx context.Context) ([]*T, error)
}

// PageQueryRepository defines pagination functionality for listing records.
type PageQueryRepository[T any] interface {
	ReadAllValuesWithPagination(ctx context.Context, pageSize, pageNumber int) ([]*T, error)

	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines the read, write, and pagination primitives and exposes
// Bun query builders for advanced use cases.
type Repository[T any] interface {
	ReadRepository[T]
	WriteRepository[T]
	PageQueryRepository[T]
	IDColumn() string
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}

// Option configures a repository.
type Option func(*options)

type options struct {
	idColumn string
}

// WithIDColumn sets the identifying column used by UpdateValues and for
// stable pagination order. The default is "id".
func WithIDColumn(column string) Option {
	return func(o *options) {
		if column != "" {
			o.idColumn = column
		}
	}
}
