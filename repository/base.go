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
	"database/sql"
	"errors"

	"github.com/tomoncle/crudkit/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db       *bun.DB
	idColumn string
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB, opts ...Option) Repository[T] {
	o := options{idColumn: "id"}
	for _, opt := range opts {
		opt(&o)
	}
	return &baseRepositoryImpl[T]{db: db, idColumn: o.idColumn}
}

func (r *baseRepositoryImpl[T]) IDColumn() string { return r.idColumn }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) AddValue(ctx context.Context, entity *T) (*T, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(entity).Exec(ctx); err != nil {
			return err
		}
		// pick up storage-assigned defaults
		return tx.NewSelect().Model(entity).WherePK().Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) AddValues(ctx context.Context, entities ...*T) ([]*T, error) {
	if len(entities) > 0 {
		rows := make([]*T, len(entities))
		copy(rows, entities)
		if _, err := r.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return nil, err
		}
	}
	return r.ReadAllValues(ctx)
}

func (r *baseRepositoryImpl[T]) UpdateValues(ctx context.Context, id any, fields Fields) (*T, error) {
	return r.updateFirst(ctx, Match{r.idColumn: id}, fields)
}

func (r *baseRepositoryImpl[T]) UpdateValue(ctx context.Context, column string, value any, match Match) (*T, error) {
	return r.updateFirst(ctx, match, Fields{column: value})
}

// updateFirst loads the first record matching match, writes fields to it by
// primary key, and re-reads it, all inside one transaction.
func (r *baseRepositoryImpl[T]) updateFirst(ctx context.Context, match Match, fields Fields) (*T, error) {
	var updated *T
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row, err := r.first(ctx, tx, match)
		if err != nil || row == nil {
			return err
		}
		if len(fields) > 0 {
			if _, err := applyFields(tx.NewUpdate().Model(row), fields).WherePK().Exec(ctx); err != nil {
				return err
			}
			if err := tx.NewSelect().Model(row).WherePK().Scan(ctx); err != nil {
				return err
			}
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *baseRepositoryImpl[T]) ReadValue(ctx context.Context, match Match, relations ...string) (*T, error) {
	return r.first(ctx, r.db, match, relations...)
}

func (r *baseRepositoryImpl[T]) ReadValues(ctx context.Context, match Match) ([]*T, error) {
	var entities []*T
	err := applySelectMatch(r.db.NewSelect().Model(&entities), match).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) ReadAllValues(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) ReadAllValuesWithPagination(ctx context.Context, pageSize, pageNumber int) ([]*T, error) {
	page, err := r.Page(ctx, types.NewDefaultPageRequest(pageNumber, pageSize))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	var entities []*T
	query := applySelectMatch(r.db.NewSelect().Model(&entities), pageRequest.GetMatch())
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	if orders := pageRequest.GetOrders(); len(orders) > 0 {
		query = query.Order(orders...)
	} else {
		query = query.OrderExpr("?TableAlias.? ASC", bun.Ident(r.idColumn))
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) DeleteValue(ctx context.Context, match Match) (bool, error) {
	res, err := applyDeleteMatch(r.db.NewDelete().Model((*T)(nil)), match).Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *baseRepositoryImpl[T]) DeleteAllValues(ctx context.Context) error {
	_, err := applyDeleteMatch(r.db.NewDelete().Model((*T)(nil)), nil).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) first(ctx context.Context, db bun.IDB, match Match, relations ...string) (*T, error) {
	entity := new(T)
	query := db.NewSelect().Model(entity)
	for _, rel := range relations {
		query = query.Relation(rel)
	}
	err := applySelectMatch(query, match).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}
