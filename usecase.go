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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/repository"
	"github.com/tomoncle/crudkit/types"
	"github.com/tomoncle/crudkit/utils"
	"github.com/uptrace/bun"
)

var (
	log      = utils.NewLogger("CRUD")
	validate = validator.New()
)

// UseCase runs the generic CRUD operations for one Spec.
//
// Every operation is its own atomic unit; nothing is shared between calls
// except the Spec and the repository's connection pool.
type UseCase[R, W, Rd any] struct {
	spec Spec[R, W, Rd]
	repo repository.Repository[R]
	db   func() *bun.DB
	once sync.Once
}

// NewUseCase returns a UseCase backed by the global database connection. The
// connection is resolved on first use, after database.InitDB.
func NewUseCase[R, W, Rd any](spec Spec[R, W, Rd]) *UseCase[R, W, Rd] {
	return &UseCase[R, W, Rd]{spec: spec, db: database.GetDB}
}

// NewUseCaseWithDB returns a UseCase backed by db.
func NewUseCaseWithDB[R, W, Rd any](db *bun.DB, spec Spec[R, W, Rd]) *UseCase[R, W, Rd] {
	return NewUseCaseWithRepository(repository.NewRepository[R](db, repository.WithIDColumn(spec.IDField())), spec)
}

// NewUseCaseWithRepository returns a UseCase over an existing repository.
func NewUseCaseWithRepository[R, W, Rd any](repo repository.Repository[R], spec Spec[R, W, Rd]) *UseCase[R, W, Rd] {
	return &UseCase[R, W, Rd]{spec: spec, repo: repo}
}

func (u *UseCase[R, W, Rd]) Spec() Spec[R, W, Rd] { return u.spec }

func (u *UseCase[R, W, Rd]) repository() repository.Repository[R] {
	u.once.Do(func() {
		if u.repo == nil {
			u.repo = repository.NewRepository[R](u.db(), repository.WithIDColumn(u.spec.IDField()))
		}
	})
	return u.repo
}

func (u *UseCase[R, W, Rd]) byID(id int64) repository.Match {
	return repository.Match{u.spec.IDField(): id}
}

// WriteEntity creates a record from req when entityID is nil. Otherwise it
// writes the explicitly set fields of req to the record with that id and
// returns ErrEntityNotFound if there is none.
func (u *UseCase[R, W, Rd]) WriteEntity(ctx context.Context, req WriteEntityRequest[W], entityID *int64) (*WriteEntityResponse[Rd], error) {
	if err := validateEntity(req.Entity); err != nil {
		return nil, err
	}

	if entityID != nil {
		updated, err := u.repository().UpdateValues(ctx, *entityID, u.spec.Changes(req.Entity))
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, fmt.Errorf("%w: %s=%d", ErrEntityNotFound, u.spec.IDField(), *entityID)
		}
		resp := &WriteEntityResponse[Rd]{Entity: u.spec.ToRead(updated)}
		log.WithField("entity", resp.Entity).Info("Updated entity")
		return resp, nil
	}

	created, err := u.repository().AddValue(ctx, u.spec.ToRecord(req.Entity))
	if err != nil {
		return nil, err
	}
	resp := &WriteEntityResponse[Rd]{Entity: u.spec.ToRead(created)}
	log.WithField("entity", resp.Entity).Info("Created entity")
	return resp, nil
}

// ReadEntity returns the record with req.EntityID, or a nil Entity when none
// exists.
func (u *UseCase[R, W, Rd]) ReadEntity(ctx context.Context, req ReadEntityRequest) (*ReadEntityResponse[Rd], error) {
	record, err := u.repository().ReadValue(ctx, u.byID(req.EntityID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		log.WithField("id", req.EntityID).Info("Entity not found")
		return &ReadEntityResponse[Rd]{}, nil
	}
	entity := u.spec.ToRead(record)
	log.WithField("entity", entity).Debug("Read entity")
	return &ReadEntityResponse[Rd]{Entity: &entity}, nil
}

// ReadAllEntities returns every record in storage order.
func (u *UseCase[R, W, Rd]) ReadAllEntities(ctx context.Context) (*ReadAllEntitiesResponse[Rd], error) {
	records, err := u.repository().ReadAllValues(ctx)
	if err != nil {
		return nil, err
	}
	resp := &ReadAllEntitiesResponse[Rd]{Entities: u.project(records)}
	log.WithField("count", len(resp.Entities)).Info("Entities retrieved")
	return resp, nil
}

// ReadEntitiesPage returns one page of records ordered by id along with the
// total record count.
func (u *UseCase[R, W, Rd]) ReadEntitiesPage(ctx context.Context, req ReadEntitiesPageRequest) (*ReadEntitiesPageResponse[Rd], error) {
	page, err := u.repository().Page(ctx, types.NewDefaultPageRequest(req.Page, req.PageSize))
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"page": page.Page, "size": page.PageSize, "total": page.Total}).Debug("Entities page retrieved")
	return &ReadEntitiesPageResponse[Rd]{
		Entities: u.project(page.Items),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	}, nil
}

// ReadEntityRelationship returns the records related to req.EntityID through
// the named relationship. A missing owner or an unknown relationship yields
// an empty list.
func (u *UseCase[R, W, Rd]) ReadEntityRelationship(ctx context.Context, req ReadEntityRelationshipRequest) (*ReadEntityRelationshipResponse[Rd], error) {
	empty := &ReadEntityRelationshipResponse[Rd]{RelatedEntities: []Rd{}}
	rel, ok := u.spec.Relationship(req.Relationship)
	if !ok {
		log.WithField("relationship", req.Relationship).Warn("Relationship not found on entity")
		return empty, nil
	}
	owner, err := u.repository().ReadValue(ctx, u.byID(req.EntityID), rel.Relation())
	if err != nil {
		return nil, err
	}
	if owner == nil {
		log.WithField("id", req.EntityID).Info("Entity not found")
		return empty, nil
	}
	resp := &ReadEntityRelationshipResponse[Rd]{RelatedEntities: rel.related(owner)}
	log.WithFields(logrus.Fields{
		"relationship": req.Relationship,
		"count":        len(resp.RelatedEntities),
	}).Info("Related entities retrieved")
	return resp, nil
}

// DeleteEntity deletes the record with req.EntityID. The response does not
// tell whether a record existed.
func (u *UseCase[R, W, Rd]) DeleteEntity(ctx context.Context, req DeleteEntityRequest) (*DeleteEntityResponse, error) {
	deleted, err := u.repository().DeleteValue(ctx, u.byID(req.EntityID))
	if err != nil {
		return nil, err
	}
	resp := &DeleteEntityResponse{
		Message: fmt.Sprintf("Entity with id %d deleted successfully", req.EntityID),
	}
	log.WithFields(logrus.Fields{"id": req.EntityID, "deleted": deleted}).Info(resp.Message)
	return resp, nil
}

func (u *UseCase[R, W, Rd]) project(records []*R) []Rd {
	out := make([]Rd, 0, len(records))
	for _, record := range records {
		out = append(out, u.spec.ToRead(record))
	}
	return out
}

// validateEntity runs struct validation on write DTOs. Non-struct DTOs have
// nothing to validate.
func validateEntity(entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
}
