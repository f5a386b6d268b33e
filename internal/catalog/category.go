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

// Package catalog holds the Category resource served by crudserver: a
// self-referential tree of named categories.
package catalog

import (
	"github.com/tomoncle/crudkit"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/repository"
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          int64       `bun:"id,pk,autoincrement"`
	Name        string      `bun:"name,notnull,unique"`
	Description string      `bun:"description"`
	ParentID    *int64      `bun:"parent_id"`
	Parent      *Category   `bun:"rel:belongs-to,join:parent_id=id"`
	Children    []*Category `bun:"rel:has-many,join:id=parent_id"`
}

// CategoryWrite is the write DTO. Nil fields are left untouched by updates.
type CategoryWrite struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=64"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	ParentID    *int64  `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

type CategoryRead struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
}

func toCategory(w CategoryWrite) *Category {
	c := &Category{ParentID: w.ParentID}
	if w.Name != nil {
		c.Name = *w.Name
	}
	if w.Description != nil {
		c.Description = *w.Description
	}
	return c
}

func categoryChanges(w CategoryWrite) repository.Fields {
	fields := repository.Fields{}
	repository.SetIfPresent(fields, "name", w.Name)
	repository.SetIfPresent(fields, "description", w.Description)
	repository.SetIfPresent(fields, "parent_id", w.ParentID)
	return fields
}

func toCategoryRead(c *Category) CategoryRead {
	return CategoryRead{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
	}
}

// Spec returns the Category spec with its "parent" and "children"
// relationships.
func Spec() crudkit.Spec[Category, CategoryWrite, CategoryRead] {
	return crudkit.NewSpec(toCategory, categoryChanges, toCategoryRead).
		WithRelationship("children", crudkit.HasMany("Children",
			func(c *Category) []*Category { return c.Children }, toCategoryRead)).
		WithRelationship("parent", crudkit.HasOne("Parent",
			func(c *Category) *Category { return c.Parent }, toCategoryRead))
}

// Register adds Category to the models created by migrations.
func Register() {
	database.RegisteredModel(database.NewModelAdapter((*Category)(nil), 10))
}
