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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tomoncle/crudkit/repository"
)

type record struct {
	ID    int64
	Name  string
	Tags  []*record
	Owner *record
}

type recordWrite struct{ Name *string }

type recordRead struct{ Name string }

func toRecordRead(r *record) recordRead { return recordRead{Name: r.Name} }

func newRecordSpec() Spec[record, recordWrite, recordRead] {
	return NewSpec(
		func(w recordWrite) *record { return &record{Name: *w.Name} },
		func(w recordWrite) repository.Fields { return nil },
		toRecordRead,
	)
}

func TestSpecWithMethodsCopy(t *testing.T) {
	base := newRecordSpec()
	custom := base.WithIDField("record_id").
		WithRelationship("tags", HasMany("Tags", func(r *record) []*record { return r.Tags }, toRecordRead))

	assert.Equal(t, DefaultIDField, base.IDField())
	assert.Empty(t, base.Relationships())
	assert.Equal(t, "record_id", custom.IDField())
	assert.Equal(t, []string{"tags"}, custom.Relationships())

	again := custom.WithRelationship("owner", HasOne("Owner", func(r *record) *record { return r.Owner }, toRecordRead))
	assert.Equal(t, []string{"tags"}, custom.Relationships())
	assert.Equal(t, []string{"owner", "tags"}, again.Relationships())
	assert.Equal(t, "record_id", base.WithIDField("record_id").WithIDField("").IDField())
}

func TestSpecChangesNeverNil(t *testing.T) {
	assert.NotNil(t, newRecordSpec().Changes(recordWrite{}))
}

func TestRelationshipProjection(t *testing.T) {
	owner := &record{Name: "owner"}
	r := &record{Name: "r", Tags: []*record{{Name: "a"}, nil, {Name: "b"}}, Owner: owner}

	many := HasMany("Tags", func(r *record) []*record { return r.Tags }, toRecordRead)
	assert.Equal(t, "Tags", many.Relation())
	assert.Equal(t, []recordRead{{Name: "a"}, {Name: "b"}}, many.related(r))

	one := HasOne("Owner", func(r *record) *record { return r.Owner }, toRecordRead)
	assert.Equal(t, []recordRead{{Name: "owner"}}, one.related(r))
	assert.Equal(t, []recordRead{}, one.related(&record{}))
}

func TestValidateEntitySkipsNonStructs(t *testing.T) {
	assert.NoError(t, validateEntity(42))
	assert.NoError(t, validateEntity(map[string]any{"a": 1}))

	type dto struct {
		Name string `validate:"required"`
	}
	assert.ErrorIs(t, validateEntity(dto{}), ErrInvalidEntity)
	assert.NoError(t, validateEntity(dto{Name: "x"}))
}
