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

package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/crudkit"
	"github.com/tomoncle/crudkit/internal/testdb"
	"github.com/tomoncle/crudkit/pipeline"
)

const seedYAML = `
categories:
  - name: Books
    description: paper
  - name: Fiction
    parent_id: "1"
  - name: ""
  - name: Music
    parent_id: -3
  - name: Films
`

func TestLoadSeed(t *testing.T) {
	rows, err := LoadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	rows, err = LoadSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = LoadSeed(strings.NewReader("categories: [\n"))
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	uc := crudkit.NewUseCaseWithDB(testdb.Open(t, (*Category)(nil)), Spec())
	rows, err := LoadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	result, err := Seed(ctx, uc, rows, pipeline.WithWorkers(2))
	require.NoError(t, err)

	require.Len(t, result.Created, 3)
	assert.Equal(t, "Books", result.Created[0].Name)
	assert.Equal(t, "paper", result.Created[0].Description)
	assert.Equal(t, "Fiction", result.Created[1].Name)
	require.NotNil(t, result.Created[1].ParentID)
	assert.Equal(t, result.Created[0].ID, *result.Created[1].ParentID)

	require.Len(t, result.Failures, 2)
	assert.Equal(t, 2, result.Failures[0].Index)
	assert.Equal(t, 3, result.Failures[1].Index)

	children, err := uc.ReadEntityRelationship(ctx, crudkit.ReadEntityRelationshipRequest{
		EntityID:     result.Created[0].ID,
		Relationship: "children",
	})
	require.NoError(t, err)
	require.Len(t, children.RelatedEntities, 1)
	assert.Equal(t, "Fiction", children.RelatedEntities[0].Name)
}

func TestSeedStopsOnStorageError(t *testing.T) {
	uc := crudkit.NewUseCaseWithDB(testdb.Open(t, (*Category)(nil)), Spec())
	rows := []map[string]any{{"name": "dup"}, {"name": "dup"}, {"name": "never"}}

	result, err := Seed(context.Background(), uc, rows)
	require.Error(t, err)
	assert.Len(t, result.Created, 1)
}
