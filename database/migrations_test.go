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

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/crudkit/internal/testdb"
	"github.com/uptrace/bun"
)

type author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

type book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID       int64   `bun:"id,pk,autoincrement"`
	Title    string  `bun:"title,notnull"`
	AuthorID int64   `bun:"author_id,notnull"`
	Author   *author `bun:"rel:belongs-to,join:author_id=id"`
}

func testRegistry() ModelRegistry {
	reg := NewModelRegistry()
	reg.Register(NewModelAdapter((*book)(nil), 20))
	reg.Register(NewModelAdapter((*author)(nil), 10))
	return reg
}

func TestModelRegistry(t *testing.T) {
	reg := testRegistry()
	reg.Register(NewModelAdapter((*author)(nil), 30))

	models := reg.Models()
	require.Len(t, models, 2)
	assert.IsType(t, (*book)(nil), models[0].Instance())
	assert.IsType(t, (*author)(nil), models[1].Instance())
	assert.Len(t, modelInstances(reg), 2)
}

func TestMigrationsAreAppliedOnce(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	mm := NewMigrationManager(db, nil, MigrateConfig{}).WithRegistry(testRegistry())

	require.NoError(t, mm.RunMigrations(ctx))
	require.NoError(t, mm.RunMigrations(ctx))

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "create_authors", applied[0].Version)
	assert.Equal(t, "author", applied[0].Name)
	assert.Equal(t, "create_books", applied[1].Version)

	_, err = db.NewInsert().Model(&author{Name: "Ursula"}).Exec(ctx)
	assert.NoError(t, err)
}

func TestMigrationsRejectInvalidForeignKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("foreign_keys:\n  - table: books\n    column: author_id\n"), 0644))

	mm := NewMigrationManager(testdb.Open(t), nil, MigrateConfig{EnableForeignKey: true, ForeignKeyFile: path}).
		WithRegistry(testRegistry())
	assert.ErrorContains(t, mm.RunMigrations(context.Background()), "foreign key constraint validation failed")
}

func initTestDB(t *testing.T, migrate MigrateConfig) *bun.DB {
	t.Helper()
	RegisteredModel(NewModelAdapter((*author)(nil), 10))
	RegisteredModel(NewModelAdapter((*book)(nil), 20))

	db, err := InitDatabaseWithOptions(&Config{
		ConnectionConfig:  ConnectionConfig{Type: "sqlite", DSN: testdb.DSN(t)},
		DataMigrateConfig: migrate,
	}, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB() })
	return db
}

func TestInitDatabaseDerivesForeignKeys(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t, MigrateConfig{EnableForeignKey: true})
	assert.Same(t, db, GetDB())
	assert.Same(t, db, GetDatabaseManager().GetDB())
	assert.True(t, GetHealthStatus(ctx).Healthy)
	stats := GetDatabaseStats()
	assert.Equal(t, 1, stats.MaxOpenConns)

	_, err := db.NewInsert().Model(&book{Title: "Orphan", AuthorID: 42}).Exec(ctx)
	require.Error(t, err)
	kind, _ := ClassifySQLError(err)
	assert.Equal(t, ForeignKeyViolationErr, kind)
}

func TestInitDatabaseUsesForeignKeyFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fks.yaml")
	require.NoError(t, ExportForeignKeys(path, []ForeignKeyConstraint{
		{Table: "books", Column: "author_id", ReferenceTable: "authors", ReferenceColumn: "id", OnDelete: "CASCADE"},
	}))
	db := initTestDB(t, MigrateConfig{EnableForeignKey: true, ForeignKeyFile: path})

	a := &author{Name: "Ursula"}
	_, err := db.NewInsert().Model(a).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&book{Title: "Earthsea", AuthorID: a.ID}).Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewDelete().Model(a).WherePK().Exec(ctx)
	require.NoError(t, err)
	count, err := db.NewSelect().Model((*book)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunMigrationsWithoutInit(t *testing.T) {
	require.NoError(t, CloseDB())
	assert.Error(t, RunMigrations(context.Background()))
	assert.Nil(t, GetDB())
	assert.Nil(t, GetDatabaseManager())
	assert.Equal(t, &DBStats{}, GetDatabaseStats())
	assert.False(t, GetHealthStatus(context.Background()).Healthy)
}
