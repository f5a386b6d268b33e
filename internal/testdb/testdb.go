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

// Package testdb opens isolated in-memory SQLite databases for tests.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

var seq atomic.Int64

// DSN returns a data source name for a private in-memory database named
// after the test.
func DSN(t testing.TB) string {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
}

// Open returns a Bun database backed by a fresh in-memory SQLite database and
// creates a table for every model. The database is closed when the test ends.
// Set BUNDEBUG=2 to print every query.
func Open(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, DSN(t))
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serialises access
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.FromEnv("BUNDEBUG")))
	t.Cleanup(func() { _ = db.Close() })

	CreateTables(t, db, models...)
	return db
}

// CreateTables creates a table for each model if it does not exist yet.
func CreateTables(t testing.TB, db *bun.DB, models ...any) {
	t.Helper()
	ctx := context.Background()
	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err, "create table for %T", model)
	}
}
