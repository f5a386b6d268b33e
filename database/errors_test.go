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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassifySQLError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		kind  SQLError
		known bool
	}{
		{name: "nil", err: nil, kind: UnknownErr, known: false},
		{name: "no rows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), kind: NoRowsErr, known: true},
		{name: "mysql duplicate", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, kind: DuplicateKeyErr, known: true},
		{name: "mysql fk", err: fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1452}), kind: ForeignKeyViolationErr, known: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1205}, kind: UnknownErr, known: true},
		{name: "pq not null", err: &pq.Error{Code: "23502"}, kind: NotNullViolationErr, known: true},
		{name: "pq missing table", err: fmt.Errorf("select: %w", &pq.Error{Code: "42P01"}), kind: NoTableErr, known: true},
		{name: "sqlite unique", err: errors.New("constraint failed: UNIQUE constraint failed: categories.name (2067)"), kind: DuplicateKeyErr, known: true},
		{name: "sqlite fk", err: errors.New("FOREIGN KEY constraint failed"), kind: ForeignKeyViolationErr, known: true},
		{name: "sqlite not null", err: errors.New("NOT NULL constraint failed: categories.name"), kind: NotNullViolationErr, known: true},
		{name: "sqlite column", err: errors.New("SQL logic error: no such column: n.nope (1)"), kind: NoColumnErr, known: true},
		{name: "unrelated", err: errors.New("connection refused"), kind: UnknownErr, known: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, known := ClassifySQLError(tt.err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestSQLErrorString(t *testing.T) {
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "unknown", SQLError(-1).String())
	assert.Equal(t, "unknown", SQLError(999).String())

	assert.True(t, DuplicateKeyErr.IsConstraintViolation())
	assert.True(t, ForeignKeyViolationErr.IsConstraintViolation())
	assert.False(t, NoTableErr.IsConstraintViolation())
}
