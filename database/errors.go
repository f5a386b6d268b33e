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
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// SQLError is a driver-independent kind of database error.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoIndexErr
	NoColumnErr
	ExistIndexErr
	ExistColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

var sqlErrorNames = [...]string{
	UnknownErr:                  "unknown",
	NoRowsErr:                   "no_rows",
	NoIndexErr:                  "no_index",
	NoColumnErr:                 "no_column",
	ExistIndexErr:               "index_exists",
	ExistColumnErr:              "column_exists",
	NoTableErr:                  "no_table",
	ExistTableErr:               "table_exists",
	DuplicateKeyErr:             "duplicate_key",
	NotNullViolationErr:         "not_null_violation",
	ForeignKeyViolationErr:      "foreign_key_violation",
	CheckConstraintViolationErr: "check_violation",
	DataTruncatedErr:            "data_truncated",
	InvalidTypeCastErr:          "invalid_type_cast",
}

func (e SQLError) String() string {
	if e < 0 || int(e) >= len(sqlErrorNames) {
		return sqlErrorNames[UnknownErr]
	}
	return sqlErrorNames[e]
}

// IsConstraintViolation reports whether e is a rejected write of valid SQL.
func (e SQLError) IsConstraintViolation() bool {
	switch e {
	case DuplicateKeyErr, NotNullViolationErr, ForeignKeyViolationErr, CheckConstraintViolationErr, DataTruncatedErr:
		return true
	}
	return false
}

var mysqlErrors = map[uint16]SQLError{
	1091: NoIndexErr,
	1054: NoColumnErr,
	1061: ExistIndexErr,
	1060: ExistColumnErr,
	1146: NoTableErr,
	1050: ExistTableErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	1451: ForeignKeyViolationErr,
	1452: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
	1406: DataTruncatedErr,
}

var postgresErrors = map[pq.ErrorCode]SQLError{
	"42703": NoColumnErr,
	"42704": NoIndexErr,
	"42P01": NoTableErr,
	"42P07": ExistTableErr,
	"42701": ExistColumnErr,
	"23505": DuplicateKeyErr,
	"23502": NotNullViolationErr,
	"23503": ForeignKeyViolationErr,
	"23514": CheckConstraintViolationErr,
	"22001": DataTruncatedErr,
	"42804": InvalidTypeCastErr,
}

// ClassifySQLError maps err to an SQLError. MySQL and PostgreSQL errors are
// recognised by their driver error codes, SQLite errors by message. The
// boolean is false when err is nil or not recognised.
func ClassifySQLError(err error) (SQLError, bool) {
	if err == nil {
		return UnknownErr, false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NoRowsErr, true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlErrors[mysqlErr.Number]; ok {
			return kind, true
		}
		return UnknownErr, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if kind, ok := postgresErrors[pqErr.Code]; ok {
			return kind, true
		}
		return UnknownErr, true
	}

	return classifyMessage(strings.ToLower(err.Error()))
}

func classifyMessage(s string) (SQLError, bool) {
	has := func(parts ...string) bool {
		for _, p := range parts {
			if !strings.Contains(s, p) {
				return false
			}
		}
		return true
	}

	switch {
	case has("unique constraint failed"), has("duplicate key value"), has("sqlstate 23505"):
		return DuplicateKeyErr, true
	case has("not null constraint failed"), has("not-null constraint"), has("sqlstate 23502"):
		return NotNullViolationErr, true
	case has("foreign key constraint failed"), has("foreign key violation"), has("sqlstate 23503"):
		return ForeignKeyViolationErr, true
	case has("check constraint"), has("sqlstate 23514"):
		return CheckConstraintViolationErr, true
	case has("no such column"), has("undefined column"), has("sqlstate 42703"):
		return NoColumnErr, true
	case has("no such table"), has("undefined table"), has("sqlstate 42p01"):
		return NoTableErr, true
	case has("no such index"), has("index", "does not exist"), has("sqlstate 42704"):
		return NoIndexErr, true
	case has("duplicate column name"):
		return ExistColumnErr, true
	case has("index", "already exists"):
		return ExistIndexErr, true
	case has("table", "already exists"), has("relation", "already exists"):
		return ExistTableErr, true
	case has("string data right truncation"), has("data truncated"), has("sqlstate 22001"):
		return DataTruncatedErr, true
	case has("datatype mismatch"), has("sqlstate 42804"):
		return InvalidTypeCastErr, true
	}
	return UnknownErr, false
}
