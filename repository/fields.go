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
	"sort"

	"github.com/uptrace/bun"
)

// Match is a conjunction of column equality filters. Keys are column names;
// they are not checked against the schema, so an unknown column fails with
// the storage error.
type Match map[string]any

// Fields maps column names to the values an update writes.
type Fields map[string]any

// SetIfPresent records column in fields when v is non-nil. Write DTOs use
// pointer fields so that only explicitly set values reach an update.
func SetIfPresent[V any](fields Fields, column string, v *V) Fields {
	if v != nil {
		fields[column] = *v
	}
	return fields
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func applySelectMatch(q *bun.SelectQuery, match Match) *bun.SelectQuery {
	for _, col := range sortedKeys(match) {
		q = q.Where("?TableAlias.? = ?", bun.Ident(col), match[col])
	}
	return q
}

func applyDeleteMatch(q *bun.DeleteQuery, match Match) *bun.DeleteQuery {
	if len(match) == 0 {
		return q.Where("1 = 1")
	}
	for _, col := range sortedKeys(match) {
		q = q.Where("? = ?", bun.Ident(col), match[col])
	}
	return q
}

func applyFields(q *bun.UpdateQuery, fields Fields) *bun.UpdateQuery {
	for _, col := range sortedKeys(fields) {
		q = q.Set("? = ?", bun.Ident(col), fields[col])
	}
	return q
}
