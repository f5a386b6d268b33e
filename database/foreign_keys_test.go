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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForeignKeyValidate(t *testing.T) {
	valid := ForeignKeyConstraint{Table: "books", Column: "author_id", ReferenceTable: "authors", ReferenceColumn: "id", OnDelete: "cascade"}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, "fk_books_author_id", valid.GenerateConstraintName())

	named := valid
	named.ConstraintName = "books_author"
	assert.Equal(t, "books_author", named.GenerateConstraintName())

	badAction := valid
	badAction.OnUpdate = "EXPLODE"
	assert.ErrorContains(t, badAction.Validate(), "invalid referential action")

	err := ValidateForeignKeys([]ForeignKeyConstraint{valid, {Table: "books"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "column name cannot be empty")
	assert.ErrorContains(t, err, "reference table name cannot be empty")
}

func TestForeignKeysExportAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "foreign_keys.yaml")
	fks := []ForeignKeyConstraint{
		{Table: "books", Column: "author_id", ReferenceTable: "authors", ReferenceColumn: "id", OnDelete: "CASCADE"},
		{Table: "reviews", Column: "book_id", ReferenceTable: "books", ReferenceColumn: "id", Description: "review of a book"},
	}
	require.NoError(t, ExportForeignKeys(path, fks))

	loaded, err := LoadForeignKeys(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "books.author_id -> authors.id", loaded[0].Description)
	assert.Equal(t, "CASCADE", loaded[0].OnDelete)
	assert.Equal(t, "review of a book", loaded[1].Description)

	assert.Len(t, ForeignKeysForTable(loaded, "BOOKS"), 1)
	assert.Empty(t, ForeignKeysForTable(loaded, "authors"))
}

func TestLoadForeignKeysErrors(t *testing.T) {
	_, err := LoadForeignKeys(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("foreign_keys: [\n"), 0644))
	_, err = LoadForeignKeys(path)
	assert.ErrorContains(t, err, "failed to parse")
}
