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

// Package database connects Bun to MySQL, PostgreSQL or SQLite and owns the
// process-wide connection used by crudkit.NewUseCase.
//
// InitDB builds a Manager from Config, connects, and optionally runs
// migrations. Migrations create one table per registered model
// (RegisteredModel) and may attach foreign keys listed in a YAML file:
//
//	foreign_keys:
//	  - table: categories
//	    column: parent_id
//	    reference_table: categories
//	    reference_column: id
//	    on_delete: SET NULL
//
// Without a file, EnableForeignKey derives the keys from belongs-to relations.
//
// ClassifySQLError maps driver errors of all three databases to SQLError
// kinds.
package database
