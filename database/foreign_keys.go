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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

var referentialActions = []string{"CASCADE", "RESTRICT", "SET NULL", "SET DEFAULT", "NO ACTION"}

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete,omitempty"` // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string `yaml:"on_update,omitempty"`
	ConstraintName  string `yaml:"constraint_name,omitempty"`
	Description     string `yaml:"description,omitempty"`
}

// ForeignKeyConfig is the YAML document that lists foreign key constraints.
type ForeignKeyConfig struct {
	ForeignKeys []ForeignKeyConstraint `yaml:"foreign_keys"`
}

// GenerateConstraintName returns the explicit name or a derived name.
func (fk *ForeignKeyConstraint) GenerateConstraintName() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// Validate checks for missing names and unknown referential actions.
func (fk *ForeignKeyConstraint) Validate() error {
	var errs []error
	if fk.Table == "" {
		errs = append(errs, errors.New("table name cannot be empty"))
	}
	if fk.Column == "" {
		errs = append(errs, fmt.Errorf("column name cannot be empty: %s", fk.Table))
	}
	if fk.ReferenceTable == "" {
		errs = append(errs, fmt.Errorf("reference table name cannot be empty: %s.%s", fk.Table, fk.Column))
	}
	if fk.ReferenceColumn == "" {
		errs = append(errs, fmt.Errorf("reference column name cannot be empty: %s.%s -> %s", fk.Table, fk.Column, fk.ReferenceTable))
	}
	for _, action := range []string{fk.OnDelete, fk.OnUpdate} {
		if action != "" && !slices.Contains(referentialActions, strings.ToUpper(action)) {
			errs = append(errs, fmt.Errorf("invalid referential action: %s, constraint: %s", action, fk.GenerateConstraintName()))
		}
	}
	return errors.Join(errs...)
}

// applyTo adds the constraint as a FOREIGN KEY clause of a CREATE TABLE. The
// referential actions must have passed Validate.
func (fk *ForeignKeyConstraint) applyTo(q *bun.CreateTableQuery) *bun.CreateTableQuery {
	clause := "(?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		clause += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		clause += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return q.ForeignKey(clause, bun.Ident(fk.Column), bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn))
}

// ValidateForeignKeys validates every constraint and joins the errors.
func ValidateForeignKeys(constraints []ForeignKeyConstraint) error {
	var errs []error
	for i := range constraints {
		if err := constraints[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ForeignKeysForTable returns the constraints declared on table.
func ForeignKeysForTable(constraints []ForeignKeyConstraint, table string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, fk := range constraints {
		if strings.EqualFold(fk.Table, table) {
			result = append(result, fk)
		}
	}
	return result
}

// LoadForeignKeys reads constraints from a YAML file.
func LoadForeignKeys(path string) ([]ForeignKeyConstraint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign key file: %w", err)
	}
	var config ForeignKeyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse foreign key file: %w", err)
	}
	return config.ForeignKeys, nil
}

// ExportForeignKeys writes constraints to a YAML file at path, creating
// directories as needed. Empty descriptions are filled in.
func ExportForeignKeys(path string, constraints []ForeignKeyConstraint) error {
	config := ForeignKeyConfig{ForeignKeys: make([]ForeignKeyConstraint, len(constraints))}
	for i, fk := range constraints {
		if fk.Description == "" {
			fk.Description = fmt.Sprintf("%s.%s -> %s.%s", fk.Table, fk.Column, fk.ReferenceTable, fk.ReferenceColumn)
		}
		config.ForeignKeys[i] = fk
	}

	data, err := yaml.Marshal(&config)
	if err != nil {
		return fmt.Errorf("failed to serialize foreign keys: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write foreign key file: %w", err)
	}
	return nil
}
