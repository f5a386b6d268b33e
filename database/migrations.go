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
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/uptrace/bun"
)

// MigrationManager creates the tables of registered models and records every
// applied step in a tracking table.
type MigrationManager struct {
	db       *bun.DB
	logger   Logger
	config   MigrateConfig
	registry ModelRegistry
}

// Migration represents an applied migration record stored in the database.
type Migration struct {
	bun.BaseModel `bun:"table:crudkit_migrations"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

// NewMigrationManager returns a manager over the default model registry.
func NewMigrationManager(db *bun.DB, logger Logger, cfg MigrateConfig) *MigrationManager {
	if logger == nil {
		logger = GetLogger()
	}
	return &MigrationManager{
		db:       db,
		logger:   logger,
		config:   cfg,
		registry: defaultRegistry,
	}
}

// WithRegistry replaces the registry the migrations are built from.
func (mm *MigrationManager) WithRegistry(registry ModelRegistry) *MigrationManager {
	mm.registry = registry
	return mm
}

// RunMigrations creates the tracking table if needed and applies every
// migration that has no record yet, in model priority order.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	// silent migration
	if _, ok := os.LookupEnv("BUNDEBUG_MIGRATION"); !ok {
		EnableBunSqlSilent(true)
		defer EnableBunSqlSilent(false)
	}

	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}

	if _, err := mm.db.NewCreateTable().Model((*Migration)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := mm.getAllMigrations()
	if err != nil {
		return err
	}
	for _, migration := range migrations {
		if err := mm.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	mm.logger.Info("Database migrations completed!", "count", len(migrations))
	return nil
}

func (mm *MigrationManager) getAllMigrations() ([]MigrationItem, error) {
	var foreignKeys []ForeignKeyConstraint
	if mm.config.EnableForeignKey && mm.config.ForeignKeyFile != "" {
		fks, err := LoadForeignKeys(mm.config.ForeignKeyFile)
		if err != nil {
			return nil, err
		}
		if err := ValidateForeignKeys(fks); err != nil {
			return nil, fmt.Errorf("foreign key constraint validation failed: %w", err)
		}
		mm.logger.Debug("Managing foreign key constraints using config file", "config_path", mm.config.ForeignKeyFile, "count", len(fks))
		foreignKeys = fks
	}

	models := mm.registry.Models()
	migrations := make([]MigrationItem, 0, len(models))
	for _, model := range models {
		instance := model.Instance()
		table := mm.db.Table(modelType(instance)).Name
		migrations = append(migrations, MigrationItem{
			Version:     "create_" + table,
			Name:        getModelName(instance),
			Description: fmt.Sprintf("Create table %s", table),
			Up:          mm.createTable(instance, ForeignKeysForTable(foreignKeys, table)),
		})
	}
	return migrations, nil
}

func (mm *MigrationManager) createTable(model interface{}, foreignKeys []ForeignKeyConstraint) MigrationFunc {
	return func(ctx context.Context, db bun.IDB) error {
		query := db.NewCreateTable().Model(model).IfNotExists()
		switch {
		case len(foreignKeys) > 0:
			for i := range foreignKeys {
				mm.logger.Debug("Adding foreign key", "constraint", foreignKeys[i].GenerateConstraintName())
				query = foreignKeys[i].applyTo(query)
			}
		case mm.config.EnableForeignKey && mm.config.ForeignKeyFile == "":
			query = query.WithForeignKeys()
		}
		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %T: %w", model, err)
		}
		return nil
	}
}

func (mm *MigrationManager) runMigration(ctx context.Context, migration MigrationItem) error {
	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", migration.Version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = mm.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := migration.Up(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&Migration{
			Version:     migration.Version,
			Name:        migration.Name,
			AppliedAt:   time.Now(),
			Description: migration.Description,
		}).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	mm.logger.Info("Migration executed successfully", "version", migration.Version, "name", migration.Name)
	return nil
}

func modelType(model interface{}) reflect.Type {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func getModelName(model interface{}) string {
	return modelType(model).Name()
}

// GetAppliedMigrations returns migration records ordered by version.
func (mm *MigrationManager) GetAppliedMigrations(ctx context.Context) ([]Migration, error) {
	var migrations []Migration
	err := mm.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}
