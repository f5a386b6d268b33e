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
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/bun"
)

var supportedTypes = []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"}

var (
	globalMu      sync.RWMutex
	globalManager AbstractDatabaseManager
	globalConfig  *Config
)

// newManager validates cfg and builds an unconnected manager for it.
func newManager(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	if !slices.Contains(supportedTypes, cfg.Type) {
		return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", cfg.Type, supportedTypes)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	manager := NewDatabaseManager(cfg)
	manager.SetLogger(GetLogger())
	return manager, nil
}

// GetDB returns the global Bun database instance, or nil before InitDB.
func GetDB() *bun.DB {
	if manager := GetDatabaseManager(); manager != nil {
		return manager.GetDB()
	}
	return nil
}

// GetDatabaseManager returns the global database manager, or nil before
// InitDB.
func GetDatabaseManager() AbstractDatabaseManager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager
}

// InitDB initializes the global database using the provided configuration.
func InitDB(cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	return InitDatabaseWithOptions(cfg, cfg.DataMigrateConfig.EnableMigrateOnStartup)
}

// InitDatabaseWithOptions connects the global database and optionally runs
// migrations. A previously initialized database is closed once the new one
// is ready.
func InitDatabaseWithOptions(cfg *Config, runMigrations bool) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	manager, err := newManager(&cfg.ConnectionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		_ = manager.Disconnect()
		return nil, fmt.Errorf("failed to initialize database: failed to connect to database: %w", err)
	}
	if runMigrations {
		if err := manager.RunMigrations(ctx, cfg.DataMigrateConfig); err != nil {
			_ = manager.Disconnect()
			return nil, fmt.Errorf("failed to initialize database: failed to run database migrations: %w", err)
		}
	}
	GetLogger().Info("Database initialization completed!")

	db := manager.GetDB()
	db.RegisterModel(RegisteredModelInstances()...)

	globalMu.Lock()
	previous := globalManager
	globalManager, globalConfig = manager, cfg
	globalMu.Unlock()
	if previous != nil {
		_ = previous.Disconnect()
	}
	return db, nil
}

// CloseDB closes the global database connection.
func CloseDB() error {
	globalMu.Lock()
	manager := globalManager
	globalManager, globalConfig = nil, nil
	globalMu.Unlock()
	if manager == nil {
		return nil
	}
	return manager.Disconnect()
}

// GetHealthStatus returns the current database health status.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	manager := GetDatabaseManager()
	if manager == nil {
		return &HealthStatus{LastError: "Database not initialized", LastCheckTime: time.Now()}
	}
	return manager.HealthCheck(ctx)
}

// GetDatabaseStats returns connection pool statistics of the global
// database. It is zero before InitDB.
func GetDatabaseStats() *DBStats {
	manager := GetDatabaseManager()
	if manager == nil {
		return &DBStats{}
	}
	return manager.GetStats()
}

// RunMigrations migrates the global database with the configuration passed
// to InitDB.
func RunMigrations(ctx context.Context) error {
	globalMu.RLock()
	manager, cfg := globalManager, globalConfig
	globalMu.RUnlock()
	if manager == nil {
		return fmt.Errorf("database not initialized")
	}
	return manager.RunMigrations(ctx, cfg.DataMigrateConfig)
}
