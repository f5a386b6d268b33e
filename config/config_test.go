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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crudkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.ConnectionConfig.Type)
	assert.Equal(t, "crudkit", cfg.Database.ConnectionConfig.DBName)
	assert.Equal(t, time.Hour, cfg.Database.ConnectionConfig.ConnMaxLifetime)
	assert.True(t, cfg.Database.DataMigrateConfig.EnableMigrateOnStartup)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Len(t, cfg.Pipeline.Options(), 2)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
  base_path: /api
database:
  connection:
    type: postgres
    host: db.internal
    port: 5432
    slow_query_time: 250ms
  migrate:
    foreign_key_file: fks.yaml
log:
  format: json
pipeline:
  workers: 4
`)
	t.Setenv("CRUDKIT_DATABASE_CONNECTION_HOST", "db.override")
	t.Setenv("CRUDKIT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	conn := cfg.Database.ConnectionConfig
	assert.Equal(t, "postgres", conn.Type)
	assert.Equal(t, "db.override", conn.Host)
	assert.Equal(t, 5432, conn.Port)
	assert.Equal(t, 250*time.Millisecond, conn.SlowQueryTime)
	assert.Equal(t, "fks.yaml", cfg.Database.DataMigrateConfig.ForeignKeyFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "database type", body: "database:\n  connection:\n    type: oracle\n", want: "Type"},
		{name: "log format", body: "log:\n  format: xml\n", want: "Format"},
		{name: "base path", body: "server:\n  base_path: api\n", want: "BasePath"},
		{name: "workers", body: "pipeline:\n  workers: -1\n", want: "Workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
