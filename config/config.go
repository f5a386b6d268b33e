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

// Package config loads the crudserver configuration from an optional YAML
// file and CRUDKIT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/pipeline"
	"github.com/tomoncle/crudkit/utils"
)

const EnvPrefix = "CRUDKIT"

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	Log      LogConfig       `mapstructure:"log"`
	Pipeline PipelineConfig  `mapstructure:"pipeline"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	BasePath        string        `mapstructure:"base_path" validate:"omitempty,startswith=/"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// PipelineConfig holds the options of pipelines built by the server, such as
// the seed command.
type PipelineConfig struct {
	Debug   bool `mapstructure:"debug"`
	Workers int  `mapstructure:"workers" validate:"gte=0"`
}

// Options converts the settings to pipeline options.
func (p PipelineConfig) Options() []pipeline.Option {
	return []pipeline.Option{pipeline.WithDebug(p.Debug), pipeline.WithWorkers(p.Workers)}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_path", "")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	conn := database.DefaultConnectionConfig()
	v.SetDefault("database.connection.type", conn.Type)
	v.SetDefault("database.connection.host", conn.Host)
	v.SetDefault("database.connection.port", conn.Port)
	v.SetDefault("database.connection.username", conn.Username)
	v.SetDefault("database.connection.password", conn.Password)
	v.SetDefault("database.connection.dbname", conn.DBName)
	v.SetDefault("database.connection.dsn", conn.DSN)
	v.SetDefault("database.connection.sslmode", conn.SSLMode)
	v.SetDefault("database.connection.max_idle_conns", conn.MaxIdleConns)
	v.SetDefault("database.connection.max_open_conns", conn.MaxOpenConns)
	v.SetDefault("database.connection.conn_max_lifetime", conn.ConnMaxLifetime)
	v.SetDefault("database.connection.conn_max_idle_time", conn.ConnMaxIdleTime)
	v.SetDefault("database.connection.connect_timeout", conn.ConnectTimeout)
	v.SetDefault("database.connection.read_timeout", conn.ReadTimeout)
	v.SetDefault("database.connection.write_timeout", conn.WriteTimeout)
	v.SetDefault("database.connection.enable_reconnect", conn.EnableReconnect)
	v.SetDefault("database.connection.reconnect_interval", conn.ReconnectInterval)
	v.SetDefault("database.connection.max_reconnect_tries", conn.MaxReconnectTries)
	v.SetDefault("database.connection.health_check_interval", conn.HealthCheckInterval)
	v.SetDefault("database.connection.enable_query_log", conn.EnableQueryLog)
	v.SetDefault("database.connection.slow_query_time", conn.SlowQueryTime)

	v.SetDefault("database.migrate.enable_migrate_on_startup", true)
	v.SetDefault("database.migrate.enable_foreign_key", true)
	v.SetDefault("database.migrate.foreign_key_file", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("pipeline.debug", false)
	v.SetDefault("pipeline.workers", 0)
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply. Environment variables win over
// the file: database.connection.type is read from
// CRUDKIT_DATABASE_CONNECTION_TYPE.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags of the whole configuration.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return err
}

// ApplyLogging configures every registered logger with the log settings.
func (c *Config) ApplyLogging() {
	utils.ConfigureLogLevel(c.Log.Level)
	utils.ConfigureConsoleLogFormat(c.Log.Format)
}
