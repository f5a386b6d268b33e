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
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var silent atomic.Bool

// EnableBunSqlSilent suppresses QueryHook output while b is true.
func EnableBunSqlSilent(b bool) {
	silent.Store(b)
}

var operationColors = map[string]*color.Color{
	"SELECT": color.New(color.FgGreen),
	"INSERT": color.New(color.FgBlue),
	"UPDATE": color.New(color.FgYellow),
	"DELETE": color.New(color.FgMagenta),
}

var slowColor = color.New(color.BgYellow, color.FgHiWhite)

// QueryHook reports failed statements and statements slower than a
// threshold through a Logger. sql.ErrNoRows is not a failure.
type QueryHook struct {
	slowTime time.Duration
	logger   Logger
}

var _ bun.QueryHook = (*QueryHook)(nil)

// NewQueryHook returns a hook that warns about queries slower than slowTime.
// A non-positive slowTime only reports failures.
func NewQueryHook(slowTime time.Duration, logger Logger) *QueryHook {
	if logger == nil {
		logger = GetLogger()
	}
	return &QueryHook{slowTime: slowTime, logger: logger}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if silent.Load() {
		return
	}
	duration := time.Since(event.StartTime)

	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) && !errors.Is(event.Err, sql.ErrTxDone) {
		kind, _ := ClassifySQLError(event.Err)
		h.logger.Error("Database query failed",
			"kind", kind,
			"duration", duration.Round(time.Microsecond),
			"query", colorQuery(event),
			"error", event.Err,
		)
		return
	}

	if h.slowTime > 0 && duration > h.slowTime {
		h.logger.Warn("Database slow query detected",
			"duration", duration.Round(time.Microsecond),
			"slow_threshold", h.slowTime,
			"query", slowColor.Sprint(event.Query),
		)
	}
}

func colorQuery(event *bun.QueryEvent) string {
	if c, ok := operationColors[event.Operation()]; ok {
		return c.Sprint(event.Query)
	}
	return color.RedString(event.Query)
}
