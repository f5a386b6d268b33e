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

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	ConfigureConsoleOutput(&buf)
	t.Cleanup(func() { ConfigureConsoleOutput(os.Stdout) })
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		"DEBUG":   logrus.DebugLevel,
		" info ":  logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestNewLoggerIsRegisteredOnce(t *testing.T) {
	a := NewLogger("REGISTRY")
	b := NewLogger("REGISTRY")
	assert.Same(t, a, b)

	assert.True(t, SetLoggerLevel("REGISTRY", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("NO-SUCH-LOGGER", "error"))
}

func TestTextFormat(t *testing.T) {
	buf := captureOutput(t)
	l := NewLogger("TEXT")
	l.SetLevel(logrus.DebugLevel)

	l.WithField("entity_id", 7).Info("entity written")

	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "TEXT")
	assert.Contains(t, line, "entity written entity_id=7")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t)
	ConfigureConsoleLogFormat("json")
	t.Cleanup(func() { ConfigureConsoleLogFormat("text") })

	l := NewLogger("JSON")
	l.SetLevel(logrus.DebugLevel)
	l.WithFields(logrus.Fields{
		"req_method":  "GET",
		"req_uri":     "/categories",
		"status_code": 200,
		"rows":        3,
	}).WithError(errors.New("boom")).Warn("request")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "JSON", rec["model"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/categories", rec["path"])
	assert.EqualValues(t, 200, rec["status_code"])
	fields := rec["fields"].(map[string]any)
	assert.EqualValues(t, 3, fields["rows"])
	assert.Equal(t, "boom", fields["error"])
}

func TestConfigureLogLevelAppliesToRegistered(t *testing.T) {
	l := NewLogger("LEVELS")
	ConfigureLogLevel("warn")
	t.Cleanup(func() { ConfigureLogLevel("debug") })

	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.Equal(t, logrus.WarnLevel, NewLogger("LEVELS-LATER").GetLevel())
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("CRUDKIT_TEST_STRING", "value")
	t.Setenv("CRUDKIT_TEST_BOOL", "true")
	t.Setenv("CRUDKIT_TEST_BAD_BOOL", "maybe")

	assert.Equal(t, "value", EnvDefaultString("CRUDKIT_TEST_STRING", "def"))
	assert.Equal(t, "def", EnvDefaultString("CRUDKIT_TEST_UNSET", "def"))
	assert.True(t, EnvDefaultBool("CRUDKIT_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("CRUDKIT_TEST_BAD_BOOL", true))
	assert.False(t, EnvDefaultBool("CRUDKIT_TEST_UNSET", false))
}
