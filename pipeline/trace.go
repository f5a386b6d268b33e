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

package pipeline

import (
	"fmt"
	"strings"

	"github.com/tomoncle/crudkit/utils"
)

var log = utils.NewLogger("PIPELINE")

type Phase string

const (
	Before Phase = "BEFORE"
	After  Phase = "AFTER"
)

// Tracer observes the sequence around every step. It receives formatted
// copies of the elements and cannot change them.
type Tracer interface {
	Trace(phase Phase, step string, items []string)
}

type TracerFunc func(phase Phase, step string, items []string)

func (f TracerFunc) Trace(phase Phase, step string, items []string) { f(phase, step, items) }

type logTracer struct{}

func (logTracer) Trace(phase Phase, step string, items []string) {
	log.Debugf("[%s] %s: [%s]", phase, step, strings.Join(items, ", "))
}

// format renders one element. A panicking String or Error method yields a
// placeholder instead of propagating.
func format(item any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<Unrepresentable Object: %v>", r)
		}
	}()
	switch v := item.(type) {
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}
	return fmt.Sprintf("%v", item)
}

func formatAll[T any](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = format(item)
	}
	return out
}
