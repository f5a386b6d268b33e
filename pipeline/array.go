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
	"iter"
	"runtime"
	"slices"
	"strings"
)

// Array is an ordered sequence owned by one pipeline. It is not safe for
// concurrent use.
type Array[T any] struct {
	items    []T
	err      error
	failures []ValidationFailure
	cfg      config
}

type config struct {
	tracer  Tracer
	workers int
}

type Option func(*config)

// WithDebug turns step tracing through the PIPELINE logger on or off.
func WithDebug(enabled bool) Option {
	return func(c *config) {
		if enabled {
			c.tracer = logTracer{}
		} else {
			c.tracer = nil
		}
	}
}

// WithTracer installs a custom step tracer. A nil tracer disables tracing.
func WithTracer(t Tracer) Option {
	return func(c *config) { c.tracer = t }
}

// WithWorkers bounds the goroutines used by ApplyInParallel. Values below 1
// restore the default of min(32, NumCPU+4).
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) poolSize() int {
	if c.workers > 0 {
		return c.workers
	}
	return min(32, runtime.NumCPU()+4)
}

// New returns an empty Array.
func New[T any](opts ...Option) *Array[T] {
	return &Array[T]{items: []T{}, cfg: newConfig(opts)}
}

// Of returns an Array holding items. Options are set with Configure, or by
// passing the items to From.
func Of[T any](items ...T) *Array[T] {
	return From(items)
}

// From returns an Array holding a copy of items.
func From[T any](items []T, opts ...Option) *Array[T] {
	cloned := make([]T, len(items))
	copy(cloned, items)
	return &Array[T]{items: cloned, cfg: newConfig(opts)}
}

// Collect returns an Array holding every value of seq.
func Collect[T any](seq iter.Seq[T], opts ...Option) *Array[T] {
	items := slices.Collect(seq)
	if items == nil {
		items = []T{}
	}
	return &Array[T]{items: items, cfg: newConfig(opts)}
}

// Configure applies opts to a.
func (a *Array[T]) Configure(opts ...Option) *Array[T] {
	for _, opt := range opts {
		opt(&a.cfg)
	}
	return a
}

// step runs fn unless an earlier step failed, tracing the sequence around it.
func (a *Array[T]) step(name string, fn func() error) *Array[T] {
	if a.err != nil {
		return a
	}
	a.trace(Before, name)
	if err := fn(); err != nil {
		a.err = fmt.Errorf("%s: %w", name, err)
		return a
	}
	a.trace(After, name)
	return a
}

func (a *Array[T]) trace(phase Phase, name string) {
	if a.cfg.tracer != nil {
		a.cfg.tracer.Trace(phase, name, formatAll(a.items))
	}
}

// Build returns the sequence, or the first error recorded by a step.
func (a *Array[T]) Build() ([]T, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.items, nil
}

// At returns the element at index. Negative indices count from the end.
func (a *Array[T]) At(index int) (T, error) {
	var zero T
	if a.err != nil {
		return zero, a.err
	}
	i, err := a.index(index)
	if err != nil {
		return zero, err
	}
	return a.items[i], nil
}

// Err returns the first error recorded by a step.
func (a *Array[T]) Err() error { return a.err }

// Len returns the number of elements.
func (a *Array[T]) Len() int { return len(a.items) }

// Failures returns the elements dropped by Validate, in input order.
func (a *Array[T]) Failures() []ValidationFailure { return a.failures }

// String formats the sequence like a list literal.
func (a *Array[T]) String() string {
	return "[" + strings.Join(formatAll(a.items), ", ") + "]"
}

func (a *Array[T]) index(index int) (int, error) {
	n := len(a.items)
	if n == 0 {
		return 0, ErrEmpty
	}
	i := index
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, index, n)
	}
	return i, nil
}
