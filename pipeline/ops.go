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
	"reflect"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Map replaces each element with f(element).
func (a *Array[T]) Map(f func(T) T) *Array[T] {
	return a.step("map", func() error {
		for i, item := range a.items {
			a.items[i] = f(item)
		}
		return nil
	})
}

// Filter keeps the elements for which keep returns true.
func (a *Array[T]) Filter(keep func(T) bool) *Array[T] {
	return a.step("filter", func() error {
		a.items = slices.DeleteFunc(a.items, func(item T) bool { return !keep(item) })
		return nil
	})
}

// Append adds item to the end of the sequence.
func (a *Array[T]) Append(item T) *Array[T] {
	return a.step("append", func() error {
		a.items = append(a.items, item)
		return nil
	})
}

// Insert puts item before position index. Negative indices count from the
// end; positions outside the sequence are clamped to its bounds.
func (a *Array[T]) Insert(index int, item T) *Array[T] {
	return a.step("insert", func() error {
		n := len(a.items)
		if index < 0 {
			index = max(index+n, 0)
		}
		a.items = slices.Insert(a.items, min(index, n), item)
		return nil
	})
}

// Extend adds items to the end of the sequence.
func (a *Array[T]) Extend(items ...T) *Array[T] {
	return a.step("extend", func() error {
		a.items = append(a.items, items...)
		return nil
	})
}

// RemoveFunc removes the first element matching match. It fails with
// ErrNotFound when nothing matches.
func (a *Array[T]) RemoveFunc(match func(T) bool) *Array[T] {
	return a.step("remove", func() error {
		i := slices.IndexFunc(a.items, match)
		if i < 0 {
			return ErrNotFound
		}
		a.items = slices.Delete(a.items, i, i+1)
		return nil
	})
}

// Pop replaces the sequence with its element at index. Use -1 for the last
// element.
func (a *Array[T]) Pop(index int) *Array[T] {
	return a.step("pop", func() error {
		i, err := a.index(index)
		if err != nil {
			return err
		}
		a.items = []T{a.items[i]}
		return nil
	})
}

// SortFunc sorts the sequence by cmp, keeping equal elements in their
// original order. With reverse the order is descending.
func (a *Array[T]) SortFunc(cmp func(x, y T) int, reverse bool) *Array[T] {
	return a.step("sort", func() error {
		if reverse {
			slices.SortStableFunc(a.items, func(x, y T) int { return cmp(y, x) })
		} else {
			slices.SortStableFunc(a.items, cmp)
		}
		return nil
	})
}

// Reverse reverses the sequence in place.
func (a *Array[T]) Reverse() *Array[T] {
	return a.step("reverse", func() error {
		slices.Reverse(a.items)
		return nil
	})
}

// ForEach replaces each element with f(element), one element at a time in
// sequence order.
func (a *Array[T]) ForEach(f func(T) T) *Array[T] {
	return a.step("for_each", func() error {
		for i, item := range a.items {
			a.items[i] = f(item)
		}
		return nil
	})
}

// ApplyInParallel replaces each element with f(element), running f on a
// bounded pool of goroutines. Results keep their original positions. A
// panic in f fails the step with ErrPanic.
func (a *Array[T]) ApplyInParallel(f func(T) T) *Array[T] {
	return a.step("apply_in_parallel", func() error {
		results := make([]T, len(a.items))
		var g errgroup.Group
		g.SetLimit(a.cfg.poolSize())
		for i, item := range a.items {
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: element %d: %v", ErrPanic, i, r)
					}
				}()
				results[i] = f(item)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		a.items = results
		return nil
	})
}

// Flatten expands nested lists at any depth into one flat sequence. A slice
// or array is a list when its elements are interfaces or of type T, or when
// it cannot be stored as T; anything else, such as []byte in an Array[any],
// is a leaf. Every leaf must be assignable to T.
func (a *Array[T]) Flatten() *Array[T] {
	return a.step("flatten", func() error {
		flat := make([]T, 0, len(a.items))
		var err error
		for _, item := range a.items {
			if flat, err = flattenInto(flat, reflect.ValueOf(item)); err != nil {
				return err
			}
		}
		a.items = flat
		return nil
	})
}

func flattenInto[T any](out []T, v reflect.Value) ([]T, error) {
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	target := reflect.TypeFor[T]()
	switch {
	case !v.IsValid() || v.Kind() == reflect.Interface:
		if target.Kind() != reflect.Interface {
			return nil, fmt.Errorf("%w: nil", ErrNotFlattenable)
		}
		var zero T
		return append(out, zero), nil
	case isList(v.Type(), target):
		var err error
		for i := range v.Len() {
			if out, err = flattenInto(out, v.Index(i)); err != nil {
				return nil, err
			}
		}
		return out, nil
	case !v.Type().AssignableTo(target):
		return nil, fmt.Errorf("%w: %s", ErrNotFlattenable, v.Type())
	}
	return append(out, v.Interface().(T)), nil
}

func isList(t, target reflect.Type) bool {
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return false
	}
	return t.Elem().Kind() == reflect.Interface || t.Elem() == target || !t.AssignableTo(target)
}

// MaxFunc replaces the sequence with its first maximal element by cmp. It
// fails with ErrEmpty on an empty sequence.
func (a *Array[T]) MaxFunc(cmp func(x, y T) int) *Array[T] {
	return a.step("max", func() error {
		if len(a.items) == 0 {
			return ErrEmpty
		}
		a.items = []T{slices.MaxFunc(a.items, cmp)}
		return nil
	})
}
