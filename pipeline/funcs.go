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
	"cmp"
)

// Summable is satisfied by the types Sum can add.
type Summable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~complex64 | ~complex128 | ~string
}

// MapTo returns a new Array holding f of every element of a. The new Array
// keeps the options, failures and error of a.
func MapTo[T, U any](a *Array[T], f func(T) U) *Array[U] {
	out := &Array[U]{items: []U{}, err: a.err, failures: a.failures, cfg: a.cfg}
	if a.err != nil {
		return out
	}
	a.trace(Before, "map_to")
	for _, item := range a.items {
		out.items = append(out.items, f(item))
	}
	out.trace(After, "map_to")
	return out
}

// Sum replaces the sequence with the sum of its elements. Strings are
// concatenated. The sum of an empty sequence is the zero value.
func Sum[T Summable](a *Array[T]) *Array[T] {
	return a.step("sum", func() error {
		var total T
		for _, item := range a.items {
			total += item
		}
		a.items = []T{total}
		return nil
	})
}

// Max replaces the sequence with its first maximal element.
func Max[T cmp.Ordered](a *Array[T]) *Array[T] {
	return a.MaxFunc(cmp.Compare[T])
}

// Sort sorts the sequence in ascending order, or descending with reverse.
func Sort[T cmp.Ordered](a *Array[T], reverse bool) *Array[T] {
	return a.SortFunc(cmp.Compare[T], reverse)
}

// Remove removes the first element equal to item.
func Remove[T comparable](a *Array[T], item T) *Array[T] {
	return a.RemoveFunc(func(x T) bool { return x == item })
}

// RemoveDuplicates keeps one element of each distinct value. Callers must not
// rely on the resulting order.
func RemoveDuplicates[T comparable](a *Array[T]) *Array[T] {
	return a.step("remove_duplicates", func() error {
		seen := make(map[T]struct{}, len(a.items))
		unique := a.items[:0]
		for _, item := range a.items {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			unique = append(unique, item)
		}
		a.items = unique
		return nil
	})
}
