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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=0"`
}

type needsA struct {
	A int `json:"a" validate:"required"`
}

func TestValidateDropsInvalidMappings(t *testing.T) {
	a := Validate[map[string]any, needsA](Of(map[string]any{"a": 1}, map[string]any{"bad": "x"}))

	items, err := a.Build()
	require.NoError(t, err)
	assert.Equal(t, []needsA{{A: 1}}, items)
	require.Len(t, a.Failures(), 1)
	assert.Equal(t, 1, a.Failures()[0].Index)
	assert.Error(t, a.Failures()[0].Err)
}

func TestValidateMixedElements(t *testing.T) {
	in := Of[any](
		map[string]any{"name": "Alice", "age": "20"},
		user{Name: "Bob", Age: 30},
		&user{Name: "Carol", Age: 40},
		user{Age: 1},
		(*user)(nil),
		42,
	)

	a := Validate[any, user](in)
	items, err := a.Build()
	require.NoError(t, err)
	assert.Equal(t, []user{{"Alice", 20}, {"Bob", 30}, {"Carol", 40}}, items)

	failed := make([]int, 0, len(a.Failures()))
	for _, f := range a.Failures() {
		failed = append(failed, f.Index)
	}
	assert.Equal(t, []int{3, 4, 5}, failed)
	assert.ErrorIs(t, a.Failures()[2], ErrNotValidatable)
}

func TestValidateRechecksSchemaValues(t *testing.T) {
	a := Validate[user, user](Of(user{Name: "Ann", Age: 3}, user{Name: "Ben", Age: -1}, user{Age: 7}))

	items, err := a.Build()
	require.NoError(t, err)
	assert.Equal(t, []user{{"Ann", 3}}, items)
	require.Len(t, a.Failures(), 2)
	assert.Equal(t, user{Name: "Ben", Age: -1}, a.Failures()[0].Item)
	assert.Equal(t, 2, a.Failures()[1].Index)
}

func TestValidateChainsIntoOtherSteps(t *testing.T) {
	users := Of(
		map[string]any{"name": "Alice", "age": 20},
		map[string]any{"name": "Bob", "age": 30},
		map[string]any{"name": "Carol", "age": 40},
		map[string]any{"name": "Dave", "age": 25},
	)

	got, err := Validate[map[string]any, user](users).
		Filter(func(u user) bool { return u.Age > 25 }).
		SortFunc(func(x, y user) int { return x.Age - y.Age }, false).
		Reverse().
		Build()
	require.NoError(t, err)
	assert.Equal(t, []user{{"Carol", 40}, {"Bob", 30}}, got)
}

func TestValidateKeepsEarlierError(t *testing.T) {
	a := Validate[int, user](Max(New[int]()))
	_, err := a.Build()
	assert.ErrorIs(t, err, ErrEmpty)
}
