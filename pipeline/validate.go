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
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

// ValidationFailure records an element dropped by Validate.
type ValidationFailure struct {
	Index int
	Item  any
	Err   error
}

func (f ValidationFailure) Error() string {
	return fmt.Sprintf("element %d (%s): %v", f.Index, format(f.Item), f.Err)
}

func (f ValidationFailure) Unwrap() error { return f.Err }

// Validate converts the elements of a into the schema type V.
//
// Elements of type V or *V are not trusted as they are: they go through struct
// validation again and are dropped when they fail it.
// Mappings are decoded into V by their json field names, with weak type
// conversion, and then validated. Every other element, and every element
// that fails, is dropped and recorded in Failures; Validate itself never
// fails the pipeline.
func Validate[T, V any](a *Array[T]) *Array[V] {
	out := &Array[V]{items: []V{}, err: a.err, cfg: a.cfg}
	out.failures = append(out.failures, a.failures...)
	if a.err != nil {
		return out
	}

	a.trace(Before, "validate")
	for i, item := range a.items {
		v, err := toSchema[V](item)
		if err != nil {
			failure := ValidationFailure{Index: i, Item: item, Err: err}
			log.WithFields(logrus.Fields{"index": i, "item": format(item)}).WithError(err).Warn("Validation error")
			out.failures = append(out.failures, failure)
			continue
		}
		out.items = append(out.items, v)
	}
	out.trace(After, "validate")
	return out
}

func toSchema[V any](item any) (V, error) {
	var v V
	switch x := item.(type) {
	case V:
		v = x
	case *V:
		if x == nil {
			return v, fmt.Errorf("%w: nil %T", ErrNotValidatable, item)
		}
		v = *x
	default:
		if rv := reflect.ValueOf(item); !rv.IsValid() || rv.Kind() != reflect.Map {
			return v, fmt.Errorf("%w: %T", ErrNotValidatable, item)
		}
		if err := decode(item, &v); err != nil {
			return v, err
		}
	}
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			return v, err
		}
	}
	return v, nil
}

func decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
