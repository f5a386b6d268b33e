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

import "errors"

var (
	ErrEmpty           = errors.New("empty sequence")
	ErrNotFound        = errors.New("element not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotFlattenable  = errors.New("element not assignable to the sequence type")
	ErrNotValidatable  = errors.New("element is neither the schema type nor a mapping")
	ErrPanic           = errors.New("worker panicked")
)
