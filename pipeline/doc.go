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

// Package pipeline provides Array, a chainable in-memory sequence for ad-hoc
// data shaping.
//
//	total, err := pipeline.Sum(pipeline.Of(1, 2, 3, 4, 5).
//		Reverse().
//		Insert(2, 10).
//		Filter(func(n int) bool { return n > 1 })).At(0)
//
// Every step rewrites the sequence in place and returns the same Array.
// Errors are sticky: once a step fails, later steps are skipped and Build
// reports the first error.
//
// An Array created WithDebug(true) logs the sequence before and after every
// step through the PIPELINE logger at debug level.
package pipeline
