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

package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/tomoncle/crudkit"
	"github.com/tomoncle/crudkit/pipeline"
	"gopkg.in/yaml.v3"
)

type UseCase = crudkit.UseCase[Category, CategoryWrite, CategoryRead]

// SeedFile is the document read by LoadSeed:
//
//	categories:
//	  - name: Books
//	  - name: Fiction
//	    parent_id: 1
type SeedFile struct {
	Categories []map[string]any `yaml:"categories"`
}

// LoadSeed decodes a seed document.
func LoadSeed(r io.Reader) ([]map[string]any, error) {
	var file SeedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return file.Categories, nil
}

// SeedResult lists the categories created by Seed and the rows it skipped.
type SeedResult struct {
	Created  []CategoryRead
	Failures []pipeline.ValidationFailure
}

// Seed validates rows into write DTOs and creates them in order. Rows that
// fail validation are reported in Failures and skipped; the first storage
// error stops the seed.
func Seed(ctx context.Context, uc *UseCase, rows []map[string]any, opts ...pipeline.Option) (*SeedResult, error) {
	valid := pipeline.Validate[map[string]any, CategoryWrite](pipeline.From(rows, opts...))
	writes, err := valid.Build()
	if err != nil {
		return nil, err
	}

	result := &SeedResult{Failures: valid.Failures()}
	for _, w := range writes {
		resp, err := uc.WriteEntity(ctx, crudkit.WriteEntityRequest[CategoryWrite]{Entity: w}, nil)
		if err != nil {
			return result, fmt.Errorf("failed to seed category %d: %w", len(result.Created), err)
		}
		result.Created = append(result.Created, resp.Entity)
	}
	return result, nil
}
