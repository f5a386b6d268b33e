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

package types

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PageRequest describes a page window, optional equality filters, and ordering.
type PageRequest struct {
	page     int
	pageSize int
	match    map[string]any
	orders   []string // "id ASC", "name DESC"
}

// GetPageSize returns the page size, falling back to DefaultPageSize when
// the requested size is below 1.
func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = DefaultPageSize
	}
	return p.pageSize
}

// GetPage returns the one-based page number. Page numbers below 1 are
// clamped to the first page so the offset is never negative.
func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = DefaultPage
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetMatch() map[string]any {
	return p.match
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// NewPageRequest constructs a PageRequest with match and order settings.
func NewPageRequest(page int, pageSize int, match map[string]any, orders []string) *PageRequest {
	return &PageRequest{page, pageSize, match, orders}
}

// NewPageRequestWithMatch constructs a PageRequest with equality filters only.
func NewPageRequestWithMatch(page int, pageSize int, match map[string]any) *PageRequest {
	return NewPageRequest(page, pageSize, match, nil)
}

// NewPageRequestWithOrders constructs a PageRequest with ordering only.
func NewPageRequestWithOrders(page int, pageSize int, orders []string) *PageRequest {
	return NewPageRequest(page, pageSize, nil, orders)
}

// NewDefaultPageRequest constructs a PageRequest with no filter or ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, nil, nil)
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}
