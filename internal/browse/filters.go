// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package browse holds the state behind the character browsing screens.

  - Filters: the search box and the selected page.
  - Listing: one page of characters with its loading, error and rate-limit flags.

Both are explicit values owned by the caller and safe for concurrent use.
*/
package browse

import "sync"

// Filters is the search query and the selected page.
type Filters struct {
	mu          sync.Mutex
	searchQuery string
	page        int
}

// NewFilters returns filters on page 1 with an empty query.
func NewFilters() *Filters {
	return &Filters{page: 1}
}

// SearchQuery returns the current query.
func (filters *Filters) SearchQuery() string {
	filters.mu.Lock()
	defer filters.mu.Unlock()
	return filters.searchQuery
}

// Page returns the selected page.
func (filters *Filters) Page() int {
	filters.mu.Lock()
	defer filters.mu.Unlock()
	return filters.page
}

// SetSearchQuery changes the query and goes back to page 1.
func (filters *Filters) SetSearchQuery(query string) {
	filters.mu.Lock()
	defer filters.mu.Unlock()
	filters.searchQuery = query
	filters.page = 1
}

// SetPage selects a page.
func (filters *Filters) SetPage(page int) {
	filters.mu.Lock()
	defer filters.mu.Unlock()
	filters.page = page
}

// Reset clears the query and goes back to page 1.
func (filters *Filters) Reset() {
	filters.mu.Lock()
	defer filters.mu.Unlock()
	filters.searchQuery = ""
	filters.page = 1
}
