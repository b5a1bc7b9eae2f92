package pipeline

import (
	"strings"

	"github.com/TobiSchelling/newsstand/internal/catalog"
)

// State is the user's current query: category, search term and page.
type State struct {
	Category string
	Search   string
	Page     int
}

// NewState returns the initial state: every category, no search, page 1.
func NewState() State {
	return State{Category: catalog.AllCategories, Page: 1}
}

// WithCategory selects a category and returns to the first page.
func (s State) WithCategory(category string) State {
	if category == "" {
		category = catalog.AllCategories
	}
	s.Category = category
	s.Page = 1
	return s
}

// WithSearch sets the search term and returns to the first page.
func (s State) WithSearch(term string) State {
	s.Search = strings.ToLower(term)
	s.Page = 1
	return s
}

// WithPage moves to page. The page is clamped when the front page is built.
func (s State) WithPage(page int) State {
	s.Page = page
	return s
}
