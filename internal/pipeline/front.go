package pipeline

import (
	"github.com/TobiSchelling/newsstand/internal/catalog"
	"github.com/TobiSchelling/newsstand/internal/compose"
)

// FrontPage is everything needed to render one listing page.
type FrontPage struct {
	State       State
	Layout      compose.Layout
	Total       int
	TotalPages  int
	Pages       []compose.PageItem
	PrevPage    int
	HasPrev     bool
	NextPage    int
	HasNext     bool
	MostRead    []catalog.Post
	Breaking    *catalog.Post
	Breadcrumbs []string
	Categories  []string
	Views       map[string]int
	Empty       bool
	Err         error
}

// Front builds the listing page for state. When the catalog failed to
// load the page only carries the error.
func (p *Pipeline) Front(state State) FrontPage {
	if state.Category == "" {
		state.Category = catalog.AllCategories
	}
	if err := p.Err(); err != nil {
		return FrontPage{State: state, Err: err}
	}

	all := p.Posts()
	filtered := catalog.Filter(all, state.Category, state.Search)

	size := p.cfg.Pagination.PageSize
	total := compose.TotalPages(len(filtered), size)
	state.Page = compose.ClampPage(state.Page, total)

	fp := FrontPage{
		State:       state,
		Layout:      compose.Compose(filtered, size, state.Page),
		Total:       len(filtered),
		TotalPages:  total,
		Pages:       compose.PageNumbers(state.Page, total),
		MostRead:    p.MostRead(p.cfg.Pagination.MostRead),
		Breadcrumbs: breadcrumbs(state.Category),
		Categories:  catalog.Categories(all),
		Views:       map[string]int{},
	}
	fp.Empty = fp.Layout.Empty()
	fp.PrevPage, fp.HasPrev = compose.Prev(state.Page)
	fp.NextPage, fp.HasNext = compose.Next(state.Page, total)
	if len(all) > 0 {
		latest := all[0]
		fp.Breaking = &latest
	}

	l := fp.Layout
	if l.Featured != nil {
		fp.Views[l.Featured.ID] = p.views.Get(l.Featured.ID)
	}
	for _, group := range [][]catalog.Post{l.Grid, l.Secondary, fp.MostRead} {
		for _, post := range group {
			fp.Views[post.ID] = p.views.Get(post.ID)
		}
	}
	return fp
}

func breadcrumbs(category string) []string {
	crumbs := []string{"Inicio"}
	if category != catalog.AllCategories {
		crumbs = append(crumbs, category)
	}
	return crumbs
}
