// Package compose slices a filtered post list into pages and assigns each
// page's posts to the featured, grid and secondary regions.
package compose

import "github.com/TobiSchelling/newsstand/internal/catalog"

// gridSize is the number of grid posts that follow the featured post on
// the first page.
const gridSize = 3

// Layout is the region assignment for one page.
type Layout struct {
	Featured  *catalog.Post
	Grid      []catalog.Post
	Secondary []catalog.Post
}

// Empty reports whether the layout holds no posts at all.
func (l Layout) Empty() bool {
	return l.Featured == nil && len(l.Grid) == 0 && len(l.Secondary) == 0
}

// Compose builds the layout for page (1-based) of filtered. The page must
// already be clamped to [1, TotalPages]; out-of-range pages yield an empty
// layout.
func Compose(filtered []catalog.Post, pageSize, page int) Layout {
	window := Window(filtered, pageSize, page)
	l := Layout{Grid: []catalog.Post{}, Secondary: []catalog.Post{}}
	if len(window) == 0 {
		return l
	}

	if page != 1 {
		l.Grid = append(l.Grid, window...)
		return l
	}

	featured := window[0]
	l.Featured = &featured
	rest := window[1:]
	n := min(gridSize, len(rest))
	l.Grid = append(l.Grid, rest[:n]...)
	l.Secondary = append(l.Secondary, rest[n:]...)
	return l
}

// Window returns the posts that fall on page.
func Window(filtered []catalog.Post, pageSize, page int) []catalog.Post {
	if pageSize < 1 || page < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return nil
	}
	end := min(start+pageSize, len(filtered))
	return filtered[start:end]
}

// TotalPages is ceil(count/pageSize), never less than 1.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 || count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage limits page to [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	return max(1, min(page, total))
}
