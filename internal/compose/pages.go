package compose

// PageItem is one entry in the pagination bar: a page number or a gap.
type PageItem struct {
	Number int
	Active bool
	Gap    bool
}

// PageNumbers lists the page links to show: the first and last pages, the
// current page and its neighbours, with a single gap wherever numbers are
// skipped. It returns nil when there is only one page.
func PageNumbers(current, total int) []PageItem {
	if total <= 1 {
		return nil
	}
	current = ClampPage(current, total)

	var items []PageItem
	last := 0
	for i := 1; i <= total; i++ {
		if i != 1 && i != total && (i < current-1 || i > current+1) {
			continue
		}
		if last != 0 && i-last > 1 {
			items = append(items, PageItem{Gap: true})
		}
		items = append(items, PageItem{Number: i, Active: i == current})
		last = i
	}
	return items
}

// Prev returns the previous page and whether there is one.
func Prev(current int) (int, bool) {
	return current - 1, current > 1
}

// Next returns the following page and whether there is one.
func Next(current, total int) (int, bool) {
	return current + 1, current < total
}
