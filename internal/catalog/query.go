package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// AllCategories selects every post.
const AllCategories = "all"

// Filter returns the posts in category whose title, excerpt or one of
// whose category labels contains term, case-insensitively. An empty term
// matches everything. The result is a fresh slice in the input order.
func Filter(all []Post, category, term string) []Post {
	term = strings.ToLower(term)
	out := make([]Post, 0, len(all))
	for _, p := range all {
		if category != AllCategories && !p.HasCategory(category) {
			continue
		}
		if term != "" && !matches(p, term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p Post, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Excerpt), term) {
		return true
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}

// MostPopular returns up to n posts ordered by descending view count.
// Posts with equal counts keep their order in all; missing ids count as 0.
func MostPopular(all []Post, counts map[string]int, n int) []Post {
	sorted := slices.Clone(all)
	slices.SortStableFunc(sorted, func(a, b Post) int {
		return cmp.Compare(counts[b.ID], counts[a.ID])
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Categories lists every distinct label in order of first appearance.
func Categories(all []Post) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range all {
		for _, c := range p.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Find returns the post with the given id.
func Find(all []Post, id string) (Post, bool) {
	i := slices.IndexFunc(all, func(p Post) bool { return p.ID == id })
	if i < 0 {
		return Post{}, false
	}
	return all[i], true
}

// IDs returns the ids of posts in order.
func IDs(posts []Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
