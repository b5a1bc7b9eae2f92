package pipeline

import (
	"github.com/TobiSchelling/newsstand/internal/catalog"
	"github.com/sahilm/fuzzy"
)

// Suggest returns up to n category labels and post titles that fuzzily
// match term, best match first.
func (p *Pipeline) Suggest(term string, n int) []string {
	if term == "" {
		return nil
	}
	candidates := suggestCandidates(p.Posts())
	matches := fuzzy.Find(term, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}
	out := make([]string, limit)
	for i := range limit {
		out[i] = matches[i].Str
	}
	return out
}

func suggestCandidates(posts []catalog.Post) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, c := range catalog.Categories(posts) {
		add(c)
	}
	for _, p := range posts {
		add(p.Title)
	}
	return out
}
