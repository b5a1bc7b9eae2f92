// Package catalog loads the post collection and derives filtered views of it.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/TobiSchelling/newsstand/internal/fetch"
)

// ErrDataUnavailable is returned when the catalog cannot be fetched or parsed.
var ErrDataUnavailable = errors.New("catalog data unavailable")

// Catalog formats.
const (
	FormatJSON = "json"
	FormatFeed = "feed"
)

// Post is one article record. Posts are immutable after Load.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Categories  []string  `json:"categories"`
	PublishedAt time.Time `json:"publishedAt"`
	ImageRef    string    `json:"imageRef"`
	ContentRef  string    `json:"contentRef"`
}

// HasCategory reports whether the post carries label exactly.
func (p Post) HasCategory(label string) bool {
	return slices.Contains(p.Categories, label)
}

// Fetcher retrieves a raw resource by reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (*fetch.Resource, error)
}

// Load fetches the catalog at source and returns its posts, most recent
// first. Posts published at the same instant keep their source order.
// Every failure wraps ErrDataUnavailable.
func Load(ctx context.Context, f Fetcher, source, format string) ([]Post, error) {
	res, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	var posts []Post
	switch format {
	case FormatFeed:
		posts, err = parseFeed(bytes.NewReader(res.Body))
	case "", FormatJSON:
		posts, err = parseJSON(res.Body)
	default:
		err = fmt.Errorf("unknown catalog format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	if err := checkUnique(posts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	SortByDate(posts)
	return posts, nil
}

// SortByDate orders posts newest first, keeping source order for ties.
func SortByDate(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}

// rawPost accepts both the current field names and the legacy ones
// (category, date, image, contentFile).
type rawPost struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Categories  []string `json:"categories"`
	Category    []string `json:"category"`
	PublishedAt string   `json:"publishedAt"`
	Date        string   `json:"date"`
	ImageRef    string   `json:"imageRef"`
	Image       string   `json:"image"`
	ContentRef  string   `json:"contentRef"`
	ContentFile string   `json:"contentFile"`
}

type document struct {
	Posts []rawPost `json:"posts"`
}

func parseJSON(data []byte) ([]Post, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	posts := make([]Post, 0, len(doc.Posts))
	for i, raw := range doc.Posts {
		p, err := raw.post()
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r rawPost) post() (Post, error) {
	p := Post{
		ID:         r.ID,
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Categories: firstNonEmpty(r.Categories, r.Category),
		ImageRef:   orElse(r.ImageRef, r.Image),
		ContentRef: orElse(r.ContentRef, r.ContentFile),
	}
	if p.ID == "" {
		p.ID = p.ContentRef
	}
	if p.ID == "" {
		return Post{}, errors.New("missing id and contentRef")
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}

	date := orElse(r.PublishedAt, r.Date)
	if date == "" {
		return Post{}, fmt.Errorf("%s: missing publishedAt", p.ID)
	}
	t, err := dateparse.ParseAny(date)
	if err != nil {
		return Post{}, fmt.Errorf("%s: publishedAt %q: %w", p.ID, date, err)
	}
	p.PublishedAt = t
	return p, nil
}

func checkUnique(posts []Post) error {
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate post id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func orElse(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func firstNonEmpty(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}
