package catalog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// parseFeed maps an RSS/Atom document onto posts. Items without a title or
// a usable identifier are skipped; an item without a parseable date fails
// the whole feed, as it does for JSON catalogs.
func parseFeed(r io.Reader) ([]Post, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	posts := make([]Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		p, ok, err := feedPost(item)
		if err != nil {
			return nil, err
		}
		if ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func feedPost(item *gofeed.Item) (Post, bool, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return Post{}, false, nil
	}
	id := item.GUID
	if id == "" {
		id = item.Link
	}
	if id == "" {
		return Post{}, false, nil
	}

	var published time.Time
	switch {
	case item.PublishedParsed != nil:
		published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		published = *item.UpdatedParsed
	default:
		return Post{}, false, fmt.Errorf("%s: missing or invalid published date %q", id, orElse(item.Published, item.Updated))
	}

	categories := item.Categories
	if categories == nil {
		categories = []string{}
	}

	return Post{
		ID:          id,
		Title:       title,
		Excerpt:     stripHTML(item.Description),
		Categories:  categories,
		PublishedAt: published,
		ImageRef:    feedImage(item),
		ContentRef:  item.Link,
	}, true, nil
}

func feedImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

func stripHTML(text string) string {
	var b strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	s := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	).Replace(b.String())
	return strings.Join(strings.Fields(s), " ")
}
