// Package article loads and renders full article bodies.
package article

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/TobiSchelling/newsstand/internal/catalog"
	"github.com/TobiSchelling/newsstand/internal/fetch"
	"github.com/TobiSchelling/newsstand/internal/markdown"
)

var (
	// ErrArticleUnavailable is returned when a post's content cannot be
	// fetched. The catalog stays usable.
	ErrArticleUnavailable = errors.New("article unavailable")

	// ErrSuperseded is returned when another Open started before this one
	// finished. The late response is discarded.
	ErrSuperseded = errors.New("article request superseded")
)

// Source returns the raw text behind a content reference.
type Source interface {
	Text(ctx context.Context, ref string) (string, error)
}

// Article is a rendered post body.
type Article struct {
	Post catalog.Post
	Ref  string
	Raw  string
	HTML string
}

// Reader fetches article sources relative to a base directory or URL and
// renders them. Only the most recent Open may deliver a result.
type Reader struct {
	src      Source
	base     string
	renderer markdown.Renderer
	gen      atomic.Uint64
}

// NewReader creates a Reader. A nil renderer uses the basic Markdown
// renderer.
func NewReader(src Source, base string, r markdown.Renderer) *Reader {
	if r == nil {
		r = markdown.NewBasic()
	}
	return &Reader{src: src, base: base, renderer: r}
}

// Open fetches and renders the content of post.
func (r *Reader) Open(ctx context.Context, post catalog.Post) (Article, error) {
	token := r.gen.Add(1)

	ref := fetch.Join(r.base, post.ContentRef)
	raw, err := r.src.Text(ctx, ref)
	if r.gen.Load() != token {
		return Article{}, ErrSuperseded
	}
	if err != nil {
		return Article{}, fmt.Errorf("%w: %s: %v", ErrArticleUnavailable, post.ID, err)
	}

	return Article{
		Post: post,
		Ref:  ref,
		Raw:  raw,
		HTML: r.renderer.Render(raw),
	}, nil
}
