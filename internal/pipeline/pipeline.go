// Package pipeline is the front end's controller: it owns the loaded
// catalog, the view counts and the article reader, and turns a query
// state into page view-models.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/TobiSchelling/newsstand/internal/article"
	"github.com/TobiSchelling/newsstand/internal/catalog"
	"github.com/TobiSchelling/newsstand/internal/config"
	"github.com/TobiSchelling/newsstand/internal/fetch"
	"github.com/TobiSchelling/newsstand/internal/markdown"
	"github.com/TobiSchelling/newsstand/internal/views"
)

// ErrNotFound is returned when a post id is not in the catalog.
var ErrNotFound = errors.New("post not found")

// StepResult holds the result of a single load step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full load.
type Result struct {
	Steps []StepResult
}

// Err returns the first step error, if any.
func (r *Result) Err() error {
	for _, s := range r.Steps {
		if s.Err != nil {
			return s.Err
		}
	}
	return nil
}

// Pipeline ties the catalog, view store and reader together.
type Pipeline struct {
	cfg     *config.Config
	fetcher catalog.Fetcher
	views   *views.Store
	reader  *article.Reader

	mu      sync.RWMutex
	posts   []catalog.Post
	loadErr error
}

// New creates a pipeline from configuration. View counts are kept in p.
func New(cfg *config.Config, p views.Persister) (*Pipeline, error) {
	renderer, err := markdown.New(cfg.Reader.Engine, cfg.Reader.Sanitize)
	if err != nil {
		return nil, err
	}

	var seeder views.Seeder
	switch cfg.Views.Seed {
	case "random":
		seeder = views.NewRandom(cfg.Views.RandSeed)
	default:
		seeder = views.Baseline{Value: cfg.Views.Baseline}
	}

	client := fetch.NewClient(cfg.FetchTimeout())
	return &Pipeline{
		cfg:     cfg,
		fetcher: client,
		views:   views.New(p, seeder),
		reader:  article.NewReader(client, cfg.ResolveRef(cfg.Posts.Dir), renderer),
	}, nil
}

// Load reads the catalog and seeds view counts for every post. A failed
// catalog load is kept: every later page renders the error state.
func (p *Pipeline) Load(ctx context.Context) *Result {
	r := &Result{}

	step := p.loadCatalog(ctx)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	r.Steps = append(r.Steps, p.seedViews())
	return r
}

func (p *Pipeline) loadCatalog(ctx context.Context) StepResult {
	source := p.cfg.ResolveRef(p.cfg.Catalog.Source)
	posts, err := catalog.Load(ctx, p.fetcher, source, p.cfg.Catalog.Format)

	p.mu.Lock()
	p.posts, p.loadErr = posts, err
	p.mu.Unlock()

	if err != nil {
		return StepResult{Name: "Load catalog", Err: err}
	}
	return StepResult{
		Name:    "Load catalog",
		Summary: fmt.Sprintf("Loaded %d posts in %d categories from %s", len(posts), len(catalog.Categories(posts)), source),
	}
}

func (p *Pipeline) seedViews() StepResult {
	posts := p.Posts()
	p.views.SeedAll(catalog.IDs(posts))
	return StepResult{
		Name:    "Seed views",
		Summary: fmt.Sprintf("View counts ready for %d posts", len(posts)),
	}
}

// Err returns the catalog load error, if any.
func (p *Pipeline) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadErr
}

// Posts returns the loaded posts, newest first. Callers must not modify
// the slice.
func (p *Pipeline) Posts() []catalog.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.posts
}

// Views returns the current count for id.
func (p *Pipeline) Views(id string) int {
	return p.views.Get(id)
}

// MostRead returns the n most viewed posts of the whole catalog.
func (p *Pipeline) MostRead(n int) []catalog.Post {
	return catalog.MostPopular(p.Posts(), p.views.Snapshot(), n)
}

// Open counts a view for the post and reads its article. The view is
// counted even when the article cannot be loaded.
func (p *Pipeline) Open(ctx context.Context, id string) (article.Article, error) {
	if err := p.Err(); err != nil {
		return article.Article{}, err
	}
	post, ok := catalog.Find(p.Posts(), id)
	if !ok {
		return article.Article{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	p.views.Increment(post.ID)
	return p.reader.Open(ctx, post)
}
