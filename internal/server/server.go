// Package server renders the news front end over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/newsstand/internal/article"
	"github.com/TobiSchelling/newsstand/internal/catalog"
	"github.com/TobiSchelling/newsstand/internal/config"
	"github.com/TobiSchelling/newsstand/internal/fetch"
	"github.com/TobiSchelling/newsstand/internal/pipeline"
	"github.com/TobiSchelling/newsstand/internal/present"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

const (
	msgDataUnavailable    = "No se pudieron cargar las noticias. Por favor, intenta más tarde."
	msgArticleUnavailable = "No se pudo cargar el artículo completo."
	msgNotFound           = "La noticia que buscas no existe."
	msgSuperseded         = "Se abrió otro artículo antes de que este terminara de cargar."
)

// suggestLimit caps the number of search suggestions returned.
const suggestLimit = 8

// Server is the HTTP server for the news front end.
type Server struct {
	cfg   *config.Config
	p     *pipeline.Pipeline
	pages map[string]*template.Template
	mux   *http.ServeMux
	now   func() time.Time
}

// New creates a new Server over a loaded pipeline.
func New(cfg *config.Config, p *pipeline.Pipeline) (*Server, error) {
	s := &Server{cfg: cfg, p: p, mux: http.NewServeMux(), now: time.Now}

	funcMap := template.FuncMap{
		"upper":        present.Upper,
		"color":        present.CategoryColor,
		"readTime":     present.ReadTime,
		"formatNumber": present.FormatNumber,
		"comma":        present.Comma,
		"shortDate":    present.ShortDate,
		"timeAgo":      func(t time.Time) string { return present.TimeAgo(t, s.now()) },
		"isNew":        func(t time.Time) bool { return present.IsNew(t, s.now()) },
		"image":        s.imageURL,
		"postURL":      postURL,
		"categoryURL":  categoryURL,
		"add":          func(a, b int) int { return a + b },
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page gets its own clone of the base so that "title" and
	// "content" can be redefined per page.
	pageNames := []string{"index.html", "post.html", "error.html"}
	s.pages = make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		s.pages[name] = clone
	}

	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /post/{id}", s.handlePost)
	s.mux.HandleFunc("GET /images/{name...}", s.handleImage)
	s.mux.HandleFunc("GET /api/posts", s.handleAPIPosts)
	s.mux.HandleFunc("GET /api/suggest", s.handleAPISuggest)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// chrome is the header and navigation data every page shares.
type chrome struct {
	Site     string
	Today    string
	Debounce int64
	Fallback string
	Nav      []string
	Active   string
	Query    string
}

func (s *Server) chromeFor(active, query string) chrome {
	return chrome{
		Site:     s.cfg.Site.Title,
		Today:    present.LongDate(s.now()),
		Debounce: s.cfg.DebounceDuration().Milliseconds(),
		Fallback: s.cfg.Images.Fallback,
		Nav:      catalog.Categories(s.p.Posts()),
		Active:   active,
		Query:    query,
	}
}

type indexView struct {
	chrome
	pipeline.FrontPage
}

// PageURL links to page n of the current category and search.
func (v indexView) PageURL(n int) string {
	q := url.Values{}
	if v.State.Category != catalog.AllCategories {
		q.Set("category", v.State.Category)
	}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	if n > 1 {
		q.Set("page", strconv.Itoa(n))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := stateFromQuery(r.URL.Query())
	fp := s.p.Front(state)
	if fp.Err != nil {
		s.renderError(w, http.StatusServiceUnavailable, msgDataUnavailable, false)
		return
	}

	s.render(w, http.StatusOK, "index.html", indexView{
		chrome:    s.chromeFor(fp.State.Category, r.URL.Query().Get("q")),
		FrontPage: fp,
	})
}

func stateFromQuery(q url.Values) pipeline.State {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	return pipeline.NewState().
		WithCategory(q.Get("category")).
		WithSearch(q.Get("q")).
		WithPage(page)
}

type postView struct {
	chrome
	Article article.Article
	Body    template.HTML
	Views   int
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, err := s.p.Open(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrDataUnavailable):
		s.renderError(w, http.StatusServiceUnavailable, msgDataUnavailable, false)
		return
	case errors.Is(err, pipeline.ErrNotFound):
		s.renderError(w, http.StatusNotFound, msgNotFound, true)
		return
	case errors.Is(err, article.ErrSuperseded):
		s.renderError(w, http.StatusConflict, msgSuperseded, true)
		return
	default:
		log.Printf("Opening %s: %v", id, err)
		s.renderError(w, http.StatusBadGateway, msgArticleUnavailable, true)
		return
	}

	s.render(w, http.StatusOK, "post.html", postView{
		chrome:  s.chromeFor("", ""),
		Article: a,
		Body:    template.HTML(a.HTML), //nolint: gosec
		Views:   s.p.Views(a.Post.ID),
	})
}

type errorView struct {
	chrome
	Status  int
	Message string
	Back    bool
}

func (s *Server) renderError(w http.ResponseWriter, status int, msg string, back bool) {
	s.render(w, status, "error.html", errorView{
		chrome:  s.chromeFor("", ""),
		Status:  status,
		Message: msg,
		Back:    back,
	})
}

// handleImage serves site images, redirecting to the fallback image when
// the file does not exist.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	base := s.cfg.ResolveRef(s.cfg.Images.Dir)
	if config.IsURL(base) {
		http.Redirect(w, r, fetch.Join(base, name), http.StatusFound)
		return
	}

	fsys := os.DirFS(base)
	if info, err := fs.Stat(fsys, name); err != nil || info.IsDir() {
		http.Redirect(w, r, s.cfg.Images.Fallback, http.StatusFound)
		return
	}
	http.ServeFileFS(w, r, fsys, name)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.p.Err(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "posts": len(s.p.Posts())})
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func (s *Server) imageURL(ref string) string {
	switch {
	case ref == "":
		return s.cfg.Images.Fallback
	case config.IsURL(ref):
		return ref
	}
	return "/images/" + ref
}

func postURL(id string) string {
	return "/post/" + url.PathEscape(id)
}

func categoryURL(category string) string {
	if category == "" || category == catalog.AllCategories {
		return "/"
	}
	return "/?category=" + url.QueryEscape(category)
}

// Serve runs the HTTP server on 127.0.0.1:port until ctx is cancelled,
// then shuts it down gracefully.
func Serve(ctx context.Context, srv *Server, port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on http://%s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
