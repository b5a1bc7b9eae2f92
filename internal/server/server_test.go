package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TobiSchelling/newsstand/internal/config"
	"github.com/TobiSchelling/newsstand/internal/database"
	"github.com/TobiSchelling/newsstand/internal/pipeline"
)

const testCatalog = `{
  "posts": [
    {"id": "elecciones", "title": "Elecciones anticipadas", "excerpt": "El congreso decide", "categories": ["Política"], "publishedAt": "2026-02-06T10:00:00Z", "imageRef": "elecciones.jpg", "contentRef": "elecciones.md"},
    {"id": "copa", "title": "Final de copa", "excerpt": "Gol en el último minuto", "categories": ["Deportes"], "publishedAt": "2026-02-05T10:00:00Z", "imageRef": "copa.jpg", "contentRef": "copa.md"},
    {"id": "inflacion", "title": "Inflación baja", "excerpt": "Datos del trimestre", "categories": ["Economía"], "publishedAt": "2026-02-04T10:00:00Z"},
    {"id": "chip", "title": "Nuevo chip cuántico", "excerpt": "Avance en computación", "categories": ["Tecnología", "Ciencia"], "publishedAt": "2026-02-03T10:00:00Z"},
    {"id": "museo", "title": "Museo reabre", "excerpt": "Arte moderno", "categories": ["Cultura"], "publishedAt": "2026-02-02T10:00:00Z"},
    {"id": "cumbre", "title": "Cumbre en Bruselas", "excerpt": "Acuerdo europeo", "categories": ["Internacional"], "publishedAt": "2026-02-01T10:00:00Z"},
    {"id": "robots", "title": "Robots en casa", "excerpt": "Hogar conectado", "categories": ["Tecnología"], "publishedAt": "2026-01-31T10:00:00Z"}
  ]
}`

func writeSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"data/posts.json":       testCatalog,
		"posts/elecciones.md":   "# Elecciones\n\nUna jornada **histórica**.",
		"images/elecciones.jpg": "fake-jpeg",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newTestServer(t *testing.T, root string) (*Server, *pipeline.Pipeline) {
	t.Helper()
	cfg := config.Default()
	cfg.Site.Root = root

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	p, err := pipeline.New(cfg, db)
	if err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}
	p.Load(context.Background())

	srv, err := New(cfg, p)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	srv.now = func() time.Time { return time.Date(2026, 2, 6, 20, 0, 0, 0, time.UTC) }
	return srv, p
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexRoute(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"El Diario",
		"Viernes, 6 de febrero de 2026",
		"ELECCIONES ANTICIPADAS",
		"Hace 10 horas",
		"Lo más leído",
		"Siguiente ›",
		`href="/?page=2"`,
		"bg-red-600",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in response body", want)
		}
	}
	if strings.Contains(body, "ROBOTS EN CASA") {
		t.Error("expected the seventh post to be on page 2")
	}
}

func TestIndexSecondPage(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/?page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "ROBOTS EN CASA") {
		t.Error("expected the seventh post on page 2")
	}
	if !strings.Contains(body, "‹ Anterior") {
		t.Error("expected a previous page link")
	}
	if strings.Contains(body, "Siguiente ›") {
		t.Error("expected no next page link on the last page")
	}
}

func TestIndexCategory(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/?category=Deportes")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "FINAL DE COPA") {
		t.Error("expected the sports post")
	}
	if strings.Contains(body, "NUEVO CHIP") {
		t.Error("expected other categories to be filtered out")
	}
	if strings.Contains(body, "id=\"pagination\"") {
		t.Error("expected no pagination for a single page")
	}
}

func TestIndexNoResults(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/?q=zzzz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No se encontraron noticias") {
		t.Error("expected the no results message")
	}
}

func TestIndexCatalogUnavailable(t *testing.T) {
	srv, _ := newTestServer(t, t.TempDir())

	rec := get(t, srv, "/")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No se pudieron cargar las noticias") {
		t.Error("expected the data unavailable message")
	}

	rec = get(t, srv, "/healthz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected unhealthy status, got %d", rec.Code)
	}
}

func TestPostRoute(t *testing.T) {
	srv, p := newTestServer(t, writeSite(t))
	before := p.Views("elecciones")

	rec := get(t, srv, "/post/elecciones")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>histórica</strong>") {
		t.Error("expected rendered markdown in response")
	}
	if !strings.Contains(body, "prose") {
		t.Error("expected the article body container")
	}
	if p.Views("elecciones") != before+1 {
		t.Errorf("expected one view to be counted")
	}
}

func TestPostNotFound(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/post/nada")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestPostContentUnavailable(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/post/copa")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No se pudo cargar el artículo completo.") {
		t.Error("expected the article unavailable message")
	}
}

func TestAPIPosts(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/api/posts?category=Tecnolog%C3%ADa")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp apiFrontPage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 2 || resp.TotalPages != 1 {
		t.Errorf("expected 2 posts on 1 page, got %d on %d", resp.Total, resp.TotalPages)
	}
	if resp.Featured == nil || resp.Featured.ID != "chip" {
		t.Fatalf("expected featured chip, got %+v", resp.Featured)
	}
	if resp.Featured.URL != "/post/chip" {
		t.Errorf("unexpected url %q", resp.Featured.URL)
	}
	if resp.Featured.Image != srv.cfg.Images.Fallback {
		t.Errorf("expected fallback image for a post without one, got %q", resp.Featured.Image)
	}
	if len(resp.Grid) != 1 || resp.Grid[0].ID != "robots" {
		t.Errorf("unexpected grid %+v", resp.Grid)
	}
	if len(resp.MostRead) != 5 {
		t.Errorf("expected 5 most read, got %d", len(resp.MostRead))
	}
}

func TestAPISuggest(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/api/suggest?q=Depor")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) == 0 || got[0] != "Deportes" {
		t.Errorf("expected Deportes first, got %v", got)
	}

	rec = get(t, srv, "/api/suggest")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty list, got %q", rec.Body.String())
	}
}

func TestImageRoute(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/images/elecciones.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "fake-jpeg" {
		t.Errorf("unexpected image body %q", rec.Body.String())
	}

	rec = get(t, srv, "/images/copa.jpg")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != srv.cfg.Images.Fallback {
		t.Errorf("expected fallback redirect, got %q", loc)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	rec := get(t, srv, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "ok" || resp["posts"] != float64(7) {
		t.Errorf("unexpected health response %v", resp)
	}
}

func TestStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	for _, path := range []string{"/static/app.js", "/static/style.css"} {
		if rec := get(t, srv, path); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t, writeSite(t))

	if rec := get(t, srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
