package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	os.WriteFile(path, []byte("# Hello"), 0o644)

	c := NewClient(0)
	res, err := c.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Body) != "# Hello" {
		t.Errorf("unexpected body %q", res.Body)
	}
	if res.IsHTML() {
		t.Error("expected markdown file not to be HTML")
	}
}

func TestFetchMissingFile(t *testing.T) {
	c := NewClient(0)
	if _, err := c.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/markdown")
		w.Write([]byte("**hi**"))
	}))
	defer srv.Close()

	text, err := NewClient(5*time.Second).Text(context.Background(), srv.URL+"/post.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "**hi**" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewClient(0).Fetch(context.Background(), srv.URL+"/nope")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", httpErr.Code)
	}
}

func TestTextExtractsReadableHTML(t *testing.T) {
	page := `<html><head><title>Story</title></head><body>
<nav>Home | About</nav>
<article><h1>Story</h1>
<p>` + strings.Repeat("The council approved the new budget after a long debate. ", 12) + `</p>
<p>` + strings.Repeat("Residents will see changes to local services next spring. ", 12) + `</p>
</article></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	text, err := NewClient(0).Text(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "approved the new budget") {
		t.Errorf("expected article text, got %q", text)
	}
	if strings.Contains(text, "<p>") {
		t.Errorf("expected markup stripped, got %q", text)
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"posts", "a.md", "posts/a.md"},
		{"posts/", "/a.md", "posts/a.md"},
		{"", "a.md", "a.md"},
		{"https://example.com/posts", "a.md", "https://example.com/posts/a.md"},
		{"https://example.com/posts/", "a.md", "https://example.com/posts/a.md"},
		{"posts", "https://cdn.example.com/a.md", "https://cdn.example.com/a.md"},
	}
	for _, tt := range tests {
		if got := Join(tt.base, tt.ref); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
