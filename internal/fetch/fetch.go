// Package fetch loads catalog and article resources from disk or over HTTP.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const userAgent = "newsstand/1.0 (news reader)"

// maxBody caps how much of a single resource is read.
const maxBody = 8 << 20

// Resource is a fetched document.
type Resource struct {
	Ref         string
	ContentType string
	Body        []byte
}

// IsHTML reports whether the resource was served as an HTML page.
func (r *Resource) IsHTML() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "text/html")
}

// Client fetches http(s) URLs with net/http and anything else from the
// local filesystem.
type Client struct {
	client *http.Client
}

// NewClient creates a Client. A zero timeout means requests never time out.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Fetch retrieves ref, which is either an http(s) URL or a file path.
func (c *Client) Fetch(ctx context.Context, ref string) (*Resource, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return c.fetchHTTP(ctx, ref)
	}
	return fetchFile(ref)
}

// Text fetches ref and returns its text. HTML pages are reduced to their
// readable article text.
func (c *Client) Text(ctx context.Context, ref string) (string, error) {
	res, err := c.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	if res.IsHTML() {
		return Readable(res)
	}
	return string(res.Body), nil
}

// Readable extracts the main article text from an HTML resource.
func Readable(res *Resource) (string, error) {
	pageURL, _ := url.Parse(res.Ref)
	article, err := readability.FromReader(bytes.NewReader(res.Body), pageURL)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", res.Ref, err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content in %s", res.Ref)
	}
	return text, nil
}

func (c *Client) fetchHTTP(ctx context.Context, ref string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{URL: ref, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref, err)
	}
	return &Resource{Ref: ref, ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}

func fetchFile(path string) (*Resource, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ct := "text/plain"
	if strings.HasSuffix(strings.ToLower(path), ".html") || strings.HasSuffix(strings.ToLower(path), ".htm") {
		ct = "text/html"
	}
	return &Resource{Ref: path, ContentType: ct, Body: body}, nil
}

// HTTPError is returned for responses with status >= 400.
type HTTPError struct {
	URL  string
	Code int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Join resolves ref against base, which may be a directory path or an
// http(s) base URL. Absolute URLs in ref are returned unchanged.
func Join(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		u, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
		if err != nil {
			return base + "/" + ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return base + "/" + ref
		}
		return u.ResolveReference(r).String()
	}
	if base == "" {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}
