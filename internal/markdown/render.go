// Package markdown converts article sources to HTML fragments.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Renderer converts Markdown text to an HTML fragment.
type Renderer interface {
	Render(src string) string
}

// Theme holds the class attribute emitted for each element. Empty classes
// are omitted.
type Theme struct {
	H1, H2, H3 string
	Paragraph  string
	Code       string
	Link       string
}

// DefaultTheme matches the site stylesheet.
var DefaultTheme = Theme{
	H1:        "text-4xl font-bold mb-6 mt-10",
	H2:        "text-3xl font-bold mb-4 mt-8",
	H3:        "text-2xl font-bold mb-3 mt-6",
	Paragraph: "mb-4",
	Code:      "bg-dark-700 px-2 py-1 rounded text-accent-primary",
	Link:      "text-accent-primary hover:underline",
}

// Basic renders the restricted dialect understood by Parse. Text is written
// as-is: article sources are trusted local files.
type Basic struct {
	Theme Theme
}

// NewBasic returns a Basic renderer using DefaultTheme.
func NewBasic() *Basic {
	return &Basic{Theme: DefaultTheme}
}

var defaultRenderer = NewBasic()

// Render converts src with the default basic renderer.
func Render(src string) string {
	return defaultRenderer.Render(src)
}

func (b *Basic) Render(src string) string {
	doc := Parse(src)
	blocks := make([]string, 0, len(doc.Children))
	for _, n := range doc.Children {
		var sb strings.Builder
		b.writeNode(&sb, n)
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n")
}

func (b *Basic) writeNode(sb *strings.Builder, n *Node) {
	switch n.Kind {
	case KindHeading:
		tag := fmt.Sprintf("h%d", n.Level)
		sb.WriteString(openTag(tag, b.headingClass(n.Level)))
		b.writeChildren(sb, n)
		sb.WriteString("</" + tag + ">")
	case KindParagraph:
		sb.WriteString(openTag("p", b.Theme.Paragraph))
		b.writeChildren(sb, n)
		sb.WriteString("</p>")
	case KindStrong:
		sb.WriteString("<strong>")
		b.writeChildren(sb, n)
		sb.WriteString("</strong>")
	case KindEmphasis:
		sb.WriteString("<em>")
		b.writeChildren(sb, n)
		sb.WriteString("</em>")
	case KindCode:
		sb.WriteString(openTag("code", b.Theme.Code))
		sb.WriteString(n.Text)
		sb.WriteString("</code>")
	case KindLink:
		sb.WriteString(`<a href="` + n.URL + `"`)
		if b.Theme.Link != "" {
			sb.WriteString(` class="` + b.Theme.Link + `"`)
		}
		sb.WriteString(">")
		b.writeChildren(sb, n)
		sb.WriteString("</a>")
	case KindText:
		sb.WriteString(n.Text)
	default:
		b.writeChildren(sb, n)
	}
}

func (b *Basic) writeChildren(sb *strings.Builder, n *Node) {
	for _, c := range n.Children {
		b.writeNode(sb, c)
	}
}

func (b *Basic) headingClass(level int) string {
	switch level {
	case 1:
		return b.Theme.H1
	case 2:
		return b.Theme.H2
	default:
		return b.Theme.H3
	}
}

func openTag(tag, class string) string {
	if class == "" {
		return "<" + tag + ">"
	}
	return "<" + tag + ` class="` + class + `">`
}

// Goldmark renders full CommonMark.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark returns a CommonMark renderer.
func NewGoldmark() *Goldmark {
	return &Goldmark{md: goldmark.New()}
}

func (g *Goldmark) Render(src string) string {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + src + "</p>"
	}
	return strings.TrimSpace(buf.String())
}

// Sanitized wraps a Renderer and strips unsafe markup from its output.
type Sanitized struct {
	Renderer
	policy *bluemonday.Policy
}

// NewSanitized wraps r with bluemonday's user-generated-content policy,
// keeping class attributes so themed output still styles correctly.
func NewSanitized(r Renderer) *Sanitized {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return &Sanitized{Renderer: r, policy: p}
}

func (s *Sanitized) Render(src string) string {
	return s.policy.Sanitize(s.Renderer.Render(src))
}

// New returns the renderer for engine ("basic" or "goldmark"), optionally
// sanitized.
func New(engine string, sanitize bool) (Renderer, error) {
	var r Renderer
	switch engine {
	case "", "basic":
		r = NewBasic()
	case "goldmark":
		r = NewGoldmark()
	default:
		return nil, fmt.Errorf("unknown markdown engine %q", engine)
	}
	if sanitize {
		r = NewSanitized(r)
	}
	return r, nil
}
