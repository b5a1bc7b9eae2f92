package markdown

import (
	"strings"
	"testing"
)

func TestRenderBold(t *testing.T) {
	for _, src := range []string{"**bold**", "__bold__"} {
		got := Render(src)
		if !strings.Contains(got, "<strong>bold</strong>") {
			t.Errorf("Render(%q) = %q, expected <strong>bold</strong>", src, got)
		}
	}
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"# Title", `<h1 class="text-4xl font-bold mb-6 mt-10">Title</h1>`},
		{"## Section", `<h2 class="text-3xl font-bold mb-4 mt-8">Section</h2>`},
		{"### Sub", `<h3 class="text-2xl font-bold mb-3 mt-6">Sub</h3>`},
	}
	for _, tt := range tests {
		if got := Render(tt.src); got != tt.want {
			t.Errorf("Render(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestHeadingNotWrappedInParagraph(t *testing.T) {
	got := Render("# Title")
	if strings.Contains(got, "<p") {
		t.Errorf("expected heading outside paragraph, got %q", got)
	}
}

func TestNotAHeading(t *testing.T) {
	for _, src := range []string{"#### Four", "#NoSpace"} {
		got := Render(src)
		if strings.Contains(got, "<h") {
			t.Errorf("Render(%q) = %q, expected paragraph", src, got)
		}
	}
}

func TestRenderItalic(t *testing.T) {
	for _, src := range []string{"*soft*", "_soft_"} {
		got := Render(src)
		if got != `<p class="mb-4"><em>soft</em></p>` {
			t.Errorf("Render(%q) = %q", src, got)
		}
	}
}

func TestRenderInlineCode(t *testing.T) {
	got := Render("run `go test` now")
	want := `<p class="mb-4">run <code class="bg-dark-700 px-2 py-1 rounded text-accent-primary">go test</code> now</p>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCodeIsLiteral(t *testing.T) {
	got := Render("`**not bold**`")
	if strings.Contains(got, "<strong>") {
		t.Errorf("expected code span to stay literal, got %q", got)
	}
	if !strings.Contains(got, ">**not bold**</code>") {
		t.Errorf("expected asterisks kept inside code, got %q", got)
	}
}

func TestRenderLink(t *testing.T) {
	got := Render("see [the **docs**](https://example.com/a_b) here")
	want := `<p class="mb-4">see <a href="https://example.com/a_b" class="text-accent-primary hover:underline">the <strong>docs</strong></a> here</p>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParagraphSplitting(t *testing.T) {
	got := Render("first line\nsame paragraph\n\nsecond\n\n\n\nthird")
	want := strings.Join([]string{
		`<p class="mb-4">first line` + "\n" + `same paragraph</p>`,
		`<p class="mb-4">second</p>`,
		`<p class="mb-4">third</p>`,
	}, "\n")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHeadingInsideBlockSplitsParagraph(t *testing.T) {
	got := Render("intro\n## Middle\noutro")
	want := strings.Join([]string{
		`<p class="mb-4">intro</p>`,
		`<h2 class="text-3xl font-bold mb-4 mt-8">Middle</h2>`,
		`<p class="mb-4">outro</p>`,
	}, "\n")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInlineMarkupInHeading(t *testing.T) {
	got := Render("# A **big** day")
	if !strings.Contains(got, "A <strong>big</strong> day</h1>") {
		t.Errorf("got %q", got)
	}
}

func TestUnmatchedMarkersStayLiteral(t *testing.T) {
	tests := map[string]string{
		"2 * 3 = 6":        `<p class="mb-4">2 * 3 = 6</p>`,
		"open **bold":      `<p class="mb-4">open **bold</p>`,
		"[label] (url)":    `<p class="mb-4">[label] (url)</p>`,
		"tick ` only":      "<p class=\"mb-4\">tick ` only</p>",
		"**across\nline**": "<p class=\"mb-4\">**across\nline**</p>",
	}
	for src, want := range tests {
		if got := Render(src); got != want {
			t.Errorf("Render(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestCRLFNormalized(t *testing.T) {
	got := Render("# T\r\n\r\nbody")
	if strings.Contains(got, "\r") {
		t.Errorf("expected CR stripped, got %q", got)
	}
	if !strings.Contains(got, `<p class="mb-4">body</p>`) {
		t.Errorf("expected body paragraph, got %q", got)
	}
}

func TestEmptyInput(t *testing.T) {
	if got := Render(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := Render("\n\n  \n"); got != "" {
		t.Errorf("expected empty output for blank input, got %q", got)
	}
}

func TestRenderIsPure(t *testing.T) {
	src := "# T\n\nSome *text* with `code` and [a](b)."
	if Render(src) != Render(src) {
		t.Error("expected identical output for identical input")
	}
}

func TestParseTree(t *testing.T) {
	doc := Parse("# Hi\n\nplain **b**")
	if len(doc.Children) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Children))
	}
	h := doc.Children[0]
	if h.Kind != KindHeading || h.Level != 1 {
		t.Errorf("expected level-1 heading, got kind %d level %d", h.Kind, h.Level)
	}
	p := doc.Children[1]
	if p.Kind != KindParagraph || len(p.Children) != 2 {
		t.Fatalf("expected paragraph with 2 inline nodes, got %+v", p)
	}
	if p.Children[1].Kind != KindStrong || p.Children[1].Children[0].Text != "b" {
		t.Errorf("expected strong 'b', got %+v", p.Children[1])
	}
}

func TestEmptyTheme(t *testing.T) {
	r := &Basic{}
	if got := r.Render("# T\n\n[a](b)"); got != "<h1>T</h1>\n<p><a href=\"b\">a</a></p>" {
		t.Errorf("got %q", got)
	}
}

func TestGoldmarkEngine(t *testing.T) {
	r, err := New("goldmark", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.Render("# Title\n\n**bold**")
	if !strings.Contains(got, "<h1>Title</h1>") || !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("unexpected goldmark output %q", got)
	}
}

func TestSanitizedStripsScripts(t *testing.T) {
	r, err := New("basic", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.Render("hello <script>alert(1)</script> **world**")
	if strings.Contains(got, "<script>") {
		t.Errorf("expected script removed, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Errorf("expected strong kept, got %q", got)
	}
	if !strings.Contains(got, `class="mb-4"`) {
		t.Errorf("expected class attribute kept, got %q", got)
	}
}

func TestUnknownEngine(t *testing.T) {
	if _, err := New("pandoc", false); err == nil {
		t.Error("expected error for unknown engine")
	}
}
