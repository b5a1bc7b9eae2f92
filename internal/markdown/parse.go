package markdown

import "strings"

// Kind identifies a node in the parsed document tree.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindStrong
	KindEmphasis
	KindCode
	KindLink
)

// Node is one element of the document tree. Text holds literal content for
// text and code nodes; URL is set on links; Level on headings.
type Node struct {
	Kind     Kind
	Level    int
	Text     string
	URL      string
	Children []*Node
}

// Parse builds a document tree from the restricted dialect: #, ## and ###
// headings, paragraphs separated by blank lines, **strong**/__strong__,
// *em*/_em_, `code` and [text](url). Inline markup never spans lines and
// unmatched markers are kept as text.
func Parse(src string) *Node {
	doc := &Node{Kind: KindDocument}
	src = strings.ReplaceAll(src, "\r\n", "\n")

	for _, block := range splitBlocks(src) {
		var para []string
		flush := func() {
			text := strings.TrimSpace(strings.Join(para, "\n"))
			para = para[:0]
			if text == "" {
				return
			}
			doc.Children = append(doc.Children, &Node{Kind: KindParagraph, Children: parseInline(text)})
		}
		for _, line := range block {
			if level, text, ok := heading(line); ok {
				flush()
				doc.Children = append(doc.Children, &Node{Kind: KindHeading, Level: level, Children: parseInline(text)})
				continue
			}
			para = append(para, line)
		}
		flush()
	}
	return doc
}

// splitBlocks groups lines into blocks separated by blank lines.
func splitBlocks(src string) [][]string {
	var blocks [][]string
	var cur []string
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

func heading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 3 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(line[level+1:]), true
}

func parseInline(s string) []*Node {
	var nodes []*Node
	var text strings.Builder
	emit := func(n *Node) {
		if text.Len() > 0 {
			nodes = append(nodes, &Node{Kind: KindText, Text: text.String()})
			text.Reset()
		}
		nodes = append(nodes, n)
	}

	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '`':
			if inner, end, ok := delimited(s, i, "`"); ok {
				emit(&Node{Kind: KindCode, Text: inner})
				i = end
				continue
			}
		case (c == '*' || c == '_') && strings.HasPrefix(s[i:], string([]byte{c, c})):
			if inner, end, ok := delimited(s, i, string([]byte{c, c})); ok {
				emit(&Node{Kind: KindStrong, Children: parseInline(inner)})
				i = end
				continue
			}
		case c == '*' || c == '_':
			if inner, end, ok := delimited(s, i, string(c)); ok {
				emit(&Node{Kind: KindEmphasis, Children: parseInline(inner)})
				i = end
				continue
			}
		case c == '[':
			if label, url, end, ok := link(s, i); ok {
				emit(&Node{Kind: KindLink, URL: url, Children: parseInline(label)})
				i = end
				continue
			}
		}
		text.WriteByte(s[i])
		i++
	}
	if text.Len() > 0 {
		nodes = append(nodes, &Node{Kind: KindText, Text: text.String()})
	}
	return nodes
}

// delimited finds the closing delim for an opening delim at s[i] on the same
// line. It returns the non-empty content and the index just past the closer.
func delimited(s string, i int, delim string) (string, int, bool) {
	start := i + len(delim)
	if start > len(s) {
		return "", 0, false
	}
	rest := s[start:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	j := strings.Index(rest, delim)
	if j <= 0 {
		return "", 0, false
	}
	return rest[:j], start + j + len(delim), true
}

// link matches [label](url) starting at s[i].
func link(s string, i int) (string, string, int, bool) {
	rest := s[i+1:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	rb := strings.IndexByte(rest, ']')
	if rb <= 0 || !strings.HasPrefix(rest[rb:], "](") {
		return "", "", 0, false
	}
	label := rest[:rb]
	tail := rest[rb+2:]
	end := strings.IndexByte(tail, ')')
	if end <= 0 {
		return "", "", 0, false
	}
	url := tail[:end]
	return label, url, i + 1 + rb + 2 + end + 1, true
}
