package markdown

import (
	"bytes"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

type Parser struct {
	md goldmark.Markdown
}

// NewParser builds a parser for user-authored text (bio, project descriptions).
// Raw HTML in the source is escaped, not rendered.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTML renders s to trusted HTML. On failure the text is escaped instead.
func (p *Parser) HTML(s string) string {
	out, err := p.Parse([]byte(s))
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
		return templ.EscapeString(s)
	}
	return string(out)
}

// Component renders s as a templ component for pages.
func (p *Parser) Component(s string) templ.Component {
	return templ.Raw(p.HTML(s))
}

// DecodeFrontmatter decodes the YAML frontmatter of source into v and returns the
// markdown body that follows it, untouched. Without frontmatter v is left as is.
func (p *Parser) DecodeFrontmatter(source []byte, v any) ([]byte, error) {
	ctx := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	data := frontmatter.Get(ctx)
	if data == nil {
		return bytes.TrimSpace(source), nil
	}

	err := data.Decode(v)
	if err != nil {
		return nil, err
	}

	return bytes.TrimSpace(stripFrontmatter(source)), nil
}

// stripFrontmatter drops a leading "---" delimited block.
func stripFrontmatter(source []byte) []byte {
	delim := []byte("---")
	trimmed := bytes.TrimPrefix(source, []byte("\ufeff"))
	if !bytes.HasPrefix(trimmed, delim) {
		return source
	}

	rest := trimmed[len(delim):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return source
	}
	rest = rest[nl+1:]

	for len(rest) > 0 {
		line := rest
		next := []byte(nil)
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, next = rest[:i], rest[i+1:]
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return next
		}
		if next == nil {
			break
		}
		rest = next
	}

	return source
}
