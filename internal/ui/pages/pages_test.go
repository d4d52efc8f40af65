package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mdparser "github.com/templui/folio/internal/markdown"
	"github.com/templui/folio/internal/model"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestHomeRendersDocument(t *testing.T) {
	doc := model.Document{
		Profile: model.Profile{
			Name:   "Ada",
			Title:  "Engineer",
			Email:  "ada@example.com",
			Bio:    "Loves **engines**",
			Skills: "Go, SQL",
		},
		Projects: []model.Project{
			{ID: 1, Title: "Engine", Description: "Steam", Tech: "Brass, Iron", VideoURL: "/uploads/v.mp4", ImageURL: "/uploads/i.png"},
			{ID: 2, Title: "Loom", Description: "Cards", ImageURL: "/uploads/loom.png", Year: "1843"},
		},
	}

	ctx := templ.WithNonce(context.Background(), "n0nce")
	html := render(t, ctx, Home(HomeProps{
		Document:     doc,
		CanonicalURL: "https://ada.dev/",
		Year:         2026,
		Markdown:     mdparser.NewParser().Component,
	}))

	assert.Contains(t, html, "<title>Ada · Engineer</title>")
	assert.Contains(t, html, `<link rel="canonical" href="https://ada.dev/">`)
	assert.Contains(t, html, "<h1>Ada</h1>")
	assert.Contains(t, html, `<a href="mailto:ada@example.com">ada@example.com</a>`)
	assert.Contains(t, html, "<strong>engines</strong>")
	assert.Contains(t, html, `<ul class="skills"><li>Go</li><li>SQL</li></ul>`)
	assert.Contains(t, html, `<ul class="tech"><li>Brass</li><li>Iron</li></ul>`)

	assert.Contains(t, html, `<video src="/uploads/v.mp4"`)
	assert.NotContains(t, html, `<img src="/uploads/i.png"`)
	assert.Contains(t, html, `<img src="/uploads/loom.png" alt="Loom" loading="lazy">`)
	assert.Contains(t, html, `<span class="year">1843</span>`)

	assert.Contains(t, html, `<script nonce="n0nce">`)
	assert.Contains(t, html, `data-editing="false"`)
	assert.NotContains(t, html, "No projects yet.")
}

func TestHomeEscapesUserInput(t *testing.T) {
	doc := model.Document{
		Profile: model.Profile{
			Name:   `<script>alert(1)</script>`,
			GitHub: "javascript:alert(1)",
		},
		Projects: []model.Project{},
	}

	html := render(t, context.Background(), Home(HomeProps{Document: doc}))

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, html, `href="javascript:`)
	assert.Contains(t, html, "No projects yet.")
	assert.Contains(t, html, "<script>")
}

func TestHomeWithoutMarkdownShowsPlainText(t *testing.T) {
	doc := model.Document{Profile: model.Profile{Name: "Ada", Bio: "Loves **engines**"}}

	html := render(t, context.Background(), Home(HomeProps{Document: doc, Editing: true}))

	assert.Contains(t, html, `<section class="bio"><p>Loves **engines**</p></section>`)
	assert.Contains(t, html, `data-editing="true"`)
}

func TestNotFound(t *testing.T) {
	html := render(t, context.Background(), NotFound("Portfolio"))

	assert.Contains(t, html, "<title>Not found · Portfolio</title>")
	assert.Contains(t, html, "<h1>404</h1>")
	assert.Contains(t, html, `<a href="/">Back to the portfolio</a>`)
}
