package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
)

func TestHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	h := NewHTML(&buf)

	h.Elem("p", `<b>"hi"</b>`, "title", `a"b`)

	assert.NoError(t, h.Err())
	assert.Equal(t, `<p title="a&#34;b">&lt;b&gt;&#34;hi&#34;&lt;/b&gt;</p>`, buf.String())
}

func TestURLSanitizes(t *testing.T) {
	assert.Equal(t, "/uploads/a.png", URL("/uploads/a.png"))
	assert.Equal(t, "https://example.com/x", URL("https://example.com/x"))
	assert.NotContains(t, URL("javascript:alert(1)"), "javascript")
}

type failingWriter struct{ writes int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("closed")
}

func TestHTMLStopsAfterFirstError(t *testing.T) {
	w := &failingWriter{}
	h := NewHTML(w)

	h.Raw("a")
	h.Elem("p", "b")

	assert.EqualError(t, h.Err(), "closed")
	assert.Equal(t, 1, w.writes)
}

func TestRenderStatus(t *testing.T) {
	c := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>gone</p>")
		return err
	})

	rec := httptest.NewRecorder()
	RenderStatus(rec, httptest.NewRequest(http.MethodGet, "/x", nil), http.StatusNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<p>gone</p>", rec.Body.String())
}
