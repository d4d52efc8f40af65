package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup for components built in Go. Text and attribute values
// are escaped; Raw is written as is. The first write error sticks and turns
// every later call into a no-op, so a component checks Err once at the end.
type HTML struct {
	w   io.Writer
	err error
}

func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

func (h *HTML) Raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *HTML) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Open writes a start tag. attrs are name, value pairs.
func (h *HTML) Open(tag string, attrs ...string) {
	h.Raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		h.Raw(" " + attrs[i] + `="` + templ.EscapeString(attrs[i+1]) + `"`)
	}
	h.Raw(">")
}

func (h *HTML) Close(tag string) {
	h.Raw("</" + tag + ">")
}

// Elem writes a whole element with escaped text content.
func (h *HTML) Elem(tag, text string, attrs ...string) {
	h.Open(tag, attrs...)
	h.Text(text)
	h.Close(tag)
}

// Component renders c in place.
func (h *HTML) Component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func (h *HTML) Err() error {
	return h.err
}

// URL sanitizes a link target for href and src attributes.
func URL(s string) string {
	return string(templ.URL(s))
}
