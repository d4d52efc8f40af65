package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/folio/internal/ui"
	"github.com/templui/folio/internal/ui/layouts"
)

func NotFound(appName string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Open("body")
		h.Elem("h1", "404")
		h.Open("p")
		h.Text("This page does not exist. ")
		h.Elem("a", "Back to the portfolio", "href", "/")
		h.Close("p")
		h.Close("body")
		h.Raw("\n")
		return h.Err()
	})

	return layouts.Base(layouts.BaseProps{Title: "Not found · " + appName}, body)
}
