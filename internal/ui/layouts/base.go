package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/folio/internal/ui"
)

type BaseProps struct {
	Title        string
	Description  string
	CanonicalURL string
}

// Base wraps body, which renders the <body> element, in the document shell.
func Base(props BaseProps, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		h.Raw(`<meta charset="utf-8">` + "\n")
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
		h.Elem("title", props.Title)
		h.Raw("\n")
		if props.Description != "" {
			h.Open("meta", "name", "description", "content", props.Description)
			h.Raw("\n")
		}
		if props.CanonicalURL != "" {
			h.Open("link", "rel", "canonical", "href", ui.URL(props.CanonicalURL))
			h.Raw("\n")
		}
		h.Raw("</head>\n")
		h.Component(ctx, body)
		h.Raw("</html>\n")
		return h.Err()
	})
}
