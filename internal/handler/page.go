package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/templui/folio/internal/ctxkeys"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/ui"
	"github.com/templui/folio/internal/ui/pages"
)

type PageHandler struct {
	documentService *service.DocumentService
	markdown        func(string) templ.Component
}

func NewPageHandler(documentService *service.DocumentService, markdown func(string) templ.Component) *PageHandler {
	return &PageHandler{
		documentService: documentService,
		markdown:        markdown,
	}
}

// HomePage renders the profile and project list server side.
func (h *PageHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	props := pages.HomeProps{
		Document: h.documentService.Load(),
		Editing:  ctxkeys.Session(ctx) != nil,
		Year:     time.Now().Year(),
		Markdown: h.markdown,
	}

	if cfg := ctxkeys.Config(ctx); cfg != nil {
		props.CanonicalURL = strings.TrimSuffix(cfg.AppURL, "/") + ctxkeys.URLPath(ctx)
		props.Enforced = cfg.AuthEnforce
	}

	ui.Render(w, r, pages.Home(props))
}

func (h *PageHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	appName := "Portfolio"
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		appName = cfg.AppName
	}
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound(appName))
}

// Uploads serves files from dir without directory listings.
func Uploads(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
