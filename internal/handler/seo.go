package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/folio/internal/service"
)

// SEOHandler serves the crawler files for the public page.
type SEOHandler struct {
	sitemapService *service.SitemapService
}

func NewSEOHandler(sitemapService *service.SitemapService) *SEOHandler {
	return &SEOHandler{sitemapService: sitemapService}
}

func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	h.serve(w, "text/plain; charset=utf-8", h.sitemapService.Robots())
}

// Sitemap is rebuilt per request so lastmod follows the latest document save.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.sitemapService.GenerateSitemap()
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to generate sitemap", "error", err)
		http.Error(w, "failed to generate sitemap", http.StatusInternalServerError)
		return
	}
	h.serve(w, "application/xml; charset=utf-8", body)
}

func (h *SEOHandler) serve(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body)
}
