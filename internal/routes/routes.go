package routes

import (
	"net/http"
	"strings"

	"github.com/templui/folio/internal/app"
	"github.com/templui/folio/internal/handler"
	"github.com/templui/folio/internal/metrics"
	"github.com/templui/folio/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	page := handler.NewPageHandler(app.DocumentService, app.Markdown.Component)
	seo := handler.NewSEOHandler(app.SitemapService)
	profile := handler.NewProfileHandler(app.DocumentService)
	upload := handler.NewUploadHandler(app.UploadService, app.Cfg.UploadMaxBytes)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg.AuthEnforce)
	health := handler.NewHealthHandler(app.DB)

	requireEditor := middleware.RequireEditor(app.Cfg.AuthEnforce)
	rateLimiter := middleware.RateLimitAuth()

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Uploaded media
	prefix := strings.TrimSuffix(app.Cfg.UploadURLPrefix, "/") + "/"
	mux.Handle("GET "+prefix, http.StripPrefix(prefix, handler.Uploads(app.Cfg.UploadDir)))

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// Portfolio page
	mux.HandleFunc("GET /{$}", page.HomePage)

	// Document
	mux.HandleFunc("GET /api/profile", profile.Get)

	// Session
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/session", auth.Session)

	// Live updates
	mux.Handle("GET /ws", app.Hub)

	// Operations
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	// ============================================================================
	// EDITOR ROUTES (session required when AUTH_ENFORCE=true)
	// ============================================================================

	mux.HandleFunc("POST /api/profile", requireEditor(profile.Save))
	mux.HandleFunc("POST /api/upload", requireEditor(upload.Upload))
	mux.HandleFunc("GET /api/uploads", requireEditor(upload.List))
	mux.HandleFunc("DELETE /api/uploads/{filename}", requireEditor(upload.Delete))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", page.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // must be before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.SessionMiddleware(app.AuthService),
		middleware.WithURLPath,
	)

	return handler
}
