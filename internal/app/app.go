package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/folio/internal/config"
	"github.com/templui/folio/internal/db"
	"github.com/templui/folio/internal/live"
	"github.com/templui/folio/internal/markdown"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/storage"
	"github.com/templui/folio/internal/store"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Hub             *live.Hub
	Markdown        *markdown.Parser
	Store           *store.DocumentStore
	DocumentService *service.DocumentService
	UploadService   *service.UploadService
	AuthService     *service.AuthService
	NotifyService   *service.NotifyService
	SitemapService  *service.SitemapService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize upload ledger database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	uploadRepository := repository.NewUploadRepository(database)

	// Storage
	local := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadURLPrefix)
	mirror, err := storage.NewMirror(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize upload mirror: %w", err)
	}

	// Content
	parser := markdown.NewParser()
	documentStore := store.NewDocumentStore(cfg.DataPath, store.LoadDefaults(cfg.DefaultProfilePath, parser))

	hub := live.NewHub()

	// Services
	notifyService := service.NewNotifyService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.OwnerEmail,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService, err := service.NewAuthService(cfg.EditPIN, cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction())
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	documentService := service.NewDocumentService(documentStore, hub, notifyService)
	uploadService := service.NewUploadService(
		local,
		mirrorStorage(mirror),
		uploadRepository,
		hub,
		notifyService,
		cfg.UploadMaxBytes,
	)
	sitemapService := service.NewSitemapService(cfg.DataPath, cfg.AppURL)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Hub:             hub,
		Markdown:        parser,
		Store:           documentStore,
		DocumentService: documentService,
		UploadService:   uploadService,
		AuthService:     authService,
		NotifyService:   notifyService,
		SitemapService:  sitemapService,
	}, nil
}

// mirrorStorage keeps a disabled mirror a nil interface rather than a typed nil.
func mirrorStorage(mirror *storage.S3Storage) storage.Storage {
	if mirror == nil {
		return nil
	}
	return mirror
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
