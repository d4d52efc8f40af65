package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/folio/internal/live"
	"github.com/templui/folio/internal/metrics"
	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/store"
)

// Publisher receives change events, e.g. the live hub.
type Publisher interface {
	Publish(eventType string, data any)
}

type DocumentService struct {
	store         *store.DocumentStore
	publisher     Publisher
	notifyService *NotifyService
	metrics       *metrics.Metrics
}

func NewDocumentService(store *store.DocumentStore, publisher Publisher, notifyService *NotifyService) *DocumentService {
	return &DocumentService{
		store:         store,
		publisher:     publisher,
		notifyService: notifyService,
		metrics:       metrics.Get(),
	}
}

// Snapshot returns the current document. Missing or corrupt data yields the defaults.
func (s *DocumentService) Snapshot() store.Snapshot {
	snap := s.store.Read()
	s.metrics.DocumentReads.WithLabelValues(snap.State.String()).Inc()
	return snap
}

func (s *DocumentService) Load() model.Document {
	return s.Snapshot().Document
}

// Save replaces the whole document. A non-empty ifMatch must equal the current
// ETag, otherwise store.ErrVersionConflict is returned and nothing is written.
func (s *DocumentService) Save(ctx context.Context, doc model.Document, ifMatch string) (string, error) {
	doc.Normalize()

	etag, err := s.store.SaveIfMatch(doc, ifMatch)
	if errors.Is(err, store.ErrVersionConflict) {
		s.metrics.DocumentSaves.WithLabelValues("conflict").Inc()
		slog.Info("document save rejected, stale version", "if_match", ifMatch, "current", etag)
		return etag, err
	}
	if err != nil {
		s.metrics.DocumentSaves.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to save document: %w", err)
	}

	s.metrics.DocumentSaves.WithLabelValues("ok").Inc()
	slog.Info("document saved", "projects", len(doc.Projects), "etag", etag)

	if s.publisher != nil {
		s.publisher.Publish(live.EventDocumentSaved, map[string]string{"etag": etag})
	}
	if s.notifyService != nil {
		go s.notify(doc)
	}

	return etag, nil
}

func (s *DocumentService) notify(doc model.Document) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.notifyService.DocumentSaved(ctx, doc)
	if err != nil {
		slog.Warn("failed to send save notification", "error", err)
	}
}
