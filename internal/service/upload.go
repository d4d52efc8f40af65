package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/folio/internal/live"
	"github.com/templui/folio/internal/metrics"
	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/storage"
	"github.com/templui/folio/internal/validation"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrNoFile         = errors.New("no file provided")
	ErrUploadTooLarge = errors.New("file too large")
)

const filenameAttempts = 3

type UploadService struct {
	local            *storage.LocalStorage
	mirror           storage.Storage // nil when no bucket is configured
	uploadRepository repository.UploadRepository
	publisher        Publisher
	notifyService    *NotifyService
	maxBytes         int64
	metrics          *metrics.Metrics
}

func NewUploadService(
	local *storage.LocalStorage,
	mirror storage.Storage,
	uploadRepository repository.UploadRepository,
	publisher Publisher,
	notifyService *NotifyService,
	maxBytes int64,
) *UploadService {
	return &UploadService{
		local:            local,
		mirror:           mirror,
		uploadRepository: uploadRepository,
		publisher:        publisher,
		notifyService:    notifyService,
		maxBytes:         maxBytes,
		metrics:          metrics.Get(),
	}
}

// Store streams r into the uploads directory under a fresh timestamped name.
// originalName only contributes its extension and the ledger entry.
func (s *UploadService) Store(ctx context.Context, originalName string, r io.Reader) (*model.UploadResult, error) {
	if r == nil {
		return nil, ErrNoFile
	}

	br := bufio.NewReaderSize(r, 4096)
	head, err := br.Peek(validation.SniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		s.metrics.Uploads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	mimeType := validation.DetectContentType(head, originalName)

	body := &limitedCounter{r: br, limit: s.maxBytes}
	filename, err := s.saveLocal(ctx, originalName, body)
	if errors.Is(err, ErrUploadTooLarge) {
		s.metrics.Uploads.WithLabelValues("rejected").Inc()
		slog.Info("upload rejected, too large", "original_name", originalName, "limit", s.maxBytes)
		return nil, ErrUploadTooLarge
	}
	if err != nil {
		s.metrics.Uploads.WithLabelValues("error").Inc()
		return nil, err
	}

	s.metrics.Uploads.WithLabelValues("ok").Inc()
	s.metrics.UploadBytes.Add(float64(body.n))

	upload := &model.Upload{
		ID:           uuid.NewString(),
		Filename:     filename,
		OriginalName: cleanOriginalName(originalName),
		MimeType:     mimeType,
		Size:         body.n,
		URL:          s.local.URL(filename),
		Mirrored:     s.mirrorFile(ctx, filename),
		CreatedAt:    time.Now().UTC(),
	}

	if s.uploadRepository != nil {
		err = s.uploadRepository.Create(ctx, upload)
		if err != nil {
			slog.Error("failed to record upload", "error", err, "filename", filename)
		}
	}

	slog.Info("upload stored",
		"filename", filename,
		"original_name", upload.OriginalName,
		"mime_type", mimeType,
		"size", upload.Size,
		"mirrored", upload.Mirrored,
	)

	if s.publisher != nil {
		s.publisher.Publish(live.EventUploadStored, upload)
	}
	if s.notifyService != nil {
		go s.notify(upload)
	}

	return &model.UploadResult{URL: upload.URL, Filename: filename}, nil
}

// saveLocal writes under a new name, retrying when the name is already taken.
// A name clash is detected at create time, before any byte is consumed.
func (s *UploadService) saveLocal(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := validation.Extension(originalName)

	var err error
	for range filenameAttempts {
		filename := NewUploadFilename(time.Now(), ext)
		err = s.local.Save(ctx, filename, r)
		if err == nil {
			return filename, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", err
}

// mirrorFile copies a stored upload to the mirror. Failures are logged only:
// the local copy is the one that is served.
func (s *UploadService) mirrorFile(ctx context.Context, filename string) bool {
	if s.mirror == nil {
		return false
	}

	f, err := s.local.Open(filename)
	if err != nil {
		slog.Warn("failed to open upload for mirroring", "error", err, "filename", filename)
		return false
	}
	defer f.Close()

	err = s.mirror.Save(ctx, filename, f)
	if err != nil {
		slog.Warn("failed to mirror upload", "error", err, "filename", filename)
		return false
	}
	return true
}

func (s *UploadService) List(ctx context.Context) ([]*model.Upload, error) {
	if s.uploadRepository == nil {
		return []*model.Upload{}, nil
	}
	return s.uploadRepository.List(ctx)
}

// Delete removes an upload from disk, the mirror and the ledger.
func (s *UploadService) Delete(ctx context.Context, filename string) error {
	var upload *model.Upload
	if s.uploadRepository != nil {
		found, err := s.uploadRepository.ByFilename(ctx, filename)
		if err != nil && !errors.Is(err, repository.ErrUploadNotFound) {
			return fmt.Errorf("failed to look up upload: %w", err)
		}
		upload = found
	}

	err := s.local.Delete(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
		if upload == nil {
			return repository.ErrUploadNotFound
		}
	} else if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	if s.mirror != nil && upload != nil && upload.Mirrored {
		err = s.mirror.Delete(ctx, filename)
		if err != nil {
			slog.Warn("failed to delete mirrored upload", "error", err, "filename", filename)
		}
	}

	if upload != nil {
		err = s.uploadRepository.Delete(ctx, filename)
		if err != nil && !errors.Is(err, repository.ErrUploadNotFound) {
			return fmt.Errorf("failed to delete upload record: %w", err)
		}
	}

	slog.Info("upload deleted", "filename", filename)
	if s.publisher != nil {
		s.publisher.Publish(live.EventUploadDeleted, map[string]string{"filename": filename})
	}

	return nil
}

func (s *UploadService) notify(upload *model.Upload) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.notifyService.UploadStored(ctx, upload)
	if err != nil {
		slog.Warn("failed to send upload notification", "error", err, "filename", upload.Filename)
	}
}

// NewUploadFilename builds "<unix millis>-<random>[ext]".
func NewUploadFilename(now time.Time, ext string) string {
	return fmt.Sprintf("%d-%d%s", now.UnixMilli(), rand.IntN(1_000_000_000), ext)
}

func cleanOriginalName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return norm.NFC.String(name)
}

// limitedCounter counts bytes read and fails once more than limit bytes
// arrive. A zero limit means unlimited.
type limitedCounter struct {
	r     io.Reader
	n     int64
	limit int64
}

func (c *limitedCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.limit > 0 && c.n > c.limit {
		return n, ErrUploadTooLarge
	}
	return n, err
}
