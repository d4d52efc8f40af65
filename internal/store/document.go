package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/templui/folio/internal/model"
)

var (
	ErrVersionConflict = errors.New("document was modified since it was read")
)

// ReadState tells why Read returned the document it did.
type ReadState int

const (
	ReadFound ReadState = iota
	ReadMissing
	ReadCorrupt
)

func (s ReadState) String() string {
	switch s {
	case ReadFound:
		return "found"
	case ReadMissing:
		return "missing"
	case ReadCorrupt:
		return "corrupt"
	}
	return "unknown"
}

// Snapshot is a document as read from disk together with its version tag.
type Snapshot struct {
	Document model.Document
	ETag     string
	State    ReadState
}

// DocumentStore persists the profile document as one JSON file.
// Every save replaces the whole file.
type DocumentStore struct {
	path     string
	defaults model.Document
	mu       sync.Mutex // serializes writes and the If-Match check
}

func NewDocumentStore(path string, defaults model.Document) *DocumentStore {
	defaults.Normalize()
	return &DocumentStore{
		path:     path,
		defaults: defaults,
	}
}

func (s *DocumentStore) Path() string {
	return s.path
}

// Load returns the persisted document, or the defaults when the file is
// missing or cannot be parsed. It never fails.
func (s *DocumentStore) Load() model.Document {
	return s.Read().Document
}

// Read is Load with the outcome exposed, so callers can tell "nothing saved yet"
// apart from "saved data is broken".
func (s *DocumentStore) Read() Snapshot {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.fallback(ReadMissing)
	}
	if err != nil {
		slog.Warn("document unreadable, serving defaults", "error", err, "path", s.path)
		return s.fallback(ReadCorrupt)
	}

	var doc model.Document
	err = json.Unmarshal(data, &doc)
	if err != nil {
		slog.Warn("document corrupt, serving defaults", "error", err, "path", s.path)
		return s.fallback(ReadCorrupt)
	}
	doc.Normalize()

	return Snapshot{Document: doc, ETag: ETag(doc), State: ReadFound}
}

// Save replaces the persisted document with doc.
func (s *DocumentStore) Save(doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.write(doc)
	return err
}

// SaveIfMatch replaces the document only if its current ETag equals etag.
// An empty etag skips the check (last writer wins). Returns the new ETag.
func (s *DocumentStore) SaveIfMatch(doc model.Document, etag string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if etag != "" {
		current := s.Read()
		if current.ETag != etag {
			return current.ETag, ErrVersionConflict
		}
	}

	return s.write(doc)
}

func (s *DocumentStore) write(doc model.Document) (string, error) {
	doc.Normalize()

	err := os.MkdirAll(filepath.Dir(s.path), 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := encode(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	err = atomic.WriteFile(s.path, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	return etagOf(data), nil
}

func (s *DocumentStore) fallback(state ReadState) Snapshot {
	doc := s.defaults.Clone()
	return Snapshot{Document: doc, ETag: ETag(doc), State: state}
}

// ETag returns the quoted version tag of doc's canonical encoding.
func ETag(doc model.Document) string {
	doc.Normalize()
	data, err := encode(doc)
	if err != nil {
		return ""
	}
	return etagOf(data)
}

func encode(doc model.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func etagOf(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
