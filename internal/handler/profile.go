package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/folio/internal/ctxkeys"
	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/store"
)

// maxDocumentBytes bounds the JSON body of a document save.
const maxDocumentBytes = 4 << 20

type ProfileHandler struct {
	documentService *service.DocumentService
}

func NewProfileHandler(documentService *service.DocumentService) *ProfileHandler {
	return &ProfileHandler{
		documentService: documentService,
	}
}

// Get returns the whole document. Missing or corrupt data is served as the
// default document, never as an error.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.documentService.Snapshot()

	w.Header().Set("ETag", snap.ETag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == snap.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, snap.Document)
}

// Save replaces the whole document with the request body.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)

	var doc model.Document
	err := json.NewDecoder(r.Body).Decode(&doc)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	etag, err := h.documentService.Save(r.Context(), doc, ifMatch(r))
	if errors.Is(err, store.ErrVersionConflict) {
		w.Header().Set("ETag", etag)
		writeError(w, http.StatusPreconditionFailed, "document was modified, reload and try again")
		return
	}
	if err != nil {
		slog.Error("failed to save document", "error", err, "request_id", ctxkeys.RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to save")
		return
	}

	w.Header().Set("ETag", etag)
	writeSuccess(w)
}

// ifMatch returns the If-Match tag, or "" when the write is unconditional.
func ifMatch(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("If-Match"))
	if v == "*" {
		return ""
	}
	return v
}
