package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/folio/internal/ctxkeys"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/service"
)

// multipartOverhead is the body allowance on top of the file size limit for
// boundaries, part headers and small form fields.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadService *service.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService *service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
	}
}

// Upload streams the multipart part named "file" to storage. Other parts are skipped.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrNoFile.Error())
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			writeError(w, http.StatusBadRequest, service.ErrNoFile.Error())
			return
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}

		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		result, err := h.uploadService.Store(r.Context(), part.FileName(), part)
		_ = part.Close()
		if err != nil {
			h.fail(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
		return
	}
}

func (h *UploadHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrNoFile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadTooLarge), errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, service.ErrUploadTooLarge.Error())
	default:
		slog.Error("upload failed", "error", err, "request_id", ctxkeys.RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "upload failed")
	}
}

func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.uploadService.List(r.Context())
	if err != nil {
		slog.Error("failed to list uploads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list uploads")
		return
	}

	writeJSON(w, http.StatusOK, uploads)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	err := h.uploadService.Delete(r.Context(), filename)
	if errors.Is(err, repository.ErrUploadNotFound) {
		writeError(w, http.StatusNotFound, "upload not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete upload", "error", err, "filename", filename)
		writeError(w, http.StatusInternalServerError, "failed to delete upload")
		return
	}

	writeSuccess(w)
}
