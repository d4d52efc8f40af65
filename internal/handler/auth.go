package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/templui/folio/internal/ctxkeys"
	"github.com/templui/folio/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	enforced    bool
}

func NewAuthHandler(authService *service.AuthService, enforced bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		enforced:    enforced,
	}
}

type loginRequest struct {
	PIN string `json:"pin"`
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Enforced      bool       `json:"enforced"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// Login accepts {"pin": "1234"} as JSON or a form field and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	} else {
		req.PIN = r.FormValue("pin")
	}

	token, session, err := h.authService.Login(req.PIN)
	if errors.Is(err, service.ErrInvalidPIN) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.authService.SetSessionCookie(w, token, session.ExpiresAt)
	slog.Info("editor logged in", "session_id", session.ID)

	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		Enforced:      h.enforced,
		ExpiresAt:     &session.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	writeSuccess(w)
}

// Session reports whether the caller holds an editor session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{Enforced: h.enforced}
	if session := ctxkeys.Session(r.Context()); session != nil {
		resp.Authenticated = true
		resp.ExpiresAt = &session.ExpiresAt
	}
	writeJSON(w, http.StatusOK, resp)
}
