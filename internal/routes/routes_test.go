package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/folio/internal/app"
	"github.com/templui/folio/internal/config"
	"github.com/templui/folio/internal/service"
)

type testEnv struct {
	handler http.Handler
	cfg     *config.Config
}

func newTestEnv(t *testing.T, enforce bool, maxBytes int64) testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		AppName:         "Portfolio",
		AppEnv:          "test",
		AppURL:          "https://ada.dev",
		DataPath:        filepath.Join(dir, "data", "profile.json"),
		UploadDir:       filepath.Join(dir, "public", "uploads"),
		UploadURLPrefix: "/uploads",
		UploadMaxBytes:  maxBytes,
		DBDriver:        "sqlite",
		DBConnection:    filepath.Join(dir, "folio.db"),
		EditPIN:         "1234",
		AuthEnforce:     enforce,
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
	}

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return testEnv{handler: SetupRoutes(a), cfg: cfg}
}

func (e testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"pin":"1234"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := e.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == service.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "ignored"))
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestGetProfileDefaults(t *testing.T) {
	env := newTestEnv(t, true, 0)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.JSONEq(t, `{
		"profile": {
			"name": "Your Name",
			"title": "Full Stack Developer",
			"email": "example@email.com",
			"phone": "010-0000-0000",
			"location": "Seoul",
			"birthdate": "2000-01-01",
			"bio": "Hello!",
			"skills": "React, Next.js",
			"github": "",
			"linkedin": ""
		},
		"projects": []
	}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	assert.Equal(t, http.StatusNotModified, env.do(req).Code)
}

func TestGetProfileCorruptFile(t *testing.T) {
	env := newTestEnv(t, true, 0)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.cfg.DataPath), 0755))
	require.NoError(t, os.WriteFile(env.cfg.DataPath, []byte("{broken"), 0644))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Your Name"`)
}

func TestSaveProfile(t *testing.T) {
	env := newTestEnv(t, true, 0)
	body := `{"profile":{"name":"B"},"projects":[{"id":1,"title":"T","description":"D"}]}`

	t.Run("anonymous", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	session := env.login(t)

	t.Run("bad json", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader("{")), session)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"invalid JSON"}`, rec.Body.String())
	})

	t.Run("too large", func(t *testing.T) {
		huge := `{"profile":{"bio":"` + strings.Repeat("a", 5<<20) + `"},"projects":[]}`
		rec := env.do(httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(huge)), session)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.JSONEq(t, `{"error":"document too large"}`, rec.Body.String())
	})

	t.Run("whole replacement", func(t *testing.T) {
		first := `{"profile":{"name":"A"},"projects":[]}`
		rec := env.do(httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(first)), session)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())

		rec = env.do(httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body)), session)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil))
		var doc struct {
			Profile  map[string]any   `json:"profile"`
			Projects []map[string]any `json:"projects"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, "B", doc.Profile["name"])
		assert.Len(t, doc.Projects, 1)
	})

	t.Run("stale if-match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body))
		req.Header.Set("If-Match", `"stale"`)
		rec := env.do(req, session)
		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("ETag"))
	})

	t.Run("matching if-match", func(t *testing.T) {
		etag := env.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil)).Header().Get("ETag")
		req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body))
		req.Header.Set("If-Match", etag)
		assert.Equal(t, http.StatusOK, env.do(req, session).Code)
	})
}

func TestSaveProfileNotEnforced(t *testing.T) {
	env := newTestEnv(t, false, 0)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(`{"profile":{"name":"A"}}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	data, err := os.ReadFile(env.cfg.DataPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"profile\": {")
	assert.Contains(t, string(data), `"projects": []`)
}

func TestSaveProfileWriteFailure(t *testing.T) {
	env := newTestEnv(t, false, 0)
	// A directory where the document file should be makes the write fail.
	require.NoError(t, os.MkdirAll(env.cfg.DataPath, 0755))

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(`{"profile":{"name":"A"}}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to save"}`, rec.Body.String())
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t, true, 1024)
	session := env.login(t)

	upload := func(field, filename string, content []byte) *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, field, filename, content)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		return env.do(req, session)
	}

	t.Run("stored and served", func(t *testing.T) {
		rec := upload("file", "x.png", []byte("\x89PNG\r\n\x1a\nimage"))
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			URL      string `json:"url"`
			Filename string `json:"filename"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, strings.HasSuffix(result.Filename, ".png"))
		assert.Equal(t, "/uploads/"+result.Filename, result.URL)

		served := env.do(httptest.NewRequest(http.MethodGet, result.URL, nil))
		assert.Equal(t, http.StatusOK, served.Code)
		assert.Equal(t, "\x89PNG\r\n\x1a\nimage", served.Body.String())
	})

	t.Run("without extension", func(t *testing.T) {
		for _, name := range []string{"notes", "README"} {
			rec := upload("file", name, []byte("plain text"))
			require.Equal(t, http.StatusOK, rec.Code, name)

			var result struct {
				Filename string `json:"filename"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Regexp(t, `^\d{13}-\d+$`, result.Filename)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		rec := upload("", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"no file provided"}`, rec.Body.String())
	})

	t.Run("wrong field", func(t *testing.T) {
		rec := upload("image", "x.png", []byte("data"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("{}")), session)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		rec := upload("file", "big.bin", bytes.Repeat([]byte("a"), 2048))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "x.png", []byte("data"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		assert.Equal(t, http.StatusUnauthorized, env.do(req).Code)
	})
}

func TestUploadLedger(t *testing.T) {
	env := newTestEnv(t, true, 0)
	session := env.login(t)

	body, contentType := multipartBody(t, "file", "cv.pdf", []byte("%PDF-1.7\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(req, session)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/uploads", nil), session)
	require.Equal(t, http.StatusOK, rec.Code)
	var uploads []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploads))
	require.Len(t, uploads, 1)
	assert.Equal(t, "cv.pdf", uploads[0]["originalName"])
	assert.Equal(t, "application/pdf", uploads[0]["mimeType"])

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/api/uploads/"+result.Filename, nil), session)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/api/uploads/"+result.Filename, nil), session)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/uploads/"+result.Filename, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSession(t *testing.T) {
	env := newTestEnv(t, true, 0)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.JSONEq(t, `{"authenticated":false,"enforced":true}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"pin":"0000"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = env.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid PIN"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"pin":" 1234 "}`))
	req.Header.Set("Content-Type", "application/json")
	rec = env.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "padded PIN")

	session := env.login(t)
	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), session)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), session)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), service.SessionCookieName+"=;")
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t, true, 0)

	var last int
	for range 6 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"pin":"0000"}`))
		req.Header.Set("Content-Type", "application/json")
		last = env.do(req).Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestPages(t *testing.T) {
	env := newTestEnv(t, false, 0)
	doc := `{"profile":{"name":"Ada","bio":"Loves **engines**","skills":"Go, SQL"},` +
		`"projects":[{"id":1,"title":"Engine","description":"Steam","tech":"Brass","videoUrl":"/uploads/v.mp4","imageUrl":"/uploads/i.png"}]}`
	require.Equal(t, http.StatusOK, env.do(httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(doc))).Code)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, "<h1>Ada</h1>")
	assert.Contains(t, html, "<strong>engines</strong>")
	assert.Contains(t, html, `<video src="/uploads/v.mp4"`)
	assert.NotContains(t, html, `<img src="/uploads/i.png"`)
	assert.Contains(t, html, `<link rel="canonical" href="https://ada.dev/">`)

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'nonce-")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/uploads/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	env := newTestEnv(t, true, 0)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	env.do(httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	rec = env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "folio_document_reads_total")
	assert.Contains(t, string(body), "folio_http_requests_total")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Contains(t, rec.Body.String(), "Sitemap: https://ada.dev/sitemap.xml")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	assert.Contains(t, rec.Body.String(), "<loc>https://ada.dev/</loc>")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
