package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/templui/folio/internal/gate"
	"github.com/templui/folio/internal/model"
)

var (
	ErrConflict     = errors.New("document was changed elsewhere, reload first")
	ErrUnauthorized = errors.New("editor session required")
)

// StatusError is a non-2xx response from the server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client holds the portfolio document on the editing side. Mutations are
// sent as full-document saves and only applied locally once the server
// accepted them.
type Client struct {
	baseURL string
	http    *http.Client
	gate    *gate.Gate
	now     func() time.Time

	mu   sync.Mutex
	doc  model.Document
	etag string
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Jar must be set for sessions to stick.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock sets the time source used for new project ids.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 5 * time.Minute},
		now:     time.Now,
		doc:     model.EmptyDocument(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.gate = gate.New(c.verifyPIN)

	return c, nil
}

// Gate is the edit gate driven by Login and Logout.
func (c *Client) Gate() *gate.Gate {
	return c.gate
}

// Document returns a copy of the current local state.
func (c *Client) Document() model.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

func (c *Client) Profile() model.Profile {
	return c.Document().Profile
}

func (c *Client) Projects() []model.Project {
	return c.Document().Projects
}

// FetchDocument loads the document from the server. Any failure leaves an
// empty document in place; it is logged at debug level only.
func (c *Client) FetchDocument(ctx context.Context) model.Document {
	doc, etag, err := c.fetch(ctx)
	if err != nil {
		slog.Debug("fetch document failed, using empty document", "error", err)
		doc, etag = model.EmptyDocument(), ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc
	c.etag = etag
	return c.doc.Clone()
}

func (c *Client) fetch(ctx context.Context) (model.Document, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/profile", nil)
	if err != nil {
		return model.Document{}, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Document{}, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Document{}, "", statusError(resp)
	}

	var doc model.Document
	err = json.NewDecoder(resp.Body).Decode(&doc)
	if err != nil {
		return model.Document{}, "", fmt.Errorf("failed to decode document: %w", err)
	}
	doc.Normalize()

	return doc, resp.Header.Get("ETag"), nil
}

// SaveProfile saves p together with the current projects.
func (c *Client) SaveProfile(ctx context.Context, p model.Profile) error {
	c.mu.Lock()
	doc := c.doc.Clone()
	c.mu.Unlock()

	doc.Profile = p
	return c.save(ctx, doc)
}

// SaveProjects saves projects together with the current profile.
func (c *Client) SaveProjects(ctx context.Context, projects []model.Project) error {
	c.mu.Lock()
	doc := c.doc.Clone()
	c.mu.Unlock()

	doc.Projects = append([]model.Project{}, projects...)
	return c.save(ctx, doc)
}

// save posts doc and replaces the local state with it on success. The local
// state is left untouched on any failure.
func (c *Client) save(ctx context.Context, doc model.Document) error {
	doc.Normalize()
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/profile", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	etag := c.etag
	c.mu.Unlock()
	if etag != "" {
		req.Header.Set("If-Match", etag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusPreconditionFailed:
		return ErrConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return statusError(resp)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc
	c.etag = resp.Header.Get("ETag")
	return nil
}

// Upload streams r as the multipart "file" part and returns where it is served.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*model.UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result model.UploadResult
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode upload result: %w", err)
	}
	return &result, nil
}

// Login opens the gate with pin, establishing a server session.
func (c *Client) Login(ctx context.Context, pin string) error {
	if c.gate.Submit(ctx, pin) {
		return nil
	}
	return errors.New(c.gate.Error())
}

// Logout closes the gate and ends the server session.
func (c *Client) Logout(ctx context.Context) error {
	c.gate.Logout()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (c *Client) verifyPIN(ctx context.Context, pin string) error {
	body, err := json.Marshal(map[string]string{"pin": pin})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return gate.ErrInvalidPIN
	default:
		return statusError(resp)
	}
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	return &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
}
