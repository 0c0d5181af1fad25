// Package api is the typed HTTP client for the ExamForge REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// Error represents a backend error response. Detail carries the backend's
// human-readable message verbatim so callers can surface it directly.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// Config wires the client's dependencies.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Token supplies the current bearer token, or "" when logged out.
	Token func() string
	// OnUnauthorized fires on any 401 outside the login/register routes.
	// The client attaches no retry semantics; the hook owns session teardown.
	OnUnauthorized func()
}

// Client calls the ExamForge backend over HTTP and exposes one typed group
// per endpoint family.
type Client struct {
	baseURL        string
	pathPrefix     string
	httpClient     *http.Client
	token          func() string
	onUnauthorized func()

	Auth      *AuthService
	Papers    *PapersService
	Questions *QuestionsService
	Generate  *GenerateService
	Chat      *ChatService
	Export    *ExportService
	Admin     *AdminService
}

// NewClient constructs a backend client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{
		baseURL:        baseURL,
		pathPrefix:     basePath(baseURL),
		httpClient:     &http.Client{Timeout: timeout},
		token:          cfg.Token,
		onUnauthorized: cfg.OnUnauthorized,
	}
	c.Auth = &AuthService{c: c}
	c.Papers = &PapersService{c: c}
	c.Questions = &QuestionsService{c: c}
	c.Generate = &GenerateService{c: c}
	c.Chat = &ChatService{c: c}
	c.Export = &ExportService{c: c}
	c.Admin = &AdminService{c: c}
	return c
}

// authExempt covers the routes where a 401 means bad credentials rather than
// an expired session, so the unauthorized hook must not fire.
func authExempt(path string) bool {
	return strings.HasPrefix(path, "/auth/login") || strings.HasPrefix(path, "/auth/register")
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, out any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fileField, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

// doBlob streams a binary response body to w.
func (c *Client) doBlob(ctx context.Context, path string, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return c.responseError(strings.TrimPrefix(req.URL.Path, c.pathPrefix), resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if c.token != nil {
		if token := strings.TrimSpace(c.token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return c.responseError(strings.TrimPrefix(req.URL.Path, c.pathPrefix), resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) responseError(path string, resp *http.Response) error {
	var errResp struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errResp)
	detail := strings.TrimSpace(errResp.Detail)
	if detail == "" {
		detail = resp.Status
	}
	if resp.StatusCode == http.StatusUnauthorized && !authExempt(path) && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return &Error{Status: resp.StatusCode, Detail: detail}
}

// basePath extracts the path prefix of the configured base URL so the
// auth-exempt check sees backend-relative routes.
func basePath(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
