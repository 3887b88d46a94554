// Package api is the HTTP client for the feature generation backend.
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
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/chmouel/lazyfeatures/internal/models"
)

const defaultTimeout = 60 * time.Second

// Error is a non-200 response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

// Logger receives one line per request outcome.
type Logger interface {
	Printf(format string, args ...any)
}

// Client talks to one backend.
type Client struct {
	baseURL   string
	http      *http.Client
	logger    Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger routes request logging to l.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SystemStatus calls GET /system-status.
func (c *Client) SystemStatus(ctx context.Context) (models.SystemStatus, error) {
	var out models.SystemStatus
	err := c.doJSON(ctx, http.MethodGet, "/system-status", nil, &out)
	return out, err
}

// CheckAPIKey calls GET /check-api-key.
func (c *Client) CheckAPIKey(ctx context.Context) (bool, error) {
	var out struct {
		Configured bool `json:"configured"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/check-api-key", nil, &out)
	return out.Configured, err
}

// SetAPIKey calls POST /set-api-key.
func (c *Client) SetAPIKey(ctx context.Context, key string) error {
	return c.doJSON(ctx, http.MethodPost, "/set-api-key", map[string]string{"api_key": key}, nil)
}

// TestStructure calls GET /test-structure.
func (c *Client) TestStructure(ctx context.Context) (models.FileTree, error) {
	out := models.FileTree{}
	err := c.doJSON(ctx, http.MethodGet, "/test-structure", nil, &out)
	return out, err
}

// SyncTests uploads the document at path to POST /sync-tests.
func (c *Client) SyncTests(ctx context.Context, path string, dryRun bool) (models.SyncResponse, error) {
	var out models.SyncResponse

	f, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("open document: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return out, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return out, fmt.Errorf("read document: %w", err)
	}
	if err := w.Close(); err != nil {
		return out, fmt.Errorf("build upload: %w", err)
	}

	endpoint := "/sync-tests"
	if dryRun {
		endpoint += "?" + url.Values{"dry_run": {"true"}}.Encode()
	}
	resp, err := c.do(ctx, http.MethodPost, endpoint, w.FormDataContentType(), &body)
	if err != nil {
		return out, err
	}
	if err := decode(resp, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ApplyProposed posts the stored proposal JSON to POST /apply-proposed.
func (c *Client) ApplyProposed(ctx context.Context, proposal json.Marshaler) error {
	raw, err := proposal.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode proposal: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/apply-proposed", "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return drain(resp)
}

// DownloadProposed posts the stored proposal JSON to POST /download-proposed
// and returns the archive bytes.
func (c *Client) DownloadProposed(ctx context.Context, proposal json.Marshaler) ([]byte, error) {
	raw, err := proposal.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode proposal: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/download-proposed", "application/json", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return data, nil
}

// SetFeaturesDirectory calls POST /set-features-directory. A rejected
// directory comes back as *Error carrying the backend message.
func (c *Client) SetFeaturesDirectory(ctx context.Context, dir string) error {
	return c.doJSON(ctx, http.MethodPost, "/set-features-directory", map[string]string{"directory": dir}, nil)
}

var riskLevels = []string{models.RiskLow, models.RiskMedium, models.RiskHigh}

// Analyze calls POST /analyze.
func (c *Client) Analyze(ctx context.Context, story models.Story) (models.Analysis, error) {
	var out models.Analysis
	if err := c.doJSON(ctx, http.MethodPost, "/analyze", story, &out); err != nil {
		return out, err
	}
	if !slices.Contains(riskLevels, out.RiskLevel) {
		return out, fmt.Errorf("analysis has invalid risk_level %q", out.RiskLevel)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	resp, err := c.do(ctx, method, endpoint, contentType, body)
	if err != nil {
		return err
	}
	if out == nil {
		return drain(resp)
	}
	return decode(resp, out)
}

// do sends the request and turns any non-200 status into *Error.
func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("%s %s failed after %s: %v", method, endpoint, time.Since(start), err)
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	c.logf("%s %s -> %d in %s", method, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close() //nolint:errcheck
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return resp, nil
}

// errorMessage extracts {"error": ...} or {"detail": ...} verbatim.
func errorMessage(data []byte) string {
	var body struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	if body.Error != "" {
		return body.Error
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		return detail
	}
	return strings.TrimSpace(string(body.Detail))
}

func decode(resp *http.Response, out any) error {
	defer resp.Body.Close() //nolint:errcheck
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resp.Request.URL.Path, err)
	}
	return nil
}

func drain(resp *http.Response) error {
	defer resp.Body.Close() //nolint:errcheck
	_, err := io.Copy(io.Discard, resp.Body)
	return err
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
