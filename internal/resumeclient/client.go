// Package resumeclient talks to the résumé persistence service: creating a
// résumé, appending versions and fetching the latest one for a user.
package resumeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jobtracker/internal/types"
)

// DefaultTimeout is the request timeout used when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// DefaultTitle is the title given to a user's first résumé.
const DefaultTitle = "Default Resume"

// Config configures a Client. It is passed explicitly; there is no package
// level base URL or token.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a persistence service client. It never retries; callers decide
// whether to re-trigger a failed save.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Error represents a failed persistence request.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed: HTTP status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, token: cfg.Token, http: hc}, nil
}

// CreateResume creates a résumé, optionally with an initial version.
func (c *Client) CreateResume(ctx context.Context, req types.CreateResumeRequest) (*types.CreatedResume, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "create resume", http.MethodPost, "/api/resume", req, &raw); err != nil {
		return nil, err
	}
	var payload struct {
		types.CreatedResume
		Resume *types.CreatedResume `json:"resume"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, &Error{Op: "create resume", Message: "invalid response", Cause: err}
		}
	}
	created := &payload.CreatedResume
	// Some deployments wrap the record as {"resume": {...}}.
	if created.ResumeID == "" && payload.Resume != nil {
		created = payload.Resume
	}
	if created.ResumeID == "" {
		return nil, &Error{Op: "create resume", Message: "response has no resumeId"}
	}
	return created, nil
}

// AppendVersion stores a new version of an existing résumé.
func (c *Client) AppendVersion(ctx context.Context, v types.ResumeVersion) (*types.StoredVersion, error) {
	if v.ResumeID == "" {
		return nil, &Error{Op: "append version", Message: "resumeId is required"}
	}
	stored := &types.StoredVersion{}
	if err := c.do(ctx, "append version", http.MethodPost, "/api/resume/version", v, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// FetchLatest returns the latest saved résumé of a user, or nil when the
// user has none.
func (c *Client) FetchLatest(ctx context.Context, userID string) (*types.CanonicalResume, error) {
	var raw json.RawMessage
	path := "/api/resume/user/" + url.PathEscape(userID)
	err := c.do(ctx, "fetch resume", http.MethodGet, path, nil, &raw)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	canonical, err := NormalizePayload(raw)
	if err != nil {
		return nil, &Error{Op: "fetch resume", Message: "invalid response", Cause: err}
	}
	return canonical, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Message: "failed to encode request", Cause: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: serverMessage(respBody, resp.StatusCode)}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Op: op, Message: "invalid response", Cause: err}
	}
	return nil
}

// serverMessage extracts {"message": ...} or {"error": ...} from an error
// body, falling back to the status text.
func serverMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}
