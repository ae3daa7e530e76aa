package eeroapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/misc"
	"github.com/fulviofreitas/eero-exporter/internal/ports"
)

const (
	apiVersion = "2.2"
	userAgent  = "eero-exporter/1.0"

	maxBodyExcerpt = 200
)

// SessionSource yields the stored credential set before each request, so a
// session rewritten on disk takes effect without a restart.
type SessionSource interface {
	Load() (domain.Session, error)
}

// Client talks to the eero cloud API. Every successful response arrives in
// a {"meta": ..., "data": ...} envelope; list payloads are accepted both
// bare and wrapped. GETs retry transient failures a few times inside the
// caller's deadline; POSTs are sent exactly once.
type Client struct {
	base     *url.URL
	hc       *http.Client
	sessions SessionSource
}

var _ ports.Upstream = (*Client)(nil)

// New normalizes the base address and returns a ready Client. sessions may
// be nil for the pre-login flow.
func New(baseURL string, hc *http.Client, sessions SessionSource) (*Client, error) {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	u, err := url.Parse(normalizeBase(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base: %w", err)
	}
	return &Client{base: u, hc: hc, sessions: sessions}, nil
}

func normalizeBase(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	return strings.TrimRight(s, "/")
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + apiVersion + path
	return u.String()
}

// sessionCookie is the value sent as the "s" cookie on authenticated
// requests. An unreadable or empty session sends no cookie; the upstream
// answers 401 and the error taxonomy takes it from there.
func (c *Client) sessionCookie() string {
	if c.sessions == nil {
		return ""
	}
	s, err := c.sessions.Load()
	if err != nil {
		return ""
	}
	return s.SessionID
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, cookie string) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rd)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "s", Value: cookie})
	}
	return req, nil
}

// do sends one request and returns the raw body of a 2xx response. Every
// failure is classified against the error taxonomy.
func (c *Client) do(req *http.Request) (_ []byte, retErr error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w", req.Method, req.URL.Path, err, domain.ErrTransient)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close response body: %w", cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %v: %w", err, domain.ErrTransient)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func statusError(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized:
		return fmt.Errorf("upstream status 401: %w", domain.ErrAuth)
	case http.StatusTooManyRequests:
		return fmt.Errorf("upstream status 429: %w", domain.ErrRateLimited)
	default:
		return fmt.Errorf("upstream status %d: %s: %w", code, bodyExcerpt(body), domain.ErrTransient)
	}
}

func bodyExcerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyExcerpt {
		s = s[:maxBodyExcerpt] + "..."
	}
	return s
}

// getJSON performs an authenticated GET, retrying transient failures, and
// decodes the envelope's data member into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	cookie := c.sessionCookie()
	var body []byte
	op := func() error {
		req, err := c.newRequest(ctx, http.MethodGet, path, nil, cookie)
		if err != nil {
			return err
		}
		b, err := c.do(req)
		if err != nil {
			return err
		}
		body = b
		return nil
	}
	if err := misc.Retry(ctx, misc.DefaultBackoff, isRetryableUpstream, op); err != nil {
		return err
	}
	return decodeData(body, out)
}

// postJSON performs a single POST attempt. cookie replaces the stored
// session for the login flow; out may be nil when the response body does
// not matter.
func (c *Client) postJSON(ctx context.Context, path string, payload any, cookie string, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, payload, cookie)
	if err != nil {
		return err
	}
	body, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeData(body, out)
}

func isRetryableUpstream(err error) bool {
	return domain.Kind(err) == domain.KindTransient
}

type envelope struct {
	Meta struct {
		Code int `json:"code"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

func decodeData(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %v: %w", err, domain.ErrTransient)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("envelope carries no data: %w", domain.ErrTransient)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, domain.ErrTransient)
	}
	return nil
}
