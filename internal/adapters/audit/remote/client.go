package remoteaudit

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

	"github.com/fulviofreitas/eero-exporter/internal/misc"
	"github.com/fulviofreitas/eero-exporter/internal/services/audit"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body when the
// sink is configured with a key.
const SignatureHeader = "X-Audit-Signature"

// Client forwards cycle events to a remote webhook.
type Client struct {
	endpoint string
	key      string
	hc       *http.Client
}

// New validates the webhook URL and returns a Client that POSTs events
// there. A non-empty key turns on body signing.
func New(rawURL, key string, hc *http.Client) (*Client, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("audit url is empty")
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid audit url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("audit url scheme %q is not http(s)", u.Scheme)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{endpoint: rawURL, key: strings.TrimSpace(key), hc: hc}, nil
}

// Notify serializes the event and issues an HTTP POST to the webhook.
func (c *Client) Notify(ctx context.Context, evt audit.Event) (retErr error) {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set(SignatureHeader, misc.SignSHA256(payload, c.key))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("audit post: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close audit response: %w", cerr)
		}
	}()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain audit response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("audit post status %d", resp.StatusCode)
	}
	return nil
}
