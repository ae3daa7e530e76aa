package eeroapi

import (
	"context"
	"fmt"
	"time"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
)

// Login starts the two-step login flow. The upstream texts or emails a
// verification code to the identifier and returns a user token for Verify.
func (c *Client) Login(ctx context.Context, identifier string) (string, error) {
	var payload struct {
		UserToken string `json:"user_token"`
	}
	if err := c.postJSON(ctx, "/login", map[string]string{"login": identifier}, "", &payload); err != nil {
		return "", err
	}
	if payload.UserToken == "" {
		return "", fmt.Errorf("login response carries no user token: %w", domain.ErrAuth)
	}
	return payload.UserToken, nil
}

// Verify completes the login flow with the code the user received. On
// success the user token becomes the session ID; the preferred network is
// the first one on the account.
func (c *Client) Verify(ctx context.Context, userToken, code string) (domain.Session, error) {
	var payload struct {
		Networks domain.Collection[domain.Network] `json:"networks"`
	}
	if err := c.postJSON(ctx, "/login/verify", map[string]string{"code": code}, userToken, &payload); err != nil {
		return domain.Session{}, err
	}

	sess := domain.Session{
		UserToken:     userToken,
		SessionID:     userToken,
		SessionExpiry: time.Now().UTC().Format(time.RFC3339),
	}
	if len(payload.Networks) > 0 {
		sess.PreferredNetworkID = domain.IDFromURL(payload.Networks[0].URL)
	}
	return sess, nil
}

// Logout invalidates the stored session upstream. The caller clears the
// local session file regardless of the result.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/logout", nil, c.sessionCookie(), nil)
}
