package domain

// Session is the persisted eero credential set. The user token is issued
// at login and promoted to session ID after code verification.
type Session struct {
	UserToken          string `json:"user_token"`
	SessionID          string `json:"session_id"`
	RefreshToken       string `json:"refresh_token,omitempty"`
	UserID             string `json:"user_id,omitempty"`
	PreferredNetworkID string `json:"preferred_network_id,omitempty"`
	SessionExpiry      string `json:"session_expiry,omitempty"`
}

// Valid reports whether the session carries enough to authenticate a
// request. Expiry is not checked here; the upstream is the authority and
// answers 401 when it no longer honors the cookie.
func (s Session) Valid() bool {
	return s.UserToken != "" && s.SessionID != ""
}
