package domain

import (
	"encoding/json"
	"testing"
)

func TestIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "/2.2/networks/1234", "1234"},
		{"trailing slash", "/2.2/networks/1234/", "1234"},
		{"absolute", "https://api-user.e2ro.com/2.2/eeros/42", "42"},
		{"no slash", "1234", "1234"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IDFromURL(tc.url); got != tc.want {
				t.Fatalf("IDFromURL(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestCollectionUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantLen int
		wantErr bool
	}{
		{"bare list", `[{"url":"/2.2/devices/1"},{"url":"/2.2/devices/2"}]`, 2, false},
		{"data envelope", `{"data":[{"url":"/2.2/devices/1"}]}`, 1, false},
		{"empty envelope", `{"data":[]}`, 0, false},
		{"null", `null`, 0, false},
		{"garbage", `42`, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var c Collection[ProfileDevice]
			err := json.Unmarshal([]byte(tc.payload), &c)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v items", len(c))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(c) != tc.wantLen {
				t.Fatalf("got %d items, want %d", len(c), tc.wantLen)
			}
		})
	}
}

func TestDeviceName(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name   string
		device Device
		want   string
	}{
		{
			"display name wins",
			Device{DisplayName: str("Phone"), Hostname: str("phone.lan"), MAC: str("aa:bb")},
			"Phone",
		},
		{
			"hostname next",
			Device{Hostname: str("phone.lan"), Nickname: str("nick"), MAC: str("aa:bb")},
			"phone.lan",
		},
		{
			"nickname next",
			Device{Nickname: str("nick"), MAC: str("aa:bb")},
			"nick",
		},
		{
			"mac fallback",
			Device{MAC: str("aa:bb")},
			"aa:bb",
		},
		{
			"eui64 when no mac",
			Device{EUI64: str("00:11:22:33:44:55:66:77")},
			"00:11:22:33:44:55:66:77",
		},
		{
			"empty strings skipped",
			Device{DisplayName: str(""), Hostname: str("h")},
			"h",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.device.Name(); got != tc.want {
				t.Fatalf("Name() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSessionValid(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{"complete", Session{UserToken: "t", SessionID: "s"}, true},
		{"missing token", Session{SessionID: "s"}, false},
		{"missing session id", Session{UserToken: "t"}, false},
		{"empty", Session{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.session.Valid(); got != tc.want {
				t.Fatalf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}
