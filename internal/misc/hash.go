package misc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignSHA256 returns the hex-encoded HMAC-SHA256 of value under key.
func SignSHA256(value []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(value)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature reports whether sig is the HMAC-SHA256 of value under key,
// comparing in constant time.
func ValidSignature(value []byte, key, sig string) bool {
	raw, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(value)
	return hmac.Equal(raw, mac.Sum(nil))
}
