package event

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// EncryptToken answers the provider's endpoint.url_validation challenge:
// hex-encoded HMAC-SHA256 of the plain token under the webhook secret.
func EncryptToken(plainToken, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(plainToken))
	return hex.EncodeToString(mac.Sum(nil))
}
