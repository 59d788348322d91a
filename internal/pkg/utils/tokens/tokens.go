package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ParseToken strips the service prefix from a raw bearer token. Tokens with
// another prefix or an empty secret are rejected.
func ParseToken(raw, prefix string) (secret string, ok bool) {
	secret, ok = strings.CutPrefix(raw, prefix)
	if !ok || secret == "" {
		return "", false
	}
	return secret, true
}

// HMAC256Hex is the lookup digest of a secret: stable for a given pepper, so
// it can be compared without keeping the secret itself around.
func HMAC256Hex(pepper, secret string) string {
	m := hmac.New(sha256.New, []byte(pepper))
	m.Write([]byte(secret))
	return hex.EncodeToString(m.Sum(nil))
}

// EqualHex compares two digests in constant time.
func EqualHex(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
