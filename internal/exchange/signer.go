package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strings"
)

// Signer produces the signed query string the exchange expects. Pairs are
// pre-encoded "key=value" strings and are serialized in the exact order
// supplied by the caller; the signature covers that literal byte string, so
// identical input always yields identical output.
type Signer struct {
	secret string
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: strings.TrimSpace(secret)}
}

func (s *Signer) Sign(pairs []string) string {
	payload := strings.Join(pairs, "&")
	return payload + "&signature=" + hmacSHA256Hex(s.secret, payload)
}

func hmacSHA256Hex(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return fmt.Sprintf("%x", h.Sum(nil))
}
