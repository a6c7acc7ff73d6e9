package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the lowercase hex HMAC-SHA256 of body keyed by secret. The
// body must be the exact bytes put on the wire, signed after formatting, so
// the receiver can verify against what it actually read.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeader is the X-TrustFlow-Signature header value for body.
func SignatureHeader(body []byte, secret string) string {
	return "sha256=" + Sign(body, secret)
}
