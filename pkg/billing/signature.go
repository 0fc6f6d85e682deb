package billing

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Signature computes the hex HMAC-SHA512 of payload keyed by secret, the
// scheme Paystack uses for the X-Paystack-Signature header.
func Signature(secret string, payload []byte) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature authenticates a webhook delivery. It recomputes the
// signature over the raw body and compares in constant time. Verification
// must run before any parsing of the payload.
func VerifySignature(secret string, payload []byte, signature string) error {
	if secret == "" {
		return ErrMissingWebhookSecret
	}
	if signature == "" {
		return ErrMissingSignature
	}
	expected := Signature(secret, payload)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
