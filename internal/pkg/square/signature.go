package square

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"hash"
	"strings"
)

// ErrMalformedSignature marks signature headers that cannot be decoded, as
// opposed to ones that decode but do not match. Callers map the former to
// 400 and the latter to 403.
var ErrMalformedSignature = errors.New("square: malformed signature header")

// VerifySignature checks a webhook signature against the raw request body.
// Square signs the concatenation of the notification URL and the body with
// the subscription's signature key; current subscriptions use HMAC-SHA256
// (x-square-hmacsha256-signature), older ones HMAC-SHA1 (x-square-signature).
// Both yield a base64 digest.
func VerifySignature(notificationURL string, body []byte, signatureHeader, signatureKey string) (bool, error) {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" {
		return false, ErrMalformedSignature
	}

	decoded, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false, ErrMalformedSignature
	}

	payload := append([]byte(notificationURL), body...)
	if verifyHMAC(payload, decoded, []byte(signatureKey), sha256.New) {
		return true, nil
	}
	// Fallback for subscriptions still on the v1 scheme.
	return verifyHMAC(payload, decoded, []byte(signatureKey), sha1.New), nil
}

func verifyHMAC(payload, expectedSig, key []byte, hashFunc func() hash.Hash) bool {
	mac := hmac.New(hashFunc, key)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expectedSig)
}
