package square

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"
)

const testNotificationURL = "https://example.com/webhooks/square"

func signSHA256(url string, body []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(url))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"payment.updated","event_id":"ev1"}`)
	key := "signature-key"

	valid := signSHA256(testNotificationURL, body, key)
	ok, err := VerifySignature(testNotificationURL, body, valid, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected valid signature to verify")
	}

	// SHA1 fallback for subscriptions on the v1 scheme.
	macSHA1 := hmac.New(sha1.New, []byte(key))
	macSHA1.Write([]byte(testNotificationURL))
	macSHA1.Write(body)
	validSHA1 := base64.StdEncoding.EncodeToString(macSHA1.Sum(nil))
	ok, err = VerifySignature(testNotificationURL, body, validSHA1, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected sha1 fallback signature to verify")
	}
}

func TestVerifySignature_Mismatch(t *testing.T) {
	body := []byte(`{"type":"payment.updated"}`)
	key := "signature-key"

	// Signed over a different body.
	sig := signSHA256(testNotificationURL, []byte(`tampered`), key)
	ok, err := VerifySignature(testNotificationURL, body, sig, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected tampered body to fail verification")
	}

	// Signed with a different key.
	sig = signSHA256(testNotificationURL, body, "wrong-key")
	ok, _ = VerifySignature(testNotificationURL, body, sig, key)
	if ok {
		t.Fatalf("expected wrong key to fail verification")
	}

	// Signed over a different URL.
	sig = signSHA256("https://evil.example.com/webhooks/square", body, key)
	ok, _ = VerifySignature(testNotificationURL, body, sig, key)
	if ok {
		t.Fatalf("expected wrong notification URL to fail verification")
	}
}

func TestVerifySignature_Malformed(t *testing.T) {
	body := []byte(`{}`)

	for _, header := range []string{"", "   ", "not!!base64%%"} {
		_, err := VerifySignature(testNotificationURL, body, header, "key")
		if !errors.Is(err, ErrMalformedSignature) {
			t.Fatalf("header %q: expected ErrMalformedSignature, got %v", header, err)
		}
	}
}

func TestHasPositiveTender(t *testing.T) {
	tests := []struct {
		name    string
		tenders []Tender
		want    bool
	}{
		{name: "no tenders", tenders: nil, want: false},
		{name: "zero amount", tenders: []Tender{{AmountMoney: &Money{Amount: 0}}}, want: false},
		{name: "negative amount", tenders: []Tender{{AmountMoney: &Money{Amount: -100}}}, want: false},
		{name: "nil money", tenders: []Tender{{}}, want: false},
		{name: "positive amount", tenders: []Tender{{AmountMoney: &Money{Amount: 500}}}, want: true},
		{name: "mixed", tenders: []Tender{{AmountMoney: &Money{Amount: 0}}, {AmountMoney: &Money{Amount: 250}}}, want: true},
	}

	for _, tt := range tests {
		o := &Order{Tenders: tt.tenders}
		if got := o.HasPositiveTender(); got != tt.want {
			t.Fatalf("%s: HasPositiveTender() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
