package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/config"
)

func signPayload(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestNewClientWithoutCredentials(t *testing.T) {
	client, err := NewClient(context.Background(), config.RazorpayConfig{}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client.Configured() {
		t.Fatal("client without credentials should not report configured")
	}
	if client.Currency() != "INR" {
		t.Fatalf("expected INR default currency, got %q", client.Currency())
	}

	if _, err := client.CreateOrder(context.Background(), decimal.NewFromInt(100), "order-1"); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	client, err := NewClient(context.Background(), config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "test-secret",
	}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	orderRef := "order_MkWd12345"
	paymentRef := "pay_NwXy67890"
	valid := signPayload("test-secret", orderRef, paymentRef)

	if !client.VerifySignature(orderRef, paymentRef, valid) {
		t.Fatal("expected valid signature to verify")
	}
	if client.VerifySignature(orderRef, paymentRef, valid+"00") {
		t.Fatal("tampered signature should fail")
	}
	if client.VerifySignature(orderRef, "pay_other", valid) {
		t.Fatal("signature over different payment ref should fail")
	}
	if client.VerifySignature("", paymentRef, valid) {
		t.Fatal("empty order ref should fail")
	}
}

func TestVerifySignatureUnconfigured(t *testing.T) {
	client, err := NewClient(context.Background(), config.RazorpayConfig{}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client.VerifySignature("order", "payment", "whatever") {
		t.Fatal("unconfigured client must reject every signature")
	}
}
