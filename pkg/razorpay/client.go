package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/config"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
)

var (
	// ErrNotConfigured signals that no gateway credentials were supplied.
	ErrNotConfigured = errors.New("razorpay client not configured")
	errEmptyOrderRef = errors.New("gateway order reference is required")
)

var paiseFactor = decimal.NewFromInt(100)

// GatewayOrder is the subset of the gateway order payload callers need.
type GatewayOrder struct {
	Reference string
	Amount    int64
	Currency  string
}

// Client wraps the Razorpay SDK plus the credentials needed for
// signature verification. A nil or unconfigured client is usable;
// order creation then fails with ErrNotConfigured so callers can
// fall back to offline payment collection.
type Client struct {
	api       *razorpay.Client
	keySecret string
	currency  string
}

// NewClient initializes the gateway client when credentials are present.
// Missing credentials are not an error; the client reports !Configured().
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	keyID := strings.TrimSpace(cfg.KeyID)
	keySecret := strings.TrimSpace(cfg.KeySecret)
	currency := strings.TrimSpace(strings.ToUpper(cfg.Currency))
	if currency == "" {
		currency = "INR"
	}

	if keyID == "" || keySecret == "" {
		if logg != nil {
			logg.Warn(ctx, "razorpay credentials missing, gateway disabled")
		}
		return &Client{currency: currency}, nil
	}

	api := razorpay.NewClient(keyID, keySecret)

	if logg != nil {
		logg.Info(ctx, "razorpay client initialized")
	}

	return &Client{
		api:       api,
		keySecret: keySecret,
		currency:  currency,
	}, nil
}

// Configured reports whether gateway credentials were supplied.
func (c *Client) Configured() bool {
	return c != nil && c.api != nil
}

// Currency reports the settlement currency in use.
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// CreateOrder registers an order with the gateway and returns its reference.
// The amount is converted to the currency's minor unit before sending.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*GatewayOrder, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %s", amount)
	}

	paise := amount.Mul(paiseFactor).Round(0).IntPart()
	data := map[string]interface{}{
		"amount":   paise,
		"currency": c.currency,
		"receipt":  receipt,
	}

	body, err := c.api.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("creating razorpay order: %w", err)
	}

	ref, _ := body["id"].(string)
	if ref == "" {
		return nil, errEmptyOrderRef
	}

	return &GatewayOrder{
		Reference: ref,
		Amount:    paise,
		Currency:  c.currency,
	}, nil
}

// VerifySignature checks the gateway callback signature: an HMAC-SHA256
// hex digest of "{orderRef}|{paymentRef}" keyed with the API secret.
// Comparison is constant-time.
func (c *Client) VerifySignature(orderRef, paymentRef, signature string) bool {
	if c == nil || c.keySecret == "" {
		return false
	}
	if orderRef == "" || paymentRef == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
