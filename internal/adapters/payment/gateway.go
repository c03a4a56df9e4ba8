// Package payment adapts a Razorpay-style checkout gateway: order creation
// over its REST API and HMAC-SHA256 signature checks for callbacks and
// webhooks.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"volunteerhub/internal/domain"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

type gateway struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	client        *http.Client
}

// Config holds the gateway credentials.
type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	// BaseURL overrides the live API endpoint, for tests.
	BaseURL string
}

func NewGateway(cfg Config) domain.PaymentGateway {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &gateway{
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       baseURL,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers an order with the gateway. Amounts are rupees on
// our side and paise on the wire.
func (g *gateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (string, error) {
	body, err := json.Marshal(orderRequest{
		Amount:   int64(amount * 100),
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return "", fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create order: gateway returned %s", resp.Status)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("gateway returned an empty order id")
	}
	return order.ID, nil
}

// VerifySignature checks the checkout callback: the signature is
// HMAC-SHA256 of "orderID|paymentID" under the key secret.
func (g *gateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyHMAC(g.keySecret, orderID+"|"+paymentID, signature)
}

// VerifyWebhook checks a webhook body against the X-Razorpay-Signature
// header value, which is HMAC-SHA256 of the raw body under the webhook
// secret.
func (g *gateway) VerifyWebhook(body []byte, signature string) bool {
	return verifyHMAC(g.webhookSecret, string(body), signature)
}

func (g *gateway) KeyID() string { return g.keyID }

func verifyHMAC(secret, payload, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
