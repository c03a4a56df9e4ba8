package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestGateway_CreateOrder(t *testing.T) {
	var gotBody orderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"id": "order_abc"})
	}))
	defer srv.Close()

	g := NewGateway(Config{KeyID: "key_test", KeySecret: "secret_test", BaseURL: srv.URL})
	orderID, err := g.CreateOrder(context.Background(), 250.0, "INR", "ann_1_vol1", map[string]string{"user_id": "vol1"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", orderID)
	assert.Equal(t, int64(25000), gotBody.Amount, "rupees become paise on the wire")
	assert.Equal(t, "INR", gotBody.Currency)
	assert.Equal(t, "vol1", gotBody.Notes["user_id"])
}

func TestGateway_CreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad auth", http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := NewGateway(Config{KeyID: "k", KeySecret: "s", BaseURL: srv.URL})
	_, err := g.CreateOrder(context.Background(), 1, "INR", "r", nil)
	require.Error(t, err)
}

func TestGateway_VerifySignature(t *testing.T) {
	g := NewGateway(Config{KeyID: "k", KeySecret: "secret_test"})

	valid := sign("secret_test", "order_abc|pay_xyz")
	assert.True(t, g.VerifySignature("order_abc", "pay_xyz", valid))
	assert.False(t, g.VerifySignature("order_abc", "pay_xyz", "forged"))
	assert.False(t, g.VerifySignature("order_abc", "pay_other", valid))
}

func TestGateway_VerifyWebhook(t *testing.T) {
	g := NewGateway(Config{KeyID: "k", KeySecret: "s", WebhookSecret: "hook_secret"})

	body := []byte(`{"event":"payment.captured"}`)
	assert.True(t, g.VerifyWebhook(body, sign("hook_secret", string(body))))
	assert.False(t, g.VerifyWebhook(body, sign("wrong", string(body))))
	assert.False(t, g.VerifyWebhook([]byte(`tampered`), sign("hook_secret", string(body))))
}
