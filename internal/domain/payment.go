package domain

import (
	"context"
	"time"
)

// PaymentStatus is the lifecycle state of one user's payment attempt.
type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment links a user to a payment announcement through the gateway's
// order lifecycle.
// swagger:model Payment
type Payment struct {
	ID             string        `json:"id"`
	EventID        string        `json:"event_id"`
	AnnouncementID string        `json:"announcement_id"`
	UserID         string        `json:"user_id"`
	Amount         float64       `json:"amount"`
	Status         PaymentStatus `json:"status"`
	GatewayOrderID string        `json:"gateway_order_id"`
	GatewayPayID   string        `json:"gateway_payment_id,omitempty"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// PaymentRepository defines payment record storage.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)
	// HasPaid reports whether the user holds a paid record for the
	// announcement: the core's only exposure to the payment subsystem.
	HasPaid(ctx context.Context, announcementID, userID string) (bool, error)
	MarkPaid(ctx context.Context, orderID, gatewayPayID, signature string, paidAt time.Time) error
}

// PaymentGateway is the stateless gateway adapter: it creates orders and
// checks signatures, nothing more.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (orderID string, err error)
	// VerifySignature checks the checkout callback signature.
	VerifySignature(orderID, paymentID, signature string) bool
	// VerifyWebhook checks a webhook body against its signature header.
	VerifyWebhook(body []byte, signature string) bool
	KeyID() string
}

// PaymentOrder is what the client needs to open the gateway checkout.
// swagger:model PaymentOrder
type PaymentOrder struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}

// PaymentService defines the order/verify/webhook flow around announcement
// payments.
type PaymentService interface {
	CreateOrder(ctx context.Context, announcementID, userID string) (*PaymentOrder, error)
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	HasPaid(ctx context.Context, announcementID, userID string) (bool, error)
}
