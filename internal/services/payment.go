package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"volunteerhub/internal/domain"
)

const paymentCurrency = "INR"

type paymentService struct {
	paymentRepo      domain.PaymentRepository
	announcementRepo domain.AnnouncementRepository
	eventRepo        domain.EventRepository
	gateway          domain.PaymentGateway
	contextTimeout   time.Duration
}

func NewPaymentService(paymentRepo domain.PaymentRepository,
	announcementRepo domain.AnnouncementRepository,
	eventRepo domain.EventRepository,
	gateway domain.PaymentGateway,
	timeout time.Duration,
) domain.PaymentService {
	return &paymentService{
		paymentRepo:      paymentRepo,
		announcementRepo: announcementRepo,
		eventRepo:        eventRepo,
		gateway:          gateway,
		contextTimeout:   timeout,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, announcementID, userID string) (*domain.PaymentOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	if a.Type != domain.AnnouncementPayment || a.PaymentAmount == nil {
		return nil, fmt.Errorf("%w: announcement does not request a payment", domain.ErrInvalidOperation)
	}

	event, err := s.eventRepo.GetByID(ctx, a.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if _, ok := event.Participant(userID); !ok {
		return nil, domain.Forbid("not a participant of this event")
	}

	paid, err := s.paymentRepo.HasPaid(ctx, announcementID, userID)
	if err != nil {
		return nil, fmt.Errorf("check paid: %w", err)
	}
	if paid {
		return nil, domain.ErrAlreadyPaid
	}

	receipt := fmt.Sprintf("ann_%s_%s", announcementID, userID)
	orderID, err := s.gateway.CreateOrder(ctx, *a.PaymentAmount, paymentCurrency, receipt, map[string]string{
		"announcement_id": announcementID,
		"user_id":         userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	p := &domain.Payment{
		EventID:        a.EventID,
		AnnouncementID: announcementID,
		UserID:         userID,
		Amount:         *a.PaymentAmount,
		Status:         domain.PaymentInitiated,
		GatewayOrderID: orderID,
		CreatedAt:      time.Now(),
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("store payment: %w", err)
	}

	return &domain.PaymentOrder{
		OrderID:  orderID,
		Amount:   *a.PaymentAmount,
		Currency: paymentCurrency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.paymentRepo.GetByOrderID(ctx, orderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get payment: %w", err)
	}
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return fmt.Errorf("%w: payment signature mismatch", domain.ErrInvalidInput)
	}
	if err := s.paymentRepo.MarkPaid(ctx, orderID, paymentID, signature, time.Now()); err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	return nil
}

// webhookEvent is the subset of the gateway webhook body we act on.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.gateway.VerifyWebhook(body, signature) {
		return fmt.Errorf("%w: webhook signature mismatch", domain.ErrInvalidInput)
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("%w: malformed webhook body", domain.ErrInvalidInput)
	}
	if evt.Event != "payment.captured" {
		return nil
	}

	orderID := evt.Payload.Payment.Entity.OrderID
	p, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get payment: %w", err)
	}
	// Webhook retries and checkout verification race; both land here, the
	// second one is a no-op.
	if p.Status == domain.PaymentPaid {
		return nil
	}
	if err := s.paymentRepo.MarkPaid(ctx, orderID, evt.Payload.Payment.Entity.ID, signature, time.Now()); err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	return nil
}

func (s *paymentService) HasPaid(ctx context.Context, announcementID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.paymentRepo.HasPaid(ctx, announcementID, userID)
}
