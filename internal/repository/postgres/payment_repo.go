package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"volunteerhub/internal/domain"
)

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{
		DB: db,
	}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (event_id, announcement_id, user_id, amount, status, gateway_order_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		p.EventID, p.AnnouncementID, p.UserID, p.Amount, string(p.Status), p.GatewayOrderID,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `
		SELECT id, event_id, announcement_id, user_id, amount, status, gateway_order_id, gateway_payment_id, paid_at, created_at
		FROM payments
		WHERE gateway_order_id = $1
	`
	p := &domain.Payment{}
	var status string
	var payIDNull sql.NullString
	var paidAtNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, orderID).Scan(
		&p.ID, &p.EventID, &p.AnnouncementID, &p.UserID, &p.Amount, &status,
		&p.GatewayOrderID, &payIDNull, &paidAtNull, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Status = domain.PaymentStatus(status)
	if payIDNull.Valid {
		p.GatewayPayID = payIDNull.String
	}
	if paidAtNull.Valid {
		p.PaidAt = &paidAtNull.Time
	}
	return p, nil
}

func (r *paymentRepository) HasPaid(ctx context.Context, announcementID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE announcement_id = $1 AND user_id = $2 AND status = 'paid'
		)
	`
	var paid bool
	if err := r.DB.QueryRowContext(ctx, query, announcementID, userID).Scan(&paid); err != nil {
		return false, err
	}
	return paid, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, orderID, gatewayPayID, signature string, paidAt time.Time) error {
	query := `
		UPDATE payments
		SET status = 'paid', gateway_payment_id = $1, gateway_signature = $2, paid_at = $3
		WHERE gateway_order_id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, gatewayPayID, signature, paidAt, orderID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
