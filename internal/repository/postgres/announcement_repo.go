package postgres

import (
	"context"
	"database/sql"
	"errors"

	"volunteerhub/internal/domain"
)

type announcementRepository struct {
	DB *sql.DB
}

func NewAnnouncementRepository(db *sql.DB) domain.AnnouncementRepository {
	return &announcementRepository{
		DB: db,
	}
}

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	query := `
		INSERT INTO announcements (event_id, type, committee_id, title, content, created_by, is_pinned, payment_amount, payment_purpose, payment_deadline, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		a.EventID, string(a.Type), a.CommitteeID, a.Title, a.Content, a.CreatedBy,
		a.IsPinned, a.PaymentAmount, a.PaymentPurpose, a.PaymentDeadline, a.ExpiryDate,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	query := `
		SELECT id, event_id, type, committee_id, title, content, created_by, is_pinned, payment_amount, payment_purpose, payment_deadline, expiry_date, created_at, updated_at
		FROM announcements
		WHERE id = $1
	`
	a, err := scanAnnouncement(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *announcementRepository) ListByEvent(ctx context.Context, eventID string, annType domain.AnnouncementType, committeeID string) ([]*domain.Announcement, error) {
	query := `
		SELECT id, event_id, type, committee_id, title, content, created_by, is_pinned, payment_amount, payment_purpose, payment_deadline, expiry_date, created_at, updated_at
		FROM announcements
		WHERE event_id = $1
		  AND ($2 = '' OR type = $2)
		  AND ($3 = '' OR committee_id = $3)
		ORDER BY is_pinned DESC, created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, string(annType), committeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	announcements := make([]*domain.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (r *announcementRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	query := `UPDATE announcements SET is_pinned = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, pinned, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAnnouncement(row scanner) (*domain.Announcement, error) {
	a := &domain.Announcement{}
	var annType string
	var committeeNull, purposeNull sql.NullString
	var amountNull sql.NullFloat64
	var deadlineNull, expiryNull sql.NullTime
	err := row.Scan(
		&a.ID, &a.EventID, &annType, &committeeNull, &a.Title, &a.Content, &a.CreatedBy,
		&a.IsPinned, &amountNull, &purposeNull, &deadlineNull, &expiryNull, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Type = domain.AnnouncementType(annType)
	if committeeNull.Valid {
		a.CommitteeID = &committeeNull.String
	}
	if amountNull.Valid {
		a.PaymentAmount = &amountNull.Float64
	}
	if purposeNull.Valid {
		a.PaymentPurpose = &purposeNull.String
	}
	if deadlineNull.Valid {
		a.PaymentDeadline = &deadlineNull.Time
	}
	if expiryNull.Valid {
		a.ExpiryDate = &expiryNull.Time
	}
	return a, nil
}
