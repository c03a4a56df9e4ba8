package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"volunteerhub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// Create inserts the event and its head participant in one transaction:
// an event must never exist without its head on the roster.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (title, description, event_code, has_committees, committee_join_limit, head_id, start_date, end_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.Title, e.Description, e.EventCode, e.HasCommittees, string(e.CommitteeJoinLimit),
		e.HeadID, e.StartDate, e.EndDate, e.IsActive, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return err
	}

	head := domain.NewHeadParticipant(e.HeadID, e.CreatedAt)
	insert := `
		INSERT INTO participants (event_id, user_id, role, committee_id, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insert, e.ID, head.UserID, string(head.Role), head.CommitteeID, head.JoinedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.Participants = append(e.Participants, head)
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, description, event_code, has_committees, committee_join_limit, head_id, start_date, end_date, is_active, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e, err := r.scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadParticipants(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.Event, error) {
	code := strings.ToUpper(strings.TrimSpace(eventCode))
	query := `
		SELECT id, title, description, event_code, has_committees, committee_join_limit, head_id, start_date, end_date, is_active, created_at, updated_at
		FROM events
		WHERE event_code = $1
	`
	e, err := r.scanEvent(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, err
	}
	if err := r.loadParticipants(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.event_code, e.has_committees, e.committee_join_limit, e.head_id, e.start_date, e.end_date, e.is_active, e.created_at, e.updated_at
		FROM events e
		JOIN participants p ON p.event_id = e.id
		WHERE p.user_id = $1
		ORDER BY e.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *eventRepository) scanEvent(row scanner) (*domain.Event, error) {
	e := &domain.Event{}
	var joinLimit string
	var startNull, endNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.EventCode, &e.HasCommittees, &joinLimit,
		&e.HeadID, &startNull, &endNull, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.CommitteeJoinLimit = domain.JoinLimit(joinLimit)
	if startNull.Valid {
		e.StartDate = &startNull.Time
	}
	if endNull.Valid {
		e.EndDate = &endNull.Time
	}
	return e, nil
}

func (r *eventRepository) loadParticipants(ctx context.Context, e *domain.Event) error {
	query := `
		SELECT user_id, role, committee_id, joined_at
		FROM participants
		WHERE event_id = $1
		ORDER BY joined_at, user_id
	`
	rows, err := r.DB.QueryContext(ctx, query, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	e.Participants = make([]domain.Participant, 0)
	for rows.Next() {
		var p domain.Participant
		var role string
		var committeeNull sql.NullString
		if err := rows.Scan(&p.UserID, &role, &committeeNull, &p.JoinedAt); err != nil {
			return err
		}
		p.Role = domain.Role(role)
		if committeeNull.Valid {
			p.CommitteeID = &committeeNull.String
		}
		e.Participants = append(e.Participants, p)
	}
	return rows.Err()
}
