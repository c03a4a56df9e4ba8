package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"volunteerhub/internal/domain"
)

type committeeRepository struct {
	DB *sql.DB
}

func NewCommitteeRepository(db *sql.DB) domain.CommitteeRepository {
	return &committeeRepository{
		DB: db,
	}
}

func (r *committeeRepository) Create(ctx context.Context, c *domain.Committee) error {
	query := `
		INSERT INTO committees (event_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.EventID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateCommittee
		}
		return err
	}
	return nil
}

func (r *committeeRepository) GetByID(ctx context.Context, id string) (*domain.Committee, error) {
	query := `
		SELECT id, event_id, name, description, sub_head_id, created_at, updated_at
		FROM committees
		WHERE id = $1
	`
	c := &domain.Committee{}
	var subHeadNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.EventID, &c.Name, &c.Description, &subHeadNull, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if subHeadNull.Valid {
		c.SubHeadID = &subHeadNull.String
	}
	if err := r.loadVolunteers(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *committeeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Committee, error) {
	query := `
		SELECT id, event_id, name, description, sub_head_id, created_at, updated_at
		FROM committees
		WHERE event_id = $1
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	committees := make([]*domain.Committee, 0)
	for rows.Next() {
		c := &domain.Committee{}
		var subHeadNull sql.NullString
		if err := rows.Scan(&c.ID, &c.EventID, &c.Name, &c.Description, &subHeadNull, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if subHeadNull.Valid {
			c.SubHeadID = &subHeadNull.String
		}
		committees = append(committees, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range committees {
		if err := r.loadVolunteers(ctx, c); err != nil {
			return nil, err
		}
	}
	return committees, nil
}

func (r *committeeRepository) ListByVolunteer(ctx context.Context, eventID, userID string) ([]*domain.Committee, error) {
	query := `
		SELECT c.id, c.event_id, c.name, c.description, c.sub_head_id, c.created_at, c.updated_at
		FROM committees c
		JOIN committee_volunteers cv ON cv.committee_id = c.id
		WHERE c.event_id = $1 AND cv.user_id = $2
		ORDER BY c.name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	committees := make([]*domain.Committee, 0)
	for rows.Next() {
		c := &domain.Committee{}
		var subHeadNull sql.NullString
		if err := rows.Scan(&c.ID, &c.EventID, &c.Name, &c.Description, &subHeadNull, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if subHeadNull.Valid {
			c.SubHeadID = &subHeadNull.String
		}
		committees = append(committees, c)
	}
	return committees, rows.Err()
}

func (r *committeeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM committees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *committeeRepository) loadVolunteers(ctx context.Context, c *domain.Committee) error {
	query := `SELECT user_id FROM committee_volunteers WHERE committee_id = $1 ORDER BY user_id`
	rows, err := r.DB.QueryContext(ctx, query, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	c.Volunteers = make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return err
		}
		c.Volunteers = append(c.Volunteers, userID)
	}
	return rows.Err()
}
