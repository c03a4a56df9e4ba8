package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"volunteerhub/internal/domain"
)

type membershipRepository struct {
	DB *sql.DB
}

// NewMembershipRepository returns the Postgres-backed membership store.
// Mutations spanning the participant list and committee volunteer sets run
// in a single transaction so the two aggregates never diverge.
func NewMembershipRepository(db *sql.DB) domain.MembershipRepository {
	return &membershipRepository{
		DB: db,
	}
}

func (r *membershipRepository) AddParticipant(ctx context.Context, eventID string, p domain.Participant) error {
	query := `
		INSERT INTO participants (event_id, user_id, role, committee_id, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, p.UserID, string(p.Role), p.CommitteeID, p.JoinedAt)
	return err
}

func (r *membershipRepository) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	purge := `
		DELETE FROM committee_volunteers cv
		USING committees c
		WHERE cv.committee_id = c.id AND c.event_id = $1 AND cv.user_id = $2
	`
	if _, err := tx.ExecContext(ctx, purge, eventID, userID); err != nil {
		return err
	}
	remove := `DELETE FROM participants WHERE event_id = $1 AND user_id = $2`
	if _, err := tx.ExecContext(ctx, remove, eventID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *membershipRepository) AssignSubHead(ctx context.Context, eventID, committeeID, userID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	promote := `
		UPDATE participants SET role = 'subhead', committee_id = $1
		WHERE event_id = $2 AND user_id = $3
	`
	result, err := tx.ExecContext(ctx, promote, committeeID, eventID, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrInvalidOperation
	}

	assign := `UPDATE committees SET sub_head_id = $1 WHERE id = $2 AND event_id = $3`
	result, err = tx.ExecContext(ctx, assign, userID, committeeID, eventID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *membershipRepository) DemoteSubHead(ctx context.Context, eventID, committeeID, userID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	demote := `
		UPDATE participants SET role = 'volunteer', committee_id = NULL
		WHERE event_id = $1 AND user_id = $2 AND role = 'subhead' AND committee_id = $3
	`
	result, err := tx.ExecContext(ctx, demote, eventID, userID, committeeID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrInvalidOperation
	}

	clear := `UPDATE committees SET sub_head_id = NULL WHERE id = $1 AND event_id = $2 AND sub_head_id = $3`
	if _, err := tx.ExecContext(ctx, clear, committeeID, eventID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *membershipRepository) JoinCommittees(ctx context.Context, eventID, userID string, limit domain.JoinLimit, committeeIDs []string) ([]string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the user's participant row so concurrent joins for the same user
	// serialize; the limit check below is then race-free.
	var role string
	lock := `SELECT role FROM participants WHERE event_id = $1 AND user_id = $2 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lock, eventID, userID).Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	count := `
		SELECT COUNT(*)
		FROM committee_volunteers cv
		JOIN committees c ON c.id = cv.committee_id
		WHERE c.event_id = $1 AND cv.user_id = $2
	`
	var current int
	if err := tx.QueryRowContext(ctx, count, eventID, userID).Scan(&current); err != nil {
		return nil, err
	}

	max := limit.Max()
	joined := make([]string, 0, len(committeeIDs))
	limitHit := false

	for _, committeeID := range committeeIDs {
		var name string
		sel := `SELECT name FROM committees WHERE id = $1 AND event_id = $2`
		if err := tx.QueryRowContext(ctx, sel, committeeID, eventID).Scan(&name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}

		if current >= max {
			limitHit = true
			break
		}

		insert := `
			INSERT INTO committee_volunteers (committee_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (committee_id, user_id) DO NOTHING
		`
		result, err := tx.ExecContext(ctx, insert, committeeID, userID)
		if err != nil {
			return nil, err
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			current++
			joined = append(joined, name)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if limitHit {
		return joined, domain.ErrJoinLimitExceeded
	}
	return joined, nil
}

func (r *membershipRepository) RemoveVolunteer(ctx context.Context, committeeID, userID string) error {
	query := `DELETE FROM committee_volunteers WHERE committee_id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, query, committeeID, userID)
	return err
}

func (r *membershipRepository) CountCommitteesForUser(ctx context.Context, eventID, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM committee_volunteers cv
		JOIN committees c ON c.id = cv.committee_id
		WHERE c.event_id = $1 AND cv.user_id = $2
	`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
