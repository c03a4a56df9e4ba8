package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"volunteerhub/internal/domain"
)

var eventColumns = []string{
	"id", "title", "description", "event_code", "has_committees", "committee_join_limit",
	"head_id", "start_date", "end_date", "is_active", "created_at", "updated_at",
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("inserts event and head roster row in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO events`).
			WithArgs("TechFest", "Annual fest", "AB12CD", true, "one", "head-1", nil, nil, true, now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
		mock.ExpectExec(`INSERT INTO participants`).
			WithArgs("ev-1", "head-1", "head", nil, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewEventRepository(db)
		e := domain.NewEvent("TechFest", "Annual fest", "head-1", true, domain.JoinLimitOne, now)
		e.EventCode = "AB12CD"
		require.NoError(t, repo.Create(ctx, e))
		require.Equal(t, "ev-1", e.ID)
		require.Len(t, e.Participants, 1)
		require.Equal(t, domain.RoleHead, e.Participants[0].Role)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed head insert rolls the event back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		insertErr := errors.New("participants insert failed")

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO events`).
			WithArgs("TechFest", "Annual fest", "AB12CD", true, "one", "head-1", nil, nil, true, now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
		mock.ExpectExec(`INSERT INTO participants`).
			WithArgs("ev-1", "head-1", "head", nil, now).
			WillReturnError(insertErr)
		mock.ExpectRollback()

		repo := NewEventRepository(db)
		e := domain.NewEvent("TechFest", "Annual fest", "head-1", true, domain.JoinLimitOne, now)
		e.EventCode = "AB12CD"
		require.ErrorIs(t, repo.Create(ctx, e), insertErr)
		require.Empty(t, e.Participants)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_GetByEventCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("normalizes the code and loads participants", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, event_code`).
			WithArgs("AB12CD").
			WillReturnRows(sqlmock.NewRows(eventColumns).
				AddRow("ev-1", "TechFest", "Annual fest", "AB12CD", true, "one", "head-1", nil, nil, true, now, now))
		mock.ExpectQuery(`SELECT user_id, role, committee_id, joined_at`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "role", "committee_id", "joined_at"}).
				AddRow("head-1", "head", nil, now).
				AddRow("sub-1", "subhead", "com-1", now.Add(time.Hour)))

		repo := NewEventRepository(db)
		e, err := repo.GetByEventCode(ctx, "  ab12cd ")
		require.NoError(t, err)
		require.Equal(t, "ev-1", e.ID)
		require.Len(t, e.Participants, 2)
		require.Equal(t, domain.RoleSubhead, e.Participants[1].Role)
		require.NotNil(t, e.Participants[1].CommitteeID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code returns ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, event_code`).
			WithArgs("ZZZZZZ").
			WillReturnRows(sqlmock.NewRows(eventColumns))

		repo := NewEventRepository(db)
		_, err = repo.GetByEventCode(ctx, "zzzzzz")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM events e\s+JOIN participants p`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow("ev-2", "Hackathon", "", "EF34GH", false, "unlimited", "head-2", nil, nil, true, now.Add(time.Hour), now.Add(time.Hour)).
			AddRow("ev-1", "TechFest", "Annual fest", "AB12CD", true, "one", "head-1", nil, nil, true, now, now))

	repo := NewEventRepository(db)
	events, err := repo.ListByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "ev-2", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
