package postgres

import (
	"context"
	"database/sql"

	"volunteerhub/internal/domain"
)

type chatMessageRepository struct {
	DB *sql.DB
}

// NewChatMessageRepository returns the append-only chat message store.
func NewChatMessageRepository(db *sql.DB) domain.ChatMessageRepository {
	return &chatMessageRepository{
		DB: db,
	}
}

func (r *chatMessageRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (event_id, chat_type, committee_id, sender_id, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		m.EventID, string(m.ChatType), m.CommitteeID, m.SenderID, m.Body,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *chatMessageRepository) ListByChannel(ctx context.Context, eventID string, chatType domain.ChatType, committeeID string, limit, offset int) ([]*domain.ChatMessage, error) {
	// Newest first so limit/offset pages backwards through history; the
	// service reverses each page to chronological order. Ties on created_at
	// break on the insertion sequence.
	query := `
		SELECT m.id, m.event_id, m.chat_type, m.committee_id, m.sender_id, m.body, m.created_at
		FROM chat_messages m
		WHERE m.event_id = $1 AND m.chat_type = $2 AND ($3 = '' OR m.committee_id = $3)
		ORDER BY m.created_at DESC, m.seq DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, string(chatType), committeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	messages := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		m := &domain.ChatMessage{}
		var chatType string
		var committeeNull sql.NullString
		if err := rows.Scan(&m.ID, &m.EventID, &chatType, &committeeNull, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.ChatType = domain.ChatType(chatType)
		if committeeNull.Valid {
			m.CommitteeID = &committeeNull.String
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
