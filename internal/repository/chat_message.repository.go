package repository

import (
	"database/sql"
	"fmt"
	"investorly/internal/domain"
	"time"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Add(msg domain.StoredChatMessage) (*domain.StoredChatMessage, error)
	ListBySession(sessionID uuid.UUID, limit int) ([]domain.StoredChatMessage, error)
}

type chatMessageRepositoryHandler struct {
	Db *sql.DB
}

func NewChatMessageRepository(db *sql.DB) ChatMessageRepository {
	return chatMessageRepositoryHandler{Db: db}
}

func (h chatMessageRepositoryHandler) Add(msg domain.StoredChatMessage) (*domain.StoredChatMessage, error) {
	msg.ChatMessageID = uuid.New()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.CreatedAt = msg.CreatedAt.UTC()

	_, err := h.Db.Exec(
		`INSERT INTO chat_message (chat_message_id, session_id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ChatMessageID.String(),
		msg.SessionID.String(),
		msg.UserID,
		string(msg.Role),
		msg.Content,
		msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat message: %w", err)
	}

	return &msg, nil
}

// ListBySession returns the most recent messages of a session in
// chronological order.
func (h chatMessageRepositoryHandler) ListBySession(sessionID uuid.UUID, limit int) ([]domain.StoredChatMessage, error) {
	rows, err := h.Db.Query(
		`SELECT chat_message_id, session_id, user_id, role, content, created_at
		FROM chat_message WHERE session_id = $1
		ORDER BY created_at DESC LIMIT $2`,
		sessionID.String(),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	out := []domain.StoredChatMessage{}
	for rows.Next() {
		var (
			id, session, role string
			msg               domain.StoredChatMessage
		)
		if err := rows.Scan(&id, &session, &msg.UserID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		if msg.ChatMessageID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse chat message id %s: %w", id, err)
		}
		if msg.SessionID, err = uuid.Parse(session); err != nil {
			return nil, fmt.Errorf("failed to parse session id %s: %w", session, err)
		}
		msg.Role = domain.ChatRole(role)
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list chat messages for session %s: %w", sessionID, err)
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
