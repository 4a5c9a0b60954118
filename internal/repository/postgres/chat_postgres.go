package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"legaldesk/internal/model"
	"legaldesk/internal/repository"
)

// ChatPostgres stores chat messages in chat_messages. Ordering comes from the
// seq column, so messages written in one Append keep their order.
type ChatPostgres struct {
	db *sql.DB
}

func NewChatPostgres(db *sql.DB) *ChatPostgres {
	return &ChatPostgres{db: db}
}

var _ repository.ChatHistoryRepository = (*ChatPostgres)(nil)

// Append inserts msgs in a single transaction.
func (r *ChatPostgres) Append(ctx context.Context, conversationID string, msgs ...model.ChatMessage) (err error) {
	if len(msgs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
		INSERT INTO chat_messages (id, conversation_id, role, content, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, m := range msgs {
		payload, mErr := json.Marshal(m)
		if mErr != nil {
			return fmt.Errorf("encode message %s: %w", m.ID, mErr)
		}
		if _, err = tx.ExecContext(ctx, q, m.ID, conversationID, string(m.Role), m.Content, payload, m.Timestamp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ChatPostgres) Recent(ctx context.Context, conversationID string, limit int) ([]model.ChatMessage, error) {
	const q = `
		SELECT payload FROM (
			SELECT seq, payload
			FROM chat_messages
			WHERE conversation_id = $1
			ORDER BY seq DESC
			LIMIT $2
		) recent
		ORDER BY seq ASC
	`
	rows, err := r.db.QueryContext(ctx, q, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ChatMessage, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var m model.ChatMessage
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ChatPostgres) Trim(ctx context.Context, conversationID string, keep int) error {
	const q = `
		DELETE FROM chat_messages
		WHERE conversation_id = $1
		AND seq NOT IN (
			SELECT seq FROM chat_messages
			WHERE conversation_id = $1
			ORDER BY seq DESC
			LIMIT $2
		)
	`
	_, err := r.db.ExecContext(ctx, q, conversationID, keep)
	return err
}

func (r *ChatPostgres) Clear(ctx context.Context, conversationID string) error {
	const q = `DELETE FROM chat_messages WHERE conversation_id = $1`
	_, err := r.db.ExecContext(ctx, q, conversationID)
	return err
}
