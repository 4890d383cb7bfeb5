package postgres

import (
	"context"

	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		message.ID, message.SenderID, message.RecipientID, message.Body,
	).Scan(&message.CreatedAt)
}

func (r *messageRepository) GetConversation(ctx context.Context, userID, peerID int, limit int) ([]*domain.Message, error) {
	var messages []*domain.Message
	query := `
		SELECT id, sender_id, recipient_id, body, created_at, read_at
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC
		LIMIT $3
	`
	err := r.db.SelectContext(ctx, &messages, query, userID, peerID, limit)
	return messages, err
}

// GetRecentConversations returns the latest message of each conversation
// the user participates in, newest first.
func (r *messageRepository) GetRecentConversations(ctx context.Context, userID int, limit int) ([]*domain.Message, error) {
	var messages []*domain.Message
	query := `
		SELECT DISTINCT ON (LEAST(sender_id, recipient_id), GREATEST(sender_id, recipient_id))
		       id, sender_id, recipient_id, body, created_at, read_at
		FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY LEAST(sender_id, recipient_id), GREATEST(sender_id, recipient_id), created_at DESC
		LIMIT $2
	`
	err := r.db.SelectContext(ctx, &messages, query, userID, limit)
	return messages, err
}

func (r *messageRepository) MarkRead(ctx context.Context, messageID string, userID int) error {
	query := `
		UPDATE messages
		SET read_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND recipient_id = $2 AND read_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, messageID, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`, messageID).Scan(&exists)
		if checkErr != nil {
			return checkErr
		}
		if !exists {
			return domain.ErrMessageNotFound
		}
	}
	return nil
}
