package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/omnichat-ai/omnichat/internal/domain"
)

// MessageRepository handles message persistence
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	metadataJSON, _ := json.Marshal(message.Metadata)

	_, err := r.db.Exec(`
		INSERT INTO messages (id, conversation_id, role, content, model, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, message.ID, message.ConversationID, message.Role, message.Content,
		message.Model, string(metadataJSON), message.CreatedAt)

	return err
}

// ListByConversation retrieves all messages for a conversation in creation order
func (r *MessageRepository) ListByConversation(conversationID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, conversation_id, role, content, model, metadata, created_at
		FROM messages WHERE conversation_id = ?
		ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		var model, metadataJSON sql.NullString

		if err := rows.Scan(&message.ID, &message.ConversationID, &message.Role,
			&message.Content, &model, &metadataJSON, &message.CreatedAt); err != nil {
			return nil, err
		}

		if model.Valid {
			message.Model = model.String
		}
		if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
			json.Unmarshal([]byte(metadataJSON.String), &message.Metadata)
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// CountByRole returns the number of messages with the given role
func (r *MessageRepository) CountByRole(role string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE role = ?`, role).Scan(&count)
	return count, err
}
