package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/omnichat-ai/omnichat/internal/domain"
)

// ConversationRepository handles conversation persistence
type ConversationRepository struct {
	db *DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create creates a new conversation
func (r *ConversationRepository) Create(conversation *domain.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO conversations (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, conversation.ID, conversation.Title, conversation.CreatedAt, conversation.UpdatedAt)

	return err
}

// Get retrieves a conversation by ID
func (r *ConversationRepository) Get(id string) (*domain.Conversation, error) {
	conversation := &domain.Conversation{}

	err := r.db.QueryRow(`
		SELECT id, title, created_at, updated_at
		FROM conversations WHERE id = ?
	`, id).Scan(&conversation.ID, &conversation.Title,
		&conversation.CreatedAt, &conversation.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

// List retrieves all conversations, most recently updated first
func (r *ConversationRepository) List() ([]*domain.Conversation, error) {
	rows, err := r.db.Query(`
		SELECT id, title, created_at, updated_at
		FROM conversations ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []*domain.Conversation
	for rows.Next() {
		conversation := &domain.Conversation{}
		if err := rows.Scan(&conversation.ID, &conversation.Title,
			&conversation.CreatedAt, &conversation.UpdatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}

	return conversations, rows.Err()
}

// Touch updates a conversation's updated_at timestamp
func (r *ConversationRepository) Touch(id string) error {
	_, err := r.db.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}
