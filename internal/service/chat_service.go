package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/omnichat-ai/omnichat/internal/domain"
	"go.uber.org/zap"
)

// titleMaxLen caps the auto-generated conversation title.
const titleMaxLen = 80

// ConversationStore is the conversation persistence the chat service needs.
type ConversationStore interface {
	Create(conversation *domain.Conversation) error
	Get(id string) (*domain.Conversation, error)
	List() ([]*domain.Conversation, error)
	Touch(id string) error
}

// MessageStore is the message persistence the chat service needs.
type MessageStore interface {
	Create(message *domain.Message) error
	ListByConversation(conversationID string) ([]*domain.Message, error)
}

// ChatService handles conversation lifecycle and per-turn message
// persistence around the orchestrator.
type ChatService struct {
	conversations ConversationStore
	messages      MessageStore
	orchestrator  *Orchestrator
	logger        *zap.Logger
}

// NewChatService creates a chat service.
func NewChatService(conversations ConversationStore, messages MessageStore, orchestrator *Orchestrator, logger *zap.Logger) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		orchestrator:  orchestrator,
		logger:        logger,
	}
}

// Chat runs one chat turn: persist the user message, run the turn, persist
// the assistant message. The user message is persisted before dispatch so a
// failed turn still leaves the user's side of the exchange in history.
func (s *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidRequest)
	}

	conversation, err := s.resolveConversation(req)
	if err != nil {
		return nil, err
	}

	userMessage := &domain.Message{
		ConversationID: conversation.ID,
		Role:           domain.RoleUser,
		Content:        req.Content,
	}
	if err := s.messages.Create(userMessage); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	turn, err := s.orchestrator.RunTurn(ctx, TurnInput{
		Content:       req.Content,
		Model:         req.Model,
		IncludeSearch: req.IncludeSearch,
	})
	if err != nil {
		return nil, err
	}

	assistantMessage := &domain.Message{
		ConversationID: conversation.ID,
		Role:           domain.RoleAssistant,
		Content:        turn.Content,
		Model:          turn.ModelUsed,
		Metadata:       turnMetadata(turn),
	}
	if err := s.messages.Create(assistantMessage); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	if err := s.conversations.Touch(conversation.ID); err != nil {
		s.logger.Warn("failed to touch conversation",
			zap.String("conversation_id", conversation.ID),
			zap.Error(err),
		)
	}

	return &domain.ChatResponse{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		SearchResults:    turn.Search,
	}, nil
}

// resolveConversation loads the requested conversation or creates a fresh
// one titled from the first message.
func (s *ChatService) resolveConversation(req *domain.ChatRequest) (*domain.Conversation, error) {
	if req.ConversationID != "" {
		conversation, err := s.conversations.Get(req.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("load conversation: %w", err)
		}
		if conversation == nil {
			return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, req.ConversationID)
		}
		return conversation, nil
	}

	conversation := &domain.Conversation{Title: titleFrom(req.Content)}
	if err := s.conversations.Create(conversation); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conversation, nil
}

// CreateConversation creates an empty conversation.
func (s *ChatService) CreateConversation(req *domain.CreateConversationRequest) (*domain.Conversation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New conversation"
	}
	conversation := &domain.Conversation{Title: title}
	if err := s.conversations.Create(conversation); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conversation, nil
}

// ListConversations returns all conversations, most recently updated first.
func (s *ChatService) ListConversations() ([]*domain.Conversation, error) {
	return s.conversations.List()
}

// GetMessages returns the messages of a conversation in creation order.
func (s *ChatService) GetMessages(conversationID string) ([]*domain.Message, error) {
	conversation, err := s.conversations.Get(conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, conversationID)
	}
	return s.messages.ListByConversation(conversationID)
}

// Providers reports configured providers and search engines.
func (s *ChatService) Providers() Providers {
	return s.orchestrator.Providers()
}

// turnMetadata builds the assistant message metadata from a turn result.
func turnMetadata(turn *TurnResult) map[string]any {
	metadata := map[string]any{}
	if turn.Search != nil {
		metadata[domain.MetadataKeySearchResults] = turn.Search
	}
	if turn.Multi != nil {
		metadata[domain.MetadataKeyResponses] = turn.Multi.Responses
		if turn.Multi.Combined != "" {
			metadata[domain.MetadataKeyCombined] = true
		}
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

// titleFrom derives a conversation title from the first message.
func titleFrom(content string) string {
	title := strings.TrimSpace(content)
	if utf8.RuneCountInString(title) <= titleMaxLen {
		return title
	}
	runes := []rune(title)
	return string(runes[:titleMaxLen-3]) + "..."
}
