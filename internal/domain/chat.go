package domain

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation represents a chat conversation
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message represents a chat message. A message is created once per turn and
// never mutated afterwards.
type Message struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversationId"`
	Role           string         `json:"role"` // user, assistant, system
	Content        string         `json:"content"`
	Model          string         `json:"model,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Metadata keys used on assistant messages.
const (
	MetadataKeySearchResults = "searchResults"
	MetadataKeyResponses     = "responses"
	MetadataKeyCombined      = "combined"
)

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	ConversationID string `json:"conversationId,omitempty"`
	Content        string `json:"content" binding:"required"`
	Model          string `json:"model,omitempty"`
	IncludeSearch  bool   `json:"includeSearch,omitempty"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	UserMessage      *Message        `json:"userMessage"`
	AssistantMessage *Message        `json:"assistantMessage"`
	SearchResults    *SearchResponse `json:"searchResults,omitempty"`
}

// CreateConversationRequest is the request to create a conversation
type CreateConversationRequest struct {
	Title string `json:"title,omitempty"`
}
