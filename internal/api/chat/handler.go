package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omnichat-ai/omnichat/internal/domain"
	"github.com/omnichat-ai/omnichat/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)
	r.POST("/conversations", h.CreateConversation)
	r.GET("/conversations", h.ListConversations)
	r.GET("/conversations/:id/messages", h.GetMessages)
	r.GET("/providers", h.GetProviders)
}

// Chat handles a chat message
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), &req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateConversation creates a new empty conversation
func (h *Handler) CreateConversation(c *gin.Context) {
	var req domain.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversation, err := h.chatService.CreateConversation(&req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

// ListConversations returns all conversations, most recently updated first
func (h *Handler) ListConversations(c *gin.Context) {
	conversations, err := h.chatService.ListConversations()
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if conversations == nil {
		conversations = []*domain.Conversation{}
	}

	c.JSON(http.StatusOK, conversations)
}

// GetMessages returns the messages of a conversation in creation order
func (h *Handler) GetMessages(c *gin.Context) {
	messages, err := h.chatService.GetMessages(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}

	c.JSON(http.StatusOK, messages)
}

// GetProviders returns the configured providers and search engines
func (h *Handler) GetProviders(c *gin.Context) {
	c.JSON(http.StatusOK, h.chatService.Providers())
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoProviderConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
