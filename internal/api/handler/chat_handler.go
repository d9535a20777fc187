package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/commonroom/community-platform/internal/core/domain"
	"github.com/commonroom/community-platform/internal/core/ports"
)

// ChatHandler handles HTTP requests for direct-message chats.
type ChatHandler struct {
	service ports.ChatService
}

func NewChatHandler(service ports.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type openChatRequest struct {
	PeerID string `json:"peer_id" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type chatSummaryResponse struct {
	ID        string    `json:"id"`
	PeerID    string    `json:"peer_id"`
	Unread    int64     `json:"unread"`
	CreatedAt time.Time `json:"created_at"`
}

type listChatsResponse struct {
	Data []chatSummaryResponse `json:"data"`
}

type listMessagesResponse struct {
	Data []domain.Message `json:"data"`
}

// Open handles POST /chats — returns the chat with the peer, creating it on
// first use. Idempotent per participant pair.
//
// @Summary      Open a chat
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      openChatRequest  true  "Peer"
// @Success      200   {object}  domain.Chat
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /chats [post]
func (h *ChatHandler) Open(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req openChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	chat, err := h.service.Open(c.Request().Context(), userID, req.PeerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chat)
}

// List handles GET /chats — the user's chats with unread counts.
//
// @Summary      List chats
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listChatsResponse
// @Router       /chats [get]
func (h *ChatHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	summaries, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	data := make([]chatSummaryResponse, len(summaries))
	for i, s := range summaries {
		data[i] = chatSummaryResponse{
			ID:        s.Chat.ID,
			PeerID:    s.PeerID,
			Unread:    s.Unread,
			CreatedAt: s.Chat.CreatedAt.UTC(),
		}
	}
	return c.JSON(http.StatusOK, listChatsResponse{Data: data})
}

// Messages handles GET /chats/:id/messages — returns the history and resets
// the caller's unread counter.
//
// @Summary      Read a chat
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Chat id"
// @Success      200  {object}  listMessagesResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /chats/{id}/messages [get]
func (h *ChatHandler) Messages(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	messages, err := h.service.Messages(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, listMessagesResponse{Data: messages})
}

// Send handles POST /chats/:id/messages.
//
// @Summary      Send a message
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Chat id"
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /chats/{id}/messages [post]
func (h *ChatHandler) Send(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	message, err := h.service.Send(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, message)
}
