package app

import (
	"todo_realtime_service/internal/realtime/domain"
	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler 聊天 REST API
type ChatHandler struct {
	relay *ChatRelay
}

// NewChatHandler create ChatHandler
func NewChatHandler(relay *ChatRelay) *ChatHandler {
	return &ChatHandler{relay: relay}
}

// History 聊天紀錄
// @Summary Conversation between the caller and another user
// @Tags Chat
// @Produce json
// @Param chatUserId query int true "peer user id"
// @Param page query int false "page, starts at 1"
// @Param size query int false "page size, 1..100"
// @Success 200 {array} domain.ChatMessage
// @Router /api/chat/history [get]
func (h *ChatHandler) History(c *fiber.Ctx) error {
	peer, err := queryInt64(c, "chatUserId")
	if err != nil {
		return respondError(c, err)
	}
	if peer == nil {
		return respondError(c, errprocess.InvalidArgument("chatUserId is required"))
	}
	userID, _, _ := middlewares.Identity(c)
	msgs, err := h.relay.History(c.UserContext(), domain.ChatHistoryQuery{
		UserID:     userID,
		ChatUserID: *peer,
		Page:       c.QueryInt("page", 1),
		Size:       c.QueryInt("size", 20),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}

// Contacts 聊天對象
// @Summary Peers of the caller with the last message
// @Tags Chat
// @Produce json
// @Success 200 {array} domain.ChatContact
// @Router /api/chat/contacts [get]
func (h *ChatHandler) Contacts(c *fiber.Ctx) error {
	userID, _, _ := middlewares.Identity(c)
	contacts, err := h.relay.Contacts(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contacts)
}

// MarkRead 標記已讀
// @Summary Mark messages from a peer read
// @Tags Chat
// @Param chatUserId query int true "peer user id"
// @Success 200 {object} map[string]interface{}
// @Router /api/chat/read [put]
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	peer, err := queryInt64(c, "chatUserId")
	if err != nil {
		return respondError(c, err)
	}
	if peer == nil {
		return respondError(c, errprocess.InvalidArgument("chatUserId is required"))
	}
	userID, _, _ := middlewares.Identity(c)
	n, err := h.relay.MarkRead(c.UserContext(), userID, *peer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": n})
}

// UnreadCount 未讀數
// @Summary Unread chat messages, optionally from one peer
// @Tags Chat
// @Param chatUserId query int false "peer user id"
// @Success 200 {object} map[string]interface{}
// @Router /api/chat/unread-count [get]
func (h *ChatHandler) UnreadCount(c *fiber.Ctx) error {
	peer, err := queryInt64(c, "chatUserId")
	if err != nil {
		return respondError(c, err)
	}
	userID, _, _ := middlewares.Identity(c)
	n, err := h.relay.UnreadCount(c.UserContext(), userID, peer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// UploadFile 上傳聊天附件
// @Summary Upload a chat attachment
// @Tags Chat
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "attachment"
// @Success 200 {object} domain.ChatPayload
// @Router /api/chat/files [post]
func (h *ChatHandler) UploadFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, errprocess.InvalidArgument("file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, errprocess.InvalidArgument("unreadable file"))
	}
	defer f.Close()

	userID, _, _ := middlewares.Identity(c)
	payload, err := h.relay.UploadAttachment(c.UserContext(), userID, fh.Filename, f, fh.Size, fh.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payload)
}
