package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/internal/realtime/repository"
	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	legacyFilePrefix  = "FILE:"
	legacyEmojiMarker = "emoji"
	defaultChatType   = "chat.message"
)

// ObjectStore chat attachment storage
type ObjectStore interface {
	PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// ChatRelay 聊天訊息: 持久化點對點訊息並即時轉送
type ChatRelay struct {
	msgRepo       repository.ChatMessageRepository
	router        MessageRouter
	store         ObjectStore
	presignExpiry time.Duration
}

// NewChatRelay create ChatRelay; store may be nil when attachments are disabled
func NewChatRelay(msgRepo repository.ChatMessageRepository, router MessageRouter, store ObjectStore, presignExpiry time.Duration) *ChatRelay {
	if presignExpiry <= 0 {
		presignExpiry = time.Hour
	}
	return &ChatRelay{
		msgRepo:       msgRepo,
		router:        router,
		store:         store,
		presignExpiry: presignExpiry,
	}
}

// HandleChatMessage persist (point-to-point only) and deliver a chat message.
//
// Persistence and delivery failures are logged and counted, never returned; the
// relayed message carries the assigned messageId.
func (r *ChatRelay) HandleChatMessage(ctx context.Context, msg domain.RealtimeMessage) domain.RealtimeMessage {
	msg.MessageID = newMessageID()
	if msg.Type == "" {
		msg.Type = defaultChatType
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	kind, payload, stored := ClassifyChatContent(msg.Content)
	if payload != nil {
		if kind == domain.ChatFile {
			r.attachURL(ctx, payload)
		}
		msg.Content = payload
	}

	if msg.SenderID != 0 && msg.ReceiverID != nil {
		r.persist(ctx, msg, kind, stored)
	}

	r.deliver(ctx, msg)
	return msg
}

func (r *ChatRelay) persist(ctx context.Context, msg domain.RealtimeMessage, kind domain.ChatMessageType, content string) {
	now := time.Now()
	record := &domain.ChatMessage{
		ID:          msg.MessageID,
		SenderID:    msg.SenderID,
		ReceiverID:  *msg.ReceiverID,
		Content:     content,
		MessageType: kind,
		IsRead:      false,
		CreatedTime: now,
		UpdatedTime: now,
	}
	if err := r.msgRepo.Insert(ctx, record); err != nil {
		recordSideChannelFailure("chat message persist", err,
			zap.Int64("sender_id", msg.SenderID), zap.Int64("receiver_id", *msg.ReceiverID))
		return
	}
	logger.Log.Debug("chat message saved", zap.String("message_id", msg.MessageID), zap.String("kind", string(kind)))
}

func (r *ChatRelay) deliver(ctx context.Context, msg domain.RealtimeMessage) {
	switch msg.RouteClass() {
	case domain.RoutePointToPoint:
		if err := r.router.SendToUser(ctx, *msg.ReceiverID, msg); err != nil {
			recordSideChannelFailure("chat relay", err, zap.Int64("receiver_id", *msg.ReceiverID))
		}
		// echo back to the sender as confirmation
		if msg.SenderID != 0 {
			if err := r.router.SendToUser(ctx, msg.SenderID, msg); err != nil {
				recordSideChannelFailure("chat echo", err, zap.Int64("sender_id", msg.SenderID))
			}
		}
	case domain.RouteTopic:
		if err := r.router.SendToProject(ctx, *msg.ProjectID, msg); err != nil {
			recordSideChannelFailure("chat relay", err, zap.Int64("project_id", *msg.ProjectID))
		}
	default:
		if err := r.router.Broadcast(ctx, msg); err != nil {
			recordSideChannelFailure("chat relay", err)
		}
	}
}

func (r *ChatRelay) attachURL(ctx context.Context, payload *domain.ChatPayload) {
	if r.store == nil || payload.ObjectKey == "" {
		return
	}
	url, err := r.store.PresignGetURL(ctx, payload.ObjectKey, r.presignExpiry)
	if err != nil {
		logger.Log.Warn("presign chat attachment failed", zap.String("object_key", payload.ObjectKey), zap.Error(err))
		return
	}
	payload.URL = url
}

// ClassifyChatContent resolve the chat kind of a message content.
//
// An object with a known "kind" is decoded as a typed payload. Anything else is
// stringified and classified by the legacy markers: a "FILE:" prefix is a file,
// a string holding both ":" and "emoji" is an emoji, the rest is text.
// stored is what gets persisted.
func ClassifyChatContent(content interface{}) (kind domain.ChatMessageType, payload *domain.ChatPayload, stored string) {
	if m, ok := content.(map[string]interface{}); ok {
		if p, err := decodeChatPayload(m); err == nil {
			if p.Kind == domain.ChatText {
				return p.Kind, p, p.Text
			}
			raw, _ := json.Marshal(p)
			return p.Kind, p, string(raw)
		}
	}

	var text string
	switch c := content.(type) {
	case nil:
		text = ""
	case string:
		text = c
	default:
		raw, err := json.Marshal(c)
		if err != nil {
			text = fmt.Sprint(c)
		} else {
			text = string(raw)
		}
	}

	switch {
	case strings.HasPrefix(text, legacyFilePrefix):
		return domain.ChatFile, nil, text
	case strings.Contains(text, ":") && strings.Contains(text, legacyEmojiMarker):
		return domain.ChatEmoji, nil, text
	default:
		return domain.ChatText, nil, text
	}
}

func decodeChatPayload(m map[string]interface{}) (*domain.ChatPayload, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var p domain.ChatPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	switch p.Kind {
	case domain.ChatText, domain.ChatFile, domain.ChatEmoji:
		return &p, nil
	}
	return nil, fmt.Errorf("unknown chat kind %q", p.Kind)
}

// History paged conversation between q.UserID and q.ChatUserID, newest first
func (r *ChatRelay) History(ctx context.Context, q domain.ChatHistoryQuery) ([]domain.ChatMessage, error) {
	if q.ChatUserID == 0 {
		return nil, errprocess.InvalidArgument("chatUserId is required")
	}
	q.Normalize()
	msgs, err := r.msgRepo.History(ctx, q)
	if err != nil {
		return nil, errprocess.Storage("chat history", err)
	}
	return msgs, nil
}

// MarkRead mark everything chatUserID sent to userID as read
func (r *ChatRelay) MarkRead(ctx context.Context, userID, chatUserID int64) (int64, error) {
	if chatUserID == 0 {
		return 0, errprocess.InvalidArgument("chatUserId is required")
	}
	n, err := r.msgRepo.MarkRead(ctx, userID, chatUserID)
	if err != nil {
		return 0, errprocess.Storage("chat mark read", err)
	}
	return n, nil
}

// UnreadCount unread messages of userID, from chatUserID only when it is set
func (r *ChatRelay) UnreadCount(ctx context.Context, userID int64, chatUserID *int64) (int64, error) {
	var (
		n   int64
		err error
	)
	if chatUserID != nil {
		n, err = r.msgRepo.UnreadCount(ctx, userID, *chatUserID)
	} else {
		n, err = r.msgRepo.TotalUnread(ctx, userID)
	}
	if err != nil {
		return 0, errprocess.Storage("chat unread count", err)
	}
	return n, nil
}

// Contacts peers userID has exchanged messages with
func (r *ChatRelay) Contacts(ctx context.Context, userID int64) ([]domain.ChatContact, error) {
	contacts, err := r.msgRepo.Contacts(ctx, userID)
	if err != nil {
		return nil, errprocess.Storage("chat contacts", err)
	}
	return contacts, nil
}

// UploadAttachment store a chat file and return its object key and a download URL
func (r *ChatRelay) UploadAttachment(ctx context.Context, userID int64, fileName string, body io.Reader, size int64, contentType string) (*domain.ChatPayload, error) {
	if r.store == nil {
		return nil, errprocess.InvalidArgument("attachments are disabled")
	}
	if fileName == "" || size <= 0 {
		return nil, errprocess.InvalidArgument("empty file")
	}

	key := fmt.Sprintf("chat/%d/%s%s", userID, uuid.New().String(), path.Ext(fileName))
	if err := r.store.PutObject(ctx, key, body, size, contentType); err != nil {
		return nil, errprocess.Storage("upload chat attachment", err)
	}
	payload := &domain.ChatPayload{Kind: domain.ChatFile, ObjectKey: key, FileName: fileName}
	r.attachURL(ctx, payload)
	logger.Log.Info("chat attachment uploaded", zap.Int64("user_id", userID), zap.String("object_key", key))
	return payload, nil
}
