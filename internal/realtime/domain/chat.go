package domain

import "time"

// ChatMessageType 聊天訊息類型
type ChatMessageType string

const (
	// ChatText plain text
	ChatText ChatMessageType = "text"
	// ChatFile object-store attachment
	ChatFile ChatMessageType = "file"
	// ChatEmoji emoji / sticker
	ChatEmoji ChatMessageType = "emoji"
)

// ChatMessage 持久化的點對點聊天訊息
type ChatMessage struct {
	ID          string          `bson:"_id" json:"id"`
	SenderID    int64           `bson:"sender_id" json:"senderId"`
	ReceiverID  int64           `bson:"receiver_id" json:"receiverId"`
	Content     string          `bson:"content" json:"content"`
	MessageType ChatMessageType `bson:"message_type" json:"messageType"`
	IsRead      bool            `bson:"is_read" json:"isRead"`
	CreatedTime time.Time       `bson:"created_time" json:"createdTime"`
	UpdatedTime time.Time       `bson:"updated_time" json:"updatedTime"`
}

// ChatPayload typed chat content {kind, text, objectKey, fileName, url}
type ChatPayload struct {
	Kind      ChatMessageType `json:"kind"`
	Text      string          `json:"text,omitempty"`
	ObjectKey string          `json:"objectKey,omitempty"`
	FileName  string          `json:"fileName,omitempty"`
	URL       string          `json:"url,omitempty"`
}

// ChatContact a peer with the last exchanged message
type ChatContact struct {
	PeerID      int64     `bson:"_id" json:"peerId"`
	LastMessage string    `bson:"last_message" json:"lastMessage"`
	LastTime    time.Time `bson:"last_time" json:"lastTime"`
	UnreadCount int       `bson:"unread_count" json:"unreadCount"`
}

// ChatHistoryQuery paged history between two users
type ChatHistoryQuery struct {
	UserID     int64
	ChatUserID int64
	Page       int
	Size       int
}

// Normalize clamp page >= 1 and size into 1..100 (default 20)
func (q *ChatHistoryQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size <= 0 {
		q.Size = 20
	}
	if q.Size > 100 {
		q.Size = 100
	}
}

// Offset rows to skip
func (q ChatHistoryQuery) Offset() int {
	return (q.Page - 1) * q.Size
}
