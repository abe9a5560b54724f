package domain

import (
	"strconv"
	"strings"
	"time"
)

// MessageType outbound message tag
type MessageType string

const (
	// UserJoined a user joined a project topic
	UserJoined MessageType = "USER_JOINED"
	// UserLeft a user left a project topic
	UserLeft MessageType = "USER_LEFT"
	// UserDisconnected a user's connection dropped while inside a project
	UserDisconnected MessageType = "USER_DISCONNECTED"
	// UserStatus presence change / replay
	UserStatus MessageType = "USER_STATUS"
	// NotificationPushed a persisted notification pushed in realtime
	NotificationPushed MessageType = "NOTIFICATION"
	// ErrorMessage a rejected inbound frame, sent back to the same connection only
	ErrorMessage MessageType = "ERROR"
)

// Action inbound realtime action
type Action string

const (
	// ProjectJoin bind identity and enter a project topic
	ProjectJoin Action = "project.join"
	// ProjectLeave leave a project topic without going offline
	ProjectLeave Action = "project.leave"
	// ProjectUpdate forward a project update
	ProjectUpdate Action = "project.update"
	// UserStatusUpdate online/offline update or request_all replay
	UserStatusUpdate Action = "user.status"
	// UserAvatarUpdate avatar change broadcast
	UserAvatarUpdate Action = "user.avatar"
	// ChatSend chat message relay
	ChatSend Action = "chat.message"
)

// ParseAction accept both "project.join" and "/app/project.join"
func ParseAction(destination string) Action {
	return Action(strings.TrimPrefix(destination, "/app/"))
}

// RouteClass where a message is delivered
type RouteClass int

const (
	// RouteBroadcast global topic
	RouteBroadcast RouteClass = iota
	// RouteTopic project topic
	RouteTopic
	// RoutePointToPoint single user
	RoutePointToPoint
)

// GlobalDestination fixed broadcast channel
const GlobalDestination = "global"

// UserDestination point-to-point channel of a user
func UserDestination(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

// ProjectDestination topic channel of a project
func ProjectDestination(projectID int64) string {
	return "project:" + strconv.FormatInt(projectID, 10)
}

// RealtimeMessage 即時訊息
//
// SenderID 0 means "no sender". When both ReceiverID and ProjectID are set the
// message is point-to-point.
type RealtimeMessage struct {
	Type       string      `json:"type"`
	Content    interface{} `json:"content,omitempty"`
	SenderID   int64       `json:"senderId,omitempty"`
	SenderName string      `json:"senderName,omitempty"`
	ProjectID  *int64      `json:"projectId,omitempty"`
	ReceiverID *int64      `json:"receiverId,omitempty"`
	Timestamp  int64       `json:"timestamp"`
	MessageID  string      `json:"messageId,omitempty"`
}

// NewRealtimeMessage build a message stamped with the current time
func NewRealtimeMessage(t MessageType, content interface{}, senderID int64, senderName string) RealtimeMessage {
	return RealtimeMessage{
		Type:       string(t),
		Content:    content,
		SenderID:   senderID,
		SenderName: senderName,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// RouteClass resolve the routing class, point-to-point wins over topic
func (m RealtimeMessage) RouteClass() RouteClass {
	switch {
	case m.ReceiverID != nil:
		return RoutePointToPoint
	case m.ProjectID != nil:
		return RouteTopic
	default:
		return RouteBroadcast
	}
}

// ContentMap content as a JSON object, nil when it is not one
func (m RealtimeMessage) ContentMap() map[string]interface{} {
	c, _ := m.Content.(map[string]interface{})
	return c
}

// InboundFrame client -> server websocket frame
type InboundFrame struct {
	Destination string          `json:"destination"`
	Payload     RealtimeMessage `json:"payload"`
}

// OutboundFrame server -> client websocket frame
type OutboundFrame struct {
	Destination string          `json:"destination"`
	Message     RealtimeMessage `json:"message"`
}
