package domain

import "time"

// NotificationType 通知類型
type NotificationType string

const (
	// NotificationSystem fans out to everyone, never has a receiver
	NotificationSystem NotificationType = "system"
	// NotificationProject addressed to a project topic
	NotificationProject NotificationType = "project"
	// NotificationPersonal addressed to one user
	NotificationPersonal NotificationType = "personal"
)

// Valid report whether t is a supported type
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSystem, NotificationProject, NotificationPersonal:
		return true
	}
	return false
}

// NotificationPriority 通知優先級
type NotificationPriority string

const (
	// PriorityLow low
	PriorityLow NotificationPriority = "low"
	// PriorityNormal default
	PriorityNormal NotificationPriority = "normal"
	// PriorityHigh high
	PriorityHigh NotificationPriority = "high"
	// PriorityUrgent urgent
	PriorityUrgent NotificationPriority = "urgent"
)

// Valid report whether p is a supported priority
func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Notification 持久化的通知
type Notification struct {
	ID         int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string               `gorm:"size:255;not null" json:"title"`
	Content    string               `gorm:"type:text" json:"content"`
	Type       NotificationType     `gorm:"size:16;index" json:"type"`
	Priority   NotificationPriority `gorm:"size:16" json:"priority"`
	SenderID   int64                `json:"senderId"`
	SenderName string               `gorm:"size:64" json:"senderName"`
	ReceiverID *int64               `gorm:"index" json:"receiverId,omitempty"`
	ProjectID  *int64               `gorm:"index" json:"projectId,omitempty"`
	IsRead     bool                 `json:"isRead"`
	IsPushed   bool                 `json:"isPushed"`
	CreateTime time.Time            `json:"createTime"`
	UpdateTime time.Time            `json:"updateTime"`
	ExpireTime *time.Time           `json:"expireTime,omitempty"`
	ExtraData  string               `gorm:"type:text" json:"extraData,omitempty"`
}

// TableName gorm table
func (Notification) TableName() string {
	return "notifications"
}

// NotificationRequest send request; nil/empty fields take defaults
type NotificationRequest struct {
	Title           string               `json:"title"`
	Content         string               `json:"content"`
	Type            NotificationType     `json:"type"`
	Priority        NotificationPriority `json:"priority,omitempty"`
	ReceiverID      *int64               `json:"receiverId,omitempty"`
	ProjectID       *int64               `json:"projectId,omitempty"`
	ExpireTime      *time.Time           `json:"expireTime,omitempty"`
	ExtraData       string               `json:"extraData,omitempty"`
	PushImmediately *bool                `json:"pushImmediately,omitempty"`
}
