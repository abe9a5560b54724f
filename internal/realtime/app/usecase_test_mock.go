package app

import (
	"context"
	"io"
	"time"

	"todo_realtime_service/internal/realtime/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

// MockRouter mock MessageRouter
type MockRouter struct {
	mock.Mock
}

// SendToUser mock send to user
func (m *MockRouter) SendToUser(ctx context.Context, userID int64, msg domain.RealtimeMessage) error {
	args := m.Called(ctx, userID, msg)
	return args.Error(0)
}

// SendToProject mock send to project
func (m *MockRouter) SendToProject(ctx context.Context, projectID int64, msg domain.RealtimeMessage) error {
	args := m.Called(ctx, projectID, msg)
	return args.Error(0)
}

// Broadcast mock broadcast
func (m *MockRouter) Broadcast(ctx context.Context, msg domain.RealtimeMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockTransport mock repository.Transport
type MockTransport struct {
	mock.Mock
}

// Publish mock publish
func (m *MockTransport) Publish(ctx context.Context, destination string, msg domain.RealtimeMessage) error {
	args := m.Called(ctx, destination, msg)
	return args.Error(0)
}

// Subscribe mock subscribe
func (m *MockTransport) Subscribe(ctx context.Context, destination string, handler func(domain.RealtimeMessage)) error {
	args := m.Called(ctx, destination, handler)
	return args.Error(0)
}

// MockNotificationRepository mock NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

// AutoMigrate mock migrate
func (m *MockNotificationRepository) AutoMigrate() error {
	return m.Called().Error(0)
}

// Insert mock insert, assigns id 1 when the mock returns no error
func (m *MockNotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	if args.Error(0) == nil && n.ID == 0 {
		n.ID = 1
	}
	return args.Error(0)
}

// Update mock update
func (m *MockNotificationRepository) Update(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// FindByID mock find
func (m *MockNotificationRepository) FindByID(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByUser mock list
func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByProject mock list
func (m *MockNotificationRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Notification, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListSystem mock list
func (m *MockNotificationRepository) ListSystem(ctx context.Context) ([]domain.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkAsRead mock mark read
func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) (int64, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MarkAllAsRead mock mark all read
func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// UnreadCount mock unread count
func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Delete mock delete
func (m *MockNotificationRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockChatMessageRepository mock ChatMessageRepository
type MockChatMessageRepository struct {
	mock.Mock
}

// Insert mock insert
func (m *MockChatMessageRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// History mock history
func (m *MockChatMessageRepository) History(ctx context.Context, q domain.ChatHistoryQuery) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead mock mark read
func (m *MockChatMessageRepository) MarkRead(ctx context.Context, userID, chatUserID int64) (int64, error) {
	args := m.Called(ctx, userID, chatUserID)
	return args.Get(0).(int64), args.Error(1)
}

// UnreadCount mock unread from one peer
func (m *MockChatMessageRepository) UnreadCount(ctx context.Context, userID, chatUserID int64) (int64, error) {
	args := m.Called(ctx, userID, chatUserID)
	return args.Get(0).(int64), args.Error(1)
}

// TotalUnread mock unread total
func (m *MockChatMessageRepository) TotalUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Contacts mock contacts
func (m *MockChatMessageRepository) Contacts(ctx context.Context, userID int64) ([]domain.ChatContact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatContact), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserRepository mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// FindByID mock find
func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindNames mock name lookup
func (m *MockUserRepository) FindNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) != nil {
		return args.Get(0).(map[int64]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListAdmins mock admin list
func (m *MockUserRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockObjectStore mock ObjectStore
type MockObjectStore struct {
	mock.Mock
}

// PutObject mock upload
func (m *MockObjectStore) PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, r, size, contentType)
	return args.Error(0)
}

// PresignGetURL mock presign
func (m *MockObjectStore) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

// MockNotificationSender mock NotificationSender
type MockNotificationSender struct {
	mock.Mock
}

// Send mock send
func (m *MockNotificationSender) Send(ctx context.Context, senderID int64, senderName string, privileged bool, req domain.NotificationRequest) (*domain.Notification, error) {
	args := m.Called(ctx, senderID, senderName, privileged, req)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventReader mock EventReader
type MockEventReader struct {
	mock.Mock
}

// FetchMessage mock fetch
func (m *MockEventReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafka.Message), args.Error(1)
}

// CommitMessages mock commit
func (m *MockEventReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

// Close mock close
func (m *MockEventReader) Close() error {
	return m.Called().Error(0)
}
