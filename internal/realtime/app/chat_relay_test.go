package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/pkg"
	errprocess "todo_realtime_service/pkg/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChatRelay_PointToPointEchoesSameMessageID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockChatMessageRepository)
	router := new(MockRouter)
	relay := NewChatRelay(repo, router, nil, 0)

	var ids []string
	capture := func(args mock.Arguments) { ids = append(ids, args.Get(2).(domain.RealtimeMessage).MessageID) }
	repo.On("Insert", ctx, mock.MatchedBy(func(m *domain.ChatMessage) bool {
		return m.SenderID == 1 && m.ReceiverID == 2 && !m.IsRead && m.MessageType == domain.ChatText && m.Content == "hello"
	})).Return(nil).Once()
	router.On("SendToUser", ctx, int64(2), mock.Anything).Run(capture).Return(nil).Once()
	router.On("SendToUser", ctx, int64(1), mock.Anything).Run(capture).Return(nil).Once()

	out := relay.HandleChatMessage(ctx, domain.RealtimeMessage{SenderID: 1, SenderName: "a", ReceiverID: pkg.Int64Ptr(2), Content: "hello"})

	router.AssertNumberOfCalls(t, "SendToUser", 2)
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, out.MessageID, ids[0])
	repo.AssertExpectations(t)
}

func TestChatRelay_PersistFailureStillDelivers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockChatMessageRepository)
	router := new(MockRouter)
	relay := NewChatRelay(repo, router, nil, 0)

	repo.On("Insert", ctx, mock.Anything).Return(errors.New("mongo down"))
	router.On("SendToUser", ctx, mock.Anything, mock.Anything).Return(nil)

	before := SideChannelFailures.Load()
	relay.HandleChatMessage(ctx, domain.RealtimeMessage{SenderID: 1, ReceiverID: pkg.Int64Ptr(2), Content: "x"})

	router.AssertNumberOfCalls(t, "SendToUser", 2)
	assert.Equal(t, before+1, SideChannelFailures.Load())
}

func TestChatRelay_GroupAndGlobalNotPersisted(t *testing.T) {
	ctx := context.Background()
	repo := new(MockChatMessageRepository)
	router := new(MockRouter)
	relay := NewChatRelay(repo, router, nil, 0)

	router.On("SendToProject", ctx, int64(7), mock.Anything).Return(nil).Once()
	router.On("Broadcast", ctx, mock.Anything).Return(nil).Once()

	relay.HandleChatMessage(ctx, domain.RealtimeMessage{SenderID: 1, ProjectID: pkg.Int64Ptr(7), Content: "team"})
	relay.HandleChatMessage(ctx, domain.RealtimeMessage{SenderID: 1, Content: "all"})

	router.AssertExpectations(t)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestChatRelay_ReceiverWinsOverProject(t *testing.T) {
	ctx := context.Background()
	repo := new(MockChatMessageRepository)
	router := new(MockRouter)
	relay := NewChatRelay(repo, router, nil, 0)

	repo.On("Insert", ctx, mock.Anything).Return(nil).Once()
	router.On("SendToUser", ctx, int64(2), mock.Anything).Return(nil).Once()
	router.On("SendToUser", ctx, int64(1), mock.Anything).Return(nil).Once()

	relay.HandleChatMessage(ctx, domain.RealtimeMessage{SenderID: 1, ReceiverID: pkg.Int64Ptr(2), ProjectID: pkg.Int64Ptr(7), Content: "dm"})

	router.AssertExpectations(t)
	router.AssertNotCalled(t, "SendToProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestClassifyChatContent(t *testing.T) {
	tests := []struct {
		name    string
		content interface{}
		kind    domain.ChatMessageType
		typed   bool
	}{
		{"plain text", "hello", domain.ChatText, false},
		{"legacy file", "FILE:report.pdf", domain.ChatFile, false},
		{"legacy emoji", "emoji:smile", domain.ChatEmoji, false},
		{"emoji word without colon", "emoji", domain.ChatText, false},
		{"typed text", map[string]interface{}{"kind": "text", "text": "hi"}, domain.ChatText, true},
		{"typed file", map[string]interface{}{"kind": "file", "objectKey": "chat/1/a.pdf"}, domain.ChatFile, true},
		{"typed emoji", map[string]interface{}{"kind": "emoji", "text": ":+1:"}, domain.ChatEmoji, true},
		{"unknown kind falls back", map[string]interface{}{"kind": "video"}, domain.ChatText, false},
		{"nil", nil, domain.ChatText, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, payload, _ := ClassifyChatContent(tt.content)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.typed, payload != nil)
		})
	}
}

func TestChatRelay_FilePayloadGetsPresignedURL(t *testing.T) {
	ctx := context.Background()
	repo := new(MockChatMessageRepository)
	router := new(MockRouter)
	store := new(MockObjectStore)
	relay := NewChatRelay(repo, router, store, time.Minute)

	store.On("PresignGetURL", ctx, "chat/1/a.pdf", time.Minute).Return("http://minio/a.pdf", nil)
	repo.On("Insert", ctx, mock.MatchedBy(func(m *domain.ChatMessage) bool {
		return m.MessageType == domain.ChatFile && strings.Contains(m.Content, "chat/1/a.pdf")
	})).Return(nil)
	router.On("SendToUser", ctx, mock.Anything, mock.MatchedBy(func(m domain.RealtimeMessage) bool {
		p, ok := m.Content.(*domain.ChatPayload)
		return ok && p.URL == "http://minio/a.pdf"
	})).Return(nil)

	relay.HandleChatMessage(ctx, domain.RealtimeMessage{
		SenderID: 1, ReceiverID: pkg.Int64Ptr(2),
		Content: map[string]interface{}{"kind": "file", "objectKey": "chat/1/a.pdf", "fileName": "a.pdf"},
	})

	router.AssertNumberOfCalls(t, "SendToUser", 2)
	store.AssertExpectations(t)
}

func TestChatRelay_PresignFailureStillRelays(t *testing.T) {
	ctx := context.Background()
	router := new(MockRouter)
	store := new(MockObjectStore)
	relay := NewChatRelay(new(MockChatMessageRepository), router, store, time.Minute)

	store.On("PresignGetURL", ctx, "k", time.Minute).Return("", errors.New("minio down"))
	router.On("Broadcast", ctx, mock.Anything).Return(nil).Once()

	relay.HandleChatMessage(ctx, domain.RealtimeMessage{Content: map[string]interface{}{"kind": "file", "objectKey": "k"}})
	router.AssertExpectations(t)
}

func TestChatRelay_HistoryNormalizesPaging(t *testing.T) {
	ctx := context.Background()
	repo := new(MockChatMessageRepository)
	relay := NewChatRelay(repo, new(MockRouter), nil, 0)

	repo.On("History", ctx, domain.ChatHistoryQuery{UserID: 1, ChatUserID: 2, Page: 1, Size: 100}).
		Return([]domain.ChatMessage{{ID: "m1"}}, nil).Once()

	msgs, err := relay.History(ctx, domain.ChatHistoryQuery{UserID: 1, ChatUserID: 2, Page: 0, Size: 500})
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = relay.History(ctx, domain.ChatHistoryQuery{UserID: 1})
	assert.ErrorIs(t, err, errprocess.ErrInvalidArgument)
	repo.AssertExpectations(t)
}

func TestChatRelay_UnreadCount(t *testing.T) {
	ctx := context.Background()
	repo := new(MockChatMessageRepository)
	relay := NewChatRelay(repo, new(MockRouter), nil, 0)

	repo.On("TotalUnread", ctx, int64(1)).Return(int64(4), nil)
	repo.On("UnreadCount", ctx, int64(1), int64(2)).Return(int64(1), nil)

	total, err := relay.UnreadCount(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	fromPeer, err := relay.UnreadCount(ctx, 1, pkg.Int64Ptr(2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), fromPeer)
}

func TestChatRelay_UploadAttachment(t *testing.T) {
	ctx := context.Background()
	store := new(MockObjectStore)
	relay := NewChatRelay(new(MockChatMessageRepository), new(MockRouter), store, time.Minute)

	store.On("PutObject", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "chat/7/") && strings.HasSuffix(key, ".png")
	}), mock.Anything, int64(3), "image/png").Return(nil)
	store.On("PresignGetURL", ctx, mock.Anything, time.Minute).Return("http://minio/x.png", nil)

	payload, err := relay.UploadAttachment(ctx, 7, "x.png", strings.NewReader("png"), 3, "image/png")

	require.NoError(t, err)
	assert.Equal(t, domain.ChatFile, payload.Kind)
	assert.Equal(t, "x.png", payload.FileName)
	assert.Equal(t, "http://minio/x.png", payload.URL)

	_, err = NewChatRelay(nil, nil, nil, 0).UploadAttachment(ctx, 7, "x.png", strings.NewReader("png"), 3, "image/png")
	assert.ErrorIs(t, err, errprocess.ErrInvalidArgument)
}
