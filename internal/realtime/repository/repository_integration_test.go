package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/pkg"
	"todo_realtime_service/pkg/database"
	"todo_realtime_service/pkg/logger"
	testtool "todo_realtime_service/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer 啟動測試容器, docker 不可用時 skip
func startContainer(t *testing.T, req testcontainers.ContainerRequest) (string, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	ctx := context.Background()
	container, host, port, err := testtool.SetupContainer(ctx, req)
	if err != nil {
		t.Skipf("container %s unavailable: %v", req.Image, err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })
	return host, port
}

func TestRedisPubSub_Integration(t *testing.T) {
	logger.SetNewNop()
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})

	client, err := database.NewRedisClient("", nil, fmt.Sprintf("%s:%s", host, port), 0)
	require.NoError(t, err)
	defer client.Close()

	transport := NewRedisPubSub(client)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan domain.RealtimeMessage, 4)
	require.NoError(t, transport.Subscribe(ctx, domain.UserDestination(5), func(m domain.RealtimeMessage) {
		received <- m
	}))

	sent := domain.NewRealtimeMessage(domain.UserStatus, map[string]interface{}{"status": "online"}, 9, "bob")
	sent.MessageID = "m-1"
	require.NoError(t, transport.Publish(ctx, domain.UserDestination(5), sent))
	require.NoError(t, transport.Publish(ctx, domain.UserDestination(6), sent))

	select {
	case got := <-received:
		assert.Equal(t, "m-1", got.MessageID)
		assert.Equal(t, string(domain.UserStatus), got.Type)
		assert.Equal(t, int64(9), got.SenderID)
		assert.Equal(t, "online", got.ContentMap()["status"])
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}

	select {
	case got := <-received:
		t.Fatalf("user:5 received a message for another destination: %+v", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNotificationRepository_Integration(t *testing.T) {
	logger.SetNewNop()
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image: "postgres:16",
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	})

	db, err := database.NewGormConnection(database.Connection{
		ConnectStr:    fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port),
		RetryCount:    5,
		RetryInterval: 1,
	})
	require.NoError(t, err)

	repo := NewNotificationRepository(db)
	require.NoError(t, repo.AutoMigrate())
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	rows := []*domain.Notification{
		{Title: "sys", Type: domain.NotificationSystem, Priority: domain.PriorityNormal, CreateTime: now, UpdateTime: now},
		{Title: "mine", Type: domain.NotificationPersonal, Priority: domain.PriorityHigh, ReceiverID: pkg.Int64Ptr(42), CreateTime: now, UpdateTime: now},
		{Title: "other", Type: domain.NotificationPersonal, Priority: domain.PriorityLow, ReceiverID: pkg.Int64Ptr(43), CreateTime: now, UpdateTime: now},
		{Title: "expired", Type: domain.NotificationPersonal, Priority: domain.PriorityLow, ReceiverID: pkg.Int64Ptr(42), CreateTime: now, UpdateTime: now, ExpireTime: &past},
		{Title: "proj", Type: domain.NotificationProject, Priority: domain.PriorityNormal, ProjectID: pkg.Int64Ptr(7), CreateTime: now, UpdateTime: now},
	}
	for _, n := range rows {
		require.NoError(t, repo.Insert(ctx, n))
		require.NotZero(t, n.ID)
	}

	list, err := repo.ListByUser(ctx, 42)
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, n := range list {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"sys", "mine"}, titles)

	list, err = repo.ListByProject(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "proj", list[0].Title)

	list, err = repo.ListSystem(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	count, err := repo.UnreadCount(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// someone else's personal notification cannot be marked
	affected, err := repo.MarkAsRead(ctx, rows[2].ID, 42)
	require.NoError(t, err)
	assert.Zero(t, affected)

	// shared system and project rows stay unread for everyone else
	affected, err = repo.MarkAsRead(ctx, rows[0].ID, 42)
	require.NoError(t, err)
	assert.Zero(t, affected)
	affected, err = repo.MarkAsRead(ctx, rows[4].ID, 42)
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.MarkAsRead(ctx, rows[1].ID, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	count, err = repo.UnreadCount(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, count)

	affected, err = repo.MarkAllAsRead(ctx, 43)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows[0].IsPushed = true
	require.NoError(t, repo.Update(ctx, rows[0]))
	found, err := repo.FindByID(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.True(t, found.IsPushed)
	assert.Nil(t, found.ReceiverID)

	affected, err = repo.Delete(ctx, rows[4].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	_, err = repo.FindByID(ctx, rows[4].ID)
	assert.Error(t, err)
}

func TestChatMessageRepository_Integration(t *testing.T) {
	logger.SetNewNop()
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})

	ctx := context.Background()
	mdb, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s", host, port),
		RetryCount:    5,
		RetryInterval: 1,
	}, "chat_test")
	require.NoError(t, err)
	defer mdb.Close(ctx)

	require.NoError(t, EnsureIndexes(ctx, mdb.Database))
	repo := NewMongoChatMessageRepository(mdb.Database)

	base := time.Now().Add(-time.Minute)
	msgs := []*domain.ChatMessage{
		{ID: "c1", SenderID: 1, ReceiverID: 2, Content: "hi bob", MessageType: domain.ChatText, CreatedTime: base},
		{ID: "c2", SenderID: 2, ReceiverID: 1, Content: "hi alice", MessageType: domain.ChatText, CreatedTime: base.Add(time.Second)},
		{ID: "c3", SenderID: 2, ReceiverID: 1, Content: ":wave", MessageType: domain.ChatEmoji, CreatedTime: base.Add(2 * time.Second)},
		{ID: "c4", SenderID: 3, ReceiverID: 1, Content: "ping", MessageType: domain.ChatText, CreatedTime: base.Add(3 * time.Second)},
	}
	for _, m := range msgs {
		require.NoError(t, repo.Insert(ctx, m))
	}

	history, err := repo.History(ctx, domain.ChatHistoryQuery{UserID: 1, ChatUserID: 2, Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "c3", history[0].ID)
	assert.Equal(t, "c2", history[1].ID)

	history, err = repo.History(ctx, domain.ChatHistoryQuery{UserID: 2, ChatUserID: 1, Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "c1", history[0].ID)

	unread, err := repo.UnreadCount(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	total, err := repo.TotalUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	contacts, err := repo.Contacts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, int64(3), contacts[0].PeerID)
	assert.Equal(t, "ping", contacts[0].LastMessage)
	assert.Equal(t, 1, contacts[0].UnreadCount)
	assert.Equal(t, int64(2), contacts[1].PeerID)
	assert.Equal(t, ":wave", contacts[1].LastMessage)
	assert.Equal(t, 2, contacts[1].UnreadCount)

	marked, err := repo.MarkRead(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	total, err = repo.TotalUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
