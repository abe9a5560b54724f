package app

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/internal/realtime/repository"
	"todo_realtime_service/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	frames []domain.OutboundFrame
}

func (w *fakeWriter) WriteMessage(_ int, data []byte) error {
	var f domain.OutboundFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frames = append(w.frames, f)
	return nil
}

func (w *fakeWriter) find(destination string, t domain.MessageType) []domain.OutboundFrame {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []domain.OutboundFrame
	for _, f := range w.frames {
		if f.Destination == destination && f.Message.Type == string(t) {
			out = append(out, f)
		}
	}
	return out
}

type wsFixture struct {
	ctx      context.Context
	hub      *repository.LocalHub
	presence *PresenceRegistry
	chatRepo *MockChatMessageRepository
	handler  *RealtimeWebsocketHandler
}

func newWSFixture(t *testing.T) *wsFixture {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := repository.NewLocalHub(0)
	router := NewRouter(hub)
	presence := NewPresenceRegistry()
	chatRepo := new(MockChatMessageRepository)
	return &wsFixture{
		ctx:      ctx,
		hub:      hub,
		presence: presence,
		chatRepo: chatRepo,
		handler: NewRealtimeWebsocketHandler(
			NewConnectionLifecycleHandler(presence, router, nil),
			NewChatRelay(chatRepo, router, nil, 0),
			hub, time.Minute),
	}
}

func (f *wsFixture) send(c *connection, destination string, payload domain.RealtimeMessage) {
	raw, _ := json.Marshal(domain.InboundFrame{Destination: destination, Payload: payload})
	f.handler.handleFrame(f.ctx, c, raw)
}

func TestWebsocket_JoinSubscribesProjectTopic(t *testing.T) {
	f := newWSFixture(t)
	wa, wb := &fakeWriter{}, &fakeWriter{}
	a := newConnection(f.ctx, wa, 0, "")
	b := newConnection(f.ctx, wb, 0, "")

	f.send(b, "/app/project.join", domain.RealtimeMessage{SenderID: 2, SenderName: "bob", ProjectID: pkg.Int64Ptr(7)})
	f.send(a, "/app/project.join", domain.RealtimeMessage{SenderID: 1, SenderName: "alice", ProjectID: pkg.Int64Ptr(7)})

	assert.Equal(t, 2, f.hub.Subscribers("project:7"))
	assert.True(t, f.presence.IsOnline(1))
	require.Eventually(t, func() bool { return len(wb.find("project:7", domain.UserJoined)) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), wb.find("project:7", domain.UserJoined)[0].Message.SenderID)
}

func TestWebsocket_LeaveUnsubscribes(t *testing.T) {
	f := newWSFixture(t)
	a := newConnection(f.ctx, &fakeWriter{}, 0, "")

	f.send(a, "project.join", domain.RealtimeMessage{SenderID: 1, SenderName: "alice", ProjectID: pkg.Int64Ptr(7)})
	f.send(a, "project.leave", domain.RealtimeMessage{SenderID: 1, SenderName: "alice"})

	require.Eventually(t, func() bool { return f.hub.Subscribers("project:7") == 0 }, time.Second, 5*time.Millisecond)
	assert.Nil(t, a.session.ProjectID)
	assert.True(t, f.presence.IsOnline(1))
}

func TestWebsocket_LeaveOtherProjectKeepsSubscription(t *testing.T) {
	f := newWSFixture(t)
	wa := &fakeWriter{}
	a := newConnection(f.ctx, wa, 0, "")

	f.send(a, "project.join", domain.RealtimeMessage{SenderID: 1, SenderName: "alice", ProjectID: pkg.Int64Ptr(7)})
	f.send(a, "project.leave", domain.RealtimeMessage{SenderID: 1, SenderName: "alice", ProjectID: pkg.Int64Ptr(8)})

	assert.Equal(t, 1, f.hub.Subscribers("project:7"))
	require.NotNil(t, a.session.ProjectID)
	assert.Equal(t, int64(7), *a.session.ProjectID)
	assert.Len(t, wa.find(errorDestination, domain.ErrorMessage), 1)
}

func TestWebsocket_ChatReachesReceiverAndSender(t *testing.T) {
	f := newWSFixture(t)
	wa, wb := &fakeWriter{}, &fakeWriter{}
	a := newConnection(f.ctx, wa, 0, "")
	b := newConnection(f.ctx, wb, 0, "")
	f.chatRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	f.send(a, "/app/project.join", domain.RealtimeMessage{SenderID: 1, SenderName: "alice"})
	f.send(b, "/app/project.join", domain.RealtimeMessage{SenderID: 2, SenderName: "bob"})
	f.send(a, "/app/chat.message", domain.RealtimeMessage{SenderID: 1, SenderName: "alice", ReceiverID: pkg.Int64Ptr(2), Content: "hi"})

	require.Eventually(t, func() bool {
		return len(wa.find("user:1", defaultChatType)) == 1 && len(wb.find("user:2", defaultChatType)) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t,
		wa.find("user:1", defaultChatType)[0].Message.MessageID,
		wb.find("user:2", defaultChatType)[0].Message.MessageID)
}

func TestWebsocket_SenderMustMatchToken(t *testing.T) {
	f := newWSFixture(t)
	w := &fakeWriter{}
	c := newConnection(f.ctx, w, 5, "eve")

	f.send(c, "/app/project.join", domain.RealtimeMessage{SenderID: 6, SenderName: "mallory"})

	assert.Len(t, w.find(errorDestination, domain.ErrorMessage), 1)
	assert.False(t, f.presence.IsOnline(6))
}

func TestWebsocket_SenderFilledFromToken(t *testing.T) {
	f := newWSFixture(t)
	c := newConnection(f.ctx, &fakeWriter{}, 5, "eve")

	f.send(c, "/app/project.join", domain.RealtimeMessage{})

	userID, name, ok := c.session.Identity()
	require.True(t, ok)
	assert.Equal(t, int64(5), userID)
	assert.Equal(t, "eve", name)
}

func TestWebsocket_UnknownActionAndMalformedFrame(t *testing.T) {
	f := newWSFixture(t)
	w := &fakeWriter{}
	c := newConnection(f.ctx, w, 0, "")

	f.send(c, "/app/todo.delete", domain.RealtimeMessage{})
	f.handler.handleFrame(f.ctx, c, []byte("{oops"))

	assert.Len(t, w.find(errorDestination, domain.ErrorMessage), 2)
}
