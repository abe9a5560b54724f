package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealtimeMessage_RouteClass(t *testing.T) {
	r, p := int64(2), int64(7)

	assert.Equal(t, RouteBroadcast, RealtimeMessage{}.RouteClass())
	assert.Equal(t, RouteTopic, RealtimeMessage{ProjectID: &p}.RouteClass())
	assert.Equal(t, RoutePointToPoint, RealtimeMessage{ReceiverID: &r}.RouteClass())
	// 同時設定時點對點優先
	assert.Equal(t, RoutePointToPoint, RealtimeMessage{ReceiverID: &r, ProjectID: &p}.RouteClass())
}

func TestDestinations(t *testing.T) {
	assert.Equal(t, "user:42", UserDestination(42))
	assert.Equal(t, "project:7", ProjectDestination(7))
	assert.Equal(t, "global", GlobalDestination)
}

func TestParseAction(t *testing.T) {
	assert.Equal(t, ProjectJoin, ParseAction("/app/project.join"))
	assert.Equal(t, ChatSend, ParseAction("chat.message"))
}

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession("s-1")
	assert.Equal(t, SessionConnecting, s.State)

	_, _, ok := s.Identity()
	assert.False(t, ok)

	p := int64(7)
	s.Bind(1, "alice", &p)
	id, name, ok := s.Identity()
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "alice", name)
	assert.Equal(t, "ASSOCIATED", s.State.String())

	s.ClearProject()
	assert.Nil(t, s.ProjectID)
	_, _, ok = s.Identity()
	assert.True(t, ok)
}

func TestChatHistoryQuery_Normalize(t *testing.T) {
	q := ChatHistoryQuery{Page: 0, Size: 500}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 100, q.Size)
	assert.Equal(t, 0, q.Offset())

	q = ChatHistoryQuery{Page: 3}
	q.Normalize()
	assert.Equal(t, 20, q.Size)
	assert.Equal(t, 40, q.Offset())
}

func TestNotificationType_Valid(t *testing.T) {
	assert.True(t, NotificationPersonal.Valid())
	assert.False(t, NotificationType("broadcast").Valid())
	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, NotificationPriority("meh").Valid())
}
