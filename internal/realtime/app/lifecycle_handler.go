package app

import (
	"context"
	"fmt"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/internal/realtime/repository"
	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/logger"

	"go.uber.org/zap"
)

// presence replay entries whose name cannot be resolved are sent under this name
const systemSenderName = "system"

// ConnectionLifecycleHandler 連線生命週期: join / leave / disconnect 與在線狀態
type ConnectionLifecycleHandler struct {
	presence *PresenceRegistry
	router   MessageRouter
	users    repository.UserRepository
}

// NewConnectionLifecycleHandler create handler; users may be nil, replay names then fall back to "system"
func NewConnectionLifecycleHandler(presence *PresenceRegistry, router MessageRouter, users repository.UserRepository) *ConnectionLifecycleHandler {
	return &ConnectionLifecycleHandler{
		presence: presence,
		router:   router,
		users:    users,
	}
}

// OnConnect transport handshake finished; identity stays unknown until a join
func (h *ConnectionLifecycleHandler) OnConnect(s *domain.Session) {
	s.State = domain.SessionConnected
	logger.Log.Info("websocket connected", zap.String("session_id", s.ID))
}

// Join bind identity to the session, mark the user online and announce it to the project
func (h *ConnectionLifecycleHandler) Join(ctx context.Context, s *domain.Session, msg domain.RealtimeMessage) error {
	if msg.SenderID == 0 || msg.SenderName == "" {
		return errprocess.InvalidArgument("join requires senderId and senderName")
	}

	h.presence.SetOnline(msg.SenderID)
	s.Bind(msg.SenderID, msg.SenderName, msg.ProjectID)
	logger.Log.Info("user joined", zap.Int64("user_id", msg.SenderID), zap.Any("project_id", msg.ProjectID))

	if msg.ProjectID == nil {
		return nil
	}

	joined := domain.NewRealtimeMessage(domain.UserJoined, fmt.Sprintf("%s joined the project", msg.SenderName), msg.SenderID, msg.SenderName)
	joined.ProjectID = msg.ProjectID
	joined.MessageID = newMessageID()
	if err := h.router.SendToProject(ctx, *msg.ProjectID, joined); err != nil {
		recordSideChannelFailure("user joined push", err, zap.Int64("project_id", *msg.ProjectID))
	}
	return nil
}

// Leave announce the departure to the project topic and drop the project from the session.
// Presence is untouched. A session bound to a project may only leave that project.
func (h *ConnectionLifecycleHandler) Leave(ctx context.Context, s *domain.Session, msg domain.RealtimeMessage) error {
	projectID := msg.ProjectID
	if projectID == nil {
		projectID = s.ProjectID
	}
	if projectID == nil {
		return errprocess.InvalidArgument("leave requires projectId")
	}
	if s.ProjectID != nil && *s.ProjectID != *projectID {
		return errprocess.InvalidArgument("session is in project %d, not %d", *s.ProjectID, *projectID)
	}

	left := domain.NewRealtimeMessage(domain.UserLeft, fmt.Sprintf("%s left the project", msg.SenderName), msg.SenderID, msg.SenderName)
	left.ProjectID = projectID
	left.MessageID = newMessageID()
	if err := h.router.SendToProject(ctx, *projectID, left); err != nil {
		recordSideChannelFailure("user left push", err, zap.Int64("project_id", *projectID))
	}

	s.ClearProject()
	logger.Log.Info("user left project", zap.Int64("user_id", msg.SenderID), zap.Int64("project_id", *projectID))
	return nil
}

// OnDisconnect mark the bound user offline, broadcast it and notify the project if any.
// A session that never joined produces nothing.
func (h *ConnectionLifecycleHandler) OnDisconnect(ctx context.Context, s *domain.Session) {
	defer func() { s.State = domain.SessionDisconnected }()

	userID, userName, ok := s.Identity()
	logger.Log.Info("websocket disconnected", zap.String("session_id", s.ID), zap.Int64("user_id", userID))
	if !ok {
		return
	}

	h.presence.SetOffline(userID)

	status := domain.NewRealtimeMessage(domain.UserStatus, map[string]interface{}{"status": string(domain.PresenceOffline)}, userID, userName)
	status.MessageID = newMessageID()
	if err := h.router.Broadcast(ctx, status); err != nil {
		recordSideChannelFailure("offline status push", err, zap.Int64("user_id", userID))
	}

	if s.ProjectID == nil {
		return
	}
	gone := domain.NewRealtimeMessage(domain.UserDisconnected, fmt.Sprintf("%s disconnected", userName), userID, userName)
	gone.ProjectID = s.ProjectID
	gone.MessageID = newMessageID()
	if err := h.router.SendToProject(ctx, *s.ProjectID, gone); err != nil {
		recordSideChannelFailure("user disconnected push", err, zap.Int64("project_id", *s.ProjectID))
	}
}

// HandleUserStatus apply an online/offline update and broadcast it, or replay the
// presence snapshot to the requester on {action:"request_all"}
func (h *ConnectionLifecycleHandler) HandleUserStatus(ctx context.Context, msg domain.RealtimeMessage) error {
	content := msg.ContentMap()
	if action, _ := content["action"].(string); action == domain.StatusRequestAll {
		return h.replayPresence(ctx, msg)
	}

	if status, _ := content["status"].(string); status != "" && msg.SenderID != 0 {
		switch domain.PresenceStatus(status) {
		case domain.PresenceOnline:
			h.presence.SetOnline(msg.SenderID)
		case domain.PresenceOffline:
			h.presence.SetOffline(msg.SenderID)
		default:
			return errprocess.InvalidArgument("unknown status %q", status)
		}
	}

	if msg.Type == "" {
		msg.Type = string(domain.UserStatus)
	}
	msg.MessageID = newMessageID()
	if err := h.router.Broadcast(ctx, msg); err != nil {
		recordSideChannelFailure("user status push", err, zap.Int64("user_id", msg.SenderID))
	}
	return nil
}

func (h *ConnectionLifecycleHandler) replayPresence(ctx context.Context, msg domain.RealtimeMessage) error {
	if msg.SenderID == 0 {
		return errprocess.InvalidArgument("request_all requires senderId")
	}
	// the requester is connected by definition
	h.presence.SetOnline(msg.SenderID)

	snapshot := h.presence.Snapshot()
	names := h.resolveNames(ctx, snapshot)
	logger.Log.Info("presence replay", zap.Int64("user_id", msg.SenderID), zap.Int("online", len(snapshot)))

	for _, entry := range snapshot {
		name, ok := names[entry.UserID]
		if !ok {
			name = systemSenderName
		}
		status := domain.NewRealtimeMessage(domain.UserStatus, map[string]interface{}{"status": string(entry.Status)}, entry.UserID, name)
		status.MessageID = newMessageID()
		if err := h.router.SendToUser(ctx, msg.SenderID, status); err != nil {
			recordSideChannelFailure("presence replay push", err, zap.Int64("user_id", msg.SenderID))
		}
	}
	return nil
}

func (h *ConnectionLifecycleHandler) resolveNames(ctx context.Context, entries []domain.PresenceEntry) map[int64]string {
	if h.users == nil || len(entries) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	names, err := h.users.FindNames(ctx, ids)
	if err != nil {
		logger.Log.Warn("resolve presence names failed", zap.Error(err))
		return nil
	}
	return names
}

// HandleProjectUpdate forward to the project topic, or to everyone when no project is given
func (h *ConnectionLifecycleHandler) HandleProjectUpdate(ctx context.Context, msg domain.RealtimeMessage) error {
	msg.MessageID = newMessageID()
	var err error
	if msg.ProjectID != nil {
		err = h.router.SendToProject(ctx, *msg.ProjectID, msg)
	} else {
		err = h.router.Broadcast(ctx, msg)
	}
	if err != nil {
		recordSideChannelFailure("project update push", err, zap.Int64("user_id", msg.SenderID))
	}
	return nil
}

// HandleAvatarUpdate broadcast an avatar change
func (h *ConnectionLifecycleHandler) HandleAvatarUpdate(ctx context.Context, msg domain.RealtimeMessage) error {
	msg.MessageID = newMessageID()
	if err := h.router.Broadcast(ctx, msg); err != nil {
		recordSideChannelFailure("avatar update push", err, zap.Int64("user_id", msg.SenderID))
	}
	return nil
}
