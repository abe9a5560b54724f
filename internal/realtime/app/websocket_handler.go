package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/internal/realtime/repository"
	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/logger"
	"todo_realtime_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const errorDestination = "error"

// RealtimeWebsocketHandler 即時 websocket 連線進入點
type RealtimeWebsocketHandler struct {
	lifecycle    *ConnectionLifecycleHandler
	chat         *ChatRelay
	transport    repository.Transport
	pingInterval time.Duration
}

// NewRealtimeWebsocketHandler create RealtimeWebsocketHandler
func NewRealtimeWebsocketHandler(
	lifecycle *ConnectionLifecycleHandler,
	chat *ChatRelay,
	transport repository.Transport,
	pingInterval time.Duration,
) *RealtimeWebsocketHandler {
	if pingInterval <= 0 {
		pingInterval = 10 * time.Minute
	}
	return &RealtimeWebsocketHandler{
		lifecycle:    lifecycle,
		chat:         chat,
		transport:    transport,
		pingInterval: pingInterval,
	}
}

// frameWriter the write side of a websocket connection
type frameWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// connection per-connection state, owned by HandleConnection
type connection struct {
	session *domain.Session
	// token identity, zero when the upgrade was not authenticated
	tokenUserID   int64
	tokenUserName string

	ctx    context.Context
	writer frameWriter
	wmu    sync.Mutex

	subMu sync.Mutex
	subs  map[string]context.CancelFunc
}

func newConnection(ctx context.Context, writer frameWriter, tokenUserID int64, tokenUserName string) *connection {
	return &connection{
		session:       domain.NewSession(uuid.New().String()),
		tokenUserID:   tokenUserID,
		tokenUserName: tokenUserName,
		ctx:           ctx,
		writer:        writer,
		subs:          make(map[string]context.CancelFunc),
	}
}

// write serialize writes; subscription goroutines and the read loop share the socket
func (c *connection) write(mt int, data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.writer.WriteMessage(mt, data)
}

func (c *connection) sendFrame(destination string, msg domain.RealtimeMessage) {
	b, err := json.Marshal(domain.OutboundFrame{Destination: destination, Message: msg})
	if err != nil {
		logger.Log.Error("marshal outbound frame failed", zap.Error(err))
		return
	}
	if err := c.write(websocket.TextMessage, b); err != nil {
		logger.Log.Warn("write message error", zap.String("session_id", c.session.ID), zap.Error(err))
	}
}

func (c *connection) sendError(err error) {
	msg := domain.NewRealtimeMessage(domain.ErrorMessage, err.Error(), 0, "")
	c.sendFrame(errorDestination, msg)
}

func (h *RealtimeWebsocketHandler) subscribe(c *connection, destination string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if _, ok := c.subs[destination]; ok {
		return
	}

	subCtx, cancel := context.WithCancel(c.ctx)
	if err := h.transport.Subscribe(subCtx, destination, func(msg domain.RealtimeMessage) {
		c.sendFrame(destination, msg)
	}); err != nil {
		cancel()
		logger.Log.Error("subscribe failed", zap.String("destination", destination), zap.Error(err))
		return
	}
	c.subs[destination] = cancel
	logger.Log.Debug("subscribed", zap.String("session_id", c.session.ID), zap.String("destination", destination))
}

func (h *RealtimeWebsocketHandler) unsubscribe(c *connection, destination string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if cancel, ok := c.subs[destination]; ok {
		cancel()
		delete(c.subs, destination)
	}
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *RealtimeWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUserID, _ := conn.Locals(middlewares.TokenUserID).(int64)
	tokenUserName, _ := conn.Locals(middlewares.TokenUserName).(string)

	ticker := time.NewTicker(h.pingInterval)
	ctxClose, cancel := context.WithCancel(ctx)
	c := newConnection(ctxClose, conn, tokenUserID, tokenUserName)

	defer func() {
		ticker.Stop()
		cancel()
		// the request context is gone with the socket
		h.lifecycle.OnDisconnect(context.Background(), c.session)
		conn.Close()
	}()

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("received pong", zap.String("session_id", c.session.ID))
		return nil
	})

	h.lifecycle.OnConnect(c.session)
	h.subscribe(c, domain.GlobalDestination)
	if tokenUserID != 0 {
		h.subscribe(c, domain.UserDestination(tokenUserID))
	}

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.write(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Warn("ping error", zap.String("session_id", c.session.ID), zap.Error(err))
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Info("connection closed", zap.String("session_id", c.session.ID))
			} else {
				logger.Log.Warn("websocket read error", zap.String("session_id", c.session.ID), zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			c.sendError(errprocess.InvalidArgument("only text frames are supported"))
			continue
		}
		h.handleFrame(ctxClose, c, message)
	}
}

func (h *RealtimeWebsocketHandler) handleFrame(ctx context.Context, c *connection, raw []byte) {
	var frame domain.InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.sendError(errprocess.InvalidArgument("malformed frame: %v", err))
		return
	}

	msg := frame.Payload
	if err := c.bindSender(&msg); err != nil {
		c.sendError(err)
		return
	}

	action := domain.ParseAction(frame.Destination)
	if err := h.dispatch(ctx, c, action, msg); err != nil {
		logger.Log.Warn("websocket action failed",
			zap.String("session_id", c.session.ID), zap.String("action", string(action)), zap.Error(err))
		c.sendError(err)
	}
}

// bindSender fill the sender from the token and refuse impersonation
func (c *connection) bindSender(msg *domain.RealtimeMessage) error {
	if c.tokenUserID == 0 {
		return nil
	}
	if msg.SenderID == 0 {
		msg.SenderID = c.tokenUserID
	}
	if msg.SenderID != c.tokenUserID {
		return errprocess.PermissionDenied("sender %d does not match the authenticated user", msg.SenderID)
	}
	if msg.SenderName == "" {
		msg.SenderName = c.tokenUserName
	}
	return nil
}

func (h *RealtimeWebsocketHandler) dispatch(ctx context.Context, c *connection, action domain.Action, msg domain.RealtimeMessage) error {
	switch action {
	case domain.ProjectJoin:
		previous := c.session.ProjectID
		if err := h.lifecycle.Join(ctx, c.session, msg); err != nil {
			return err
		}
		h.subscribe(c, domain.UserDestination(msg.SenderID))
		if previous != nil && (msg.ProjectID == nil || *previous != *msg.ProjectID) {
			h.unsubscribe(c, domain.ProjectDestination(*previous))
		}
		if msg.ProjectID != nil {
			h.subscribe(c, domain.ProjectDestination(*msg.ProjectID))
		}
		return nil

	case domain.ProjectLeave:
		projectID := msg.ProjectID
		if projectID == nil {
			projectID = c.session.ProjectID
		}
		if err := h.lifecycle.Leave(ctx, c.session, msg); err != nil {
			return err
		}
		h.unsubscribe(c, domain.ProjectDestination(*projectID))
		return nil

	case domain.ProjectUpdate:
		return h.lifecycle.HandleProjectUpdate(ctx, msg)

	case domain.UserStatusUpdate:
		return h.lifecycle.HandleUserStatus(ctx, msg)

	case domain.UserAvatarUpdate:
		return h.lifecycle.HandleAvatarUpdate(ctx, msg)

	case domain.ChatSend:
		h.chat.HandleChatMessage(ctx, msg)
		return nil

	default:
		return errprocess.InvalidArgument("unknown action %q", action)
	}
}
