package app

import (
	"context"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/internal/realtime/repository"
	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/logger"

	"go.uber.org/zap"
)

// MessageRouter deliver a realtime message to a user, a project topic or everyone
type MessageRouter interface {
	SendToUser(ctx context.Context, userID int64, msg domain.RealtimeMessage) error
	SendToProject(ctx context.Context, projectID int64, msg domain.RealtimeMessage) error
	Broadcast(ctx context.Context, msg domain.RealtimeMessage) error
}

// Router resolves destinations and hands messages to the transport.
//
// Delivery is best-effort: no ack, no retry, and nobody listening is not an
// error. A non-nil error means the transport itself refused the message.
type Router struct {
	transport repository.Transport
}

// NewRouter create Router
func NewRouter(transport repository.Transport) *Router {
	return &Router{transport: transport}
}

// SendToUser point-to-point delivery to user:<id>
func (r *Router) SendToUser(ctx context.Context, userID int64, msg domain.RealtimeMessage) error {
	return r.publish(ctx, domain.UserDestination(userID), msg)
}

// SendToProject topic delivery to project:<id>
func (r *Router) SendToProject(ctx context.Context, projectID int64, msg domain.RealtimeMessage) error {
	return r.publish(ctx, domain.ProjectDestination(projectID), msg)
}

// Broadcast delivery to the global topic
func (r *Router) Broadcast(ctx context.Context, msg domain.RealtimeMessage) error {
	return r.publish(ctx, domain.GlobalDestination, msg)
}

func (r *Router) publish(ctx context.Context, destination string, msg domain.RealtimeMessage) error {
	if err := r.transport.Publish(ctx, destination, msg); err != nil {
		return errprocess.DeliveryFailure(destination, err)
	}
	logger.Log.Debug("message routed", zap.String("destination", destination), zap.String("type", msg.Type))
	return nil
}
