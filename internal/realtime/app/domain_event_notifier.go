package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/internal/realtime/repository"
	"todo_realtime_service/pkg"
	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NotificationSender the part of NotificationUseCase the event notifier needs
type NotificationSender interface {
	Send(ctx context.Context, senderID int64, senderName string, privileged bool, req domain.NotificationRequest) (*domain.Notification, error)
}

// DomainEventNotifier 把待辦/專案的領域事件轉成通知
//
// Events come from the CRUD service after its own authorization, so the
// notifications are sent as privileged. One failing notification does not stop
// the others of the same event.
type DomainEventNotifier struct {
	sender NotificationSender
	users  repository.UserRepository
}

// NewDomainEventNotifier create DomainEventNotifier; users is needed for status change events
func NewDomainEventNotifier(sender NotificationSender, users repository.UserRepository) *DomainEventNotifier {
	return &DomainEventNotifier{sender: sender, users: users}
}

// Notify turn one event into its notifications and return how many were created
func (n *DomainEventNotifier) Notify(ctx context.Context, ev domain.DomainEvent) (int, error) {
	var reqs []domain.NotificationRequest
	switch ev.Type {
	case domain.EventTodoCreated:
		reqs = todoCreatedRequests(ev)
	case domain.EventTodoStatusChanged:
		r, err := n.statusChangedRequests(ctx, ev)
		if err != nil {
			return 0, err
		}
		reqs = r
	case domain.EventTodoAdminUpdated:
		reqs = adminUpdatedRequests(ev)
	case domain.EventProjectMemberAdded:
		reqs = memberAddedRequests(ev)
	default:
		return 0, errprocess.InvalidArgument("unknown event type %q", ev.Type)
	}

	created := 0
	for _, req := range reqs {
		if _, err := n.sender.Send(ctx, ev.ActorID, ev.ActorName, true, req); err != nil {
			recordSideChannelFailure("event notification", err,
				zap.String("event", string(ev.Type)), zap.String("type", string(req.Type)))
			continue
		}
		created++
	}
	logger.Log.Info("domain event handled", zap.String("event", string(ev.Type)), zap.Int("notifications", created))
	return created, nil
}

func personalRequest(receiverID int64, projectID *int64, priority domain.NotificationPriority, title, content string) domain.NotificationRequest {
	return domain.NotificationRequest{
		Title:      title,
		Content:    content,
		Type:       domain.NotificationPersonal,
		Priority:   priority,
		ReceiverID: pkg.Int64Ptr(receiverID),
		ProjectID:  projectID,
	}
}

func projectRequest(projectID int64, title, content string) domain.NotificationRequest {
	return domain.NotificationRequest{
		Title:     title,
		Content:   content,
		Type:      domain.NotificationProject,
		Priority:  domain.PriorityNormal,
		ProjectID: &projectID,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func todoCreatedRequests(ev domain.DomainEvent) []domain.NotificationRequest {
	var reqs []domain.NotificationRequest
	if ev.AssigneeID != nil {
		reqs = append(reqs, personalRequest(*ev.AssigneeID, ev.ProjectID, domain.PriorityHigh,
			"New todo assigned",
			fmt.Sprintf("You have a new todo: %s. Priority: %s, due: %s",
				ev.TodoTitle, orDefault(ev.Priority, "normal"), orDefault(ev.DueDate, "not set"))))
	}
	if ev.ProjectID != nil {
		reqs = append(reqs, projectRequest(*ev.ProjectID,
			"New todo in project",
			fmt.Sprintf("Project %s has a new todo: %s", orDefault(ev.ProjectName, "unknown"), ev.TodoTitle)))
	}
	return reqs
}

// statusChangedRequests every administrator is told about an assignee's status change
func (n *DomainEventNotifier) statusChangedRequests(ctx context.Context, ev domain.DomainEvent) ([]domain.NotificationRequest, error) {
	if n.users == nil {
		return nil, errors.New("user directory unavailable")
	}
	admins, err := n.users.ListAdmins(ctx)
	if err != nil {
		return nil, errprocess.Storage("list admins", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s changed todo %q from %s to %s", ev.ActorName, ev.TodoTitle, ev.OldStatus, ev.NewStatus)
	if ev.Reason != "" {
		fmt.Fprintf(&b, ". Reason: %s", ev.Reason)
	}

	reqs := make([]domain.NotificationRequest, 0, len(admins))
	for _, admin := range admins {
		reqs = append(reqs, personalRequest(admin.ID, nil, domain.PriorityNormal, "Todo status changed", b.String()))
	}
	return reqs, nil
}

func adminUpdatedRequests(ev domain.DomainEvent) []domain.NotificationRequest {
	change := orDefault(ev.Reason, fmt.Sprintf("todo %q was updated", ev.TodoTitle))

	var reqs []domain.NotificationRequest
	if ev.AssigneeID != nil && *ev.AssigneeID != ev.ActorID {
		reqs = append(reqs, personalRequest(*ev.AssigneeID, ev.ProjectID, domain.PriorityHigh, "Todo updated by admin", change))
	}
	if ev.PrevAssigneeID != nil && *ev.PrevAssigneeID != ev.ActorID &&
		(ev.AssigneeID == nil || *ev.AssigneeID != *ev.PrevAssigneeID) {
		reqs = append(reqs, personalRequest(*ev.PrevAssigneeID, ev.ProjectID, domain.PriorityNormal,
			"Your todo was reassigned",
			fmt.Sprintf("Todo %q was reassigned by an admin", ev.TodoTitle)))
	}
	if ev.ProjectID != nil {
		reqs = append(reqs, projectRequest(*ev.ProjectID, "Project todo updated by admin",
			fmt.Sprintf("Project %s: %s", orDefault(ev.ProjectName, "unknown"), change)))
	}
	return reqs
}

func memberAddedRequests(ev domain.DomainEvent) []domain.NotificationRequest {
	if ev.AssigneeID == nil || ev.ProjectID == nil {
		return nil
	}
	return []domain.NotificationRequest{
		personalRequest(*ev.AssigneeID, ev.ProjectID, domain.PriorityHigh, "Project assignment",
			fmt.Sprintf("You have been assigned to project %s. Please check the project details.", orDefault(ev.ProjectName, "unknown"))),
	}
}

// EventReader kafka consumer group reader (*kafka.Reader)
type EventReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DomainEventConsumer 從 kafka 讀取領域事件並通知
type DomainEventConsumer struct {
	reader   EventReader
	notifier *DomainEventNotifier
}

// NewDomainEventConsumer create DomainEventConsumer
func NewDomainEventConsumer(reader EventReader, notifier *DomainEventNotifier) *DomainEventConsumer {
	return &DomainEventConsumer{reader: reader, notifier: notifier}
}

// Run consume until ctx is cancelled. Every fetched message is committed, even
// when it cannot be decoded or handled, so a bad event never blocks the stream.
func (c *DomainEventConsumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Log.Info("domain event consumer stopped")
				return nil
			}
			return fmt.Errorf("fetch domain event: %w", err)
		}

		c.handle(ctx, m)

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			logger.Log.Error("commit domain event failed", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

func (c *DomainEventConsumer) handle(ctx context.Context, m kafka.Message) {
	var ev domain.DomainEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		logger.Log.Error("decode domain event failed", zap.Int64("offset", m.Offset), zap.Error(err))
		return
	}
	if _, err := c.notifier.Notify(ctx, ev); err != nil {
		recordSideChannelFailure("domain event", err, zap.String("event", string(ev.Type)), zap.Int64("offset", m.Offset))
	}
}
