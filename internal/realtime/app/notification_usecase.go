package app

import (
	"context"
	"errors"
	"time"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/internal/realtime/repository"
	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationUseCase 建立通知並即時推送, 以及通知查詢
type NotificationUseCase struct {
	repo   repository.NotificationRepository
	router MessageRouter
}

// NewNotificationUseCase create NotificationUseCase
func NewNotificationUseCase(repo repository.NotificationRepository, router MessageRouter) *NotificationUseCase {
	return &NotificationUseCase{
		repo:   repo,
		router: router,
	}
}

// Send persist a notification then, unless disabled, push it by type.
//
// Permission and argument errors abort before anything is written. After the
// insert succeeded the call never fails: a push or isPushed update failure is
// logged and the notification is returned with IsPushed=false.
func (uc *NotificationUseCase) Send(ctx context.Context, senderID int64, senderName string, privileged bool, req domain.NotificationRequest) (*domain.Notification, error) {
	if !privileged {
		return nil, errprocess.PermissionDenied("user %d may not send notifications", senderID)
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if req.Type == domain.NotificationSystem {
		req.ReceiverID = nil
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityNormal
	}
	push := req.PushImmediately == nil || *req.PushImmediately

	now := time.Now()
	n := &domain.Notification{
		Title:      req.Title,
		Content:    req.Content,
		Type:       req.Type,
		Priority:   req.Priority,
		SenderID:   senderID,
		SenderName: senderName,
		ReceiverID: req.ReceiverID,
		ProjectID:  req.ProjectID,
		IsRead:     false,
		IsPushed:   false,
		CreateTime: now,
		UpdateTime: now,
		ExpireTime: req.ExpireTime,
		ExtraData:  req.ExtraData,
	}
	if err := uc.repo.Insert(ctx, n); err != nil {
		return nil, errprocess.Storage("insert notification", err)
	}
	logger.Log.Info("notification created",
		zap.Int64("id", n.ID), zap.String("type", string(n.Type)), zap.String("title", n.Title))

	if push {
		uc.push(ctx, n)
	}
	return n, nil
}

func validateRequest(req domain.NotificationRequest) error {
	if !req.Type.Valid() {
		return errprocess.InvalidArgument("unsupported notification type %q", req.Type)
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return errprocess.InvalidArgument("unsupported notification priority %q", req.Priority)
	}
	switch req.Type {
	case domain.NotificationProject:
		if req.ProjectID == nil {
			return errprocess.InvalidArgument("projectId is required for project notifications")
		}
	case domain.NotificationPersonal:
		if req.ReceiverID == nil {
			return errprocess.InvalidArgument("receiverId is required for personal notifications")
		}
	}
	return nil
}

func (uc *NotificationUseCase) push(ctx context.Context, n *domain.Notification) {
	msg := domain.NewRealtimeMessage(domain.NotificationPushed, *n, n.SenderID, n.SenderName)
	msg.MessageID = newMessageID()

	var err error
	switch n.Type {
	case domain.NotificationSystem:
		err = uc.router.Broadcast(ctx, msg)
	case domain.NotificationProject:
		msg.ProjectID = n.ProjectID
		err = uc.router.SendToProject(ctx, *n.ProjectID, msg)
	case domain.NotificationPersonal:
		msg.ReceiverID = n.ReceiverID
		err = uc.router.SendToUser(ctx, *n.ReceiverID, msg)
	}
	if err != nil {
		recordSideChannelFailure("notification push", err, zap.Int64("id", n.ID))
		return
	}

	n.IsPushed = true
	n.UpdateTime = time.Now()
	if err := uc.repo.Update(ctx, n); err != nil {
		n.IsPushed = false
		recordSideChannelFailure("notification pushed flag update", err, zap.Int64("id", n.ID))
		return
	}
	logger.Log.Debug("notification pushed", zap.Int64("id", n.ID), zap.String("type", string(n.Type)))
}

// SendSystem send to everyone; receiverId is dropped
func (uc *NotificationUseCase) SendSystem(ctx context.Context, senderID int64, senderName string, privileged bool, req domain.NotificationRequest) (*domain.Notification, error) {
	req.Type = domain.NotificationSystem
	req.ReceiverID = nil
	return uc.Send(ctx, senderID, senderName, privileged, req)
}

// SendProject send to a project topic
func (uc *NotificationUseCase) SendProject(ctx context.Context, senderID int64, senderName string, privileged bool, req domain.NotificationRequest) (*domain.Notification, error) {
	req.Type = domain.NotificationProject
	return uc.Send(ctx, senderID, senderName, privileged, req)
}

// SendPersonal send to one user
func (uc *NotificationUseCase) SendPersonal(ctx context.Context, senderID int64, senderName string, privileged bool, req domain.NotificationRequest) (*domain.Notification, error) {
	req.Type = domain.NotificationPersonal
	return uc.Send(ctx, senderID, senderName, privileged, req)
}

// ListByUser personal notifications of the user plus system notifications
func (uc *NotificationUseCase) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errprocess.Storage("list user notifications", err)
	}
	return list, nil
}

// ListByProject project notifications of a project
func (uc *NotificationUseCase) ListByProject(ctx context.Context, projectID int64) ([]domain.Notification, error) {
	list, err := uc.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, errprocess.Storage("list project notifications", err)
	}
	return list, nil
}

// ListSystem system notifications
func (uc *NotificationUseCase) ListSystem(ctx context.Context) ([]domain.Notification, error) {
	list, err := uc.repo.ListSystem(ctx)
	if err != nil {
		return nil, errprocess.Storage("list system notifications", err)
	}
	return list, nil
}

// MarkAsRead mark one notification read for userID; NotFound when it does not exist or is not addressed to userID
func (uc *NotificationUseCase) MarkAsRead(ctx context.Context, id, userID int64) error {
	rows, err := uc.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return errprocess.Storage("mark notification read", err)
	}
	if rows == 0 {
		return errprocess.NotFound("notification %d for user %d", id, userID)
	}
	return nil
}

// MarkAllAsRead mark every unread notification of userID; returns the number changed
func (uc *NotificationUseCase) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	rows, err := uc.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, errprocess.Storage("mark all notifications read", err)
	}
	return rows, nil
}

// UnreadCount unread notifications addressed to userID
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := uc.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, errprocess.Storage("count unread notifications", err)
	}
	return count, nil
}

// Get a notification by id
func (uc *NotificationUseCase) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	n, err := uc.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errprocess.NotFound("notification %d", id)
	}
	if err != nil {
		return nil, errprocess.Storage("find notification", err)
	}
	return n, nil
}

// Delete remove a notification, privileged callers only
func (uc *NotificationUseCase) Delete(ctx context.Context, id int64, privileged bool) error {
	if !privileged {
		return errprocess.PermissionDenied("deleting notification %d", id)
	}
	rows, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return errprocess.Storage("delete notification", err)
	}
	if rows == 0 {
		return errprocess.NotFound("notification %d", id)
	}
	return nil
}
