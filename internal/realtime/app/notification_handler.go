package app

import (
	"context"
	"errors"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/internal/realtime/repository"
	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler 通知 REST API
type NotificationHandler struct {
	usecase *NotificationUseCase
	users   repository.UserRepository
}

// NewNotificationHandler create NotificationHandler; users may be nil to skip receiver checks
func NewNotificationHandler(usecase *NotificationUseCase, users repository.UserRepository) *NotificationHandler {
	return &NotificationHandler{usecase: usecase, users: users}
}

type sendFunc func(ctx context.Context, senderID int64, senderName string, privileged bool, req domain.NotificationRequest) (*domain.Notification, error)

func (h *NotificationHandler) send(c *fiber.Ctx, fn sendFunc) error {
	var req domain.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errprocess.InvalidArgument("invalid request"))
	}
	userID, userName, privileged := middlewares.Identity(c)
	if userID == 0 {
		return respondError(c, errprocess.PermissionDenied("missing identity"))
	}

	n, err := fn(c.UserContext(), userID, userName, privileged, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(n)
}

// SendSystem 發送系統通知
// @Summary Send a system notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body domain.NotificationRequest true "notification"
// @Success 200 {object} domain.Notification
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/notifications/system [post]
func (h *NotificationHandler) SendSystem(c *fiber.Ctx) error {
	return h.send(c, h.usecase.SendSystem)
}

// SendProject 發送專案通知
// @Summary Send a project notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body domain.NotificationRequest true "notification"
// @Success 200 {object} domain.Notification
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/notifications/project [post]
func (h *NotificationHandler) SendProject(c *fiber.Ctx) error {
	return h.send(c, h.usecase.SendProject)
}

// SendPersonal 發送個人通知
// @Summary Send a personal notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body domain.NotificationRequest true "notification"
// @Success 200 {object} domain.Notification
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/notifications/personal [post]
func (h *NotificationHandler) SendPersonal(c *fiber.Ctx) error {
	return h.send(c, func(ctx context.Context, senderID int64, senderName string, privileged bool, req domain.NotificationRequest) (*domain.Notification, error) {
		if privileged && req.ReceiverID != nil && h.users != nil {
			if _, err := h.users.FindByID(ctx, *req.ReceiverID); err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return nil, errprocess.NotFound("receiver %d", *req.ReceiverID)
				}
				return nil, errprocess.Storage("find receiver", err)
			}
		}
		return h.usecase.SendPersonal(ctx, senderID, senderName, privileged, req)
	})
}

// ListByUser 使用者的通知
// @Summary Notifications of a user
// @Tags Notifications
// @Produce json
// @Param userId path int true "user id"
// @Success 200 {array} domain.Notification
// @Router /api/notifications/user/{userId} [get]
func (h *NotificationHandler) ListByUser(c *fiber.Ctx) error {
	target, err := paramInt64(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	userID, _, privileged := middlewares.Identity(c)
	if err := selfOrPrivileged(userID, target, privileged); err != nil {
		return respondError(c, err)
	}
	list, err := h.usecase.ListByUser(c.UserContext(), target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListByProject 專案的通知
// @Summary Notifications of a project
// @Tags Notifications
// @Produce json
// @Param projectId path int true "project id"
// @Success 200 {array} domain.Notification
// @Router /api/notifications/project/{projectId} [get]
func (h *NotificationHandler) ListByProject(c *fiber.Ctx) error {
	projectID, err := paramInt64(c, "projectId")
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.usecase.ListByProject(c.UserContext(), projectID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListSystem 系統通知
// @Summary System notifications
// @Tags Notifications
// @Produce json
// @Success 200 {array} domain.Notification
// @Router /api/notifications/system [get]
func (h *NotificationHandler) ListSystem(c *fiber.Ctx) error {
	list, err := h.usecase.ListSystem(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MarkAsRead 標記已讀
// @Summary Mark a notification read
// @Tags Notifications
// @Param id path int true "notification id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	userID, _, _ := middlewares.Identity(c)
	if err := h.usecase.MarkAsRead(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// MarkAllAsRead 全部已讀
// @Summary Mark all notifications of the caller read
// @Tags Notifications
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, _, _ := middlewares.Identity(c)
	n, err := h.usecase.MarkAllAsRead(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": n})
}

// UnreadCount 未讀數
// @Summary Unread notifications of a user
// @Tags Notifications
// @Param userId path int true "user id"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/unread-count/{userId} [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	target, err := paramInt64(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	userID, _, privileged := middlewares.Identity(c)
	if err := selfOrPrivileged(userID, target, privileged); err != nil {
		return respondError(c, err)
	}
	n, err := h.usecase.UnreadCount(c.UserContext(), target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// Delete 刪除通知
// @Summary Delete a notification
// @Tags Notifications
// @Param id path int true "notification id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	_, _, privileged := middlewares.Identity(c)
	if err := h.usecase.Delete(c.UserContext(), id, privileged); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
