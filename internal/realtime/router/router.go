package router

import (
	"context"

	"todo_realtime_service/internal/realtime/app"
	"todo_realtime_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// Handlers everything the routes dispatch to
type Handlers struct {
	Presence     *app.PresenceRegistry
	Websocket    *app.RealtimeWebsocketHandler
	Notification *app.NotificationHandler
	Chat         *app.ChatHandler
}

// RegisterRoutes 注册即時服務的路由
// @title Todo Realtime Service API
// @version 1.0
// @description Presence, realtime routing, notifications and chat
// @host localhost:8080
// @BasePath /
func RegisterRoutes(r *fiber.App, h Handlers) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", app.ConnectCheck(h.Presence))
	r.Post("/debug", app.DebugLogFlag)

	r.Use("/ws", middlewares.JWTMiddleware(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		h.Websocket.HandleConnection(context.Background(), c)
	}))

	api := r.Group("/api", middlewares.JWTMiddleware())
	api.Get("/presence", app.PresenceSnapshot(h.Presence))

	notifications := api.Group("/notifications")
	notifications.Post("/system", h.Notification.SendSystem)
	notifications.Post("/project", h.Notification.SendProject)
	notifications.Post("/personal", h.Notification.SendPersonal)
	notifications.Get("/system", h.Notification.ListSystem)
	notifications.Get("/user/:userId", h.Notification.ListByUser)
	notifications.Get("/project/:projectId", h.Notification.ListByProject)
	notifications.Get("/unread-count/:userId", h.Notification.UnreadCount)
	notifications.Put("/read-all", h.Notification.MarkAllAsRead)
	notifications.Put("/:id/read", h.Notification.MarkAsRead)
	notifications.Delete("/:id", h.Notification.Delete)

	chat := api.Group("/chat")
	chat.Get("/history", h.Chat.History)
	chat.Get("/contacts", h.Chat.Contacts)
	chat.Put("/read", h.Chat.MarkRead)
	chat.Get("/unread-count", h.Chat.UnreadCount)
	chat.Post("/files", h.Chat.UploadFile)
}
