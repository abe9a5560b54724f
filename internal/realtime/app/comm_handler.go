package app

import (
	"fmt"
	"strconv"

	errprocess "todo_realtime_service/pkg/err"
	"todo_realtime_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ConnectCheck check service start
// @Summary Check realtime service status
// @Description Returns the number of online users and swallowed side-channel failures
// @Tags Shared
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func ConnectCheck(presence *PresenceRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":             "realtime service start!",
			"online":              presence.Count(),
			"sideChannelFailures": SideChannelFailures.Load(),
		})
	}
}

// DebugLogFlag toggle debug log flag
// @Summary Toggle Debug Log Flag
// @Description Enable or disable debug logging
// @Tags Shared
// @Param status query bool true "Debug status"
// @Success 200 {string} string "debug mode updated"
// @Failure 400 {string} string "Invalid status value"
// @Router /debug [post]
func DebugLogFlag(c *fiber.Ctx) error {
	statusStr := c.Query("status")
	logger.Log.Info("debug", zap.String("status", statusStr))
	status, err := strconv.ParseBool(statusStr)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	logger.Log.SetDebugMode(status)
	return c.SendString(fmt.Sprintf("debug mode is : %t", status))
}

// PresenceSnapshot list online users
// @Summary Online users
// @Tags Presence
// @Produce json
// @Success 200 {array} domain.PresenceEntry
// @Router /api/presence [get]
func PresenceSnapshot(presence *PresenceRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(presence.Snapshot())
	}
}

// respondError write err with the status of its category
func respondError(c *fiber.Ctx, err error) error {
	status := errprocess.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, errprocess.InvalidArgument("invalid %s", name)
	}
	return v, nil
}

func queryInt64(c *fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errprocess.InvalidArgument("invalid %s", name)
	}
	return &v, nil
}

// selfOrPrivileged a user may read its own data, privileged callers anyone's
func selfOrPrivileged(callerID, target int64, privileged bool) error {
	if callerID == target || privileged {
		return nil
	}
	return errprocess.PermissionDenied("user %d may not read data of user %d", callerID, target)
}
