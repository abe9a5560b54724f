package middlewares

import (
	t_token "todo_realtime_service/pkg/token"

	"github.com/gofiber/fiber/v2"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenUserID get user id form token, set c.locals name
	TokenUserID = "UserID"
	//TokenUserName get user name form token, set c.locals name
	TokenUserName = "UserName"
	//TokenPrivileged capability flag derived from the token role, set c.locals name
	TokenPrivileged = "Privileged"
)

// JWTMiddleware validates JWT from query, cookie or Authorization header
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Query(QueryToken)
		if tokenStr == "" {
			tokenStr = c.Cookies(CookieToken)
		}
		if tokenStr == "" {
			if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && h[:7] == "Bearer " {
				tokenStr = h[7:]
			}
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		claims, err := t_token.ParseJWT(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(TokenUserID, claims.UserID)
		c.Locals(TokenUserName, claims.UserName)
		c.Locals(TokenPrivileged, claims.IsPrivileged())
		return c.Next()
	}
}

// Identity read the authenticated user from fiber locals
func Identity(c *fiber.Ctx) (userID int64, userName string, privileged bool) {
	userID, _ = c.Locals(TokenUserID).(int64)
	userName, _ = c.Locals(TokenUserName).(string)
	privileged, _ = c.Locals(TokenPrivileged).(bool)
	return userID, userName, privileged
}
