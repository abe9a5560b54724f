package main

import (
	"todo_realtime_service/internal/realtime/router"

	"github.com/gofiber/fiber/v2"
)

// 此程式用於 init swagger
// swag init output ./docs
func main() {
	app := fiber.New()

	router.RegisterRoutes(app, router.Handlers{})
}
