package handler

import "github.com/gofiber/fiber/v3"

// Health reports liveness. It never touches the database, which is dialed lazily.
func Health(appName, version string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     appName,
			"version": version,
		})
	}
}
