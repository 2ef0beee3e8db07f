package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) AdminOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !isAdmin(user) {
		return apiError(c, fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}
