package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/models"
)

const contextUserKey = "current_user"

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

func isAdmin(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}
