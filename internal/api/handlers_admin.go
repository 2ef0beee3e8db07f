package api

import (
	"github.com/gofiber/fiber/v2"
)

type rolePayload struct {
	UserID  uint   `json:"userId"`
	NewRole string `json:"newRole"`
}

type banPayload struct {
	UserID   uint `json:"userId"`
	IsBanned bool `json:"isBanned"`
}

func (handler *Handler) CurrentUser(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(caller)
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.users.List(c.UserContext())
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(users)
}

func (handler *Handler) UpdateUserRole(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload rolePayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := handler.users.SetRole(c.UserContext(), caller.ID, payload.UserID, payload.NewRole)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	handler.logger.Info("user role changed", "actor_id", caller.ID, "user_id", user.ID, "role", user.Role)
	return c.JSON(fiber.Map{"success": true, "user": user})
}

func (handler *Handler) UpdateUserBan(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload banPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := handler.users.SetBanned(c.UserContext(), caller.ID, payload.UserID, payload.IsBanned)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	handler.logger.Info("user ban changed", "actor_id", caller.ID, "user_id", user.ID, "banned", user.IsBanned)
	return c.JSON(fiber.Map{"success": true, "user": user})
}
