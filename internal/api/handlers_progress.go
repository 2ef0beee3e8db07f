package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/metrics"
)

func (handler *Handler) GetProgress(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	userID, err := targetUserID(caller, c.Query("userId"))
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	start := strings.TrimSpace(c.Query("startDate"))
	end := strings.TrimSpace(c.Query("endDate"))
	if start == "" || end == "" {
		return apiError(c, fiber.StatusBadRequest, "startDate and endDate are required")
	}

	metrics.ProgressQueries.Inc()
	progress, err := handler.progress.Progress(c.UserContext(), userID, start, end)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(progress)
}
