package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/metrics"
	"github.com/terraincognita07/askesis/internal/services"
)

type logPayload struct {
	CommitmentID uint           `json:"userAsceticismId"`
	Date         string         `json:"date"`
	Completed    *bool          `json:"completed"`
	Value        *float64       `json:"value"`
	Notes        *string        `json:"notes"`
	Metadata     map[string]any `json:"custom_metadata"`
}

// RecordLog upserts the caller's log for one day of a commitment.
func (handler *Handler) RecordLog(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload logPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.CommitmentID == 0 {
		return apiError(c, fiber.StatusBadRequest, "userAsceticismId is required")
	}
	if _, err := handler.ownedCommitment(c, caller, payload.CommitmentID); err != nil {
		return handler.writeServiceError(c, err)
	}

	entry, err := handler.logs.Record(c.UserContext(), services.RecordInput{
		CommitmentID: payload.CommitmentID,
		Date:         payload.Date,
		Completed:    payload.Completed,
		Value:        payload.Value,
		Notes:        payload.Notes,
		Metadata:     payload.Metadata,
	})
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	metrics.RecordLog(entry.Completed)
	return c.JSON(entry)
}

func (handler *Handler) DeleteLog(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	commitmentID, err := parseIDParam(c, "commitmentId")
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	if _, err := handler.ownedCommitment(c, caller, commitmentID); err != nil {
		return handler.writeServiceError(c, err)
	}

	deleted, err := handler.logs.DeleteLog(c.UserContext(), commitmentID, c.Params("date"))
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	if !deleted {
		return apiError(c, fiber.StatusNotFound, "log not found")
	}
	return okResponse(c)
}
