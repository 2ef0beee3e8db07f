package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/metrics"
	"github.com/terraincognita07/askesis/internal/services"
)

type joinPayload struct {
	UserID      *uint          `json:"userId"`
	PracticeID  uint           `json:"asceticismId"`
	TargetValue *float64       `json:"targetValue"`
	StartDate   *string        `json:"startDate"`
	EndDate     *string        `json:"endDate"`
	Metadata    map[string]any `json:"custom_metadata"`
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	return &value
}

// ListCommitments answers GET /api/asceticisms/my. Archived commitments are
// included unless includeArchived=false.
func (handler *Handler) ListCommitments(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	userID, err := targetUserID(caller, c.Query("userId"))
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	includeArchived := true
	if raw := strings.TrimSpace(c.Query("includeArchived")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid includeArchived value")
		}
		includeArchived = parsed
	}

	window := services.WindowInput{
		Start: optionalQuery(c, "startDate"),
		End:   optionalQuery(c, "endDate"),
	}
	rows, err := handler.listing.ListForUser(c.UserContext(), userID, window, includeArchived)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(rows)
}

func (handler *Handler) JoinPractice(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload joinPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.PracticeID == 0 {
		return apiError(c, fiber.StatusBadRequest, "asceticismId is required")
	}

	userID := caller.ID
	if payload.UserID != nil {
		authorized, err := authorizeUserID(caller, *payload.UserID)
		if err != nil {
			return handler.writeServiceError(c, err)
		}
		userID = authorized
	}

	result, outcome, err := handler.lifecycle.JoinWithOutcome(c.UserContext(), services.JoinInput{
		UserID:      userID,
		PracticeID:  payload.PracticeID,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		TargetValue: payload.TargetValue,
		Metadata:    payload.Metadata,
	})
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	if outcome == services.JoinReactivated {
		metrics.RecordTransition(metrics.TransitionReactivated)
		return c.JSON(result)
	}
	metrics.RecordTransition(metrics.TransitionJoined)
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (handler *Handler) LeaveCommitment(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	commitmentID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	if _, err := handler.ownedCommitment(c, caller, commitmentID); err != nil {
		return handler.writeServiceError(c, err)
	}

	commitment, err := handler.lifecycle.Leave(c.UserContext(), commitmentID)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	metrics.RecordTransition(metrics.TransitionLeft)
	return c.JSON(commitment)
}

func (handler *Handler) UpdateCommitment(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	commitmentID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	if _, err := handler.ownedCommitment(c, caller, commitmentID); err != nil {
		return handler.writeServiceError(c, err)
	}

	var patch services.CommitmentPatch
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := handler.lifecycle.Update(c.UserContext(), commitmentID, patch)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	metrics.RecordTransition(metrics.TransitionUpdated)
	return c.JSON(updated)
}
