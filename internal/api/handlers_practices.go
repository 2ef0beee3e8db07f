package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/services"
)

type practicePayload struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Category    string         `json:"category"`
	Icon        *string        `json:"icon"`
	Type        string         `json:"type"`
	Metadata    map[string]any `json:"custom_metadata"`
	CreatorID   *uint          `json:"creatorId"`
}

func (payload practicePayload) input() services.PracticeInput {
	return services.PracticeInput{
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Icon:        payload.Icon,
		Type:        payload.Type,
		Metadata:    payload.Metadata,
		CreatorID:   payload.CreatorID,
	}
}

func (handler *Handler) ListPractices(c *fiber.Ctx) error {
	practices, err := handler.catalog.ListTemplates(c.UserContext(), c.Query("category"))
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(practices)
}

// CreatePractice adds a template (admins, no creatorId) or a custom practice
// owned by the caller.
func (handler *Handler) CreatePractice(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload practicePayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	actor := services.Actor{UserID: caller.ID, Admin: isAdmin(caller)}
	practice, err := handler.catalog.CreatePractice(c.UserContext(), actor, payload.input())
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(practice)
}

func (handler *Handler) UpdatePractice(c *fiber.Ctx) error {
	practiceID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	var payload practicePayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	practice, err := handler.catalog.UpdatePractice(c.UserContext(), practiceID, payload.input())
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(practice)
}

func (handler *Handler) DeletePractice(c *fiber.Ctx) error {
	practiceID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	if err := handler.catalog.DeletePractice(c.UserContext(), practiceID); err != nil {
		return handler.writeServiceError(c, err)
	}
	return okResponse(c)
}
