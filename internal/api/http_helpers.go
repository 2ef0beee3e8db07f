package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/models"
	"github.com/terraincognita07/askesis/internal/services"
)

var errInvalidID = errors.New("invalid id")

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func okResponse(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// writeServiceError maps engine errors to HTTP statuses. Anything unmapped is
// logged and reported as a 500 without its cause.
func (handler *Handler) writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidDateFormat),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPractice),
		errors.Is(err, services.ErrAlreadyActive),
		errors.Is(err, services.ErrPracticeInUse),
		errors.Is(err, services.ErrInvalidPackage),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrSelfModification),
		errors.Is(err, services.ErrDuplicate),
		errors.Is(err, errInvalidID):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrPracticeNotFound),
		errors.Is(err, services.ErrPackageNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrPackageNotPublished):
		return apiError(c, fiber.StatusForbidden, err.Error())
	default:
		handler.logger.Error("request failed", "request_id", c.Locals(requestIDKey), "path", c.Path(), "error", err)
		return apiError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errInvalidID
	}
	return uint(parsed), nil
}

// targetUserID resolves the userId query parameter. It defaults to the caller;
// naming anyone else requires the admin role.
func targetUserID(caller *models.User, raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return caller.ID, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errInvalidID
	}
	return authorizeUserID(caller, uint(parsed))
}

func authorizeUserID(caller *models.User, userID uint) (uint, error) {
	if userID != caller.ID && !isAdmin(caller) {
		return 0, services.ErrForbidden
	}
	return userID, nil
}

// ownedCommitment loads a commitment the caller may act on: their own, or any
// when the caller is an admin.
func (handler *Handler) ownedCommitment(c *fiber.Ctx, caller *models.User, commitmentID uint) (models.Commitment, error) {
	commitment, found, err := handler.store.FindCommitmentByID(c.UserContext(), commitmentID)
	if err != nil {
		return models.Commitment{}, err
	}
	if !found {
		return models.Commitment{}, services.ErrNotFound
	}
	if commitment.UserID != caller.ID && !isAdmin(caller) {
		return models.Commitment{}, services.ErrForbidden
	}
	return commitment, nil
}
