package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/metrics"
	"github.com/terraincognita07/askesis/internal/models"
	"github.com/terraincognita07/askesis/internal/services"
)

type packagePayload struct {
	Title       string                      `json:"title"`
	Description *string                     `json:"description"`
	Metadata    map[string]any              `json:"custom_metadata"`
	Items       []services.PackageItemInput `json:"items"`
}

type addToAccountPayload struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// packageView adds the item count the listing screens display.
type packageView struct {
	models.PracticePackage
	ItemCount int `json:"itemCount"`
}

func newPackageView(pkg models.PracticePackage) packageView {
	if pkg.Items == nil {
		pkg.Items = []models.PackageItem{}
	}
	return packageView{PracticePackage: pkg, ItemCount: len(pkg.Items)}
}

func newPackageViews(packages []models.PracticePackage) []packageView {
	views := make([]packageView, 0, len(packages))
	for _, pkg := range packages {
		views = append(views, newPackageView(pkg))
	}
	return views
}

func (handler *Handler) BrowsePackages(c *fiber.Ctx) error {
	packages, err := handler.packages.Browse(c.UserContext())
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(newPackageViews(packages))
}

func (handler *Handler) ListAllPackages(c *fiber.Ctx) error {
	packages, err := handler.packages.ListAll(c.UserContext())
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(newPackageViews(packages))
}

// GetPackage shows published packages to everyone and drafts to admins.
func (handler *Handler) GetPackage(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	packageID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	var pkg models.PracticePackage
	if isAdmin(caller) {
		pkg, err = handler.packages.Find(c.UserContext(), packageID)
	} else {
		pkg, err = handler.packages.FindPublished(c.UserContext(), packageID)
	}
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(newPackageView(pkg))
}

func (handler *Handler) CreatePackage(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload packagePayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	pkg, err := handler.packages.Create(c.UserContext(), caller.ID, services.PackageInput{
		Title:       payload.Title,
		Description: payload.Description,
		Metadata:    payload.Metadata,
		Items:       payload.Items,
	})
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newPackageView(pkg))
}

func (handler *Handler) UpdatePackage(c *fiber.Ctx) error {
	packageID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	var update services.PackageUpdate
	if err := c.BodyParser(&update); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	pkg, err := handler.packages.Update(c.UserContext(), packageID, update)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(newPackageView(pkg))
}

func (handler *Handler) TogglePackagePublish(c *fiber.Ctx) error {
	packageID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	pkg, err := handler.packages.TogglePublish(c.UserContext(), packageID)
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "isPublished": pkg.IsPublished})
}

func (handler *Handler) DeletePackage(c *fiber.Ctx) error {
	packageID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}
	if err := handler.packages.Delete(c.UserContext(), packageID); err != nil {
		return handler.writeServiceError(c, err)
	}
	return okResponse(c)
}

// AddPackageToAccount joins every practice of a published package for the
// caller. The body is optional.
func (handler *Handler) AddPackageToAccount(c *fiber.Ctx) error {
	caller, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	packageID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	var payload addToAccountPayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	result, err := handler.packages.AddToAccount(c.UserContext(), services.AddToAccountInput{
		UserID:    caller.ID,
		PackageID: packageID,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
	})
	if err != nil {
		return handler.writeServiceError(c, err)
	}

	for range result.AddedCount {
		metrics.RecordTransition(metrics.TransitionJoined)
	}
	for range result.ReactivatedCount {
		metrics.RecordTransition(metrics.TransitionReactivated)
	}
	return c.JSON(result)
}
