package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.AuthRequired)

	asceticisms := api.Group("/asceticisms")
	asceticisms.Get("", handler.ListPractices)
	asceticisms.Post("", handler.CreatePractice)
	asceticisms.Get("/my", handler.ListCommitments)
	asceticisms.Patch("/my/:id", handler.UpdateCommitment)
	asceticisms.Post("/join", handler.JoinPractice)
	asceticisms.Post("/log", handler.RecordLog)
	asceticisms.Delete("/log/:commitmentId/:date", handler.DeleteLog)
	asceticisms.Delete("/leave/:id", handler.LeaveCommitment)
	asceticisms.Get("/progress", handler.GetProgress)
	asceticisms.Put("/:id", handler.AdminOnly, handler.UpdatePractice)
	asceticisms.Delete("/:id", handler.AdminOnly, handler.DeletePractice)

	packages := api.Group("/packages")
	packages.Get("/browse", handler.BrowsePackages)
	packages.Get("/admin/all", handler.AdminOnly, handler.ListAllPackages)
	packages.Post("", handler.AdminOnly, handler.CreatePackage)
	packages.Get("/:id", handler.GetPackage)
	packages.Put("/:id", handler.AdminOnly, handler.UpdatePackage)
	packages.Post("/:id/publish", handler.AdminOnly, handler.TogglePackagePublish)
	packages.Delete("/:id", handler.AdminOnly, handler.DeletePackage)
	packages.Post("/:id/add-to-account", handler.AddPackageToAccount)

	admin := api.Group("/admin", handler.AdminOnly)
	admin.Get("/current-user", handler.CurrentUser)
	admin.Get("/users", handler.ListUsers)
	admin.Post("/users/role", handler.UpdateUserRole)
	admin.Post("/users/ban", handler.UpdateUserBan)
}
