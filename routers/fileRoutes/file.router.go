package fileRoutes

import (
	"github.com/gofiber/fiber/v2"

	fileControllers "svault/controllers/files"
	"svault/middleware"
	fileValidators "svault/validators/files"
)

func SetupFileRoutes(app *fiber.App) {
	fileGroup := app.Group("/files", middleware.JWTMiddleware)

	fileGroup.Post("/", fileControllers.Upload)
	fileGroup.Get("/", fileControllers.List)
	fileGroup.Get("/:slug", fileControllers.Get)
	fileGroup.Put("/:slug", fileValidators.UpdateFile(), fileControllers.Update)
	fileGroup.Patch("/:slug", fileValidators.UpdateFile(), fileControllers.Update)
	fileGroup.Delete("/:slug", fileControllers.Delete)
	fileGroup.Get("/:slug/download", fileControllers.Download)
}
