package fileValidator

import (
	"github.com/gofiber/fiber/v2"

	"svault/middleware"
	"svault/validators"
)

type UpdateFileRequest struct {
	Description string `json:"description" validate:"max=1024"`
}

// UpdateFile validates the metadata-update body.
func UpdateFile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateFileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if fieldErrors := validators.CheckStruct(reqData); len(fieldErrors) > 0 {
			return middleware.ValidationErrorResponse(c, fieldErrors)
		}
		c.Locals("validatedBody", reqData)
		return c.Next()
	}
}
