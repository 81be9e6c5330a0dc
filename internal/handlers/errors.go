package handlers

import (
	"errors"
	"log"

	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

const internalServerErrorMessage = "Internal Server Error"

// ErrorHandler renders every error returned by a handler or middleware as
// {"success": false, "message": ...}. Causes of 5xx errors are logged, never sent.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var domainErr *services.Error
	if errors.As(err, &domainErr) {
		if domainErr.Status >= fiber.StatusInternalServerError {
			log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		}
		body := fiber.Map{
			"success": false,
			"message": domainErr.Message,
		}
		if len(domainErr.Fields) > 0 {
			body["errors"] = domainErr.Fields
		}
		return c.Status(domainErr.Status).JSON(body)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": fiberErr.Message,
		})
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": internalServerErrorMessage,
	})
}

// parseBody decodes the JSON request body into out. Malformed or mistyped
// bodies are reported as validation errors.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing %s request body: %v", c.Path(), err)
		return services.NewValidationError("Invalid request body", nil)
	}
	return nil
}
