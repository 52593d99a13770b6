// Package respond maps service-layer errors onto JSON error responses so
// every API handler reports failures the same way.
package respond

import (
	"errors"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/services"
	"github.com/gofiber/fiber/v2"
)

// ServiceError translates a service error into an HTTP response.
func ServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Insufficient permissions"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrRecipientNotFound):
		return c.Status(404).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrSuspendedAccount):
		return c.Status(409).JSON(fiber.Map{"success": false, "error": "Account is suspended"})
	default:
		config.GetLog().WithError(err).WithField("path", c.Path()).Error("Request failed")
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Internal server error"})
	}
}
