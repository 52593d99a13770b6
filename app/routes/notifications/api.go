package notifications

import (
	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/routes/respond"
	"github.com/gofiber/fiber/v2"
)

// GetNotificationsAPI returns the caller's inbox, newest first.
func GetNotificationsAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	notifications, err := database.GetNotificationsForUser(c.Context(), config.GetDB(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

// MarkReadAPI marks one notification as read.
func MarkReadAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	db := config.GetDB()

	note, err := database.GetNotificationByID(c.Context(), db, c.Params("id"))
	if err != nil {
		if database.IsNoRows(err) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Notification not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch notification"})
	}
	if note.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Insufficient permissions"})
	}

	if err := database.MarkNotificationRead(c.Context(), db, note.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update notification"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Notification marked read"})
}

// RespondAPI accepts or rejects a pending join request or invitation.
func RespondAPI(c *fiber.Ctx) error {
	type RespondRequest struct {
		Accept bool `json:"accept"`
	}

	var req RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	userID := c.Locals("user_id").(string)
	if err := membershipSvc.RespondToRequest(c.Context(), userID, c.Params("id"), req.Accept); err != nil {
		return respond.ServiceError(c, err)
	}

	message := "Request rejected"
	if req.Accept {
		message = "Request accepted"
	}
	return c.JSON(fiber.Map{"success": true, "message": message})
}

// ClearNotificationsAPI deletes the caller's entire inbox.
func ClearNotificationsAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := database.DeleteNotificationsForUser(c.Context(), config.GetDB(), userID); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to clear notifications"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Notifications cleared"})
}
