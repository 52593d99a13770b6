package admin

import (
	"strings"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/respond"
	"github.com/gofiber/fiber/v2"
)

// GetUsersAPI returns the full user directory.
func GetUsersAPI(c *fiber.Ctx) error {
	users, err := database.GetAllUsers(c.Context(), config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch users"})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// GetUserDetailAPI returns one user with all their accounts.
func GetUserDetailAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	user, err := database.GetUserByID(c.Context(), db, c.Params("id"))
	if err != nil {
		if database.IsNoRows(err) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch user"})
	}

	personal, err := database.GetPersonalAccounts(c.Context(), db, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch accounts"})
	}
	shared, err := database.GetGroupAccountsForUser(c.Context(), db, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch accounts"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"user":     user,
		"accounts": append(personal, shared...),
	})
}

// BroadcastAPI sends one notification to every user except the sender.
func BroadcastAPI(c *fiber.Ctx) error {
	type BroadcastRequest struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}

	var req BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if req.Title == "" || req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Title and message are required"})
	}

	senderID := c.Locals("user_id").(string)
	recipients, err := notifierSvc.Broadcast(c.Context(), senderID, req.Title, req.Message)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to send broadcast"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"recipients": recipients,
	})
}

// SuspendAccountAPI freezes or releases an account.
func SuspendAccountAPI(c *fiber.Ctx) error {
	type SuspendRequest struct {
		Suspended bool `json:"suspended"`
	}

	var req SuspendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	actor := c.Locals("user").(*models.User)
	if err := ledgerSvc.ToggleSuspension(c.Context(), actor, c.Params("id"), req.Suspended); err != nil {
		return respond.ServiceError(c, err)
	}

	message := "Account released"
	if req.Suspended {
		message = "Account suspended"
	}
	return c.JSON(fiber.Map{"success": true, "message": message})
}

// AddMemberAPI puts a user straight into a fund, no invitation round trip.
func AddMemberAPI(c *fiber.Ctx) error {
	type AddMemberRequest struct {
		UserID string `json:"user_id"`
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "user_id is required"})
	}

	actor := c.Locals("user").(*models.User)
	if err := membershipSvc.AddMember(c.Context(), actor, c.Params("id"), req.UserID); err != nil {
		return respond.ServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Member added"})
}
