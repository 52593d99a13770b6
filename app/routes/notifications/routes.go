package notifications

import (
	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/Miian1/FamilyFinance/app/services"
	"github.com/gofiber/fiber/v2"
)

var membershipSvc *services.Membership

// SetupNotificationRoutes sets up inbox routes
func SetupNotificationRoutes(app *fiber.App, membership *services.Membership) {
	membershipSvc = membership

	// Page routes
	app.Get("/notifications", auth.AuthMiddleware, renderNotificationsPage)

	// API routes
	api := app.Group("/api/notifications")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetNotificationsAPI)
	api.Post("/:id/read", MarkReadAPI)
	api.Post("/:id/respond", RespondAPI)
	api.Delete("/", ClearNotificationsAPI)
}

func renderNotificationsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	notifications, err := database.GetNotificationsForUser(c.Context(), config.GetDB(), user.ID)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch notifications")
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	return c.Render("notifications/index", fiber.Map{
		"Title":            "Notifications - FamilyFinance",
		"CurrentPage":      "notifications",
		"user":             user,
		"Notifications":    notifications,
		"UnreadCount":      unread,
		"HasNotifications": len(notifications) > 0,
	})
}
