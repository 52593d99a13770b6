package dashboard

import (
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/Miian1/FamilyFinance/app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var bootstrapSvc *services.Bootstrap

// SetupDashboardRoutes sets up the home page and the bootstrap endpoint
func SetupDashboardRoutes(app *fiber.App, bootstrap *services.Bootstrap) {
	bootstrapSvc = bootstrap

	app.Get("/", auth.AuthMiddleware, renderDashboardPage)

	api := app.Group("/api")
	api.Use(auth.AuthMiddleware)
	api.Get("/bootstrap", BootstrapAPI)
}

func renderDashboardPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	snap, err := bootstrapSvc.LoadAll(c.Context(), user.ID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, a := range snap.Accounts {
		total = total.Add(a.Balance)
	}

	unread := 0
	for _, n := range snap.Notifications {
		if !n.IsRead {
			unread++
		}
	}

	recent := snap.Transactions
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return c.Render("dashboard/index", fiber.Map{
		"Title":        "Dashboard - FamilyFinance",
		"CurrentPage":  "dashboard",
		"user":         snap.User,
		"Accounts":     snap.Accounts,
		"TotalBalance": total.StringFixed(2),
		"Recent":       recent,
		"UnreadCount":  unread,
	})
}

// BootstrapAPI returns everything a client needs to render after sign-in:
// the user record, all accounts, recent transactions, categories,
// notifications and friendships.
func BootstrapAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	snap, err := bootstrapSvc.LoadAll(c.Context(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load data"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"snapshot": snap,
	})
}
