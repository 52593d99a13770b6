package admin

import (
	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/Miian1/FamilyFinance/app/services"
	"github.com/gofiber/fiber/v2"
)

var (
	ledgerSvc     *services.Ledger
	notifierSvc   *services.Notifier
	membershipSvc *services.Membership
)

// SetupAdminRoutes sets up the administration surface. Everything here is
// admin only.
func SetupAdminRoutes(app *fiber.App, ledger *services.Ledger, notifier *services.Notifier, membership *services.Membership) {
	ledgerSvc = ledger
	notifierSvc = notifier
	membershipSvc = membership

	// Page routes
	app.Get("/admin", auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin), renderAdminPage)
	app.Get("/admin/users/:id", auth.AuthMiddleware, auth.RoleMiddleware(models.RoleAdmin), renderUserDetailPage)

	// API routes
	api := app.Group("/api/admin")
	api.Use(auth.AuthMiddleware)
	api.Use(auth.RoleMiddleware(models.RoleAdmin))
	api.Get("/users", GetUsersAPI)
	api.Get("/users/:id", GetUserDetailAPI)
	api.Post("/broadcast", BroadcastAPI)
	api.Post("/accounts/:id/suspend", SuspendAccountAPI)
	api.Post("/accounts/:id/members", AddMemberAPI)
}

func renderAdminPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	users, err := database.GetAllUsers(c.Context(), config.GetDB())
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch users")
	}

	return c.Render("admin/index", fiber.Map{
		"Title":       "Administration - FamilyFinance",
		"CurrentPage": "admin",
		"user":        user,
		"Users":       users,
		"UserCount":   len(users),
	})
}

func renderUserDetailPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	subject, err := database.GetUserByID(c.Context(), db, c.Params("id"))
	if err != nil {
		return c.Status(404).Render("error", fiber.Map{
			"Title":        "Not Found - FamilyFinance",
			"CurrentPage":  "admin",
			"ErrorCode":    "404",
			"ErrorTitle":   "User Not Found",
			"ErrorMessage": "No user exists with that ID.",
			"user":         user,
		})
	}

	personal, err := database.GetPersonalAccounts(c.Context(), db, subject.ID)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch personal accounts")
	}
	shared, err := database.GetGroupAccountsForUser(c.Context(), db, subject.ID)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch shared accounts")
	}

	return c.Render("admin/user", fiber.Map{
		"Title":       subject.Name + " - FamilyFinance",
		"CurrentPage": "admin",
		"user":        user,
		"Subject":     subject,
		"Accounts":    append(personal, shared...),
	})
}
