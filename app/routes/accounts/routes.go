package accounts

import (
	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/Miian1/FamilyFinance/app/services"
	"github.com/gofiber/fiber/v2"
)

var (
	membershipSvc *services.Membership
	ledgerSvc     *services.Ledger
)

// SetupAccountRoutes sets up wallet and family fund routes
func SetupAccountRoutes(app *fiber.App, membership *services.Membership, ledger *services.Ledger) {
	membershipSvc = membership
	ledgerSvc = ledger

	// Page routes
	app.Get("/accounts", auth.AuthMiddleware, renderAccountsPage)

	// API routes
	api := app.Group("/api/accounts")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetAccountsAPI)
	api.Post("/", CreateAccountAPI)
	api.Get("/:id", GetAccountAPI)
	api.Get("/:id/transactions", GetAccountTransactionsAPI)
	api.Post("/:id/join", RequestJoinAPI)
	api.Post("/:id/leave", LeaveAccountAPI)
	api.Post("/:id/invite", InviteMemberAPI)
	api.Delete("/:id/members/:userId", RemoveMemberAPI)
	api.Post("/:id/suspend", SuspendAccountAPI)
}

func renderAccountsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	personal, err := database.GetPersonalAccounts(c.Context(), db, user.ID)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch personal accounts")
	}
	shared, err := database.GetGroupAccounts(c.Context(), db)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch shared accounts")
	}

	return c.Render("accounts/index", fiber.Map{
		"Title":       "Accounts - FamilyFinance",
		"CurrentPage": "accounts",
		"user":        user,
		"Personal":    personal,
		"Shared":      shared,
		"HasAccounts": len(personal)+len(shared) > 0,
	})
}
