package transactions

import (
	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/Miian1/FamilyFinance/app/services"
	"github.com/gofiber/fiber/v2"
)

var ledgerSvc *services.Ledger

// SetupTransactionRoutes sets up ledger routes
func SetupTransactionRoutes(app *fiber.App, ledger *services.Ledger) {
	ledgerSvc = ledger

	// Page routes
	app.Get("/transactions", auth.AuthMiddleware, renderTransactionsPage)
	app.Get("/add", auth.AuthMiddleware, renderAddPage)

	// API routes
	api := app.Group("/api/transactions")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetTransactionsAPI)
	api.Post("/", CreateTransactionAPI)
	api.Post("/transfer", CreateTransferAPI)
}

func renderTransactionsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	transactions, err := database.GetRecentTransactions(c.Context(), db, user.ID, 500)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch transactions")
	}
	categories, err := database.GetAllCategories(c.Context(), db)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch categories")
	}

	return c.Render("transactions/index", fiber.Map{
		"Title":           "Transactions - FamilyFinance",
		"CurrentPage":     "transactions",
		"user":            user,
		"Transactions":    transactions,
		"Categories":      categories,
		"HasTransactions": len(transactions) > 0,
	})
}

func renderAddPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	personal, err := database.GetPersonalAccounts(c.Context(), db, user.ID)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch personal accounts")
	}
	shared, err := database.GetGroupAccountsForUser(c.Context(), db, user.ID)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch shared accounts")
	}
	categories, err := database.GetAllCategories(c.Context(), db)
	if err != nil {
		config.GetLog().WithError(err).Error("Failed to fetch categories")
	}

	return c.Render("transactions/add", fiber.Map{
		"Title":       "Add Transaction - FamilyFinance",
		"CurrentPage": "add",
		"user":        user,
		"Accounts":    append(personal, shared...),
		"Categories":  categories,
	})
}
