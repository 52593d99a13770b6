package main

import (
	"encoding/json"
	"log"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/realtime"
	"github.com/Miian1/FamilyFinance/app/routes/accounts"
	"github.com/Miian1/FamilyFinance/app/routes/admin"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/Miian1/FamilyFinance/app/routes/categories"
	"github.com/Miian1/FamilyFinance/app/routes/chat"
	"github.com/Miian1/FamilyFinance/app/routes/dashboard"
	"github.com/Miian1/FamilyFinance/app/routes/notifications"
	"github.com/Miian1/FamilyFinance/app/routes/transactions"
	"github.com/Miian1/FamilyFinance/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
)

// customErrorHandler handles HTTP errors with custom templates
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Check if this is an API request
	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	// Handle different error codes for web requests
	switch code {
	case 404:
		return c.Status(404).Render("404", fiber.Map{
			"Title":       "Page Not Found - FamilyFinance",
			"CurrentPage": "",
		})
	case 403:
		return c.Status(403).Render("error", fiber.Map{
			"Title":        "Access Forbidden - FamilyFinance",
			"CurrentPage":  "",
			"ErrorCode":    "403",
			"ErrorTitle":   "Access Forbidden",
			"ErrorMessage": "You don't have permission to access this resource.",
		})
	case 401:
		return c.Status(401).Render("error", fiber.Map{
			"Title":        "Unauthorized - FamilyFinance",
			"CurrentPage":  "",
			"ErrorCode":    "401",
			"ErrorTitle":   "Unauthorized",
			"ErrorMessage": "Please log in to access this resource.",
		})
	case 500:
		return c.Status(500).Render("500", fiber.Map{
			"Title":        "Server Error - FamilyFinance",
			"CurrentPage":  "",
			"ErrorCode":    "500",
			"ErrorTitle":   "Internal Server Error",
			"ErrorMessage": "We're experiencing technical difficulties. Please try again later.",
			"ShowRetry":    true,
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - FamilyFinance",
			"CurrentPage":  "",
			"ErrorCode":    code,
			"ErrorTitle":   "An Error Occurred",
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	// Initialize config, logger and database
	cfg, err := config.Init()
	if err != nil {
		log.Fatal("Failed to initialize:", err)
	}
	defer config.GetDB().Close()

	applog := config.GetLog()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		applog.WithError(err).Fatal("Failed to run migrations")
	}

	// Wire services
	store := database.NewStore(config.GetDB())
	hub := realtime.NewHub(applog)
	mailer := services.NewMailer(cfg.SMTP)
	notifier := services.NewNotifier(store, hub, mailer, applog)
	ledger := services.NewLedger(store, notifier, applog)
	membership := services.NewMembership(store, notifier, applog)
	chatSvc := services.NewChat(store, hub, applog)
	bootstrap := services.NewBootstrap(store, applog)

	// Start background scheduler
	scheduler := services.NewScheduler(store, applog)
	if err := scheduler.Start(); err != nil {
		applog.WithError(err).Fatal("Failed to start scheduler")
	}
	defer scheduler.Stop()

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})
	engine.Reload(true) // Enable template reloading for development
	engine.Debug(false)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Static files
	app.Static("/static", "./static")

	// Routes
	auth.SetupAuthRoutes(app)
	dashboard.SetupDashboardRoutes(app, bootstrap)
	accounts.SetupAccountRoutes(app, membership, ledger)
	transactions.SetupTransactionRoutes(app, ledger)
	categories.SetupCategoryRoutes(app)
	notifications.SetupNotificationRoutes(app, membership)
	chat.SetupChatRoutes(app, chatSvc, membership, hub)
	admin.SetupAdminRoutes(app, ledger, notifier, membership)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	// Start server
	applog.WithField("port", cfg.Port).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.WithError(err).Fatal("Server stopped")
	}
}
