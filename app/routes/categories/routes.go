package categories

import (
	"strings"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

// SetupCategoryRoutes sets up category routes. Reading is open to everyone
// signed in; editing the shared taxonomy is admin only.
func SetupCategoryRoutes(app *fiber.App) {
	api := app.Group("/api/categories")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetCategoriesAPI)
	api.Post("/", auth.RoleMiddleware(models.RoleAdmin), CreateCategoryAPI)
	api.Delete("/:id", auth.RoleMiddleware(models.RoleAdmin), DeleteCategoryAPI)
}

// GetCategoriesAPI returns all categories.
func GetCategoriesAPI(c *fiber.Ctx) error {
	categories, err := database.GetAllCategories(c.Context(), config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch categories"})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}

// CreateCategoryAPI adds a category to the shared taxonomy.
func CreateCategoryAPI(c *fiber.Ctx) error {
	category := new(models.Category)
	if err := c.BodyParser(category); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Category name is required"})
	}
	if category.Type != models.TransactionExpense && category.Type != models.TransactionIncome {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Type must be expense or income"})
	}

	if err := database.CreateCategory(c.Context(), config.GetDB(), category); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create category"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success":  true,
		"category": category,
	})
}

// DeleteCategoryAPI removes a category. Existing transactions keep their
// category reference.
func DeleteCategoryAPI(c *fiber.Ctx) error {
	if err := database.DeleteCategory(c.Context(), config.GetDB(), c.Params("id")); err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Category not found"})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category deleted",
	})
}
