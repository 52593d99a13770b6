package auth

import (
	"strings"
	"time"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(tokenLifetime),
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
	})
}

func LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	user, err := database.GetUserByEmail(c.Context(), config.GetDB(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if database.IsNoRows(err) {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := GenerateJWT(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	setTokenCookie(c, token)

	return c.JSON(fiber.Map{
		"event": "SIGNED_IN",
		"token": token,
		"user":  user,
	})
}

// SignupAPI registers a new user. The very first user becomes the admin;
// everyone after that is a regular member. Every new user starts with a
// default personal wallet.
func SignupAPI(c *fiber.Ctx) error {
	type SignupRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name and email are required"})
	}
	if len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}

	db := config.GetDB()
	if _, err := database.GetUserByEmail(c.Context(), db, req.Email); err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "Email is already registered"})
	} else if !database.IsNoRows(err) {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	count, err := database.CountUsers(c.Context(), db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	role := models.RoleMember
	if count == 0 {
		role = models.RoleAdmin
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	}
	if err := database.CreateUser(c.Context(), db, user); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create user"})
	}

	account := &models.Account{
		UserID:   user.ID,
		Name:     "Main Savings",
		Balance:  decimal.Zero,
		Currency: "USD",
		Type:     models.AccountPersonal,
	}
	if err := database.CreatePersonalAccount(c.Context(), db, account); err != nil {
		config.GetLog().WithError(err).WithField("user_id", user.ID).Error("Failed to create default account")
	}

	config.GetLog().WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    role,
	}).Info("New user registered")

	token, err := GenerateJWT(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	setTokenCookie(c, token)

	return c.Status(201).JSON(fiber.Map{
		"event": "SIGNED_IN",
		"token": token,
		"user":  user,
	})
}

func LogoutAPI(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.JSON(fiber.Map{"event": "SIGNED_OUT"})
	}
	return c.Redirect("/auth/login")
}

// RefreshAPI issues a fresh token to a caller whose current token is still
// valid.
func RefreshAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	token, err := GenerateJWT(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	setTokenCookie(c, token)

	return c.JSON(fiber.Map{
		"event": "TOKEN_REFRESHED",
		"token": token,
	})
}

// SessionAPI returns the signed-in user's full record.
func SessionAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	user, err := database.GetUserByID(c.Context(), config.GetDB(), userID)
	if err != nil {
		if database.IsNoRows(err) {
			return c.Status(401).JSON(fiber.Map{"error": "Session user no longer exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{"user": user})
}

func ChangePasswordAPI(c *fiber.Ctx) error {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}

	userID := c.Locals("user_id").(string)

	user, err := database.GetUserByID(c.Context(), config.GetDB(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		return c.Status(400).JSON(fiber.Map{"error": "Current password is incorrect"})
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	if err := database.UpdateUserPassword(c.Context(), config.GetDB(), userID, hashed); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update password"})
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}
