package accounts

import (
	"strings"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/respond"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// GetAccountsAPI returns the caller's personal wallets and shared funds.
func GetAccountsAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	db := config.GetDB()

	personal, err := database.GetPersonalAccounts(c.Context(), db, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch accounts"})
	}
	shared, err := database.GetGroupAccounts(c.Context(), db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch accounts"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"personal": personal,
		"shared":   shared,
	})
}

// CreateAccountAPI creates a personal wallet or a shared family fund. The
// initial balance becomes the opening balance, so later audits can tell
// funded-at-creation from drift.
func CreateAccountAPI(c *fiber.Ctx) error {
	type CreateAccountRequest struct {
		Name     string          `json:"name"`
		Type     string          `json:"type"`
		Currency string          `json:"currency"`
		Color    string          `json:"color"`
		Balance  decimal.Decimal `json:"balance"`
	}

	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Account name is required"})
	}
	if req.Balance.IsNegative() {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Balance cannot be negative"})
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	account := &models.Account{
		UserID:   c.Locals("user_id").(string),
		Name:     req.Name,
		Balance:  req.Balance,
		Currency: req.Currency,
		Color:    req.Color,
	}

	db := config.GetDB()
	var err error
	switch models.AccountType(req.Type) {
	case models.AccountShared:
		account.Type = models.AccountShared
		err = database.CreateGroupAccount(c.Context(), db, account)
	case models.AccountPersonal, "":
		account.Type = models.AccountPersonal
		err = database.CreatePersonalAccount(c.Context(), db, account)
	default:
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Type must be personal or shared"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create account"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"account": account,
	})
}

// GetAccountAPI returns one account the caller can see.
func GetAccountAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	account, err := database.GetAccountByID(c.Context(), config.GetDB(), c.Params("id"))
	if err != nil {
		if database.IsNoRows(err) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Account not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch account"})
	}
	if account.UserID != userID && !account.HasMember(userID) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Insufficient permissions"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"account": account,
	})
}

// GetAccountTransactionsAPI returns the postings of a single account.
func GetAccountTransactionsAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	db := config.GetDB()

	account, err := database.GetAccountByID(c.Context(), db, c.Params("id"))
	if err != nil {
		if database.IsNoRows(err) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Account not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch account"})
	}
	if account.UserID != userID && !account.HasMember(userID) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Insufficient permissions"})
	}

	transactions, err := database.GetTransactionsForAccount(c.Context(), db, account.ID, 500)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch transactions"})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"transactions": transactions,
	})
}

// RequestJoinAPI asks the owner of a shared fund to let the caller in.
func RequestJoinAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := membershipSvc.RequestJoin(c.Context(), userID, c.Params("id")); err != nil {
		return respond.ServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Join request sent"})
}

// LeaveAccountAPI removes the caller from a shared fund.
func LeaveAccountAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := membershipSvc.LeaveGroup(c.Context(), userID, c.Params("id")); err != nil {
		return respond.ServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Left the fund"})
}

// InviteMemberAPI invites another user into a fund the caller owns or
// administers.
func InviteMemberAPI(c *fiber.Ctx) error {
	type InviteRequest struct {
		UserID string `json:"user_id"`
	}

	var req InviteRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "user_id is required"})
	}

	actor := c.Locals("user").(*models.User)
	if err := membershipSvc.InviteMember(c.Context(), actor, c.Params("id"), req.UserID); err != nil {
		return respond.ServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Invitation sent"})
}

// RemoveMemberAPI evicts a member from a fund.
func RemoveMemberAPI(c *fiber.Ctx) error {
	actor := c.Locals("user").(*models.User)

	if err := membershipSvc.RemoveMember(c.Context(), actor, c.Params("id"), c.Params("userId")); err != nil {
		return respond.ServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Member removed"})
}

// SuspendAccountAPI lets an account's owner freeze or release it.
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
