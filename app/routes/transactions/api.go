package transactions

import (
	"time"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/respond"
	"github.com/Miian1/FamilyFinance/app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// GetTransactionsAPI returns the caller's recent transactions across all
// their accounts, newest first, capped at 500.
func GetTransactionsAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit := c.QueryInt("limit", 500)
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	transactions, err := database.GetRecentTransactions(c.Context(), config.GetDB(), userID, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch transactions"})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"transactions": transactions,
	})
}

// CreateTransactionAPI posts an income or expense entry.
func CreateTransactionAPI(c *fiber.Ctx) error {
	type EntryRequest struct {
		AccountID  string          `json:"account_id"`
		Amount     decimal.Decimal `json:"amount"`
		Type       string          `json:"type"`
		CategoryID string          `json:"category_id"`
		Note       string          `json:"note"`
		Date       string          `json:"date"`
	}

	var req EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Date must be YYYY-MM-DD"})
		}
	}

	userID := c.Locals("user_id").(string)
	t, err := ledgerSvc.RecordEntry(c.Context(), userID, services.EntryInput{
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		Type:       models.TransactionType(req.Type),
		CategoryID: req.CategoryID,
		Note:       req.Note,
		Date:       date,
	})
	if err != nil {
		return respond.ServiceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":     true,
		"transaction": t,
	})
}

// CreateTransferAPI moves money from one of the caller's accounts to a
// recipient. Recipient may be a shared account ID, a user ID, or a personal
// account ID.
func CreateTransferAPI(c *fiber.Ctx) error {
	type TransferRequest struct {
		SourceAccountID string          `json:"source_account_id"`
		Recipient       string          `json:"recipient"`
		Amount          decimal.Decimal `json:"amount"`
		CategoryID      string          `json:"category_id"`
		Note            string          `json:"note"`
	}

	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	userID := c.Locals("user_id").(string)
	debit, credit, err := ledgerSvc.RecordTransfer(c.Context(), userID, services.TransferInput{
		SourceAccountID: req.SourceAccountID,
		Recipient:       req.Recipient,
		Amount:          req.Amount,
		CategoryID:      req.CategoryID,
		Note:            req.Note,
	})
	if err != nil {
		return respond.ServiceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":     true,
		"transfer_id": debit.TransferID,
		"debit":       debit,
		"credit":      credit,
	})
}
