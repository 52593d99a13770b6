package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a posted ledger entry. Amount is a positive
// magnitude; the sign is implied by Type. Rows are immutable once created.
// The two legs of a transfer share one TransferID.
type Transaction struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"type"`
	CategoryID string          `json:"category_id"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note"`
	CreatedBy  string          `json:"created_by"`
	TransferID string          `json:"transfer_id,omitempty"`
}
