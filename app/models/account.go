package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a wallet. Personal wallets have one owner and no member
// list; shared family funds have an owner plus member user IDs. The member
// list never contains the owner.
type Account struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Type        AccountType     `json:"type"`
	Color       string          `json:"color,omitempty"`
	IsSuspended bool            `json:"is_suspended"`
	Members     []string        `json:"members,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// HasMember reports whether userID is in the member list.
func (a *Account) HasMember(userID string) bool {
	for _, id := range a.Members {
		if id == userID {
			return true
		}
	}
	return false
}
