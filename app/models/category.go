package models

// Category represents a global transaction category, managed by admins.
type Category struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Color     string          `json:"color"`
	Icon      string          `json:"icon,omitempty"`
	IsDefault bool            `json:"is_default"`
}
