package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap is an arbitrary structured notification payload stored as jsonb.
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Notification represents an inbox entry for a single recipient. Status is
// only meaningful for workflow notifications (join invites).
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Status    RequestStatus    `json:"status,omitempty"`
	IsRead    bool             `json:"is_read"`
	Data      JSONMap          `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// AccountID extracts the referenced account ID from the payload, if any.
func (n *Notification) AccountID() string {
	if n.Data == nil {
		return ""
	}
	if id, ok := n.Data["account_id"].(string); ok {
		return id
	}
	return ""
}
