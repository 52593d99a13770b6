package models

import "time"

// Friendship links two users. Directional while pending (only the receiver
// may act on it); symmetric once accepted. Rejected requests are deleted.
type Friendship struct {
	ID          string        `json:"id"`
	RequesterID string        `json:"requester_id"`
	ReceiverID  string        `json:"receiver_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// OtherParty returns the counterpart of userID in the friendship.
func (f *Friendship) OtherParty(userID string) string {
	if f.RequesterID == userID {
		return f.ReceiverID
	}
	return f.RequesterID
}
