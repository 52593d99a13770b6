package services

import (
	"context"
	"strings"

	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/sirupsen/logrus"
)

type chatStore interface {
	FindFriendshipBetween(ctx context.Context, userA, userB string) (*models.Friendship, error)
	InsertMessage(ctx context.Context, m *models.Message) error
	GetConversation(ctx context.Context, userA, userB string) ([]*models.Message, error)
	MarkConversationRead(ctx context.Context, readerID, peerID string) (int64, error)
	CountUnreadMessages(ctx context.Context, userID string) (map[string]int, error)
}

// Chat handles direct messages between friends. Only accepted friends can
// message each other; delivery to online peers goes through the push hub.
type Chat struct {
	store chatStore
	push  Pusher
	log   *logrus.Logger
}

func NewChat(store chatStore, push Pusher, log *logrus.Logger) *Chat {
	return &Chat{store: store, push: push, log: log}
}

// Send persists a message and pushes it to the receiver if they are online.
func (c *Chat) Send(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, Validationf("message cannot be empty")
	}
	if senderID == receiverID {
		return nil, Validationf("cannot message yourself")
	}

	f, err := c.store.FindFriendshipBetween(ctx, senderID, receiverID)
	if database.IsNoRows(err) || (err == nil && f.Status != models.RequestAccepted) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	m := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := c.store.InsertMessage(ctx, m); err != nil {
		return nil, err
	}
	if c.push != nil {
		c.push.Push(receiverID, "message", m)
	}
	return m, nil
}

// Conversation returns the full history with a peer and marks the peer's
// messages as read.
func (c *Chat) Conversation(ctx context.Context, userID, peerID string) ([]*models.Message, error) {
	messages, err := c.store.GetConversation(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}
	if _, err := c.store.MarkConversationRead(ctx, userID, peerID); err != nil {
		c.log.WithError(err).Warn("Failed to mark conversation read")
	}
	return messages, nil
}

// UnreadCounts returns unread message counts per sender, for badges.
func (c *Chat) UnreadCounts(ctx context.Context, userID string) (map[string]int, error) {
	return c.store.CountUnreadMessages(ctx, userID)
}
