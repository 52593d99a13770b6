package services

import (
	"context"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/sirupsen/logrus"
)

type notifierStore interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
	InsertNotifications(ctx context.Context, ns []*models.Notification) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Pusher delivers an event to a connected user, if they are online.
type Pusher interface {
	Push(userID, event string, payload interface{})
}

// Notifier writes inbox notifications and forwards them to connected
// clients. Delivery is best effort: a failed insert is logged and never
// fails the operation that triggered it.
type Notifier struct {
	store  notifierStore
	push   Pusher
	mailer *Mailer
	log    *logrus.Logger
}

func NewNotifier(store notifierStore, push Pusher, mailer *Mailer, log *logrus.Logger) *Notifier {
	return &Notifier{store: store, push: push, mailer: mailer, log: log}
}

// Notify stores a single notification and pushes it to the recipient.
func (n *Notifier) Notify(ctx context.Context, note *models.Notification) {
	if err := n.store.InsertNotification(ctx, note); err != nil {
		n.log.WithError(err).WithField("user_id", note.UserID).Warn("Failed to store notification")
		return
	}
	if n.push != nil {
		n.push.Push(note.UserID, "notification", note)
	}
	n.maybeEmail(ctx, note)
}

// Broadcast stores one copy of the message for every user except the
// sender. Returns the number of recipients.
func (n *Notifier) Broadcast(ctx context.Context, senderID, title, message string) (int, error) {
	users, err := n.store.GetAllUsers(ctx)
	if err != nil {
		return 0, err
	}
	notes := []*models.Notification{}
	emails := []string{}
	for _, u := range users {
		if u.ID == senderID {
			continue
		}
		notes = append(notes, &models.Notification{
			UserID:  u.ID,
			Title:   title,
			Message: message,
			Type:    models.NotificationAdmin,
		})
		emails = append(emails, u.Email)
	}
	if len(notes) == 0 {
		return 0, nil
	}
	if err := n.store.InsertNotifications(ctx, notes); err != nil {
		return 0, err
	}
	if n.push != nil {
		for _, note := range notes {
			n.push.Push(note.UserID, "notification", note)
		}
	}
	if n.mailer != nil && n.mailer.Enabled() {
		for _, addr := range emails {
			if err := n.mailer.Send(addr, title, message); err != nil {
				n.log.WithError(err).WithField("email", addr).Warn("Failed to send broadcast email")
			}
		}
	}
	return len(notes), nil
}

// SharedAccountTarget picks who hears about activity on a shared account:
// the owner, unless the actor is the owner, in which case the first other
// member. Returns empty when there is nobody else to tell.
func SharedAccountTarget(account *models.Account, actorID string) string {
	if account.UserID != actorID {
		return account.UserID
	}
	for _, m := range account.Members {
		if m != actorID {
			return m
		}
	}
	return ""
}

// Invite notifications carry an email when SMTP is configured, so members
// hear about join requests even while offline.
func (n *Notifier) maybeEmail(ctx context.Context, note *models.Notification) {
	if n.mailer == nil || !n.mailer.Enabled() || note.Type != models.NotificationInvite {
		return
	}
	user, err := n.store.GetUserByID(ctx, note.UserID)
	if err != nil {
		n.log.WithError(err).Warn("Failed to load notification recipient for email")
		return
	}
	if err := n.mailer.Send(user.Email, note.Title, note.Message); err != nil {
		n.log.WithError(err).WithField("email", user.Email).Warn("Failed to send notification email")
	}
}
