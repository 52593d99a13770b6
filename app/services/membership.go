package services

import (
	"context"
	"fmt"

	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/sirupsen/logrus"
)

type membershipStore interface {
	GetGroupAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	AddGroupMember(ctx context.Context, accountID, userID string) (bool, error)
	RemoveGroupMember(ctx context.Context, accountID, userID string) (bool, error)
	GetNotificationByID(ctx context.Context, id string) (*models.Notification, error)
	SetNotificationStatus(ctx context.Context, id string, status models.RequestStatus) error
	GetFriendshipsForUser(ctx context.Context, userID string) ([]*models.Friendship, error)
	FindFriendshipBetween(ctx context.Context, userA, userB string) (*models.Friendship, error)
	GetFriendshipByID(ctx context.Context, id string) (*models.Friendship, error)
	CreateFriendship(ctx context.Context, f *models.Friendship) error
	SetFriendshipStatus(ctx context.Context, id string, status models.RequestStatus) error
	DeleteFriendship(ctx context.Context, id string) error
}

// Membership manages who belongs to shared family funds and who is friends
// with whom. Member list edits run as single guarded statements, so two
// concurrent accepts of the same invite leave exactly one membership.
type Membership struct {
	store    membershipStore
	notifier *Notifier
	log      *logrus.Logger
}

func NewMembership(store membershipStore, notifier *Notifier, log *logrus.Logger) *Membership {
	return &Membership{store: store, notifier: notifier, log: log}
}

// RequestJoin asks the owner of a shared account to let the user in. The
// request lands in the owner's inbox as a pending invite.
func (m *Membership) RequestJoin(ctx context.Context, userID, accountID string) error {
	account, err := m.store.GetGroupAccountByID(ctx, accountID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	if err != nil {
		return err
	}
	if account.UserID == userID || account.HasMember(userID) {
		return Validationf("already a member of %s", account.Name)
	}

	requester, err := m.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	m.notifier.Notify(ctx, &models.Notification{
		UserID:  account.UserID,
		Title:   "Join request",
		Message: fmt.Sprintf("%s wants to join %s", requester.Name, account.Name),
		Type:    models.NotificationInvite,
		Status:  models.RequestPending,
		Data: models.JSONMap{
			"account_id": account.ID,
			"member_id":  userID,
		},
	})
	return nil
}

// InviteMember lets the account owner or an admin invite another user. The
// invite lands in the invitee's inbox; membership begins only when they
// accept.
func (m *Membership) InviteMember(ctx context.Context, actor *models.User, accountID, inviteeID string) error {
	account, err := m.store.GetGroupAccountByID(ctx, accountID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	if err != nil {
		return err
	}
	if account.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if account.UserID == inviteeID || account.HasMember(inviteeID) {
		return Validationf("user is already a member of %s", account.Name)
	}

	m.notifier.Notify(ctx, &models.Notification{
		UserID:  inviteeID,
		Title:   "Family fund invitation",
		Message: fmt.Sprintf("%s invited you to join %s", actor.Name, account.Name),
		Type:    models.NotificationInvite,
		Status:  models.RequestPending,
		Data: models.JSONMap{
			"account_id": account.ID,
			"member_id":  inviteeID,
		},
	})
	return nil
}

// RespondToRequest settles a pending join request or invitation. Only the
// notification's recipient may respond. Responding is idempotent: repeating
// the recorded verdict is a no-op, and a member who is already in the list
// stays in it once. Flipping a settled verdict is rejected.
func (m *Membership) RespondToRequest(ctx context.Context, responderID, notificationID string, accept bool) error {
	note, err := m.store.GetNotificationByID(ctx, notificationID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: notification %s", ErrNotFound, notificationID)
	}
	if err != nil {
		return err
	}
	if note.UserID != responderID {
		return ErrForbidden
	}
	if note.Type != models.NotificationInvite {
		return Validationf("notification is not a membership request")
	}
	if note.Status != models.RequestPending {
		// Repeating the verdict already recorded is a no-op; the guarded
		// member append already made the membership itself idempotent.
		wanted := models.RequestRejected
		if accept {
			wanted = models.RequestAccepted
		}
		if note.Status == wanted {
			return nil
		}
		return Validationf("request is no longer pending")
	}

	accountID := note.AccountID()
	memberID, _ := note.Data["member_id"].(string)
	if accountID == "" || memberID == "" {
		return Validationf("request is missing its account reference")
	}

	if !accept {
		if err := m.store.SetNotificationStatus(ctx, notificationID, models.RequestRejected); err != nil {
			return err
		}
		m.notifyOutcome(ctx, note, memberID, responderID, accountID, false)
		return nil
	}

	added, err := m.store.AddGroupMember(ctx, accountID, memberID)
	if err != nil {
		return err
	}
	if err := m.store.SetNotificationStatus(ctx, notificationID, models.RequestAccepted); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"account_id": accountID,
		"member_id":  memberID,
		"added":      added,
	}).Info("Join request accepted")
	m.notifyOutcome(ctx, note, memberID, responderID, accountID, true)
	return nil
}

// AddMember puts a user straight into a fund without the invite handshake.
// Admin only. The guarded append keeps the owner out of the member list and
// makes repeats harmless.
func (m *Membership) AddMember(ctx context.Context, actor *models.User, accountID, memberID string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	account, err := m.store.GetGroupAccountByID(ctx, accountID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	if err != nil {
		return err
	}
	if _, err := m.store.GetUserByID(ctx, memberID); err != nil {
		if database.IsNoRows(err) {
			return fmt.Errorf("%w: user %s", ErrNotFound, memberID)
		}
		return err
	}
	added, err := m.store.AddGroupMember(ctx, accountID, memberID)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}
	m.notifier.Notify(ctx, &models.Notification{
		UserID:  memberID,
		Title:   "Added to fund",
		Message: fmt.Sprintf("An administrator added you to %s", account.Name),
		Type:    models.NotificationInfo,
		Data:    models.JSONMap{"account_id": account.ID},
	})
	return nil
}

// LeaveGroup removes the caller from a shared account. The owner cannot
// leave their own fund.
func (m *Membership) LeaveGroup(ctx context.Context, userID, accountID string) error {
	account, err := m.store.GetGroupAccountByID(ctx, accountID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	if err != nil {
		return err
	}
	if account.UserID == userID {
		return Validationf("the owner cannot leave their own fund")
	}
	removed, err := m.store.RemoveGroupMember(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: not a member of %s", ErrNotFound, account.Name)
	}
	leaver, err := m.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	m.notifier.Notify(ctx, &models.Notification{
		UserID:  account.UserID,
		Title:   "Member left",
		Message: fmt.Sprintf("%s left %s", leaver.Name, account.Name),
		Type:    models.NotificationInfo,
		Data:    models.JSONMap{"account_id": account.ID},
	})
	return nil
}

// RemoveMember evicts a member. Allowed for the account owner and admins.
func (m *Membership) RemoveMember(ctx context.Context, actor *models.User, accountID, memberID string) error {
	account, err := m.store.GetGroupAccountByID(ctx, accountID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	if err != nil {
		return err
	}
	if account.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	removed, err := m.store.RemoveGroupMember(ctx, accountID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: user is not a member", ErrNotFound)
	}
	m.notifier.Notify(ctx, &models.Notification{
		UserID:  memberID,
		Title:   "Removed from fund",
		Message: fmt.Sprintf("You were removed from %s", account.Name),
		Type:    models.NotificationInfo,
		Data:    models.JSONMap{"account_id": account.ID},
	})
	return nil
}

// SendFriendRequest creates a pending friendship and tells the receiver.
func (m *Membership) SendFriendRequest(ctx context.Context, requesterID, receiverID string) error {
	if requesterID == receiverID {
		return Validationf("cannot befriend yourself")
	}
	receiver, err := m.store.GetUserByID(ctx, receiverID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: user %s", ErrNotFound, receiverID)
	}
	if err != nil {
		return err
	}

	existing, err := m.store.FindFriendshipBetween(ctx, requesterID, receiverID)
	if err != nil && !database.IsNoRows(err) {
		return err
	}
	if existing != nil {
		if existing.Status == models.RequestAccepted {
			return Validationf("already friends with %s", receiver.Name)
		}
		return Validationf("a friend request is already pending")
	}

	f := &models.Friendship{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.RequestPending,
	}
	if err := m.store.CreateFriendship(ctx, f); err != nil {
		return err
	}

	requester, err := m.store.GetUserByID(ctx, requesterID)
	if err != nil {
		return err
	}
	m.notifier.Notify(ctx, &models.Notification{
		UserID:  receiverID,
		Title:   "Friend request",
		Message: fmt.Sprintf("%s sent you a friend request", requester.Name),
		Type:    models.NotificationInfo,
		Data:    models.JSONMap{"friendship_id": f.ID},
	})
	return nil
}

// RespondToFriendRequest accepts or rejects a pending request. Only the
// receiver may respond. Rejection deletes the row so the requester can try
// again later.
func (m *Membership) RespondToFriendRequest(ctx context.Context, userID, friendshipID string, accept bool) error {
	f, err := m.store.GetFriendshipByID(ctx, friendshipID)
	if database.IsNoRows(err) {
		return fmt.Errorf("%w: friend request %s", ErrNotFound, friendshipID)
	}
	if err != nil {
		return err
	}
	if f.ReceiverID != userID {
		return ErrForbidden
	}
	if f.Status != models.RequestPending {
		return Validationf("friend request is no longer pending")
	}

	if !accept {
		return m.store.DeleteFriendship(ctx, friendshipID)
	}
	if err := m.store.SetFriendshipStatus(ctx, friendshipID, models.RequestAccepted); err != nil {
		return err
	}
	receiver, err := m.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	m.notifier.Notify(ctx, &models.Notification{
		UserID:  f.RequesterID,
		Title:   "Friend request accepted",
		Message: fmt.Sprintf("%s accepted your friend request", receiver.Name),
		Type:    models.NotificationInfo,
	})
	return nil
}

// Friends returns the accepted friends of a user as user records.
func (m *Membership) Friends(ctx context.Context, userID string) ([]*models.User, error) {
	friendships, err := m.store.GetFriendshipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends := []*models.User{}
	for _, f := range friendships {
		if f.Status != models.RequestAccepted {
			continue
		}
		u, err := m.store.GetUserByID(ctx, f.OtherParty(userID))
		if err != nil {
			if database.IsNoRows(err) {
				continue
			}
			return nil, err
		}
		friends = append(friends, u)
	}
	return friends, nil
}

func (m *Membership) notifyOutcome(ctx context.Context, note *models.Notification, memberID, responderID, accountID string, accepted bool) {
	// The counterpart of the responder hears the outcome: the requester for
	// join requests, nobody for self-targeted invites.
	if memberID == responderID {
		return
	}
	title, verdict := "Request accepted", "accepted"
	if !accepted {
		title, verdict = "Request rejected", "rejected"
	}
	m.notifier.Notify(ctx, &models.Notification{
		UserID:  memberID,
		Title:   title,
		Message: fmt.Sprintf("Your request to join was %s", verdict),
		Type:    models.NotificationInfo,
		Data:    models.JSONMap{"account_id": accountID},
	})
}
