package services

import (
	"context"
	"testing"

	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MembershipTestSuite struct {
	suite.Suite
	store      *mockStore
	membership *Membership

	owner  *models.User
	member *models.User
	fund   *models.Account
}

func (suite *MembershipTestSuite) SetupTest() {
	suite.store = newMockStore()
	log := testLogger()
	notifier := NewNotifier(suite.store, nil, nil, log)
	suite.membership = NewMembership(suite.store, notifier, log)

	suite.owner = suite.store.addUser("Owner", "owner@example.com", models.RoleMember)
	suite.member = suite.store.addUser("Member", "member@example.com", models.RoleMember)
	suite.fund = suite.store.addAccount(suite.owner, "Family Fund", models.AccountShared, "0")
}

func (suite *MembershipTestSuite) pendingRequestFor(userID string) *models.Notification {
	for _, n := range suite.store.notificationsFor(userID) {
		if n.Type == models.NotificationInvite && n.Status == models.RequestPending {
			return n
		}
	}
	return nil
}

func (suite *MembershipTestSuite) TestJoinRequestAndAccept() {
	err := suite.membership.RequestJoin(context.Background(), suite.member.ID, suite.fund.ID)
	require.NoError(suite.T(), err)

	req := suite.pendingRequestFor(suite.owner.ID)
	require.NotNil(suite.T(), req, "owner should have a pending join request")
	assert.Equal(suite.T(), suite.fund.ID, req.AccountID())

	err = suite.membership.RespondToRequest(context.Background(), suite.owner.ID, req.ID, true)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), suite.fund.HasMember(suite.member.ID))
	assert.Equal(suite.T(), models.RequestAccepted, req.Status)

	// The requester hears the outcome.
	outcome := suite.store.notificationsFor(suite.member.ID)
	require.Len(suite.T(), outcome, 1)
	assert.Equal(suite.T(), models.NotificationInfo, outcome[0].Type)
}

func (suite *MembershipTestSuite) TestJoinRequestReject() {
	require.NoError(suite.T(), suite.membership.RequestJoin(context.Background(), suite.member.ID, suite.fund.ID))
	req := suite.pendingRequestFor(suite.owner.ID)
	require.NotNil(suite.T(), req)

	err := suite.membership.RespondToRequest(context.Background(), suite.owner.ID, req.ID, false)
	require.NoError(suite.T(), err)

	assert.False(suite.T(), suite.fund.HasMember(suite.member.ID), "rejected requester must not be a member")
	assert.Equal(suite.T(), models.RequestRejected, req.Status)
}

func (suite *MembershipTestSuite) TestRepeatResponseIsNoOp() {
	require.NoError(suite.T(), suite.membership.RequestJoin(context.Background(), suite.member.ID, suite.fund.ID))
	req := suite.pendingRequestFor(suite.owner.ID)
	require.NotNil(suite.T(), req)

	require.NoError(suite.T(), suite.membership.RespondToRequest(context.Background(), suite.owner.ID, req.ID, true))

	// Accepting again changes nothing; the member list stays at one.
	err := suite.membership.RespondToRequest(context.Background(), suite.owner.ID, req.ID, true)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), suite.fund.Members, 1)

	// Flipping a settled verdict is rejected.
	err = suite.membership.RespondToRequest(context.Background(), suite.owner.ID, req.ID, false)
	assert.ErrorIs(suite.T(), err, ErrValidation)
	assert.Len(suite.T(), suite.fund.Members, 1)
}

func (suite *MembershipTestSuite) TestLeaveThenRejoinRestoresMembership() {
	suite.fund.Members = []string{suite.member.ID}

	require.NoError(suite.T(), suite.membership.LeaveGroup(context.Background(), suite.member.ID, suite.fund.ID))
	require.Empty(suite.T(), suite.fund.Members)

	require.NoError(suite.T(), suite.membership.RequestJoin(context.Background(), suite.member.ID, suite.fund.ID))
	req := suite.pendingRequestFor(suite.owner.ID)
	require.NotNil(suite.T(), req)

	require.NoError(suite.T(), suite.membership.RespondToRequest(context.Background(), suite.owner.ID, req.ID, true))
	assert.Equal(suite.T(), []string{suite.member.ID}, suite.fund.Members,
		"leaving and rejoining should land back at exactly one membership")
}

func (suite *MembershipTestSuite) TestAddMemberDirectly() {
	admin := suite.store.addUser("Root", "root@example.com", models.RoleAdmin)

	err := suite.membership.AddMember(context.Background(), admin, suite.fund.ID, suite.member.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), suite.fund.HasMember(suite.member.ID))

	// The new member is told; no invite round trip happened.
	assert.NotEmpty(suite.T(), suite.store.notificationsFor(suite.member.ID))
	assert.Nil(suite.T(), suite.pendingRequestFor(suite.member.ID))

	// Repeats leave the list unchanged, and plain users cannot use it.
	require.NoError(suite.T(), suite.membership.AddMember(context.Background(), admin, suite.fund.ID, suite.member.ID))
	assert.Len(suite.T(), suite.fund.Members, 1)
	err = suite.membership.AddMember(context.Background(), suite.owner, suite.fund.ID, suite.member.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *MembershipTestSuite) TestOnlyRecipientMayRespond() {
	require.NoError(suite.T(), suite.membership.RequestJoin(context.Background(), suite.member.ID, suite.fund.ID))
	req := suite.pendingRequestFor(suite.owner.ID)
	require.NotNil(suite.T(), req)

	err := suite.membership.RespondToRequest(context.Background(), suite.member.ID, req.ID, true)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *MembershipTestSuite) TestRequestJoinAlreadyMember() {
	suite.fund.Members = []string{suite.member.ID}

	err := suite.membership.RequestJoin(context.Background(), suite.member.ID, suite.fund.ID)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *MembershipTestSuite) TestInviteAndAccept() {
	err := suite.membership.InviteMember(context.Background(), suite.owner, suite.fund.ID, suite.member.ID)
	require.NoError(suite.T(), err)

	invite := suite.pendingRequestFor(suite.member.ID)
	require.NotNil(suite.T(), invite, "invitee should have a pending invitation")

	err = suite.membership.RespondToRequest(context.Background(), suite.member.ID, invite.ID, true)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), suite.fund.HasMember(suite.member.ID))
}

func (suite *MembershipTestSuite) TestInvitePermissions() {
	err := suite.membership.InviteMember(context.Background(), suite.member, suite.fund.ID, suite.member.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden, "plain members cannot invite")

	admin := suite.store.addUser("Root", "root@example.com", models.RoleAdmin)
	other := suite.store.addUser("Cara", "cara@example.com", models.RoleMember)
	err = suite.membership.InviteMember(context.Background(), admin, suite.fund.ID, other.ID)
	require.NoError(suite.T(), err, "admins may invite into any fund")
	assert.NotNil(suite.T(), suite.pendingRequestFor(other.ID))
}

func (suite *MembershipTestSuite) TestLeaveGroup() {
	suite.fund.Members = []string{suite.member.ID}

	err := suite.membership.LeaveGroup(context.Background(), suite.member.ID, suite.fund.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), suite.fund.Members)
	assert.NotEmpty(suite.T(), suite.store.notificationsFor(suite.owner.ID), "owner hears about the departure")
}

func (suite *MembershipTestSuite) TestOwnerCannotLeave() {
	err := suite.membership.LeaveGroup(context.Background(), suite.owner.ID, suite.fund.ID)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *MembershipTestSuite) TestRemoveMember() {
	suite.fund.Members = []string{suite.member.ID}

	err := suite.membership.RemoveMember(context.Background(), suite.owner, suite.fund.ID, suite.member.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), suite.fund.Members)

	// The evicted member hears about it.
	assert.NotEmpty(suite.T(), suite.store.notificationsFor(suite.member.ID))
}

func (suite *MembershipTestSuite) TestRemoveMemberRequiresOwnerOrAdmin() {
	other := suite.store.addUser("Other", "other@example.com", models.RoleMember)
	suite.fund.Members = []string{suite.member.ID}

	err := suite.membership.RemoveMember(context.Background(), other, suite.fund.ID, suite.member.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	admin := suite.store.addUser("Admin", "admin@example.com", models.RoleAdmin)
	err = suite.membership.RemoveMember(context.Background(), admin, suite.fund.ID, suite.member.ID)
	assert.NoError(suite.T(), err)
}

func (suite *MembershipTestSuite) TestFriendRequestLifecycle() {
	err := suite.membership.SendFriendRequest(context.Background(), suite.owner.ID, suite.member.ID)
	require.NoError(suite.T(), err)

	friendships, err := suite.store.GetFriendshipsForUser(context.Background(), suite.member.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), friendships, 1)
	f := friendships[0]
	assert.Equal(suite.T(), models.RequestPending, f.Status)

	// Duplicate request is rejected while one is pending.
	err = suite.membership.SendFriendRequest(context.Background(), suite.owner.ID, suite.member.ID)
	assert.ErrorIs(suite.T(), err, ErrValidation)

	err = suite.membership.RespondToFriendRequest(context.Background(), suite.member.ID, f.ID, true)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RequestAccepted, f.Status)

	friends, err := suite.membership.Friends(context.Background(), suite.owner.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), friends, 1)
	assert.Equal(suite.T(), suite.member.ID, friends[0].ID)
}

func (suite *MembershipTestSuite) TestFriendRequestRejectDeletesRow() {
	require.NoError(suite.T(), suite.membership.SendFriendRequest(context.Background(), suite.owner.ID, suite.member.ID))
	friendships, _ := suite.store.GetFriendshipsForUser(context.Background(), suite.member.ID)
	require.Len(suite.T(), friendships, 1)

	err := suite.membership.RespondToFriendRequest(context.Background(), suite.member.ID, friendships[0].ID, false)
	require.NoError(suite.T(), err)

	friendships, _ = suite.store.GetFriendshipsForUser(context.Background(), suite.member.ID)
	assert.Empty(suite.T(), friendships, "rejection deletes the row so the requester can retry")

	// And a retry works.
	assert.NoError(suite.T(), suite.membership.SendFriendRequest(context.Background(), suite.owner.ID, suite.member.ID))
}

func (suite *MembershipTestSuite) TestFriendRequestToSelf() {
	err := suite.membership.SendFriendRequest(context.Background(), suite.owner.ID, suite.owner.ID)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *MembershipTestSuite) TestOnlyReceiverMayRespondToFriendRequest() {
	require.NoError(suite.T(), suite.membership.SendFriendRequest(context.Background(), suite.owner.ID, suite.member.ID))
	friendships, _ := suite.store.GetFriendshipsForUser(context.Background(), suite.member.ID)
	require.Len(suite.T(), friendships, 1)

	err := suite.membership.RespondToFriendRequest(context.Background(), suite.owner.ID, friendships[0].ID, true)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func TestMembershipTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipTestSuite))
}
