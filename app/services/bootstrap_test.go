package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BootstrapTestSuite struct {
	suite.Suite
	store     *mockStore
	bootstrap *Bootstrap

	user *models.User
}

func (suite *BootstrapTestSuite) SetupTest() {
	suite.store = newMockStore()
	suite.bootstrap = NewBootstrap(suite.store, testLogger())
	suite.user = suite.store.addUser("Alice", "alice@example.com", models.RoleMember)
}

func (suite *BootstrapTestSuite) TestLoadAllMergesAccounts() {
	wallet := suite.store.addAccount(suite.user, "Wallet", models.AccountPersonal, "10")
	other := suite.store.addUser("Bob", "bob@example.com", models.RoleMember)
	fund := suite.store.addAccount(other, "Fund", models.AccountShared, "50")
	fund.Members = []string{suite.user.ID}

	// Shared funds are visible to everyone, member or not; other users'
	// personal wallets are not.
	open := suite.store.addAccount(other, "Open Fund", models.AccountShared, "99")
	suite.store.addAccount(other, "Bob Wallet", models.AccountPersonal, "5")

	snap, err := suite.bootstrap.LoadAll(context.Background(), suite.user.ID)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), suite.user.ID, snap.User.ID)
	require.Len(suite.T(), snap.Accounts, 3)
	assert.Equal(suite.T(), wallet.ID, snap.Accounts[0].ID, "personal wallets come first")
	assert.Equal(suite.T(), fund.ID, snap.Accounts[1].ID)
	assert.Equal(suite.T(), open.ID, snap.Accounts[2].ID)
}

func (suite *BootstrapTestSuite) TestLoadAllUnknownUser() {
	_, err := suite.bootstrap.LoadAll(context.Background(), "no-such-user")
	assert.ErrorIs(suite.T(), err, database.ErrNoRows)
}

func (suite *BootstrapTestSuite) TestLoadAllToleratesFailedSections() {
	suite.store.addAccount(suite.user, "Wallet", models.AccountPersonal, "10")
	suite.store.failures["GetRecentTransactions"] = errors.New("boom")
	suite.store.failures["GetNotificationsForUser"] = errors.New("boom")

	snap, err := suite.bootstrap.LoadAll(context.Background(), suite.user.ID)
	require.NoError(suite.T(), err, "a failed section must not fail the load")

	assert.Len(suite.T(), snap.Accounts, 1)
	assert.Empty(suite.T(), snap.Transactions)
	assert.Empty(suite.T(), snap.Notifications)
	assert.NotNil(suite.T(), snap.Transactions, "failed sections serve empty, not nil")
}

func (suite *BootstrapTestSuite) TestLoadAllEmptySectionsAreNotNil() {
	snap, err := suite.bootstrap.LoadAll(context.Background(), suite.user.ID)
	require.NoError(suite.T(), err)

	assert.NotNil(suite.T(), snap.Transactions)
	assert.NotNil(suite.T(), snap.Categories)
	assert.NotNil(suite.T(), snap.Notifications)
	assert.NotNil(suite.T(), snap.Friendships)
	assert.NotNil(suite.T(), snap.Accounts)
}

func TestBootstrapTestSuite(t *testing.T) {
	suite.Run(t, new(BootstrapTestSuite))
}
