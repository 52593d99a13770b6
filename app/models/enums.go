package models

// Role defines the two user roles in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// AccountType distinguishes personal wallets from shared family funds.
type AccountType string

const (
	AccountPersonal AccountType = "personal"
	AccountShared   AccountType = "shared"
)

// TransactionType defines the posting intent of a transaction.
type TransactionType string

const (
	TransactionExpense  TransactionType = "expense"
	TransactionIncome   TransactionType = "income"
	TransactionTransfer TransactionType = "transfer"
)

// NotificationType defines the possible kinds of notifications.
type NotificationType string

const (
	NotificationInvite      NotificationType = "invite"
	NotificationInfo        NotificationType = "info"
	NotificationAlert       NotificationType = "alert"
	NotificationTransaction NotificationType = "transaction"
	NotificationAdmin       NotificationType = "admin"
)

// RequestStatus tracks the workflow state of invites and friend requests.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)
