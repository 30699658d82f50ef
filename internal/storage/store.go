// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// Store defines the ledger's persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Missing records are reported as *models.NotFoundError. Every mutation runs
// in its own transaction: an expense and its splits are written, replaced or
// deleted together, and a failed call leaves nothing behind.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	SettlementStore

	// GroupSnapshot reads the group, its members, expenses (with splits) and
	// settlements in one read transaction.
	GroupSnapshot(ctx context.Context, groupID string) (*calculator.GroupSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists users.
type UserStore interface {
	// CreateUser persists a new user. ID and CreatedAt are filled in when empty.
	// A duplicate email is reported as *models.ValidationError.
	CreateUser(ctx context.Context, user *models.User) error

	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ListUsers returns all users in creation order.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// DeleteUser removes the user and their memberships. It fails with
	// *models.ReferentialBlockError when any of the user's groups has expenses.
	DeleteUser(ctx context.Context, userID string) error
}

// GroupStore persists groups and memberships.
type GroupStore interface {
	// CreateGroup persists a new group with the given members, in order.
	// An unknown member aborts the whole creation.
	CreateGroup(ctx context.Context, group *models.Group, memberIDs []string) error

	// GetGroup retrieves a group with its members in join order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups with their members.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes the group and its memberships. It fails with
	// *models.ReferentialBlockError when the group has expenses.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMember adds a user to a group. Adding an existing member is a
	// *models.ValidationError.
	AddMember(ctx context.Context, groupID, userID string) (*models.Membership, error)

	// ListMembers returns the group's members in join order.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// ListMemberships returns the user's memberships in join order.
	ListMemberships(ctx context.Context, userID string) ([]models.Membership, error)

	// GroupTotalExpenses returns the sum of the group's expense amounts.
	GroupTotalExpenses(ctx context.Context, groupID string) (float64, error)
}

// ExpenseStore persists expenses together with their splits.
type ExpenseStore interface {
	// CreateExpense persists the expense and its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ReplaceExpense updates the expense row and replaces all of its splits
	// atomically. GroupID and CreatedAt are not changed.
	ReplaceExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes the expense and its splits atomically.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns the group's expenses with splits, in creation order.
	ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error)

	// ListSplits returns an expense's splits in the order they were written.
	ListSplits(ctx context.Context, expenseID string) ([]models.ExpenseSplit, error)
}

// SettlementStore persists settlements.
type SettlementStore interface {
	// CreateSettlement persists a settlement. ID and SettledAt are filled in when empty.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlements returns the group's settlements matching filter, oldest first.
	ListSettlements(ctx context.Context, groupID string, filter models.SettlementFilter) ([]models.Settlement, error)

	// DeleteSettlement removes a settlement permanently.
	DeleteSettlement(ctx context.Context, settlementID string) error
}
