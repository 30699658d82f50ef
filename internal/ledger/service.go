// Package ledger implements the expense-splitting use cases on top of a
// storage.Store. It validates every request, runs the split policy engine
// before any write, and computes balances from a consistent group snapshot.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Service is the ledger's application layer.
type Service struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// New creates a Service. m may be nil.
func New(store storage.Store, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

// UserInput carries the fields of a new user.
type UserInput struct {
	Name  string
	Email string
}

// GroupInput carries the fields of a new group.
type GroupInput struct {
	Name        string
	Description string
	MemberIDs   []string
}

// ExpenseInput carries the fields of a new or updated expense.
// Shares are required for percentage splits; for equal splits they narrow the
// participants to a subset of the group, and the percentages are ignored.
type ExpenseInput struct {
	Description string
	Amount      float64
	PaidBy      string
	SplitType   string
	Shares      []calculator.Share
}

// SettlementInput carries the fields of a new settlement.
type SettlementInput struct {
	PayerID     string
	PayeeID     string
	Amount      float64
	Description string
}

// CreateUser registers a user.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !strings.Contains(email, "@") {
		return nil, &models.ValidationError{Field: "email", Reason: fmt.Sprintf("%q is not an email address", in.Email)}
	}

	user := &models.User{Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, &models.ValidationError{Field: "user_id", Reason: "required"}
	}
	return s.store.GetUser(ctx, userID)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// DeleteUser removes a user who has no expenses in any of their groups.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return &models.ValidationError{Field: "user_id", Reason: "required"}
	}
	return s.store.DeleteUser(ctx, userID)
}

// CreateGroup creates a group with the given members.
func (s *Service) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	group := &models.Group{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.store.CreateGroup(ctx, group, in.MemberIDs); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup retrieves a group with its members and expense total.
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.GroupDetails, error) {
	if groupID == "" {
		return nil, &models.ValidationError{Field: "group_id", Reason: "required"}
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	total, err := s.store.GroupTotalExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &models.GroupDetails{Group: *group, TotalExpenses: total}, nil
}

// ListGroups returns all groups.
func (s *Service) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// AddMember adds an existing user to a group.
func (s *Service) AddMember(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	if groupID == "" {
		return nil, &models.ValidationError{Field: "group_id", Reason: "required"}
	}
	if userID == "" {
		return nil, &models.ValidationError{Field: "user_id", Reason: "required"}
	}
	return s.store.AddMember(ctx, groupID, userID)
}

// DeleteGroup removes a group that has no expenses.
func (s *Service) DeleteGroup(ctx context.Context, groupID string) error {
	if groupID == "" {
		return &models.ValidationError{Field: "group_id", Reason: "required"}
	}
	return s.store.DeleteGroup(ctx, groupID)
}

// CreateExpense records an expense in a group. The splits are generated
// and validated before anything is written.
func (s *Service) CreateExpense(ctx context.Context, groupID string, in ExpenseInput) (*models.Expense, error) {
	if groupID == "" {
		return nil, &models.ValidationError{Field: "group_id", Reason: "required"}
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{GroupID: group.ID}
	if err := applyExpenseInput(expense, group, in); err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	s.metrics.ExpenseWritten(string(expense.SplitType))

	slog.Debug("Expense recorded",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"split_type", expense.SplitType,
		"splits", len(expense.Splits),
	)
	return expense, nil
}

// GetExpense retrieves an expense with its splits.
func (s *Service) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	if expenseID == "" {
		return nil, &models.ValidationError{Field: "expense_id", Reason: "required"}
	}
	return s.store.GetExpense(ctx, expenseID)
}

// UpdateExpense replaces an expense's fields and regenerates its whole split
// set from in, against the group's current membership.
func (s *Service) UpdateExpense(ctx context.Context, expenseID string, in ExpenseInput) (*models.Expense, error) {
	if expenseID == "" {
		return nil, &models.ValidationError{Field: "expense_id", Reason: "required"}
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}

	if err := applyExpenseInput(expense, group, in); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceExpense(ctx, expense); err != nil {
		return nil, err
	}
	s.metrics.ExpenseWritten(string(expense.SplitType))
	return expense, nil
}

// DeleteExpense removes an expense and its splits.
func (s *Service) DeleteExpense(ctx context.Context, expenseID string) error {
	if expenseID == "" {
		return &models.ValidationError{Field: "expense_id", Reason: "required"}
	}
	return s.store.DeleteExpense(ctx, expenseID)
}

// ListExpenses returns a group's expenses with their splits.
func (s *Service) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, groupID)
}

// applyExpenseInput validates in against group and writes the result,
// including freshly computed splits, into expense.
func applyExpenseInput(expense *models.Expense, group *models.Group, in ExpenseInput) error {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return &models.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if err := checkAmount(in.Amount); err != nil {
		return err
	}

	splitType, err := models.ParseSplitType(in.SplitType)
	if err != nil {
		return err
	}

	if in.PaidBy == "" {
		return &models.ValidationError{Field: "paid_by", Reason: "required"}
	}
	if !group.HasMember(in.PaidBy) {
		return &models.ValidationError{Field: "paid_by", Reason: fmt.Sprintf("user %s is not a member of group %s", in.PaidBy, group.Name)}
	}

	splits, err := calculator.ComputeSplits(in.Amount, splitType, group.MemberIDs(), in.Shares)
	if err != nil {
		return err
	}

	expense.Description = description
	expense.Amount = in.Amount
	expense.PaidBy = in.PaidBy
	expense.SplitType = splitType
	expense.Splits = splits
	return nil
}

// CreateSettlement records a payment from payer to payee in a group.
// An empty description defaults to "<payer> paid <payee>".
func (s *Service) CreateSettlement(ctx context.Context, groupID string, in SettlementInput) (*models.Settlement, error) {
	if groupID == "" {
		return nil, &models.ValidationError{Field: "group_id", Reason: "required"}
	}
	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.PayerID == "" || in.PayeeID == "" {
		return nil, &models.ValidationError{Field: "payer_id", Reason: "payer and payee are required"}
	}
	if in.PayerID == in.PayeeID {
		return nil, &models.ValidationError{Field: "payee_id", Reason: "payer and payee must be different users"}
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	payer, ok := group.Member(in.PayerID)
	if !ok {
		return nil, &models.ValidationError{Field: "payer_id", Reason: fmt.Sprintf("user %s is not a member of group %s", in.PayerID, group.Name)}
	}
	payee, ok := group.Member(in.PayeeID)
	if !ok {
		return nil, &models.ValidationError{Field: "payee_id", Reason: fmt.Sprintf("user %s is not a member of group %s", in.PayeeID, group.Name)}
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = fmt.Sprintf("%s paid %s", payer.Name, payee.Name)
	}

	settlement := &models.Settlement{
		GroupID:     group.ID,
		PayerID:     payer.UserID,
		PayeeID:     payee.UserID,
		Amount:      in.Amount,
		Description: description,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}
	s.metrics.SettlementRecorded()
	return settlement, nil
}

// ListSettlements returns a group's settlements matching filter.
func (s *Service) ListSettlements(ctx context.Context, groupID string, filter models.SettlementFilter) ([]models.Settlement, error) {
	switch filter.Role {
	case models.RoleAny, models.RolePayer, models.RolePayee:
	default:
		return nil, &models.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", filter.Role)}
	}
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListSettlements(ctx, groupID, filter)
}

// DeleteSettlement removes a settlement.
func (s *Service) DeleteSettlement(ctx context.Context, settlementID string) error {
	if settlementID == "" {
		return &models.ValidationError{Field: "settlement_id", Reason: "required"}
	}
	return s.store.DeleteSettlement(ctx, settlementID)
}

// GroupBalances computes every member's balance in a group.
func (s *Service) GroupBalances(ctx context.Context, groupID string) (*models.GroupBalance, error) {
	if groupID == "" {
		return nil, &models.ValidationError{Field: "group_id", Reason: "required"}
	}

	start := time.Now()
	snap, err := s.store.GroupSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	balance := calculator.ComputeGroupBalances(snap)
	s.metrics.ObserveBalance("group", time.Since(start).Seconds())

	return &balance, nil
}

// UserBalances computes a user's balance in each of their groups and the
// total across groups.
func (s *Service) UserBalances(ctx context.Context, userID string) (*models.UserBalance, error) {
	if userID == "" {
		return nil, &models.ValidationError{Field: "user_id", Reason: "required"}
	}

	start := time.Now()
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	memberships, err := s.store.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	snaps := make([]*calculator.GroupSnapshot, 0, len(memberships))
	for _, m := range memberships {
		snap, err := s.store.GroupSnapshot(ctx, m.GroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to load group %s: %w", m.GroupID, err)
		}
		snaps = append(snaps, snap)
	}

	balance := calculator.ComputeUserBalance(*user, snaps)
	s.metrics.ObserveBalance("user", time.Since(start).Seconds())

	return &balance, nil
}

// SuggestSettlements proposes transfers that would bring every balance in
// the group to zero.
func (s *Service) SuggestSettlements(ctx context.Context, groupID string) ([]models.Transfer, error) {
	balance, err := s.GroupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.SuggestTransfers(balance.Balances), nil
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return &models.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return nil
}
