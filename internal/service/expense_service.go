package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// CreateExpense records an expense and its splits.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"split_type", req.Msg.SplitType,
		"splits_count", len(req.Msg.Splits),
	)

	expense, err := s.ledger.CreateExpense(ctx, req.Msg.GroupID, ledger.ExpenseInput{
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		PaidBy:      req.Msg.PaidBy,
		SplitType:   req.Msg.SplitType,
		Shares:      toShares(req.Msg.Splits),
	})
	if err != nil {
		slog.Error("CreateExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense retrieves an expense with its splits.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.ledger.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense replaces an expense and regenerates its splits.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received",
		"expense_id", req.Msg.ExpenseID,
		"amount", req.Msg.Amount,
		"split_type", req.Msg.SplitType,
	)

	expense, err := s.ledger.UpdateExpense(ctx, req.Msg.ExpenseID, ledger.ExpenseInput{
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		PaidBy:      req.Msg.PaidBy,
		SplitType:   req.Msg.SplitType,
		Shares:      toShares(req.Msg.Splits),
	})
	if err != nil {
		slog.Error("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := s.ledger.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses retrieves a group's expenses with their splits.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	expenses, err := s.ledger.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiExpenses := make([]*api.Expense, len(expenses))
	for i := range expenses {
		apiExpenses[i] = toAPIExpense(&expenses[i])
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(expenses))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: apiExpenses}), nil
}

// CreateSettlement records a payment between two group members.
func (s *LedgerService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	slog.Info("CreateSettlement request received",
		"group_id", req.Msg.GroupID,
		"payer_id", req.Msg.PayerID,
		"payee_id", req.Msg.PayeeID,
		"amount", req.Msg.Amount,
	)

	settlement, err := s.ledger.CreateSettlement(ctx, req.Msg.GroupID, ledger.SettlementInput{
		PayerID:     req.Msg.PayerID,
		PayeeID:     req.Msg.PayeeID,
		Amount:      req.Msg.Amount,
		Description: req.Msg.Description,
	})
	if err != nil {
		slog.Error("CreateSettlement failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement created", "settlement_id", settlement.ID)

	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements retrieves a group's settlements, optionally filtered by party.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received",
		"group_id", req.Msg.GroupID,
		"role", req.Msg.Role,
		"user_id", req.Msg.UserID,
	)

	settlements, err := s.ledger.ListSettlements(ctx, req.Msg.GroupID, models.SettlementFilter{
		Role:   models.SettlementRole(req.Msg.Role),
		UserID: req.Msg.UserID,
	})
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiSettlements := make([]*api.Settlement, len(settlements))
	for i := range settlements {
		apiSettlements[i] = toAPISettlement(&settlements[i])
	}

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: apiSettlements}), nil
}

// DeleteSettlement removes a settlement.
func (s *LedgerService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	slog.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	if err := s.ledger.DeleteSettlement(ctx, req.Msg.SettlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement deleted", "settlement_id", req.Msg.SettlementID)

	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
