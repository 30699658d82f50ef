package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateExpense persists an expense and all of its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = newID()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = s.now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (id, description, amount, group_id, paid_by, split_type, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.Description, expense.Amount, expense.GroupID,
			expense.PaidBy, string(expense.SplitType), expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		return insertSplits(ctx, tx, expense)
	})
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, description, amount, group_id, paid_by, split_type, created_at
		FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.Description, &expense.Amount, &expense.GroupID,
		&expense.PaidBy, &splitType, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "expense", ID: expenseID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.SplitType = models.SplitType(splitType)

	splits, err := listSplits(ctx, s.db, expenseID)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits

	return expense, nil
}

// ReplaceExpense updates an expense and replaces its whole split set.
func (s *SQLiteStore) ReplaceExpense(ctx context.Context, expense *models.Expense) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE expenses SET description = ?, amount = ?, paid_by = ?, split_type = ?
			WHERE id = ?`,
			expense.Description, expense.Amount, expense.PaidBy, string(expense.SplitType), expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		} else if n == 0 {
			return &models.NotFoundError{Entity: "expense", ID: expense.ID}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to delete splits: %w", err)
		}

		return insertSplits(ctx, tx, expense)
	})
}

// DeleteExpense removes an expense and its splits.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
			return fmt.Errorf("failed to delete splits: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to check delete result: %w", err)
		} else if n == 0 {
			return &models.NotFoundError{Entity: "expense", ID: expenseID}
		}
		return nil
	})
}

// ListExpenses returns the group's expenses, with splits, in creation order.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	return listExpenses(ctx, s.db, groupID)
}

// ListSplits returns an expense's splits.
func (s *SQLiteStore) ListSplits(ctx context.Context, expenseID string) ([]models.ExpenseSplit, error) {
	return listSplits(ctx, s.db, expenseID)
}

func insertSplits(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i := range expense.Splits {
		split := &expense.Splits[i]
		split.ExpenseID = expense.ID

		var pct any
		if split.Percentage != nil {
			pct = *split.Percentage
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO expense_splits (expense_id, user_id, position, amount, percentage)
			VALUES (?, ?, ?, ?, ?)`,
			expense.ID, split.UserID, i, split.Amount, pct,
		); err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

func listSplits(ctx context.Context, q querier, expenseID string) ([]models.ExpenseSplit, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT expense_id, user_id, amount, percentage
		FROM expense_splits WHERE expense_id = ? ORDER BY position`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits := []models.ExpenseSplit{}
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, err
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return splits, nil
}

// listExpenses loads the group's expenses first and then every split of the
// group in a single query, so no two result sets are open at once.
func listExpenses(ctx context.Context, q querier, groupID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, description, amount, group_id, paid_by, split_type, created_at
		FROM expenses WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var splitType string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.GroupID, &e.PaidBy, &splitType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.SplitType = models.SplitType(splitType)
		e.Splits = []models.ExpenseSplit{}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	splitRows, err := q.QueryContext(ctx, `
		SELECT s.expense_id, s.user_id, s.amount, s.percentage
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.group_id = ?
		ORDER BY s.expense_id, s.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		split, err := scanSplit(splitRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[split.ExpenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, split)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return expenses, nil
}

func scanSplit(rows *sql.Rows) (models.ExpenseSplit, error) {
	var split models.ExpenseSplit
	var pct sql.NullFloat64
	if err := rows.Scan(&split.ExpenseID, &split.UserID, &split.Amount, &pct); err != nil {
		return split, fmt.Errorf("failed to scan split: %w", err)
	}
	if pct.Valid {
		v := pct.Float64
		split.Percentage = &v
	}
	return split, nil
}
