package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = newID()
	}
	if settlement.SettledAt == 0 {
		settlement.SettledAt = s.now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settlements (id, group_id, payer_id, payee_id, amount, description, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.PayerID, settlement.PayeeID,
		settlement.Amount, nullString(settlement.Description), settlement.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var description sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, payer_id, payee_id, amount, description, settled_at
		FROM settlements WHERE id = ?`,
		settlementID,
	).Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerID, &settlement.PayeeID,
		&settlement.Amount, &description, &settlement.SettledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "settlement", ID: settlementID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	settlement.Description = description.String

	return settlement, nil
}

// ListSettlements retrieves the group's settlements matching filter, oldest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string, filter models.SettlementFilter) ([]models.Settlement, error) {
	return listSettlements(ctx, s.db, groupID, filter)
}

func listSettlements(ctx context.Context, q querier, groupID string, filter models.SettlementFilter) ([]models.Settlement, error) {
	query := `
		SELECT id, group_id, payer_id, payee_id, amount, description, settled_at
		FROM settlements WHERE group_id = ?`
	args := []any{groupID}

	if filter.UserID != "" {
		switch filter.Role {
		case models.RolePayer:
			query += " AND payer_id = ?"
			args = append(args, filter.UserID)
		case models.RolePayee:
			query += " AND payee_id = ?"
			args = append(args, filter.UserID)
		default:
			query += " AND (payer_id = ? OR payee_id = ?)"
			args = append(args, filter.UserID, filter.UserID)
		}
	}
	query += " ORDER BY settled_at, rowid"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	settlements := []models.Settlement{}
	for rows.Next() {
		var settlement models.Settlement
		var description sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerID, &settlement.PayeeID,
			&settlement.Amount, &description, &settlement.SettledAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.Description = description.String

		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return &models.NotFoundError{Entity: "settlement", ID: settlementID}
	}

	return nil
}
