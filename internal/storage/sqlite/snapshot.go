package sqlite

import (
	"context"
	"database/sql"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// GroupSnapshot reads everything the balance calculator needs for one group
// inside a single transaction, so concurrent writers are either fully
// visible or not at all.
func (s *SQLiteStore) GroupSnapshot(ctx context.Context, groupID string) (*calculator.GroupSnapshot, error) {
	snap := &calculator.GroupSnapshot{}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		group, err := getGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		snap.Group = *group

		snap.Expenses, err = listExpenses(ctx, tx, groupID)
		if err != nil {
			return err
		}

		snap.Settlements, err = listSettlements(ctx, tx, groupID, models.SettlementFilter{})
		return err
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}
