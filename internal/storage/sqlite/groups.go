package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateGroup persists a new group and its memberships atomically.
// Members join in the order given; repeated IDs are ignored.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, memberIDs []string) error {
	if group.ID == "" {
		group.ID = newID()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = s.now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, description, created_at) VALUES (?, ?, ?, ?)",
			group.ID, group.Name, nullString(group.Description), group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		seen := make(map[string]bool, len(memberIDs))
		group.Members = group.Members[:0]
		for _, userID := range memberIDs {
			if seen[userID] {
				continue
			}
			seen[userID] = true

			user, err := getUser(ctx, tx, userID)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
				group.ID, userID, group.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert member: %w", err)
			}
			group.Members = append(group.Members, models.Member{
				UserID:   user.ID,
				Name:     user.Name,
				Email:    user.Email,
				JoinedAt: group.CreatedAt,
			})
		}
		return nil
	})
}

// GetGroup retrieves a group by ID, including its members in join order.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, s.db, groupID)
}

func getGroup(ctx context.Context, q querier, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var description sql.NullString
	err := q.QueryRowContext(ctx,
		"SELECT id, name, description, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &description, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "group", ID: groupID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Description = description.String

	members, err := listMembers(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// ListGroups retrieves all groups with their members, in creation order.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, created_at FROM groups ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var description sql.NullString
		if err := rows.Scan(&group.ID, &group.Name, &description, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.Description = description.String
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	for _, group := range groups {
		members, err := listMembers(ctx, s.db, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}

	return groups, nil
}

// DeleteGroup removes a group and its memberships.
// The deletion is refused if the group has any expenses.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var name string
		err := tx.QueryRowContext(ctx, "SELECT name FROM groups WHERE id = ?", groupID).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return &models.NotFoundError{Entity: "group", ID: groupID}
		}
		if err != nil {
			return fmt.Errorf("failed to get group: %w", err)
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM expenses WHERE group_id = ?", groupID,
		).Scan(&count); err != nil {
			return fmt.Errorf("failed to count expenses: %w", err)
		}
		if count > 0 {
			return &models.ReferentialBlockError{Entity: "group", Name: name, Count: count}
		}

		// Memberships and settlements cascade.
		if _, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return nil
	})
}

// AddMember adds an existing user to an existing group.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	membership := &models.Membership{GroupID: groupID, UserID: userID, JoinedAt: s.now().Unix()}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return &models.NotFoundError{Entity: "group", ID: groupID}
		}
		if err != nil {
			return fmt.Errorf("failed to check group: %w", err)
		}

		if _, err := getUser(ctx, tx, userID); err != nil {
			return err
		}

		ok, err := isMember(ctx, tx, groupID, userID)
		if err != nil {
			return err
		}
		if ok {
			return &models.ValidationError{Field: "user_id", Reason: "user is already a member of this group"}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
			groupID, userID, membership.JoinedAt,
		); err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

// ListMembers returns the group's members in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	return listMembers(ctx, s.db, groupID)
}

func listMembers(ctx context.Context, q querier, groupID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, gm.joined_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at, gm.rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// ListMemberships returns the user's memberships across groups, in join order.
func (s *SQLiteStore) ListMemberships(ctx context.Context, userID string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, user_id, joined_at FROM group_members WHERE user_id = ? ORDER BY joined_at, rowid",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return memberships, nil
}

// GroupTotalExpenses returns the sum of the group's expense amounts.
func (s *SQLiteStore) GroupTotalExpenses(ctx context.Context, groupID string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE group_id = ?", groupID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return total, nil
}

func isMember(ctx context.Context, q querier, groupID, userID string) (bool, error) {
	var exists int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}
