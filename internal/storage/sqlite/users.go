package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = s.now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", user.Email).Scan(&exists)
		if err == nil {
			return &models.ValidationError{Field: "email", Reason: fmt.Sprintf("%s is already registered", user.Email)}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)",
			user.ID, user.Name, user.Email, user.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

// GetUser retrieves a user by their ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return getUser(ctx, s.db, userID)
}

func getUser(ctx context.Context, q querier, userID string) (*models.User, error) {
	user := &models.User{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, email, created_at FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "user", ID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users in creation order.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, created_at FROM users ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// DeleteUser removes a user and their memberships.
// The deletion is refused if any group the user belongs to has expenses.
func (s *SQLiteStore) DeleteUser(ctx context.Context, userID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		user, err := getUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		// First group (in join order) holding expenses blocks the deletion.
		var groupName string
		var count int
		err = tx.QueryRowContext(ctx, `
			SELECT g.name, COUNT(e.id)
			FROM group_members gm
			JOIN groups g ON g.id = gm.group_id
			JOIN expenses e ON e.group_id = gm.group_id
			WHERE gm.user_id = ?
			GROUP BY gm.group_id
			ORDER BY gm.joined_at, gm.rowid
			LIMIT 1`,
			userID,
		).Scan(&groupName, &count)
		if err == nil {
			return &models.ReferentialBlockError{Entity: "user", Name: user.Name, Scope: groupName, Count: count}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check user expenses: %w", err)
		}

		// Settlements can only remain in groups without expenses here.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM settlements WHERE payer_id = ? OR payee_id = ?", userID, userID,
		); err != nil {
			return fmt.Errorf("failed to delete user settlements: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
