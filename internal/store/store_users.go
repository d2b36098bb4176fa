package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wordcore/internal/services"
)

// CreateUser provisions a learner or parent account.
func (s *Store) CreateUser(ctx context.Context, role Role, displayName string) (*User, error) {
	parsed, ok := ParseRole(string(role))
	if !ok {
		return nil, services.Validation("store", "create user", fmt.Sprintf("invalid role %q", role))
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, services.Validation("store", "create user", "display name is required")
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO users (role, display_name, created_at) VALUES (?, ?, ?)`,
		parsed, name, formatTime(s.clock()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetUser(ctx, id)
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, role, display_name, created_at FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.NotFound("store", "get user", fmt.Sprintf("user %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, role, display_name, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes a user and everything the user owns.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return services.NotFound("store", "delete user", fmt.Sprintf("user %d not found", id))
	}
	return nil
}

func scanUser(scanner rowScanner) (*User, error) {
	var (
		user       User
		role       string
		createdRaw string
	)
	if err := scanner.Scan(&user.ID, &role, &user.DisplayName, &createdRaw); err != nil {
		return nil, err
	}
	user.Role = Role(role)
	if created, err := parseTimeString(createdRaw); err == nil {
		user.CreatedAt = created
	}
	return &user, nil
}
