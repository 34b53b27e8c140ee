package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
)

// UserRepo provides read access to the users table. The engine only
// resolves users for existence checks and notification recipients;
// account management lives in the external auth service.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByID fetches a user by id, or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, created_at FROM users WHERE id = ? LIMIT 1`,
		id).Scan(&u.ID, &u.FullName, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
