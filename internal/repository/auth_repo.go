package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"power_node/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, password_hash, access) VALUES (?, ?, '[]')`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, access FROM users WHERE username = ?`
	selectUserByIDSQL       = `SELECT id, username, password_hash, access FROM users WHERE id = ?`
	updateUserAccessSQL     = `UPDATE users SET access = ? WHERE id = ?`
)

// Create inserts a new user without access tags and returns its ID.
func (r *UserRepository) Create(username, passwordHash string) (int, error) {
	res, err := r.db.Exec(insertUserSQL, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// SetAccess replaces the access tags of a user.
func (r *UserRepository) SetAccess(ctx context.Context, id int, access []string) error {
	if access == nil {
		access = []string{}
	}
	b, err := json.Marshal(access)
	if err != nil {
		return fmt.Errorf("marshal access for user %d: %w", id, err)
	}
	res, err := r.db.ExecContext(ctx, updateUserAccessSQL, string(b), id)
	if err != nil {
		return fmt.Errorf("update access for user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update access for user %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u      models.User
		access sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &access); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if access.Valid && access.String != "" {
		if err := json.Unmarshal([]byte(access.String), &u.Access); err != nil {
			return nil, fmt.Errorf("decode access: %w", err)
		}
	}
	return &u, nil
}
