package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dhun/model"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateUser is returned when a unique key (email) already exists.
var ErrDuplicateUser = errors.New("user already exists")

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsersByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	UpdateUserStatus(ctx context.Context, id int64, status model.Status) error
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

const userColumns = "id, email, name, display_name, password_hash, role, status, created_at, updated_at"

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := &model.User{}
	var displayName sql.NullString
	err := row.Scan(&user.ID, &user.Email, &user.Name, &displayName, &user.PasswordHash, &user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if displayName.Valid {
		user.DisplayName = displayName.String
	}
	return user, nil
}

// CreateUser adds a new user to the database.
func (r *mysqlUserRepository) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	query := "INSERT INTO users (email, name, display_name, password_hash, role, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, user.Email, user.Name, user.DisplayName, user.PasswordHash, user.Role, user.Status, now, now)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, ErrDuplicateUser
		}
		return 0, fmt.Errorf("failed to execute create user statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for user: %w", err)
	}
	return id, nil
}

// GetUserByID retrieves a user by their ID. Returns (nil, nil) when absent.
func (r *mysqlUserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user row for ID %d: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email address. Returns (nil, nil)
// when absent.
func (r *mysqlUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user row for email %s: %w", email, err)
	}
	return user, nil
}

// ListUsersByRole retrieves users of the given role, newest first. Ties on
// created_at break by id so output order is stable.
func (r *mysqlUserRepository) ListUsersByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE role = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query users for role %s: %w", role, err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user in ListUsersByRole: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListUsersByRole: %w", err)
	}
	return users, nil
}

// UpdateUserStatus sets the status field of one user. No other column is
// touched besides updated_at.
func (r *mysqlUserRepository) UpdateUserStatus(ctx context.Context, id int64, status model.Status) error {
	query := "UPDATE users SET status = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update status for user ID %d: %w", id, err)
	}
	return nil
}
