package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/pkg/dberrors"
)

// User error types
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = ErrNotFound
	// ErrEmailAlreadyExists is returned when a user with the same email exists.
	ErrEmailAlreadyExists = errors.New("email already in use")
)

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password, name, role, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		user.Email, user.Password, user.Name, user.Role, user.PhotoURL).Scan(&id)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password, name, role, photo_url, created_at, updated_at
		FROM users
		WHERE email = $1`,
		email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Name, &user.Role,
		&user.PhotoURL, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password, name, role, photo_url, created_at, updated_at
		FROM users
		WHERE id = $1`,
		id).Scan(
		&user.ID, &user.Email, &user.Password, &user.Name, &user.Role,
		&user.PhotoURL, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by id: %w", err)
	}

	return user, nil
}

// GetRoleByEmail retrieves the role attached to an identity. An absent user
// row maps to RoleNone rather than an error.
func (r *UserRepository) GetRoleByEmail(ctx context.Context, email string) (models.Role, error) {
	var role models.Role
	err := r.db.QueryRow(ctx, `
		SELECT role FROM users WHERE email = $1`,
		email).Scan(&role)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RoleNone, nil
		}
		return models.RoleNone, fmt.Errorf("error getting role: %w", err)
	}

	return role, nil
}

// UpdateRole sets a user's role
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET role = $1, updated_at = NOW()
		WHERE id = $2`,
		role, id)

	if err != nil {
		return fmt.Errorf("error updating role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes a user row entirely
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetAllUsers retrieves all users ordered by creation time
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, password, name, role, photo_url, created_at, updated_at
		FROM users
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetUsersByRole retrieves all users holding the given role
func (r *UserRepository) GetUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, password, name, role, photo_url, created_at, updated_at
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC`,
		role)
	if err != nil {
		return nil, fmt.Errorf("error listing users by role: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Password, &user.Name, &user.Role,
			&user.PhotoURL, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}
