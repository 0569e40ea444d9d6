package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"internet-banking/internal/logger"
	"internet-banking/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

type userRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger.NewFromEnv(),
	}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, phone_number,
	is_enabled, is_locked, mfa_enabled, mfa_secret, last_login, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.PhoneNumber,
		&user.Enabled, &user.Locked, &user.MFAEnabled, &user.MFASecret,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, classify(err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	entry := r.logger.WithFields(map[string]interface{}{
		"username": user.Username,
		"email":    user.Email,
	})

	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone_number,
			is_enabled, is_locked, mfa_enabled, mfa_secret)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.PhoneNumber,
		user.Enabled, user.Locked, user.MFAEnabled, user.MFASecret,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			entry.Warn("User already exists")
			return ErrDuplicateUser
		}
		entry.Error("Failed to insert user: %v", err)
		return fmt.Errorf("failed to create user: %w", classify(err))
	}

	entry.Debug("User created, id: %d", user.ID)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", classify(err))
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
