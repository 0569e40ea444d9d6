package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"internet-banking/internal/logger"
	"internet-banking/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type accountRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger.NewFromEnv(),
	}
}

const accountColumns = `id, user_id, account_number, account_type, balance, currency, status,
	interest_rate, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.UserID, &account.AccountNumber, &account.AccountType,
		&account.Balance, &account.Currency, &account.Status,
		&account.InterestRate, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, classify(err)
	}
	return account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	entry := r.logger.WithFields(map[string]interface{}{
		"user_id":        account.UserID,
		"account_number": account.AccountNumber,
		"account_type":   account.AccountType,
		"currency":       account.Currency,
	})

	query := `
		INSERT INTO accounts (user_id, account_number, account_type, balance, currency, status, interest_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		account.UserID, account.AccountNumber, account.AccountType,
		account.Balance, account.Currency, account.Status, account.InterestRate,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			entry.Warn("Account number collision")
			return ErrDuplicateAccountNumber
		}
		entry.Error("Failed to insert account: %v", err)
		return fmt.Errorf("failed to create account: %w", classify(err))
	}

	entry.Debug("Account created, id: %d", account.ID)
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_number = $1`, accountColumns)
	return scanAccount(r.db.QueryRowContext(ctx, query, accountNumber))
}

func (r *accountRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE user_id = $1 ORDER BY id`, accountColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", classify(err))
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", classify(err))
	}

	return accounts, nil
}

func (r *accountRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", classify(err))
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrAccountNotFound
	}

	r.logger.Debug("Account %d status set to %s", id, status)
	return nil
}
