package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"internet-banking/internal/logger"
	"internet-banking/models"

	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	// Transfer moves amount between two accounts and records the
	// COMPLETED transaction as one atomic unit of work.
	Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal, currency, description, referenceNumber string) (*models.Transaction, error)
	// Deposit credits a single account; the transaction record carries no
	// source reference.
	Deposit(ctx context.Context, toAccountID int64, amount decimal.Decimal, currency, description, referenceNumber string) (*models.Transaction, error)
	// Withdraw debits a single account; the transaction record carries no
	// destination reference.
	Withdraw(ctx context.Context, fromAccountID int64, amount decimal.Decimal, currency, description, referenceNumber string) (*models.Transaction, error)

	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	GetByReferenceNumber(ctx context.Context, referenceNumber string) (*models.Transaction, error)
	GetByAccountID(ctx context.Context, accountID int64) ([]*models.Transaction, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Transaction, error)
	GetByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]*models.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type transactionRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger.NewFromEnv(),
	}
}

const transactionColumns = `id, from_account_id, to_account_id, transaction_type, amount, currency,
	description, status, reference_number, transaction_date, created_at`

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var fromID, toID sql.NullInt64

	err := row.Scan(
		&txn.ID, &fromID, &toID, &txn.TransactionType, &txn.Amount, &txn.Currency,
		&txn.Description, &txn.Status, &txn.ReferenceNumber, &txn.TransactionDate, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, classify(err)
	}

	if fromID.Valid {
		txn.FromAccountID = &fromID.Int64
	}
	if toID.Valid {
		txn.ToAccountID = &toID.Int64
	}
	return txn, nil
}

// lockAccount reads an account row FOR UPDATE inside the given unit of
// work, so its balance cannot change under us until commit or rollback.
func (r *transactionRepository) lockAccount(ctx context.Context, tx *sql.Tx, accountID int64) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 FOR UPDATE`, accountColumns)
	return scanAccount(tx.QueryRowContext(ctx, query, accountID))
}

func (r *transactionRepository) setBalance(ctx context.Context, tx *sql.Tx, accountID int64, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		balance, accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %d: %w", accountID, classify(err))
	}
	return nil
}

func (r *transactionRepository) insertRecord(ctx context.Context, tx *sql.Tx, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (from_account_id, to_account_id, transaction_type, amount, currency,
			description, status, reference_number, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
		RETURNING id, transaction_date, created_at`

	var fromID, toID sql.NullInt64
	if txn.FromAccountID != nil {
		fromID = sql.NullInt64{Int64: *txn.FromAccountID, Valid: true}
	}
	if txn.ToAccountID != nil {
		toID = sql.NullInt64{Int64: *txn.ToAccountID, Valid: true}
	}

	err := tx.QueryRowContext(ctx, query,
		fromID, toID, txn.TransactionType, txn.Amount, txn.Currency,
		txn.Description, txn.Status, txn.ReferenceNumber,
	).Scan(&txn.ID, &txn.TransactionDate, &txn.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to record transaction: %w", classify(err))
	}
	return nil
}

func checkActive(account *models.Account) error {
	if account.Status != models.AccountStatusActive {
		return ErrAccountNotActive
	}
	return nil
}

// Transfer executes the fund movement under READ COMMITTED with row locks.
// Both account rows are locked in ascending id order so two transfers
// touching the same pair in opposite directions cannot deadlock. Funds are
// re-checked under the lock, never against a previously read balance.
func (r *transactionRepository) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal, currency, description, referenceNumber string) (*models.Transaction, error) {
	entry := r.logger.WithFields(map[string]interface{}{
		"from_account_id":  fromAccountID,
		"to_account_id":    toAccountID,
		"amount":           amount,
		"reference_number": referenceNumber,
	})

	if fromAccountID == toAccountID {
		return nil, ErrSameAccount
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	entry.Debug("Starting transfer unit of work")

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		entry.Error("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	var fromAccount, toAccount *models.Account
	if fromAccountID < toAccountID {
		if fromAccount, err = r.lockAccount(ctx, tx, fromAccountID); err == nil {
			toAccount, err = r.lockAccount(ctx, tx, toAccountID)
		}
	} else {
		if toAccount, err = r.lockAccount(ctx, tx, toAccountID); err == nil {
			fromAccount, err = r.lockAccount(ctx, tx, fromAccountID)
		}
	}
	if err != nil {
		entry.Warn("Failed to lock accounts: %v", err)
		return nil, err
	}

	if err := checkActive(fromAccount); err != nil {
		return nil, err
	}
	if err := checkActive(toAccount); err != nil {
		return nil, err
	}

	if fromAccount.Currency != toAccount.Currency {
		return nil, ErrCurrencyMismatch
	}
	if currency != "" && currency != fromAccount.Currency {
		return nil, ErrCurrencyMismatch
	}

	if fromAccount.Balance.LessThan(amount) {
		entry.Warn("Insufficient funds: balance=%s amount=%s", fromAccount.Balance, amount)
		return nil, ErrInsufficientFunds
	}

	if err := r.setBalance(ctx, tx, fromAccountID, fromAccount.Balance.Sub(amount)); err != nil {
		entry.Error("Failed to debit source: %v", err)
		return nil, err
	}
	if err := r.setBalance(ctx, tx, toAccountID, toAccount.Balance.Add(amount)); err != nil {
		entry.Error("Failed to credit destination: %v", err)
		return nil, err
	}

	txn := &models.Transaction{
		FromAccountID:   &fromAccountID,
		ToAccountID:     &toAccountID,
		TransactionType: models.TransactionTypeTransfer,
		Amount:          amount,
		Currency:        fromAccount.Currency,
		Description:     description,
		Status:          models.TransactionStatusCompleted,
		ReferenceNumber: referenceNumber,
	}
	if err := r.insertRecord(ctx, tx, txn); err != nil {
		entry.Error("Failed to record transfer: %v", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		entry.Error("Failed to commit transfer: %v", err)
		return nil, fmt.Errorf("failed to commit transfer: %w", classify(err))
	}

	entry.Info("Transfer completed")
	return txn, nil
}

func (r *transactionRepository) Deposit(ctx context.Context, toAccountID int64, amount decimal.Decimal, currency, description, referenceNumber string) (*models.Transaction, error) {
	entry := r.logger.WithFields(map[string]interface{}{
		"to_account_id":    toAccountID,
		"amount":           amount,
		"reference_number": referenceNumber,
	})

	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		entry.Error("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	account, err := r.lockAccount(ctx, tx, toAccountID)
	if err != nil {
		entry.Warn("Failed to lock account: %v", err)
		return nil, err
	}
	if err := checkActive(account); err != nil {
		return nil, err
	}
	if currency != "" && currency != account.Currency {
		return nil, ErrCurrencyMismatch
	}

	if err := r.setBalance(ctx, tx, toAccountID, account.Balance.Add(amount)); err != nil {
		entry.Error("Failed to credit account: %v", err)
		return nil, err
	}

	txn := &models.Transaction{
		ToAccountID:     &toAccountID,
		TransactionType: models.TransactionTypeDeposit,
		Amount:          amount,
		Currency:        account.Currency,
		Description:     description,
		Status:          models.TransactionStatusCompleted,
		ReferenceNumber: referenceNumber,
	}
	if err := r.insertRecord(ctx, tx, txn); err != nil {
		entry.Error("Failed to record deposit: %v", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		entry.Error("Failed to commit deposit: %v", err)
		return nil, fmt.Errorf("failed to commit deposit: %w", classify(err))
	}

	entry.Info("Deposit completed")
	return txn, nil
}

func (r *transactionRepository) Withdraw(ctx context.Context, fromAccountID int64, amount decimal.Decimal, currency, description, referenceNumber string) (*models.Transaction, error) {
	entry := r.logger.WithFields(map[string]interface{}{
		"from_account_id":  fromAccountID,
		"amount":           amount,
		"reference_number": referenceNumber,
	})

	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		entry.Error("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	account, err := r.lockAccount(ctx, tx, fromAccountID)
	if err != nil {
		entry.Warn("Failed to lock account: %v", err)
		return nil, err
	}
	if err := checkActive(account); err != nil {
		return nil, err
	}
	if currency != "" && currency != account.Currency {
		return nil, ErrCurrencyMismatch
	}

	if account.Balance.LessThan(amount) {
		entry.Warn("Insufficient funds: balance=%s amount=%s", account.Balance, amount)
		return nil, ErrInsufficientFunds
	}

	if err := r.setBalance(ctx, tx, fromAccountID, account.Balance.Sub(amount)); err != nil {
		entry.Error("Failed to debit account: %v", err)
		return nil, err
	}

	txn := &models.Transaction{
		FromAccountID:   &fromAccountID,
		TransactionType: models.TransactionTypeWithdrawal,
		Amount:          amount,
		Currency:        account.Currency,
		Description:     description,
		Status:          models.TransactionStatusCompleted,
		ReferenceNumber: referenceNumber,
	}
	if err := r.insertRecord(ctx, tx, txn); err != nil {
		entry.Error("Failed to record withdrawal: %v", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		entry.Error("Failed to commit withdrawal: %v", err)
		return nil, fmt.Errorf("failed to commit withdrawal: %w", classify(err))
	}

	entry.Info("Withdrawal completed")
	return txn, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1`, transactionColumns)
	return scanTransaction(r.db.QueryRowContext(ctx, query, id))
}

func (r *transactionRepository) GetByReferenceNumber(ctx context.Context, referenceNumber string) (*models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE reference_number = $1`, transactionColumns)
	return scanTransaction(r.db.QueryRowContext(ctx, query, referenceNumber))
}

func (r *transactionRepository) GetByAccountID(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY transaction_date DESC, id DESC`, transactionColumns)
	return r.queryTransactions(ctx, query, accountID)
}

func (r *transactionRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Transaction, error) {
	query := `
		SELECT DISTINCT t.id, t.from_account_id, t.to_account_id, t.transaction_type, t.amount,
			t.currency, t.description, t.status, t.reference_number, t.transaction_date, t.created_at
		FROM transactions t
		JOIN accounts a ON a.id = t.from_account_id OR a.id = t.to_account_id
		WHERE a.user_id = $1
		ORDER BY t.transaction_date DESC, t.id DESC`
	return r.queryTransactions(ctx, query, userID)
}

func (r *transactionRepository) GetByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]*models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE (from_account_id = $1 OR to_account_id = $1)
		  AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date DESC, id DESC`, transactionColumns)
	return r.queryTransactions(ctx, query, accountID, start, end)
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", classify(err))
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", classify(err))
	}

	return transactions, nil
}

// UpdateStatus applies an operator correction. Balances are never touched
// here; money only moves through Transfer, Deposit and Withdraw.
func (r *transactionRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", classify(err))
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrTransactionNotFound
	}

	r.logger.Debug("Transaction %d status set to %s", id, status)
	return nil
}
