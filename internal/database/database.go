package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"internet-banking/internal/logger"

	_ "github.com/lib/pq"
)

func NewConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Bootstrap(db); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	return db, nil
}

// Bootstrap creates the schema when it does not exist yet. It is safe to run
// on every startup: when the users and accounts tables are already present
// the whole step is skipped, and individual "already exists" errors are
// logged and ignored so a concurrently starting instance does not fail.
func Bootstrap(db *sql.DB) error {
	log := logger.NewFromEnv()

	var existing int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_name IN ('users', 'accounts')`).Scan(&existing)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if existing >= 2 {
		log.Debug("Schema already initialized, skipping bootstrap")
		return nil
	}

	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		phone_number VARCHAR(20) NOT NULL DEFAULT '',
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		is_locked BOOLEAN NOT NULL DEFAULT FALSE,
		mfa_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		mfa_secret VARCHAR(255) NOT NULL DEFAULT '',
		last_login TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	accountsTable := `
	CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		account_number VARCHAR(12) UNIQUE NOT NULL,
		account_type VARCHAR(20) NOT NULL,
		balance DECIMAL(19,4) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		currency VARCHAR(3) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
		interest_rate DECIMAL(8,4) NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	transactionsTable := `
	CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		from_account_id BIGINT REFERENCES accounts(id),
		to_account_id BIGINT REFERENCES accounts(id),
		transaction_type VARCHAR(20) NOT NULL,
		amount DECIMAL(19,4) NOT NULL CHECK (amount > 0),
		currency VARCHAR(3) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		reference_number VARCHAR(32) UNIQUE NOT NULL,
		transaction_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_accounts_account_number ON accounts(account_number);",
		"CREATE INDEX IF NOT EXISTS idx_transactions_from_account_id ON transactions(from_account_id);",
		"CREATE INDEX IF NOT EXISTS idx_transactions_to_account_id ON transactions(to_account_id);",
		"CREATE INDEX IF NOT EXISTS idx_transactions_reference_number ON transactions(reference_number);",
		"CREATE INDEX IF NOT EXISTS idx_transactions_transaction_date ON transactions(transaction_date);",
	}

	statements := []string{usersTable, accountsTable, transactionsTable}
	statements = append(statements, indexes...)

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "duplicate") {
				log.Debug("Bootstrap statement skipped: %v", err)
				continue
			}
			return fmt.Errorf("failed to execute bootstrap statement: %w", err)
		}
	}

	log.Info("Database schema bootstrap completed")
	return nil
}
