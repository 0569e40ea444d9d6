package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types supported by the bank.
const (
	AccountTypeSavings      = "SAVINGS"
	AccountTypeChecking     = "CHECKING"
	AccountTypeFixedDeposit = "FIXED_DEPOSIT"
)

// Account statuses.
const (
	AccountStatusActive    = "ACTIVE"
	AccountStatusSuspended = "SUSPENDED"
	AccountStatusClosed    = "CLOSED"
)

// Transaction types.
const (
	TransactionTypeTransfer   = "TRANSFER"
	TransactionTypeDeposit    = "DEPOSIT"
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypePayment    = "PAYMENT"
)

// Transaction statuses.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
	TransactionStatusCancelled = "CANCELLED"
)

type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"firstName" db:"first_name"`
	LastName     string     `json:"lastName" db:"last_name"`
	PhoneNumber  string     `json:"phoneNumber" db:"phone_number"`
	Enabled      bool       `json:"enabled" db:"is_enabled"`
	Locked       bool       `json:"locked" db:"is_locked"`
	MFAEnabled   bool       `json:"mfaEnabled" db:"mfa_enabled"`
	MFASecret    string     `json:"-" db:"mfa_secret"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

type Account struct {
	ID            int64           `json:"id" db:"id"`
	UserID        int64           `json:"userId" db:"user_id"`
	AccountNumber string          `json:"accountNumber" db:"account_number"`
	AccountType   string          `json:"accountType" db:"account_type"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	Currency      string          `json:"currency" db:"currency"`
	Status        string          `json:"status" db:"status"`
	InterestRate  decimal.Decimal `json:"interestRate" db:"interest_rate"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// Transaction is a committed ledger entry. FromAccountID is nil for
// deposits, ToAccountID is nil for withdrawals.
type Transaction struct {
	ID              int64           `json:"id" db:"id"`
	FromAccountID   *int64          `json:"fromAccountId,omitempty" db:"from_account_id"`
	ToAccountID     *int64          `json:"toAccountId,omitempty" db:"to_account_id"`
	TransactionType string          `json:"transactionType" db:"transaction_type"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Currency        string          `json:"currency" db:"currency"`
	Description     string          `json:"description" db:"description"`
	Status          string          `json:"status" db:"status"`
	ReferenceNumber string          `json:"referenceNumber" db:"reference_number"`
	TransactionDate time.Time       `json:"transactionDate" db:"transaction_date"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateAccountRequest struct {
	UserID       int64           `json:"userId" validate:"required,gt=0"`
	AccountType  string          `json:"accountType" validate:"required,oneof=SAVINGS CHECKING FIXED_DEPOSIT"`
	Currency     string          `json:"currency" validate:"required,len=3,uppercase"`
	InterestRate decimal.Decimal `json:"interestRate"`
}

type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId" validate:"required,gt=0"`
	ToAccountID   int64           `json:"toAccountId" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	Description   string          `json:"description" validate:"max=255"`
}

type DepositRequest struct {
	ToAccountID int64           `json:"toAccountId" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	Description string          `json:"description" validate:"max=255"`
}

type WithdrawalRequest struct {
	FromAccountID int64           `json:"fromAccountId" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	Description   string          `json:"description" validate:"max=255"`
}

type UpdateAccountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED CLOSED"`
}

type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING COMPLETED FAILED CANCELLED"`
}

type BalanceResponse struct {
	AccountID int64           `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
