package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"internet-banking/internal/logger"
	"internet-banking/internal/repository"
	"internet-banking/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxReferenceAttempts bounds reference regeneration when the store reports
// a reference-number collision.
const maxReferenceAttempts = 3

type TransactionService interface {
	Transfer(ctx context.Context, req *models.TransferRequest) (*models.Transaction, error)
	Deposit(ctx context.Context, req *models.DepositRequest) (*models.Transaction, error)
	Withdraw(ctx context.Context, req *models.WithdrawalRequest) (*models.Transaction, error)

	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	GetByReferenceNumber(ctx context.Context, referenceNumber string) (*models.Transaction, error)
	GetByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error)
	GetByUser(ctx context.Context, userID int64) ([]*models.Transaction, error)
	GetByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]*models.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type transactionService struct {
	transactionRepo repository.TransactionRepository
	timeout         time.Duration
	logger          *logger.Logger
}

// NewTransactionService wraps the transfer engine. Every money movement runs
// under a bounded-time context so lock contention cannot hold a request
// forever; on expiry the unit of work rolls back and the caller sees an
// unavailability error.
func NewTransactionService(transactionRepo repository.TransactionRepository, timeout time.Duration) TransactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		timeout:         timeout,
		logger:          logger.NewFromEnv(),
	}
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return repository.ErrInvalidAmount
	}
	return nil
}

func (s *transactionService) Transfer(ctx context.Context, req *models.TransferRequest) (*models.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, repository.ErrSameAccount
	}

	return s.withRetries(ctx, func(ctx context.Context, refNumber string) (*models.Transaction, error) {
		return s.transactionRepo.Transfer(ctx, req.FromAccountID, req.ToAccountID, req.Amount, req.Currency, req.Description, refNumber)
	})
}

func (s *transactionService) Deposit(ctx context.Context, req *models.DepositRequest) (*models.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	return s.withRetries(ctx, func(ctx context.Context, refNumber string) (*models.Transaction, error) {
		return s.transactionRepo.Deposit(ctx, req.ToAccountID, req.Amount, req.Currency, req.Description, refNumber)
	})
}

func (s *transactionService) Withdraw(ctx context.Context, req *models.WithdrawalRequest) (*models.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	return s.withRetries(ctx, func(ctx context.Context, refNumber string) (*models.Transaction, error) {
		return s.transactionRepo.Withdraw(ctx, req.FromAccountID, req.Amount, req.Currency, req.Description, refNumber)
	})
}

// withRetries runs one engine invocation per generated reference number,
// regenerating only when the store rejects the reference as a duplicate.
// Any other failure has already rolled back and is returned as-is.
func (s *transactionService) withRetries(ctx context.Context, run func(ctx context.Context, refNumber string) (*models.Transaction, error)) (*models.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		refNumber := generateReferenceNumber()

		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		txn, err := run(opCtx, refNumber)
		cancel()

		if err == nil {
			return txn, nil
		}
		if !errors.Is(err, repository.ErrDuplicateReference) {
			return nil, err
		}

		s.logger.Warn("Reference number %s collided, regenerating", refNumber)
		lastErr = err
	}
	return nil, lastErr
}

func (s *transactionService) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

func (s *transactionService) GetByReferenceNumber(ctx context.Context, referenceNumber string) (*models.Transaction, error) {
	return s.transactionRepo.GetByReferenceNumber(ctx, referenceNumber)
}

func (s *transactionService) GetByAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	return s.transactionRepo.GetByAccountID(ctx, accountID)
}

func (s *transactionService) GetByUser(ctx context.Context, userID int64) ([]*models.Transaction, error) {
	return s.transactionRepo.GetByUserID(ctx, userID)
}

func (s *transactionService) GetByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]*models.Transaction, error) {
	return s.transactionRepo.GetByDateRange(ctx, accountID, start, end)
}

func (s *transactionService) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.transactionRepo.UpdateStatus(ctx, id, status)
}

func generateReferenceNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TXN" + strings.ToUpper(raw[:16])
}
