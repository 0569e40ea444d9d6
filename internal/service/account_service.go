package service

import (
	"context"
	"errors"
	"strings"

	"internet-banking/internal/logger"
	"internet-banking/internal/repository"
	"internet-banking/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account numbers collide with negligible probability, but uniqueness is
// still enforced by the store; on a collision we regenerate.
const maxNumberAttempts = 5

var ErrInvalidInterestRate = errors.New("interest rate cannot be negative")

type AccountService interface {
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error)
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	GetAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	CloseAccount(ctx context.Context, id int64) error
}

type accountService struct {
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	logger      *logger.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, userRepo repository.UserRepository) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		logger:      logger.NewFromEnv(),
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	if req.InterestRate.IsNegative() {
		return nil, ErrInvalidInterestRate
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:       req.UserID,
		AccountType:  req.AccountType,
		Balance:      decimal.Zero,
		Currency:     req.Currency,
		Status:       models.AccountStatusActive,
		InterestRate: req.InterestRate,
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		account.AccountNumber = generateAccountNumber()
		err := s.accountRepo.Create(ctx, account)
		if err == nil {
			s.logger.Info("Account %s created for user %d", account.AccountNumber, account.UserID)
			return account, nil
		}
		if !errors.Is(err, repository.ErrDuplicateAccountNumber) {
			return nil, err
		}
		s.logger.Warn("Account number %s already taken, regenerating", account.AccountNumber)
	}

	return nil, repository.ErrDuplicateAccountNumber
}

func (s *accountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

func (s *accountService) GetAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	return s.accountRepo.GetByUserID(ctx, userID)
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	return s.accountRepo.GetByAccountNumber(ctx, accountNumber)
}

func (s *accountService) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.accountRepo.UpdateStatus(ctx, id, status)
}

// CloseAccount marks the account CLOSED. Records referencing it stay in the
// ledger, so accounts are never hard-deleted.
func (s *accountService) CloseAccount(ctx context.Context, id int64) error {
	return s.accountRepo.UpdateStatus(ctx, id, models.AccountStatusClosed)
}

func generateAccountNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:12])
}
