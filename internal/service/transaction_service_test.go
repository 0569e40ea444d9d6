package service

import (
	"context"
	"testing"
	"time"

	"internet-banking/internal/repository"
	"internet-banking/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactionRepo struct {
	repository.TransactionRepository

	transferCalls int
	refsSeen      []string
	failuresLeft  int
	failWith      error
}

func (f *fakeTransactionRepo) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal, currency, description, referenceNumber string) (*models.Transaction, error) {
	f.transferCalls++
	f.refsSeen = append(f.refsSeen, referenceNumber)

	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, f.failWith
	}

	return &models.Transaction{
		FromAccountID:   &fromAccountID,
		ToAccountID:     &toAccountID,
		TransactionType: models.TransactionTypeTransfer,
		Amount:          amount,
		Status:          models.TransactionStatusCompleted,
		ReferenceNumber: referenceNumber,
	}, nil
}

func (f *fakeTransactionRepo) Deposit(ctx context.Context, toAccountID int64, amount decimal.Decimal, currency, description, referenceNumber string) (*models.Transaction, error) {
	f.refsSeen = append(f.refsSeen, referenceNumber)
	return &models.Transaction{
		ToAccountID:     &toAccountID,
		TransactionType: models.TransactionTypeDeposit,
		Amount:          amount,
		Status:          models.TransactionStatusCompleted,
		ReferenceNumber: referenceNumber,
	}, nil
}

func transferRequest(amount string) *models.TransferRequest {
	return &models.TransferRequest{
		FromAccountID: 1,
		ToAccountID:   2,
		Amount:        decimal.RequireFromString(amount),
	}
}

func TestTransferRejectsNonPositiveAmount(t *testing.T) {
	repo := &fakeTransactionRepo{}
	svc := NewTransactionService(repo, time.Second)

	for _, amount := range []string{"0", "-10.00"} {
		_, err := svc.Transfer(context.Background(), transferRequest(amount))
		assert.ErrorIs(t, err, repository.ErrInvalidAmount)
	}

	assert.Zero(t, repo.transferCalls, "invalid amounts never reach the store")
}

func TestTransferRejectsSameAccount(t *testing.T) {
	repo := &fakeTransactionRepo{}
	svc := NewTransactionService(repo, time.Second)

	req := transferRequest("10.00")
	req.ToAccountID = req.FromAccountID

	_, err := svc.Transfer(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrSameAccount)
	assert.Zero(t, repo.transferCalls)
}

func TestTransferRegeneratesReferenceOnCollision(t *testing.T) {
	repo := &fakeTransactionRepo{
		failuresLeft: 1,
		failWith:     repository.ErrDuplicateReference,
	}
	svc := NewTransactionService(repo, time.Second)

	txn, err := svc.Transfer(context.Background(), transferRequest("10.00"))
	require.NoError(t, err)

	assert.Equal(t, 2, repo.transferCalls)
	require.Len(t, repo.refsSeen, 2)
	assert.NotEqual(t, repo.refsSeen[0], repo.refsSeen[1], "a fresh reference per attempt")
	assert.Equal(t, repo.refsSeen[1], txn.ReferenceNumber)
}

func TestTransferGivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := &fakeTransactionRepo{
		failuresLeft: maxReferenceAttempts,
		failWith:     repository.ErrDuplicateReference,
	}
	svc := NewTransactionService(repo, time.Second)

	_, err := svc.Transfer(context.Background(), transferRequest("10.00"))
	assert.ErrorIs(t, err, repository.ErrDuplicateReference)
	assert.Equal(t, maxReferenceAttempts, repo.transferCalls)
}

func TestTransferDoesNotRetryDomainFailures(t *testing.T) {
	repo := &fakeTransactionRepo{
		failuresLeft: 1,
		failWith:     repository.ErrInsufficientFunds,
	}
	svc := NewTransactionService(repo, time.Second)

	_, err := svc.Transfer(context.Background(), transferRequest("10.00"))
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)
	assert.Equal(t, 1, repo.transferCalls, "the unit of work already rolled back, retrying cannot help")
}

func TestReferenceNumberFormat(t *testing.T) {
	repo := &fakeTransactionRepo{}
	svc := NewTransactionService(repo, time.Second)

	_, err := svc.Deposit(context.Background(), &models.DepositRequest{
		ToAccountID: 1,
		Amount:      decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)

	require.Len(t, repo.refsSeen, 1)
	assert.Regexp(t, `^TXN[0-9A-F]{16}$`, repo.refsSeen[0])
}
