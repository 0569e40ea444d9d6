package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors returned by the repositories. Callers match them with
// errors.Is to distinguish "retry later" failures (ErrUnavailable) from
// terminal ones.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInvalidAmount     = errors.New("amount must be a positive decimal")
	ErrAccountNotActive  = errors.New("account is not active")
	ErrSameAccount       = errors.New("source and destination accounts must differ")

	ErrDuplicateReference     = errors.New("duplicate reference number")
	ErrDuplicateAccountNumber = errors.New("duplicate account number")
	ErrDuplicateUser          = errors.New("username or email already registered")

	ErrUnavailable = errors.New("store unavailable")
)

const (
	pqUniqueViolation  = "23505"
	pqLockNotAvailable = "55P03"
	pqQueryCanceled    = "57014"
	pqSerialization    = "40001"
	pqDeadlockDetected = "40P01"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// classify maps store-level failures to the repository error taxonomy.
// Lock contention, cancellation and connection-class errors become
// ErrUnavailable; everything else passes through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Join(ErrUnavailable, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqLockNotAvailable, pqQueryCanceled, pqSerialization, pqDeadlockDetected:
			return errors.Join(ErrUnavailable, err)
		}
		switch pqErr.Code.Class() {
		case "08", "53", "57", "58":
			return errors.Join(ErrUnavailable, err)
		}
	}

	return err
}
