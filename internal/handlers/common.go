package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"internet-banking/internal/repository"
	"internet-banking/internal/service"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func sendJSONError(w http.ResponseWriter, errorCode, message string, statusCode int) {
	sendJSON(w, statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// decodeAndValidate parses the request body into dst and runs the struct
// validation tags. Malformed or invalid requests are rejected here, before
// any store interaction.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid field %s", verrs[0].Field())
		}
		return fmt.Errorf("invalid request")
	}
	return nil
}

// sendServiceError maps domain errors to HTTP responses. The caller needs
// to tell "do not retry" failures apart from "retry later" ones, so each
// taxonomy entry keeps its own error code.
func sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		sendJSONError(w, "USER_NOT_FOUND", err.Error(), http.StatusNotFound)
	case errors.Is(err, repository.ErrAccountNotFound):
		sendJSONError(w, "ACCOUNT_NOT_FOUND", err.Error(), http.StatusNotFound)
	case errors.Is(err, repository.ErrTransactionNotFound):
		sendJSONError(w, "TRANSACTION_NOT_FOUND", err.Error(), http.StatusNotFound)
	case errors.Is(err, repository.ErrInsufficientFunds):
		sendJSONError(w, "INSUFFICIENT_FUNDS", err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrCurrencyMismatch):
		sendJSONError(w, "CURRENCY_MISMATCH", err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrInvalidAmount):
		sendJSONError(w, "INVALID_AMOUNT", err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrAccountNotActive):
		sendJSONError(w, "ACCOUNT_NOT_ACTIVE", err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrSameAccount):
		sendJSONError(w, "SAME_ACCOUNT", err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidInterestRate):
		sendJSONError(w, "INVALID_INTEREST_RATE", err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrDuplicateUser):
		sendJSONError(w, "USER_ALREADY_EXISTS", err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrDuplicateAccountNumber):
		sendJSONError(w, "ACCOUNT_NUMBER_CONFLICT", err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrDuplicateReference):
		sendJSONError(w, "DUPLICATE_REFERENCE", err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		sendJSONError(w, "INVALID_CREDENTIALS", err.Error(), http.StatusUnauthorized)
	case errors.Is(err, repository.ErrUnavailable):
		sendJSONError(w, "SERVICE_UNAVAILABLE", "store unavailable, retry later", http.StatusServiceUnavailable)
	default:
		sendJSONError(w, "INTERNAL_ERROR", err.Error(), http.StatusInternalServerError)
	}
}

// sendTransferError is sendServiceError except that an unknown account on a
// money-movement request is the caller's fault, not a missing resource.
func sendTransferError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrAccountNotFound) {
		sendJSONError(w, "ACCOUNT_NOT_FOUND", err.Error(), http.StatusBadRequest)
		return
	}
	sendServiceError(w, err)
}
