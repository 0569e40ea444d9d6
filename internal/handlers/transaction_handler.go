package handlers

import (
	"net/http"
	"time"

	"internet-banking/internal/service"
	"internet-banking/models"

	"github.com/gorilla/mux"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	txn, err := h.transactionService.Transfer(r.Context(), &req)
	if err != nil {
		sendTransferError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req models.DepositRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	txn, err := h.transactionService.Deposit(r.Context(), &req)
	if err != nil {
		sendTransferError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	txn, err := h.transactionService.Withdraw(r.Context(), &req)
	if err != nil {
		sendTransferError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, "INVALID_TRANSACTION_ID", "transaction id must be a positive integer", http.StatusBadRequest)
		return
	}

	txn, err := h.transactionService.GetTransaction(r.Context(), id)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, txn)
}

func (h *TransactionHandler) GetByReferenceNumber(w http.ResponseWriter, r *http.Request) {
	referenceNumber := mux.Vars(r)["referenceNumber"]
	if referenceNumber == "" {
		sendJSONError(w, "MISSING_REFERENCE_NUMBER", "referenceNumber parameter is required", http.StatusBadRequest)
		return
	}

	txn, err := h.transactionService.GetByReferenceNumber(r.Context(), referenceNumber)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, txn)
}

func (h *TransactionHandler) GetByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountId")
	if !ok {
		sendJSONError(w, "INVALID_ACCOUNT_ID", "account id must be a positive integer", http.StatusBadRequest)
		return
	}

	transactions, err := h.transactionService.GetByAccount(r.Context(), accountID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		sendJSONError(w, "INVALID_USER_ID", "user id must be a positive integer", http.StatusBadRequest)
		return
	}

	transactions, err := h.transactionService.GetByUser(r.Context(), userID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, transactions)
}

// GetByDateRange expects RFC 3339 start and end query parameters.
func (h *TransactionHandler) GetByDateRange(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountId")
	if !ok {
		sendJSONError(w, "INVALID_ACCOUNT_ID", "account id must be a positive integer", http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		sendJSONError(w, "INVALID_DATE", "start must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		sendJSONError(w, "INVALID_DATE", "end must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		sendJSONError(w, "INVALID_DATE", "end must not precede start", http.StatusBadRequest)
		return
	}

	transactions, err := h.transactionService.GetByDateRange(r.Context(), accountID, start, end)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, "INVALID_TRANSACTION_ID", "transaction id must be a positive integer", http.StatusBadRequest)
		return
	}

	var req models.UpdateTransactionStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.transactionService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, models.MessageResponse{Message: "transaction status updated"})
}
