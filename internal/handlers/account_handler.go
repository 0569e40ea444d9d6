package handlers

import (
	"net/http"
	"strconv"

	"internet-banking/internal/service"
	"internet-banking/models"

	"github.com/gorilla/mux"
)

type AccountHandler struct {
	accountService     service.AccountService
	transactionService service.TransactionService
}

func NewAccountHandler(accountService service.AccountService, transactionService service.TransactionService) *AccountHandler {
	return &AccountHandler{
		accountService:     accountService,
		transactionService: transactionService,
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil && id > 0
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), &req)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, "INVALID_ACCOUNT_ID", "account id must be a positive integer", http.StatusBadRequest)
		return
	}

	account, err := h.accountService.GetAccount(r.Context(), id)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) GetAccountsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		sendJSONError(w, "INVALID_USER_ID", "user id must be a positive integer", http.StatusBadRequest)
		return
	}

	accounts, err := h.accountService.GetAccountsByUser(r.Context(), userID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccountByNumber(w http.ResponseWriter, r *http.Request) {
	accountNumber := mux.Vars(r)["accountNumber"]
	if accountNumber == "" {
		sendJSONError(w, "MISSING_ACCOUNT_NUMBER", "accountNumber parameter is required", http.StatusBadRequest)
		return
	}

	account, err := h.accountService.GetAccountByNumber(r.Context(), accountNumber)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, "INVALID_ACCOUNT_ID", "account id must be a positive integer", http.StatusBadRequest)
		return
	}

	account, err := h.accountService.GetAccount(r.Context(), id)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, models.BalanceResponse{
		AccountID: account.ID,
		Balance:   account.Balance,
		Currency:  account.Currency,
	})
}

func (h *AccountHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, "INVALID_ACCOUNT_ID", "account id must be a positive integer", http.StatusBadRequest)
		return
	}

	var req models.UpdateAccountStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.accountService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, models.MessageResponse{Message: "account status updated"})
}

func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, "INVALID_ACCOUNT_ID", "account id must be a positive integer", http.StatusBadRequest)
		return
	}

	if err := h.accountService.CloseAccount(r.Context(), id); err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, models.MessageResponse{Message: "account closed"})
}

// Transfer moves funds between two accounts and records the transaction in
// the same unit of work.
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.transactionService.Transfer(r.Context(), &req); err != nil {
		sendTransferError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, models.MessageResponse{Message: "transfer completed"})
}
