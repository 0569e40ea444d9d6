package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func SetupRoutes(authHandler *AuthHandler, accountHandler *AccountHandler, transactionHandler *TransactionHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	router.HandleFunc("/accounts", accountHandler.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts/transfer", accountHandler.Transfer).Methods("POST")
	router.HandleFunc("/accounts/user/{userId:[0-9]+}", accountHandler.GetAccountsByUser).Methods("GET")
	router.HandleFunc("/accounts/number/{accountNumber}", accountHandler.GetAccountByNumber).Methods("GET")
	router.HandleFunc("/accounts/{id:[0-9]+}", accountHandler.GetAccount).Methods("GET")
	router.HandleFunc("/accounts/{id:[0-9]+}/balance", accountHandler.GetBalance).Methods("GET")
	router.HandleFunc("/accounts/{id:[0-9]+}/status", accountHandler.UpdateStatus).Methods("PUT")
	router.HandleFunc("/accounts/{id:[0-9]+}", accountHandler.CloseAccount).Methods("DELETE")

	router.HandleFunc("/transactions/transfer", transactionHandler.CreateTransfer).Methods("POST")
	router.HandleFunc("/transactions/deposit", transactionHandler.CreateDeposit).Methods("POST")
	router.HandleFunc("/transactions/withdrawal", transactionHandler.CreateWithdrawal).Methods("POST")
	router.HandleFunc("/transactions/account/{accountId:[0-9]+}/range", transactionHandler.GetByDateRange).Methods("GET")
	router.HandleFunc("/transactions/account/{accountId:[0-9]+}", transactionHandler.GetByAccount).Methods("GET")
	router.HandleFunc("/transactions/user/{userId:[0-9]+}", transactionHandler.GetByUser).Methods("GET")
	router.HandleFunc("/transactions/reference/{referenceNumber}", transactionHandler.GetByReferenceNumber).Methods("GET")
	router.HandleFunc("/transactions/{id:[0-9]+}", transactionHandler.GetTransaction).Methods("GET")
	router.HandleFunc("/transactions/{id:[0-9]+}/status", transactionHandler.UpdateStatus).Methods("PUT")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"OK"}`))
	}).Methods("GET")

	router.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"application":"Internet Banking","version":"1.0.0","status":"running"}`))
	}).Methods("GET")

	return router
}
