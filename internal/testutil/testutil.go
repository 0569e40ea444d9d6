package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"internet-banking/internal/database"
	"internet-banking/internal/handlers"
	"internet-banking/internal/repository"
	"internet-banking/internal/service"
	"internet-banking/models"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type TestServer struct {
	Server  *httptest.Server
	DB      *sql.DB
	Cleanup func()
	client  *http.Client
}

func SetupTestServer(t *testing.T) *TestServer {
	t.Helper()

	os.Setenv("LOG_LEVEL", "ERROR")

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "internet_banking_test",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections"),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := postgres.Host(ctx)
	require.NoError(t, err)
	port, err := postgres.MappedPort(ctx, "5432")
	require.NoError(t, err)

	databaseURL := fmt.Sprintf("postgres://postgres:password@%s:%s/internet_banking_test?sslmode=disable", host, port.Port())

	time.Sleep(2 * time.Second)

	db, err := database.NewConnection(databaseURL)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	userService := service.NewUserService(userRepo)
	accountService := service.NewAccountService(accountRepo, userRepo)
	transactionService := service.NewTransactionService(transactionRepo, 10*time.Second)

	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, transactionService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	router := handlers.SetupRoutes(authHandler, accountHandler, transactionHandler)

	server := httptest.NewServer(router)

	cleanup := func() {
		server.Close()
		db.Close()
		postgres.Terminate(ctx)
	}

	ts := &TestServer{
		Server:  server,
		DB:      db,
		Cleanup: cleanup,
	}

	ts.client = &http.Client{
		Timeout: 30 * time.Second,
	}

	return ts
}

// PostJSON sends a JSON payload and returns the response with its body read.
func (ts *TestServer) PostJSON(t *testing.T, path, payload string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest("POST", ts.Server.URL+path, strings.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func (ts *TestServer) GetJSON(t *testing.T, path string) (int, []byte) {
	t.Helper()

	resp, err := ts.client.Get(ts.Server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

// RegisterTestUser creates a user through the API and returns its id.
func (ts *TestServer) RegisterTestUser(t *testing.T, username string) int64 {
	t.Helper()

	payload := fmt.Sprintf(`{
		"username": %q,
		"email": "%s@example.com",
		"password": "s3cret-pass",
		"firstName": "Test",
		"lastName": "User"
	}`, username, username)

	status, body := ts.PostJSON(t, "/auth/register", payload)
	require.Equal(t, http.StatusCreated, status, "register failed: %s", body)

	var user models.User
	require.NoError(t, json.Unmarshal(body, &user))
	require.Positive(t, user.ID)

	return user.ID
}

// CreateTestAccount creates a checking account for the user and returns it.
func (ts *TestServer) CreateTestAccount(t *testing.T, userID int64, currency string) *models.Account {
	t.Helper()

	payload := fmt.Sprintf(`{
		"userId": %d,
		"accountType": "CHECKING",
		"currency": %q,
		"interestRate": "0.5"
	}`, userID, currency)

	status, body := ts.PostJSON(t, "/accounts", payload)
	require.Equal(t, http.StatusCreated, status, "create account failed: %s", body)

	var account models.Account
	require.NoError(t, json.Unmarshal(body, &account))
	require.Positive(t, account.ID)

	return &account
}

// DepositFunds credits the account through the API and returns the
// recorded transaction.
func (ts *TestServer) DepositFunds(t *testing.T, accountID int64, amount string) *models.Transaction {
	t.Helper()

	payload := fmt.Sprintf(`{"toAccountId": %d, "amount": %q, "description": "test deposit"}`, accountID, amount)
	status, body := ts.PostJSON(t, "/transactions/deposit", payload)
	require.Equal(t, http.StatusCreated, status, "deposit failed: %s", body)

	var txn models.Transaction
	require.NoError(t, json.Unmarshal(body, &txn))

	return &txn
}

// GetAccount fetches an account by id through the API.
func (ts *TestServer) GetAccount(t *testing.T, accountID int64) *models.Account {
	t.Helper()

	status, body := ts.GetJSON(t, fmt.Sprintf("/accounts/%d", accountID))
	require.Equal(t, http.StatusOK, status, "get account failed: %s", body)

	var account models.Account
	require.NoError(t, json.Unmarshal(body, &account))

	return &account
}
