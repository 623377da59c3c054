package internal_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bank_ledger/internal/api"
	"bank_ledger/internal/bank"
	"bank_ledger/internal/domain"
	"bank_ledger/internal/repository/memory"
	"bank_ledger/pkg/metrics"
)

type testEnv struct {
	customers *memory.CustomerRegistry
	accounts  *memory.AccountRegistry
	service   *bank.Service
	mux       *http.ServeMux
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	customers := memory.NewCustomerRegistry()
	accounts := memory.NewAccountRegistry()

	svc := bank.NewService(customers, accounts, domain.DefaultWithdrawalCeiling, domain.DefaultMaxDailyWithdrawals, nil)

	handler := api.NewAPIHandler(svc, metrics.NewMetricsCollector(nil), nil, nil)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &testEnv{
		customers: customers,
		accounts:  accounts,
		service:   svc,
		mux:       mux,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request failed: %v", err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return out
}

func mustRegisterCustomer(t *testing.T, env *testEnv, id string) {
	t.Helper()
	w := env.do(t, "POST", "/api/v1/customers", api.RegisterCustomerRequest{
		ID:        id,
		Name:      "Joana Silva",
		BirthDate: "15/03/1990",
		Address:   "Rua A, 10",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register customer: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
}

func mustOpenAccount(t *testing.T, env *testEnv, customerID string) api.AccountResponse {
	t.Helper()
	w := env.do(t, "POST", "/api/v1/accounts", api.OpenAccountRequest{CustomerID: customerID})
	if w.Code != http.StatusCreated {
		t.Fatalf("open account: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	return decodeBody[api.AccountResponse](t, w)
}

func transactionPath(number int) string {
	return fmt.Sprintf("/api/v1/accounts/%d/transactions", number)
}

func TestIntegration_RegisterOpenDepositWithdrawStatement(t *testing.T) {
	env := setup(t)

	mustRegisterCustomer(t, env, "111")
	account := mustOpenAccount(t, env, "111")
	if account.Number != 1 || account.Branch != "0001" {
		t.Fatalf("expected account 1 / branch 0001, got %+v", account)
	}

	w := env.do(t, "POST", transactionPath(account.Number), api.CreateTransactionRequest{
		CustomerID: "111", Kind: "deposit", Amount: "200.00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("deposit: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	deposit := decodeBody[api.TransactionResponse](t, w)
	if deposit.Balance != "200.00" {
		t.Errorf("expected balance 200.00 after deposit, got %s", deposit.Balance)
	}

	w = env.do(t, "POST", transactionPath(account.Number), api.CreateTransactionRequest{
		CustomerID: "111", Kind: "withdrawal", Amount: "50.00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("withdrawal: expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	w = env.do(t, "GET", fmt.Sprintf("/api/v1/accounts/%d/statement?customer_id=111", account.Number), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("statement: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	statement := decodeBody[api.StatementResponse](t, w)
	if len(statement.Entries) != 2 {
		t.Fatalf("expected 2 statement entries, got %d", len(statement.Entries))
	}
	if statement.Entries[0].Kind != "deposit" || statement.Entries[0].Amount != "200.00" {
		t.Errorf("expected first entry deposit 200.00, got %+v", statement.Entries[0])
	}
	if statement.Entries[1].Kind != "withdrawal" || statement.Entries[1].Amount != "50.00" {
		t.Errorf("expected second entry withdrawal 50.00, got %+v", statement.Entries[1])
	}
	if statement.Balance != "150.00" {
		t.Errorf("expected statement balance 150.00, got %s", statement.Balance)
	}
}

func TestIntegration_DuplicateCustomer(t *testing.T) {
	env := setup(t)
	mustRegisterCustomer(t, env, "111")

	w := env.do(t, "POST", "/api/v1/customers", api.RegisterCustomerRequest{
		ID: "111", Name: "Impostor", BirthDate: "01/01/1980", Address: "Rua B, 20",
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	resp := decodeBody[api.ErrorResponse](t, w)
	if resp.Code != "DUPLICATE_CUSTOMER" {
		t.Errorf("expected code DUPLICATE_CUSTOMER, got %s", resp.Code)
	}
}

func TestIntegration_OpenAccountUnknownCustomer(t *testing.T) {
	env := setup(t)

	w := env.do(t, "POST", "/api/v1/accounts", api.OpenAccountRequest{CustomerID: "999"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	resp := decodeBody[api.ErrorResponse](t, w)
	if resp.Code != "CUSTOMER_NOT_FOUND" {
		t.Errorf("expected code CUSTOMER_NOT_FOUND, got %s", resp.Code)
	}

	// Next successful open still gets the first number and branch code.
	mustRegisterCustomer(t, env, "111")
	account := mustOpenAccount(t, env, "111")
	if account.Number != 1 || account.Branch != "0001" {
		t.Errorf("failed open must not consume a number or branch code, got %+v", account)
	}
}

func TestIntegration_OwnerMismatch(t *testing.T) {
	env := setup(t)
	mustRegisterCustomer(t, env, "111")
	mustRegisterCustomer(t, env, "222")
	account := mustOpenAccount(t, env, "111")

	w := env.do(t, "POST", transactionPath(account.Number), api.CreateTransactionRequest{
		CustomerID: "222", Kind: "withdrawal", Amount: "10.00",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	resp := decodeBody[api.ErrorResponse](t, w)
	if resp.Code != "OWNER_MISMATCH" {
		t.Errorf("expected code OWNER_MISMATCH, got %s", resp.Code)
	}

	w = env.do(t, "GET", fmt.Sprintf("/api/v1/accounts/%d/statement?customer_id=222", account.Number), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("statement with wrong identifier: expected 403, got %d", w.Code)
	}
}

func TestIntegration_WithdrawalRejections(t *testing.T) {
	env := setup(t)
	mustRegisterCustomer(t, env, "111")
	account := mustOpenAccount(t, env, "111")

	w := env.do(t, "POST", transactionPath(account.Number), api.CreateTransactionRequest{
		CustomerID: "111", Kind: "deposit", Amount: "2000.00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("seed deposit failed: %d (%s)", w.Code, w.Body.String())
	}

	// Above the per-withdrawal ceiling.
	w = env.do(t, "POST", transactionPath(account.Number), api.CreateTransactionRequest{
		CustomerID: "111", Kind: "withdrawal", Amount: "600.00",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if resp := decodeBody[api.ErrorResponse](t, w); resp.Code != "WITHDRAWAL_LIMIT_EXCEEDED" {
		t.Errorf("expected WITHDRAWAL_LIMIT_EXCEEDED, got %s", resp.Code)
	}

	// Exhaust the daily count, then any amount fails.
	for i := 0; i < domain.DefaultMaxDailyWithdrawals; i++ {
		w = env.do(t, "POST", transactionPath(account.Number), api.CreateTransactionRequest{
			CustomerID: "111", Kind: "withdrawal", Amount: "10.00",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("withdrawal %d failed: %d (%s)", i+1, w.Code, w.Body.String())
		}
	}
	w = env.do(t, "POST", transactionPath(account.Number), api.CreateTransactionRequest{
		CustomerID: "111", Kind: "withdrawal", Amount: "1.00",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if resp := decodeBody[api.ErrorResponse](t, w); resp.Code != "DAILY_LIMIT_EXCEEDED" {
		t.Errorf("expected DAILY_LIMIT_EXCEEDED, got %s", resp.Code)
	}

	// Malformed amounts never reach the core.
	w = env.do(t, "POST", transactionPath(account.Number), api.CreateTransactionRequest{
		CustomerID: "111", Kind: "withdrawal", Amount: "ten bucks",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed amount, got %d", w.Code)
	}
}

func TestIntegration_AccountNotFound(t *testing.T) {
	env := setup(t)

	w := env.do(t, "GET", "/api/v1/accounts/42", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	resp := decodeBody[api.ErrorResponse](t, w)
	if resp.Code != "ACCOUNT_NOT_FOUND" {
		t.Errorf("expected code ACCOUNT_NOT_FOUND, got %s", resp.Code)
	}
}

func TestIntegration_ListAccounts(t *testing.T) {
	env := setup(t)
	mustRegisterCustomer(t, env, "111")
	mustOpenAccount(t, env, "111")
	mustOpenAccount(t, env, "111")

	w := env.do(t, "GET", "/api/v1/accounts", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	accounts := decodeBody[[]api.AccountResponse](t, w)
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Number != 1 || accounts[1].Number != 2 {
		t.Errorf("expected accounts listed in number order, got %+v", accounts)
	}
}
