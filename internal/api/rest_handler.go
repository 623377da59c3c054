package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bank_ledger/internal/bank"
	"bank_ledger/internal/domain"
	"bank_ledger/internal/repository"
	"bank_ledger/internal/service"
	"bank_ledger/pkg/metrics"
	"bank_ledger/pkg/validator"
)

// APIHandler is the presentation layer. It parses raw user input into
// validated primitives, performs the owner identifier-match check, and
// translates core outcomes into HTTP responses. The core itself never sees
// unparsed text and never performs authentication.
type APIHandler struct {
	service        *bank.Service
	metrics        *metrics.MetricsCollector
	notifier       *service.NotificationService
	validator      *validator.InputValidator
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(
	svc *bank.Service,
	collector *metrics.MetricsCollector,
	notifier *service.NotificationService,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		service:        svc,
		metrics:        collector,
		notifier:       notifier,
		validator:      validator.NewInputValidator(),
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

type RegisterCustomerRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
	Accounts  []int  `json:"accounts"`
}

type OpenAccountRequest struct {
	CustomerID string `json:"customer_id"`
}

type AccountResponse struct {
	Number  int    `json:"number"`
	Branch  string `json:"branch"`
	OwnerID string `json:"owner_id"`
	Balance string `json:"balance"`
}

type CreateTransactionRequest struct {
	CustomerID string `json:"customer_id"`
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
}

type TransactionResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Balance   string    `json:"balance"`
}

type StatementEntry struct {
	Kind      string    `json:"kind"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type StatementResponse struct {
	AccountNumber int              `json:"account_number"`
	Branch        string           `json:"branch"`
	Entries       []StatementEntry `json:"entries"`
	Balance       string           `json:"balance"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *APIHandler) RegisterCustomerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req RegisterCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if err := h.validator.ValidateCustomerID(req.ID); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "INVALID_IDENTIFIER")
		return
	}
	if req.Name == "" {
		h.sendError(w, "Name is required", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	birthDate, err := h.validator.ParseBirthDate(req.BirthDate)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "INVALID_DATE")
		return
	}

	customer, err := h.service.RegisterCustomer(ctx, req.ID, req.Name, birthDate, req.Address)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			h.sendError(w, "Customer already registered", http.StatusConflict, "DUPLICATE_CUSTOMER")
			return
		}
		h.sendError(w, "Failed to register customer", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	h.metrics.RecordCustomerRegistered()
	h.sendJSON(w, toCustomerResponse(customer), http.StatusCreated)
}

func (h *APIHandler) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	customer, err := h.service.FindCustomer(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, "Customer not found", http.StatusNotFound, "CUSTOMER_NOT_FOUND")
			return
		}
		h.sendError(w, "Failed to get customer", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	h.sendJSON(w, toCustomerResponse(customer), http.StatusOK)
}

func (h *APIHandler) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	account, err := h.service.OpenAccount(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, "Register the customer before opening an account", http.StatusNotFound, "CUSTOMER_NOT_FOUND")
			return
		}
		h.sendError(w, "Failed to open account", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	h.metrics.RecordAccountOpened()
	h.logger.Info("Account opened",
		slog.Int("number", account.Number),
		slog.String("branch", account.Branch))
	h.sendJSON(w, toAccountResponse(account), http.StatusCreated)
}

func (h *APIHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	accounts, err := h.service.ListAccounts(ctx)
	if err != nil {
		h.sendError(w, "Failed to list accounts", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	result := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, toAccountResponse(account))
	}

	h.sendJSON(w, result, http.StatusOK)
}

func (h *APIHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	account, ok := h.lookupAccount(ctx, w, r)
	if !ok {
		return
	}

	h.sendJSON(w, toAccountResponse(account), http.StatusOK)
}

func (h *APIHandler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	account, ok := h.lookupAccount(ctx, w, r)
	if !ok {
		return
	}

	// Identifier-match authorization: the core exposes the owning customer's
	// identifier, the presentation layer performs the comparison.
	if account.OwnerID != req.CustomerID {
		h.sendError(w, "Customer identifier does not match the account owner", http.StatusForbidden, "OWNER_MISMATCH")
		return
	}

	amount, err := h.validator.ParseAmount(req.Amount)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "INVALID_AMOUNT")
		return
	}

	var tx *domain.Transaction
	switch domain.TransactionKind(req.Kind) {
	case domain.KindDeposit:
		tx, err = h.service.Deposit(ctx, account.Number, amount)
	case domain.KindWithdrawal:
		tx, err = h.service.Withdraw(ctx, account.Number, amount)
	default:
		h.sendError(w, fmt.Sprintf("Unknown transaction kind: %s", req.Kind), http.StatusBadRequest, "INVALID_KIND")
		return
	}

	duration := time.Since(startTime)

	if err != nil {
		status, code := ledgerErrorCode(err)
		h.metrics.RecordTransaction(req.Kind, duration, code)
		h.sendError(w, err.Error(), status, code)
		return
	}

	h.metrics.RecordTransaction(req.Kind, duration, "")
	balance, _ := account.Balance.Float64()
	h.metrics.UpdateAccountBalance(strconv.Itoa(account.Number), account.Branch, balance)

	if h.notifier != nil {
		_ = h.notifier.SendTransactionReceipt(ctx, tx, account.Number, account.OwnerID)
	}

	h.sendJSON(w, TransactionResponse{
		ID:        tx.ID,
		Kind:      string(tx.Kind),
		Amount:    tx.Amount.StringFixed(2),
		Timestamp: tx.Timestamp,
		Balance:   account.Balance.StringFixed(2),
	}, http.StatusCreated)
}

func (h *APIHandler) StatementHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	account, ok := h.lookupAccount(ctx, w, r)
	if !ok {
		return
	}

	if account.OwnerID != r.URL.Query().Get("customer_id") {
		h.sendError(w, "Customer identifier does not match the account owner", http.StatusForbidden, "OWNER_MISMATCH")
		return
	}

	statement, err := h.service.Statement(ctx, account.Number)
	if err != nil {
		h.sendError(w, "Failed to read statement", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	entries := make([]StatementEntry, 0, len(statement.Entries))
	for _, tx := range statement.Entries {
		entries = append(entries, StatementEntry{
			Kind:      string(tx.Kind),
			Amount:    tx.Amount.StringFixed(2),
			Timestamp: tx.Timestamp,
		})
	}

	h.sendJSON(w, StatementResponse{
		AccountNumber: statement.AccountNumber,
		Branch:        statement.Branch,
		Entries:       entries,
		Balance:       statement.Balance.StringFixed(2),
	}, http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}
	h.sendJSON(w, response, http.StatusOK)
}

// lookupAccount resolves the {number} path segment; on failure it writes the
// error response and returns ok=false.
func (h *APIHandler) lookupAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.Account, bool) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		h.sendError(w, "Invalid account number", http.StatusBadRequest, "INVALID_ACCOUNT_NUMBER")
		return nil, false
	}

	account, err := h.service.FindAccount(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, "Account not found", http.StatusNotFound, "ACCOUNT_NOT_FOUND")
			return nil, false
		}
		h.sendError(w, "Failed to get account", http.StatusInternalServerError, "SERVER_ERROR")
		return nil, false
	}

	return account, true
}

func ledgerErrorCode(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"
	case errors.Is(err, domain.ErrWithdrawalCeiling):
		return http.StatusUnprocessableEntity, "WITHDRAWAL_LIMIT_EXCEEDED"
	case errors.Is(err, domain.ErrDailyWithdrawals):
		return http.StatusUnprocessableEntity, "DAILY_LIMIT_EXCEEDED"
	default:
		return http.StatusInternalServerError, "PROCESSING_ERROR"
	}
}

func toCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		BirthDate: c.BirthDate.Format("02/01/2006"),
		Address:   c.Address,
		Accounts:  c.Accounts,
	}
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Number:  a.Number,
		Branch:  a.Branch,
		OwnerID: a.OwnerID,
		Balance: a.Balance.StringFixed(2),
	}
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	errorResponse := ErrorResponse{
		Error: message,
		Code:  code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/customers", h.RegisterCustomerHandler)
	mux.HandleFunc("GET /api/v1/customers/{id}", h.GetCustomerHandler)
	mux.HandleFunc("POST /api/v1/accounts", h.OpenAccountHandler)
	mux.HandleFunc("GET /api/v1/accounts", h.ListAccountsHandler)
	mux.HandleFunc("GET /api/v1/accounts/{number}", h.GetAccountHandler)
	mux.HandleFunc("POST /api/v1/accounts/{number}/transactions", h.CreateTransactionHandler)
	mux.HandleFunc("GET /api/v1/accounts/{number}/statement", h.StatementHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
