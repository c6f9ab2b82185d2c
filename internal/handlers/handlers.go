package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"expense-wallet/internal/auth"
	"expense-wallet/internal/currency"
	"expense-wallet/internal/ledger"
	"expense-wallet/internal/models"
	"expense-wallet/internal/rates"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store  *ledger.Store
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *ledger.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{store: store, logger: logger}
}

// RequireLogin wraps handlers that need a logged-in user.
func (h *Handlers) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.store.State().LoggedIn() {
			h.writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := auth.CheckCredentials(req.Email, req.Password); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.Dispatch(ledger.Login{Email: req.Email}); err != nil {
		h.fail(w, err)
		return
	}
	h.Wallet(w, r)
}

// Logout ends the session and clears the stored wallet.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Dispatch(ledger.Logout{}); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CurrenciesResponse lists the selectable currencies.
type CurrenciesResponse struct {
	Base       string   `json:"base"`
	Currencies []string `json:"currencies"`
}

// Currencies reloads the currency list from the rates provider.
func (h *Handlers) Currencies(w http.ResponseWriter, r *http.Request) {
	codes, err := h.store.LoadCurrencies(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, CurrenciesResponse{Base: currency.Base, Currencies: codes})
}

// RowView is an expense row as displayed in the wallet table.
type RowView struct {
	ledger.Row
	Formatted string `json:"formatted"`
	Error     string `json:"error,omitempty"`
}

// WalletView is the data of the wallet page.
type WalletView struct {
	Email              string    `json:"email"`
	Currencies         []string  `json:"currencies"`
	CurrencyToExchange string    `json:"currencyToExchange"`
	Editor             bool      `json:"editor"`
	IDToEdit           int       `json:"idToEdit"`
	IsFetching         bool      `json:"isFetching"`
	Total              string    `json:"total"`
	FormattedTotal     string    `json:"formattedTotal"`
	Rows               []RowView `json:"rows"`
}

// NewWalletView derives the wallet page from s. Rows that cannot be
// converted carry their error instead of failing the page.
func NewWalletView(s ledger.State) WalletView {
	target := s.CurrencyToExchange
	view := WalletView{
		Email:              s.User.Email,
		Currencies:         s.Currencies,
		CurrencyToExchange: target,
		Editor:             s.Editor,
		IDToEdit:           s.IDToEdit,
		IsFetching:         s.IsFetching,
		Rows:               make([]RowView, 0, len(s.Expenses)),
	}
	for _, e := range s.Expenses {
		row, err := ledger.DisplayRow(e, target)
		rv := RowView{Row: row, Formatted: currency.Format(row.ExchangedValue, target)}
		if err != nil {
			rv.Formatted = ""
			rv.Error = err.Error()
		}
		view.Rows = append(view.Rows, rv)
	}
	total, _ := ledger.Total(s.Expenses, target)
	view.Total = total.StringFixed(currency.DisplayPlaces)
	view.FormattedTotal = currency.Format(total, target)
	return view
}

// Wallet renders the wallet page.
func (h *Handlers) Wallet(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, NewWalletView(h.store.State()))
}

// CurrencyRequest is the body of PUT /currency.
type CurrencyRequest struct {
	Code string `json:"code"`
}

// SetDisplayCurrency changes the currency of rows and total.
func (h *Handlers) SetDisplayCurrency(w http.ResponseWriter, r *http.Request) {
	var req CurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := h.store.Dispatch(ledger.SetDisplayCurrency{Code: req.Code}); err != nil {
		h.fail(w, err)
		return
	}
	h.Wallet(w, r)
}

// CreateExpense handles the creation of a new expense.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e, err := h.store.AddExpense(r.Context(), d)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

// DeleteExpense removes an expense.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.store.Dispatch(ledger.DeleteExpense{ID: id}); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BeginEdit opens the edit session of an expense and returns its fields.
func (h *Handlers) BeginEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	s, err := h.store.Dispatch(ledger.BeginEdit{ID: id})
	if err != nil {
		h.fail(w, err)
		return
	}
	e, _ := s.Expense(id)
	h.writeJSON(w, http.StatusOK, e)
}

// CancelEdit closes the edit session.
func (h *Handlers) CancelEdit(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Dispatch(ledger.CancelEdit{}); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateExpense saves the expense under edit.
func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var patch models.Draft
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s, err := h.store.Dispatch(ledger.SaveEdit{ID: id, Patch: patch})
	if err != nil {
		h.fail(w, err)
		return
	}
	e, _ := s.Expense(id)
	h.writeJSON(w, http.StatusOK, e)
}

func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		h.writeError(w, http.StatusBadRequest, "invalid expense id")
		return 0, false
	}
	return id, true
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// fail maps transition errors to HTTP statuses.
func (h *Handlers) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, rates.ErrProvider):
		status = http.StatusBadGateway
	default:
		h.logger.Error("request failed", "error", err)
	}
	h.writeError(w, status, err.Error())
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("response encoding failed", "error", err)
	}
}
