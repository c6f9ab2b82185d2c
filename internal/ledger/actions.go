package ledger

import (
	"fmt"
	"slices"
	"strings"

	"expense-wallet/internal/currency"
	"expense-wallet/internal/models"

	"github.com/shopspring/decimal"
)

// Action is a state transition request. The set of actions is closed.
type Action interface {
	action()
}

// Login records the email of the user entering the wallet.
type Login struct{ Email string }

// Logout replaces the state with a fresh session. The currency list is kept.
type Logout struct{}

// StartFetchCurrencies marks the currency list as loading.
type StartFetchCurrencies struct{}

// ReceiveCurrencies stores the selectable currency codes.
type ReceiveCurrencies struct{ Codes []string }

// FailFetchCurrencies clears the loading flag after a failed list fetch.
type FailFetchCurrencies struct{}

// CommitExpense appends a new expense with the rates fetched for it.
type CommitExpense struct {
	Draft models.Draft
	Rates models.RateSnapshot
}

// DeleteExpense removes an expense.
type DeleteExpense struct{ ID int }

// BeginEdit opens the edit session for an expense.
type BeginEdit struct{ ID int }

// SaveEdit replaces the editable fields of the expense under edit.
type SaveEdit struct {
	ID    int
	Patch models.Draft
}

// CancelEdit closes the edit session without changes.
type CancelEdit struct{}

// SetDisplayCurrency selects the currency rows and totals are shown in.
type SetDisplayCurrency struct{ Code string }

func (Login) action()                {}
func (Logout) action()               {}
func (StartFetchCurrencies) action() {}
func (ReceiveCurrencies) action()    {}
func (FailFetchCurrencies) action()  {}
func (CommitExpense) action()        {}
func (DeleteExpense) action()        {}
func (BeginEdit) action()            {}
func (SaveEdit) action()             {}
func (CancelEdit) action()           {}
func (SetDisplayCurrency) action()   {}

// Commits reports whether a, once applied, changes persisted data.
func Commits(a Action) bool {
	switch a.(type) {
	case Login, Logout, CommitExpense, DeleteExpense, SaveEdit:
		return true
	}
	return false
}

// Apply returns the state that results from applying a to s.
// On error the returned state is s, unchanged.
func Apply(s State, a Action) (State, error) {
	switch a := a.(type) {
	case Login:
		if s.Editor {
			return s, fmt.Errorf("%w: cannot log in while editing expense %d", ErrInvalidState, s.IDToEdit)
		}
		email := strings.TrimSpace(a.Email)
		if email == "" {
			return s, fmt.Errorf("%w: email is required", ErrValidation)
		}
		next := s
		next.User = models.User{Email: email}
		return next, nil

	case Logout:
		next := NewState()
		next.Currencies = slices.Clone(s.Currencies)
		return next, nil

	case StartFetchCurrencies:
		next := s
		next.IsFetching = true
		return next, nil

	case ReceiveCurrencies:
		next := s
		next.IsFetching = false
		next.Currencies = slices.Clone(a.Codes)
		if next.Currencies == nil {
			next.Currencies = []string{}
		}
		if next.CurrencyToExchange != currency.Base && !next.selectable(next.CurrencyToExchange) {
			next.CurrencyToExchange = currency.Base
		}
		return next, nil

	case FailFetchCurrencies:
		next := s
		next.IsFetching = false
		return next, nil

	case CommitExpense:
		if err := CheckAdd(s, a.Draft); err != nil {
			return s, err
		}
		if a.Rates == nil {
			return s, fmt.Errorf("%w: expense has no exchange rates", ErrValidation)
		}
		e := newExpense(s.NextID, a.Draft, a.Rates)
		next := s
		next.Expenses = append(slices.Clip(s.Expenses), e)
		next.NextID = s.NextID + 1
		return next, nil

	case DeleteExpense:
		i := s.Find(a.ID)
		if i < 0 {
			return s, fmt.Errorf("%w: expense %d", ErrNotFound, a.ID)
		}
		if s.Editor && s.IDToEdit == a.ID {
			return s, fmt.Errorf("%w: expense %d is being edited", ErrInvalidState, a.ID)
		}
		next := s
		next.Expenses = slices.Delete(slices.Clone(s.Expenses), i, i+1)
		return next, nil

	case BeginEdit:
		if s.Find(a.ID) < 0 {
			return s, fmt.Errorf("%w: expense %d", ErrNotFound, a.ID)
		}
		if s.Editor {
			return s, fmt.Errorf("%w: expense %d is already being edited", ErrInvalidState, s.IDToEdit)
		}
		next := s
		next.Editor = true
		next.IDToEdit = a.ID
		return next, nil

	case SaveEdit:
		if !s.Editor || s.IDToEdit != a.ID {
			return s, fmt.Errorf("%w: expense %d is not being edited", ErrInvalidState, a.ID)
		}
		i := s.Find(a.ID)
		if i < 0 {
			return s, fmt.Errorf("%w: expense %d", ErrNotFound, a.ID)
		}
		if err := validate(s, a.Patch); err != nil {
			return s, err
		}
		old := s.Expenses[i]
		next := s
		next.Expenses = slices.Clone(s.Expenses)
		next.Expenses[i] = newExpense(old.ID, a.Patch, old.ExchangeRates)
		next.Editor = false
		next.IDToEdit = 0
		return next, nil

	case CancelEdit:
		if !s.Editor {
			return s, fmt.Errorf("%w: no expense is being edited", ErrInvalidState)
		}
		next := s
		next.Editor = false
		next.IDToEdit = 0
		return next, nil

	case SetDisplayCurrency:
		code := strings.ToUpper(strings.TrimSpace(a.Code))
		if code != currency.Base && !s.selectable(code) {
			return s, fmt.Errorf("%w: unknown display currency %q", ErrValidation, a.Code)
		}
		next := s
		next.CurrencyToExchange = code
		return next, nil
	}
	return s, fmt.Errorf("%w: unsupported action %T", ErrInvalidState, a)
}

// CheckAdd reports whether d could be added to s, without fetching rates.
func CheckAdd(s State, d models.Draft) error {
	if s.Editor {
		return fmt.Errorf("%w: cannot add while editing expense %d", ErrInvalidState, s.IDToEdit)
	}
	return validate(s, d)
}

func validate(s State, d models.Draft) error {
	var problems []string
	if v, err := decimal.NewFromString(strings.TrimSpace(d.Value)); err != nil || !v.IsPositive() {
		problems = append(problems, fmt.Sprintf("value %q is not a positive number", d.Value))
	}
	if !s.selectable(d.Currency) {
		problems = append(problems, fmt.Sprintf("currency %q is not available", d.Currency))
	}
	if !d.Method.Valid() {
		problems = append(problems, fmt.Sprintf("method %q is not supported", d.Method))
	}
	if !d.Tag.Valid() {
		problems = append(problems, fmt.Sprintf("tag %q is not supported", d.Tag))
	}
	if strings.TrimSpace(d.Description) == "" {
		problems = append(problems, "description is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func newExpense(id int, d models.Draft, rates models.RateSnapshot) models.Expense {
	return models.Expense{
		ID:            id,
		Value:         d.Value,
		Currency:      d.Currency,
		Method:        d.Method,
		Tag:           d.Tag,
		Description:   d.Description,
		ExchangeRates: rates,
	}
}
