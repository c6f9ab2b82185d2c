// Package ledger holds the wallet state and the transitions that change it.
//
// State values are never mutated in place: Apply returns a new State that
// shares no mutable storage with its input. Store owns the current value and
// serializes every transition through Dispatch.
package ledger

import (
	"slices"

	"expense-wallet/internal/currency"
	"expense-wallet/internal/models"
)

// State is a snapshot of the whole application.
type State struct {
	User               models.User      `json:"user"`
	Currencies         []string         `json:"currencies"`
	CurrencyToExchange string           `json:"currencyToExchange"`
	Editor             bool             `json:"editor"`
	IDToEdit           int              `json:"idToEdit"`
	IsFetching         bool             `json:"isFetching"`
	Expenses           []models.Expense `json:"expenses"`
	NextID             int              `json:"nextId"`
}

// NewState returns the state of a fresh session.
func NewState() State {
	return State{
		Currencies:         []string{},
		CurrencyToExchange: currency.Base,
		Expenses:           []models.Expense{},
	}
}

// Restore returns a fresh state seeded with persisted data. A nextID lower
// than any restored id is raised so ids are never reused.
func Restore(user models.User, expenses []models.Expense, nextID int) State {
	s := NewState()
	s.User = user
	s.Expenses = cloneExpenses(expenses)
	for _, e := range s.Expenses {
		if e.ID >= nextID {
			nextID = e.ID + 1
		}
	}
	s.NextID = nextID
	return s
}

// Find returns the index of the expense with the given id, or -1.
func (s State) Find(id int) int {
	return slices.IndexFunc(s.Expenses, func(e models.Expense) bool { return e.ID == id })
}

// Expense returns the expense with the given id.
func (s State) Expense(id int) (models.Expense, bool) {
	i := s.Find(id)
	if i < 0 {
		return models.Expense{}, false
	}
	return s.Expenses[i], true
}

// LoggedIn reports whether a user email is set.
func (s State) LoggedIn() bool {
	return s.User.Email != ""
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.Currencies = slices.Clone(s.Currencies)
	c.Expenses = cloneExpenses(s.Expenses)
	return c
}

func cloneExpenses(in []models.Expense) []models.Expense {
	out := make([]models.Expense, len(in))
	for i, e := range in {
		e.ExchangeRates = e.ExchangeRates.Clone()
		out[i] = e
	}
	return out
}

// selectable reports whether code may be used as an expense currency.
func (s State) selectable(code string) bool {
	return slices.Contains(s.Currencies, code)
}
