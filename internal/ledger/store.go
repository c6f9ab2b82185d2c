package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"expense-wallet/internal/models"
	"expense-wallet/internal/rates"
)

// Observer is notified after every successful transition.
type Observer func(prev, next State, a Action)

// Store owns the current State. All transitions go through it and never
// interleave.
type Store struct {
	provider rates.Provider
	logger   *slog.Logger

	// dispatch serializes transitions, including the provider wait of
	// AddExpense.
	dispatch sync.Mutex

	mu        sync.RWMutex
	state     State
	observers []Observer
}

// NewStore creates a store holding initial.
func NewStore(initial State, provider rates.Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		provider: provider,
		logger:   logger,
		state:    initial.Clone(),
	}
}

// Subscribe registers o to be called after every transition.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// State returns the current state. The result must not be modified.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a to the current state.
func (s *Store) Dispatch(a Action) (State, error) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()
	return s.apply(a)
}

// apply must be called with the dispatch lock held.
func (s *Store) apply(a Action) (State, error) {
	prev := s.State()
	next, err := Apply(prev, a)
	if err != nil {
		s.logger.Debug("action rejected", "action", fmt.Sprintf("%T", a), "error", err)
		return prev, err
	}

	s.mu.Lock()
	s.state = next
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o(prev, next, a)
	}
	return next, nil
}

// AddExpense fetches a fresh rates snapshot and appends d with it.
// While the provider call is pending readers keep seeing the previous
// state. A provider failure leaves the state unchanged.
func (s *Store) AddExpense(ctx context.Context, d models.Draft) (models.Expense, error) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	if err := CheckAdd(s.State(), d); err != nil {
		return models.Expense{}, err
	}

	snapshot, err := s.provider.FetchRates(ctx)
	if err != nil {
		if !errors.Is(err, rates.ErrProvider) {
			err = fmt.Errorf("%w: %v", rates.ErrProvider, err)
		}
		s.logger.Warn("add expense aborted", "error", err)
		return models.Expense{}, err
	}

	next, err := s.apply(CommitExpense{Draft: d, Rates: snapshot})
	if err != nil {
		return models.Expense{}, err
	}
	e := next.Expenses[len(next.Expenses)-1]
	s.logger.Info("expense added", "id", e.ID, "currency", e.Currency, "value", e.Value)
	return e, nil
}

// LoadCurrencies refreshes the selectable currency list from the provider.
func (s *Store) LoadCurrencies(ctx context.Context) ([]string, error) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	if _, err := s.apply(StartFetchCurrencies{}); err != nil {
		return nil, err
	}
	codes, err := s.provider.FetchCurrencies(ctx)
	if err != nil {
		if _, ferr := s.apply(FailFetchCurrencies{}); ferr != nil {
			s.logger.Error("cannot clear fetching flag", "error", ferr)
		}
		return nil, err
	}
	next, err := s.apply(ReceiveCurrencies{Codes: codes})
	if err != nil {
		return nil, err
	}
	return next.Currencies, nil
}
