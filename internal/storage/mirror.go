package storage

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"expense-wallet/internal/ledger"
	"expense-wallet/internal/models"
)

// Keys under which the wallet is persisted.
const (
	KeyEmail    = "email"
	KeyExpenses = "expenses"
	KeyNextID   = "next_id"
)

// Mirror copies the committed parts of the wallet state to a DB.
type Mirror struct {
	db     *DB
	logger *slog.Logger
}

// NewMirror creates a mirror writing to db.
func NewMirror(db *DB, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{db: db, logger: logger}
}

// Restore returns the initial state of a session: the persisted user and
// expenses when both are present and readable, defaults otherwise.
func (m *Mirror) Restore() ledger.State {
	email, okEmail, err := m.db.Get(KeyEmail)
	if err != nil {
		m.logger.Warn("cannot read stored email", "error", err)
		return ledger.NewState()
	}
	raw, okExpenses, err := m.db.Get(KeyExpenses)
	if err != nil {
		m.logger.Warn("cannot read stored expenses", "error", err)
		return ledger.NewState()
	}
	if !okEmail || !okExpenses {
		return ledger.NewState()
	}

	var expenses []models.Expense
	if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
		m.logger.Warn("ignoring malformed stored expenses", "error", err)
		return ledger.NewState()
	}

	nextID := 0
	if v, ok, err := m.db.Get(KeyNextID); err == nil && ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			nextID = n
		}
	}

	m.logger.Debug("restored wallet", "email", email, "expenses", len(expenses))
	return ledger.Restore(models.User{Email: email}, expenses, nextID)
}

// Observe is a ledger.Observer writing the state after every committing
// action. Write failures are logged and dropped; the in-memory state stays.
func (m *Mirror) Observe(_, next ledger.State, a ledger.Action) {
	if !ledger.Commits(a) {
		return
	}
	if err := m.Save(next); err != nil {
		m.logger.Warn("cannot persist wallet", "error", err)
	}
}

// Save writes the email, expenses and id counter of s.
func (m *Mirror) Save(s ledger.State) error {
	expenses := s.Expenses
	if expenses == nil {
		expenses = []models.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		return err
	}
	return m.db.PutAll(map[string]string{
		KeyEmail:    s.User.Email,
		KeyExpenses: string(raw),
		KeyNextID:   strconv.Itoa(s.NextID),
	})
}
