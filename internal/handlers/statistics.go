package handlers

import (
	"net/http"

	"expense-wallet/internal/currency"
	"expense-wallet/internal/ledger"
	"expense-wallet/internal/models"
)

// StatsTagItem represents a tag with its spending statistics.
type StatsTagItem struct {
	Tag        models.Tag `json:"tag"`
	Total      string     `json:"total"`
	Formatted  string     `json:"formatted"`
	Count      int        `json:"count"`
	Percentage string     `json:"percentage"`
}

// StatsView is the data of the statistics page.
type StatsView struct {
	Currency string         `json:"currency"`
	Total    string         `json:"total"`
	Count    int            `json:"count"`
	Tags     []StatsTagItem `json:"tags"`
	Skipped  string         `json:"skipped,omitempty"`
}

// Statistics renders the per-tag totals in the display currency.
// The currency query parameter overrides the selected display currency
// for this request only.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	s := h.store.State()
	target := s.CurrencyToExchange
	if q := r.URL.Query().Get("currency"); q != "" {
		target = q
	}

	totals, err := ledger.TagTotals(s.Expenses, target)
	view := StatsView{
		Currency: target,
		Tags:     make([]StatsTagItem, 0, len(totals)),
	}
	if err != nil {
		view.Skipped = err.Error()
	}

	sum, _ := ledger.Total(s.Expenses, target)
	view.Total = sum.StringFixed(currency.DisplayPlaces)
	for _, t := range totals {
		view.Count += t.Count
		view.Tags = append(view.Tags, StatsTagItem{
			Tag:        t.Tag,
			Total:      t.Total.StringFixed(currency.DisplayPlaces),
			Formatted:  currency.Format(t.Total, target),
			Count:      t.Count,
			Percentage: t.Percentage.StringFixed(1),
		})
	}

	h.writeJSON(w, http.StatusOK, view)
}
