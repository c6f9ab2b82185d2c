package handlers

import "net/http"

// Routes registers every wallet endpoint on a new mux.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/wallet", http.StatusFound)
	})
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /currencies", h.Currencies)

	protected := func(f http.HandlerFunc) http.Handler { return h.RequireLogin(f) }
	mux.Handle("GET /wallet", protected(h.Wallet))
	mux.Handle("PUT /currency", protected(h.SetDisplayCurrency))
	mux.Handle("GET /statistics", protected(h.Statistics))
	mux.Handle("POST /expenses", protected(h.CreateExpense))
	mux.Handle("PUT /expenses/{id}", protected(h.UpdateExpense))
	mux.Handle("DELETE /expenses/{id}", protected(h.DeleteExpense))
	mux.Handle("POST /expenses/{id}/edit", protected(h.BeginEdit))
	mux.Handle("DELETE /expenses/{id}/edit", protected(h.CancelEdit))

	return mux
}
