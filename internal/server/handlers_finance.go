package server

import (
	"net/http"

	"github.com/bobmcallan/moneta/internal/models"
)

// --- Finance accounts ---

// handleAccountsRoot handles GET/POST /api/financeAccounts.
func (s *Server) handleAccountsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := s.app.Finance.ListAccounts(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, accounts)

	case http.MethodPost:
		var account models.FinanceAccount
		if !DecodeJSON(w, r, &account) {
			return
		}
		if err := s.app.Finance.CreateAccount(r.Context(), &account); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.Header().Set("Location", "/api/financeAccounts/"+account.ID)
		WriteJSON(w, http.StatusCreated, account)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeAccounts handles GET/PUT/DELETE /api/financeAccounts/{id}.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(w, r, "/api/financeAccounts/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		account, err := s.app.Finance.GetAccount(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, account)

	case http.MethodPut:
		var account models.FinanceAccount
		if !DecodeJSON(w, r, &account) {
			return
		}
		account.ID = id
		if err := s.app.Finance.UpdateAccount(r.Context(), &account); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, account)

	case http.MethodDelete:
		if err := s.app.Finance.DeleteAccount(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleAccountsByUser handles GET /api/financeAccounts/user/{userId}.
func (s *Server) handleAccountsByUser(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := PathParam(r, "/api/financeAccounts/user/", "")
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "userId is required in path")
		return
	}

	accounts, err := s.app.Finance.ListAccountsByUser(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, accounts)
}

// --- Transactions ---

// handleTransactionsRoot handles GET/POST /api/transactions.
func (s *Server) handleTransactionsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.app.Finance.ListTransactions(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, txs)

	case http.MethodPost:
		var tx models.Transaction
		if !DecodeJSON(w, r, &tx) {
			return
		}
		if err := s.app.Finance.CreateTransaction(r.Context(), &tx); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.Header().Set("Location", "/api/transactions/"+tx.ID)
		WriteJSON(w, http.StatusCreated, tx)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeTransactions handles GET/PUT/DELETE /api/transactions/{id}.
func (s *Server) routeTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(w, r, "/api/transactions/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.app.Finance.GetTransaction(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, tx)

	case http.MethodPut:
		var tx models.Transaction
		if !DecodeJSON(w, r, &tx) {
			return
		}
		tx.ID = id
		if err := s.app.Finance.UpdateTransaction(r.Context(), &tx); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, tx)

	case http.MethodDelete:
		if err := s.app.Finance.DeleteTransaction(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleTransactionsByAccount handles GET /api/transactions/account/{accountId}.
func (s *Server) handleTransactionsByAccount(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	accountID := PathParam(r, "/api/transactions/account/", "")
	if accountID == "" {
		WriteError(w, http.StatusBadRequest, "accountId is required in path")
		return
	}

	txs, err := s.app.Finance.ListTransactionsByAccount(r.Context(), accountID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txs)
}
