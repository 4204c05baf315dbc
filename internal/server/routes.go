package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/moneta/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Account lifecycle
	mux.HandleFunc("/api/account/register", s.handleRegister)
	mux.HandleFunc("/api/account/verify-email", s.handleVerifyEmail)
	mux.HandleFunc("/api/account/login", s.handleLogin)
	mux.HandleFunc("/api/account/logout", s.requireIdentity(s.handleLogout))
	mux.HandleFunc("/api/account/change-password", s.requireIdentity(s.handleChangePassword))

	// Finance accounts
	mux.HandleFunc("/api/financeAccounts/user/", s.requireIdentity(s.handleAccountsByUser))
	mux.HandleFunc("/api/financeAccounts/", s.requireIdentity(s.routeAccounts))
	mux.HandleFunc("/api/financeAccounts", s.requireIdentity(s.handleAccountsRoot))

	// Transactions
	mux.HandleFunc("/api/transactions/account/", s.requireIdentity(s.handleTransactionsByAccount))
	mux.HandleFunc("/api/transactions/", s.requireIdentity(s.routeTransactions))
	mux.HandleFunc("/api/transactions", s.requireIdentity(s.handleTransactionsRoot))

	// Budgets, goals, investments
	mux.HandleFunc("/api/budgets/", s.requireIdentity(s.routeBudgets))
	mux.HandleFunc("/api/budgets", s.requireIdentity(s.handleBudgetsRoot))
	mux.HandleFunc("/api/goals/", s.requireIdentity(s.routeGoals))
	mux.HandleFunc("/api/goals", s.requireIdentity(s.handleGoalsRoot))
	mux.HandleFunc("/api/investments/", s.requireIdentity(s.routeInvestments))
	mux.HandleFunc("/api/investments", s.requireIdentity(s.handleInvestmentsRoot))

	// Role administration
	mux.HandleFunc("/api/roles/assign-role-to-user", s.requireRole("Admin", s.handleAssignRole))
	mux.HandleFunc("/api/roles/", s.requireRole("Admin", s.routeRoles))
	mux.HandleFunc("/api/roles", s.requireRole("Admin", s.handleRolesRoot))
}

// idFromPath pulls the trailing {id} from a collection sub-path, writing
// 404 when it is empty or nested deeper than one segment.
func idFromPath(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return "", false
	}
	return id, true
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
