package server

import (
	"net/http"

	"github.com/bobmcallan/moneta/internal/models"
)

// --- Budgets ---

// handleBudgetsRoot handles GET/POST /api/budgets.
func (s *Server) handleBudgetsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budgets, err := s.app.Finance.ListBudgets(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, budgets)

	case http.MethodPost:
		var budget models.Budget
		if !DecodeJSON(w, r, &budget) {
			return
		}
		if err := s.app.Finance.CreateBudget(r.Context(), &budget); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.Header().Set("Location", "/api/budgets/"+budget.ID)
		WriteJSON(w, http.StatusCreated, budget)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeBudgets handles GET/PUT/DELETE /api/budgets/{id}.
func (s *Server) routeBudgets(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(w, r, "/api/budgets/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		budget, err := s.app.Finance.GetBudget(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, budget)

	case http.MethodPut:
		var budget models.Budget
		if !DecodeJSON(w, r, &budget) {
			return
		}
		budget.ID = id
		if err := s.app.Finance.UpdateBudget(r.Context(), &budget); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, budget)

	case http.MethodDelete:
		if err := s.app.Finance.DeleteBudget(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// --- Goals ---

// handleGoalsRoot handles GET/POST /api/goals.
func (s *Server) handleGoalsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goals, err := s.app.Finance.ListGoals(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, goals)

	case http.MethodPost:
		var goal models.Goal
		if !DecodeJSON(w, r, &goal) {
			return
		}
		if err := s.app.Finance.CreateGoal(r.Context(), &goal); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.Header().Set("Location", "/api/goals/"+goal.ID)
		WriteJSON(w, http.StatusCreated, goal)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeGoals handles GET/PUT/DELETE /api/goals/{id}.
func (s *Server) routeGoals(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(w, r, "/api/goals/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		goal, err := s.app.Finance.GetGoal(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, goal)

	case http.MethodPut:
		var goal models.Goal
		if !DecodeJSON(w, r, &goal) {
			return
		}
		goal.ID = id
		if err := s.app.Finance.UpdateGoal(r.Context(), &goal); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, goal)

	case http.MethodDelete:
		if err := s.app.Finance.DeleteGoal(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// --- Investments ---

// handleInvestmentsRoot handles GET/POST /api/investments.
func (s *Server) handleInvestmentsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		investments, err := s.app.Finance.ListInvestments(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, investments)

	case http.MethodPost:
		var inv models.Investment
		if !DecodeJSON(w, r, &inv) {
			return
		}
		if err := s.app.Finance.CreateInvestment(r.Context(), &inv); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.Header().Set("Location", "/api/investments/"+inv.ID)
		WriteJSON(w, http.StatusCreated, inv)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeInvestments handles GET/PUT/DELETE /api/investments/{id}.
func (s *Server) routeInvestments(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(w, r, "/api/investments/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		inv, err := s.app.Finance.GetInvestment(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, inv)

	case http.MethodPut:
		var inv models.Investment
		if !DecodeJSON(w, r, &inv) {
			return
		}
		inv.ID = id
		if err := s.app.Finance.UpdateInvestment(r.Context(), &inv); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, inv)

	case http.MethodDelete:
		if err := s.app.Finance.DeleteInvestment(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
