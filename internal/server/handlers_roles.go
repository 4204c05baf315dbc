package server

import (
	"net/http"
)

// handleRolesRoot handles GET/POST /api/roles.
func (s *Server) handleRolesRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		roles, err := s.app.Identity.ListRoles(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, roles)

	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		role, err := s.app.Identity.CreateRole(r.Context(), req.Name)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		w.Header().Set("Location", "/api/roles/"+role.ID)
		WriteJSON(w, http.StatusCreated, role)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeRoles handles GET/PUT/DELETE /api/roles/{id}.
func (s *Server) routeRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(w, r, "/api/roles/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		role, err := s.app.Identity.GetRole(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, role)

	case http.MethodPut:
		var req struct {
			Name string `json:"name"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		role, err := s.app.Identity.UpdateRole(r.Context(), id, req.Name)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, role)

	case http.MethodDelete:
		if err := s.app.Identity.DeleteRole(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleAssignRole handles POST /api/roles/assign-role-to-user.
func (s *Server) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UserID   string `json:"userId"`
		RoleName string `json:"roleName"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.Identity.AssignRole(r.Context(), req.UserID, req.RoleName); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "role assigned"})
}
