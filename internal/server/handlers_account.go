package server

import (
	"net/http"

	"github.com/bobmcallan/moneta/internal/common"
)

// handleRegister handles POST /api/account/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Identity.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
	})
}

// handleVerifyEmail handles GET /api/account/verify-email?userId=&token=.
func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := r.URL.Query().Get("userId")
	token := r.URL.Query().Get("token")
	if userID == "" || token == "" {
		WriteError(w, http.StatusBadRequest, "userId and token are required")
		return
	}

	if err := s.app.Identity.VerifyEmail(r.Context(), userID, token); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "email confirmed"})
}

// handleLogin handles POST /api/account/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	token, user, err := s.app.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// handleLogout handles POST /api/account/logout. Tokens are stateless;
// the client discards its copy.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	id := common.IdentityFromContext(r.Context())
	s.logger.Info().Str("user_id", id.UserID).Msg("User signed out")
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// handleChangePassword handles POST /api/account/change-password.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	id := common.IdentityFromContext(r.Context())
	if err := s.app.Identity.ChangePassword(r.Context(), id.Email, req.NewPassword); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
