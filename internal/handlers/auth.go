package handlers

import (
	"encoding/json"
	"net/http"

	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Authenticate handles POST /auth: login with a known email, or register
// when the profile fields are included.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeEmailRequired,
			Message: "Invalid request body",
		})
		return
	}

	resp, err := h.authService.Authenticate(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AdminLogin handles POST /admin/login.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeInvalidCredentials,
			Message: "Invalid request body",
		})
		return
	}

	resp, err := h.authService.AdminLogin(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: e.Code, Message: e.Message})
	case *services.RegistrationRequiredError:
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeRegistrationRequired,
			Message: e.Error(),
		})
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: e.Code, Message: e.Message})
	case *services.UnauthorizedError:
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: e.Code, Message: e.Message})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   models.ErrCodeInternal,
			Message: "Internal server error",
		})
	}
}
