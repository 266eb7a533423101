package handlers

import (
	"net/http"

	"esenciafest-backend/internal/middleware"
	"esenciafest-backend/internal/services"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Delete handles DELETE /user/delete: removes the authenticated user's
// profile along with progress and activity.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())

	if err := h.authService.DeleteUser(r.Context(), email); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
