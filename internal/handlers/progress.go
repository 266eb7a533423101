package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"esenciafest-backend/internal/middleware"
	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Get handles GET /user/progress.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())

	progress, err := h.progressService.Get(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ProgressResponse{Progress: progress})
}

// Mark handles PUT /user/progress/{roomId}.
func (h *ProgressHandler) Mark(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())

	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeRoomIDRequired,
			Message: "Room ID is required",
		})
		return
	}

	if err := h.progressService.Mark(r.Context(), email, roomID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MarkProgressResponse{
		Message: "Progress updated successfully",
		RoomID:  roomID,
	})
}
