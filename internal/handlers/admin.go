package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/services"
)

type AdminHandler struct {
	roomsService *services.RoomsService
}

func NewAdminHandler(roomsService *services.RoomsService) *AdminHandler {
	return &AdminHandler{roomsService: roomsService}
}

// SetOverride handles PUT /admin/rooms/{roomId}/override. The body's
// override must be "open", "closed" or null; null clears the override.
func (h *AdminHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeRoomIDRequired,
			Message: "Room ID is required",
		})
		return
	}

	var req struct {
		Override *string `json:"override"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeInvalidOverride,
			Message: `Override must be "open", "closed", or null`,
		})
		return
	}

	if req.Override != nil && *req.Override != models.OverrideOpen && *req.Override != models.OverrideClosed {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeInvalidOverride,
			Message: `Override must be "open", "closed", or null`,
		})
		return
	}

	if err := h.roomsService.SetOverride(r.Context(), roomID, req.Override); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Override updated successfully",
		"roomId":  roomID,
	})
}

// SetSchedule handles PUT /admin/rooms/{roomId}/schedule. The openAt
// value must be RFC 3339.
func (h *AdminHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeRoomIDRequired,
			Message: "Room ID is required",
		})
		return
	}

	var req struct {
		OpenAt string `json:"openAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeInvalidDate,
			Message: "openAt must be an ISO-8601 timestamp",
		})
		return
	}

	openAt, err := time.Parse(time.RFC3339, req.OpenAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrCodeInvalidDate,
			Message: "openAt must be an ISO-8601 timestamp",
		})
		return
	}

	if err := h.roomsService.SetSchedule(r.Context(), roomID, openAt); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Schedule updated successfully",
		"roomId":  roomID,
	})
}
