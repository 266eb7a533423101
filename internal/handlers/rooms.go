package handlers

import (
	"net/http"

	"esenciafest-backend/internal/services"
)

type RoomsHandler struct {
	roomsService *services.RoomsService
}

func NewRoomsHandler(roomsService *services.RoomsService) *RoomsHandler {
	return &RoomsHandler{roomsService: roomsService}
}

// Status handles GET /rooms/status: the batched status of every room,
// no auth required. ?seed=true persists the registry defaults when the
// table is empty.
func (h *RoomsHandler) Status(w http.ResponseWriter, r *http.Request) {
	seed := r.URL.Query().Get("seed") == "true"

	statuses, err := h.roomsService.Status(r.Context(), seed)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statuses)
}
