package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/services"
)

func withRoomID(req *http.Request, roomID string) *http.Request {
	rctx := chi.NewRouteContext()
	if roomID != "" {
		rctx.URLParams.Add("roomId", roomID)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp
}

func TestSetOverride_Validation(t *testing.T) {
	handler := NewAdminHandler(nil)

	tests := []struct {
		name         string
		roomID       string
		body         string
		expectedCode string
	}{
		{"missing room id", "", `{"override":"open"}`, models.ErrCodeRoomIDRequired},
		{"invalid override value", "sala1", `{"override":"maybe"}`, models.ErrCodeInvalidOverride},
		{"malformed body", "sala1", `{override`, models.ErrCodeInvalidOverride},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/admin/rooms/x/override", strings.NewReader(tc.body))
			req = withRoomID(req, tc.roomID)
			rr := httptest.NewRecorder()

			handler.SetOverride(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rr.Code)
			}
			if resp := decodeError(t, rr); resp.Error != tc.expectedCode {
				t.Errorf("Expected code %q, got %q", tc.expectedCode, resp.Error)
			}
		})
	}
}

func TestSetSchedule_Validation(t *testing.T) {
	handler := NewAdminHandler(nil)

	tests := []struct {
		name         string
		roomID       string
		body         string
		expectedCode string
	}{
		{"missing room id", "", `{"openAt":"2025-08-18T10:00:00Z"}`, models.ErrCodeRoomIDRequired},
		{"not a timestamp", "sala1", `{"openAt":"mañana"}`, models.ErrCodeInvalidDate},
		{"empty openAt", "sala1", `{}`, models.ErrCodeInvalidDate},
		{"malformed body", "sala1", `{openAt`, models.ErrCodeInvalidDate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/admin/rooms/x/schedule", strings.NewReader(tc.body))
			req = withRoomID(req, tc.roomID)
			rr := httptest.NewRecorder()

			handler.SetSchedule(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rr.Code)
			}
			if resp := decodeError(t, rr); resp.Error != tc.expectedCode {
				t.Errorf("Expected code %q, got %q", tc.expectedCode, resp.Error)
			}
		})
	}
}

func TestHandleServiceError_Mapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"validation", &services.ValidationError{Code: models.ErrCodeEmailRequired, Message: "Email is required"}, http.StatusBadRequest, models.ErrCodeEmailRequired},
		{"registration required", &services.RegistrationRequiredError{}, http.StatusBadRequest, models.ErrCodeRegistrationRequired},
		{"not found", &services.NotFoundError{Code: models.ErrCodeRoomNotFound, Message: "Room not found"}, http.StatusNotFound, models.ErrCodeRoomNotFound},
		{"unauthorized", &services.UnauthorizedError{Code: models.ErrCodeInvalidCredentials, Message: "Invalid credentials"}, http.StatusUnauthorized, models.ErrCodeInvalidCredentials},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError, models.ErrCodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleServiceError(rr, tc.err)

			if rr.Code != tc.expectedStatus {
				t.Fatalf("Expected %d, got %d", tc.expectedStatus, rr.Code)
			}
			if resp := decodeError(t, rr); resp.Error != tc.expectedCode {
				t.Errorf("Expected code %q, got %q", tc.expectedCode, resp.Error)
			}
		})
	}
}

func TestHandleServiceError_RegistrationRequiredMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	handleServiceError(rr, &services.RegistrationRequiredError{})

	resp := decodeError(t, rr)
	if !strings.Contains(resp.Message, "name, lastname, country and negocio") {
		t.Errorf("Expected registration prompt listing the profile fields, got %q", resp.Message)
	}
}
