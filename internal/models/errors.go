package models

// ErrorResponse is the flat wire error shape used by every endpoint:
// a machine-readable code plus a human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error codes carried on the wire. Clients branch on these, most notably
// registration_required during the passwordless auth flow.
const (
	ErrCodeEmailRequired        = "email_required"
	ErrCodeRegistrationRequired = "registration_required"
	ErrCodeUnauthorized         = "unauthorized"
	ErrCodeInvalidToken         = "invalid_token"
	ErrCodeInvalidCredentials   = "invalid_credentials"
	ErrCodeUserNotFound         = "user_not_found"
	ErrCodeRoomNotFound         = "room_not_found"
	ErrCodeRoomIDRequired       = "room_id_required"
	ErrCodeInvalidOverride      = "invalid_override"
	ErrCodeInvalidDate          = "invalid_date"
	ErrCodeRateLimited          = "rate_limited"
	ErrCodeInternal             = "internal_error"
)
