package services

// Typed service errors. Handlers map each type to an HTTP status and put
// Code on the wire as the error field.

type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct {
	Code    string
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// RegistrationRequiredError signals the passwordless flow's branch: the
// email is unknown and the caller must supply registration fields.
type RegistrationRequiredError struct{}

func (e *RegistrationRequiredError) Error() string {
	return "User not found, please provide name, lastname, country and negocio"
}
