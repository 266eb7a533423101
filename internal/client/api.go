package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"esenciafest-backend/internal/models"
)

// APIError is a decoded error response from the backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsRegistrationRequired reports whether the error is the passwordless
// flow's "unknown email, send profile fields" branch.
func IsRegistrationRequired(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == models.ErrCodeRegistrationRequired
}

// APIClient talks to the backend's REST boundary. Reads retry with
// backoff; the progress write does not retry on its own, the tracker
// owns that policy.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenStore

	maxRetries int
	backoff    time.Duration
}

func NewAPIClient(baseURL string, tokens *TokenStore) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		maxRetries: 3,
		backoff:    250 * time.Millisecond,
	}
}

// RoomStatuses fetches the batched status of all rooms. No auth.
func (c *APIClient) RoomStatuses(ctx context.Context) (models.StatusMap, error) {
	var statuses models.StatusMap
	if err := c.doRetry(ctx, http.MethodGet, "/rooms/status", nil, false, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// Progress fetches the authenticated user's completed room ids.
func (c *APIClient) Progress(ctx context.Context) ([]string, error) {
	var resp models.ProgressResponse
	if err := c.doRetry(ctx, http.MethodGet, "/user/progress", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Progress, nil
}

// MarkProgress records a room completion. Single attempt: the caller
// decides whether a failed write should be retried.
func (c *APIClient) MarkProgress(ctx context.Context, roomID string) (*models.MarkProgressResponse, error) {
	var resp models.MarkProgressResponse
	if err := c.do(ctx, http.MethodPut, "/user/progress/"+roomID, nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Authenticate performs the passwordless login/registration exchange.
func (c *APIClient) Authenticate(ctx context.Context, req models.AuthRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteUser removes the authenticated user's profile.
func (c *APIClient) DeleteUser(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user/delete", nil, true, nil)
}

func (c *APIClient) doRetry(ctx context.Context, method, path string, body interface{}, auth bool, out interface{}) error {
	var lastErr error
	delay := c.backoff

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		err := c.do(ctx, method, path, body, auth, out)
		if err == nil {
			return nil
		}
		lastErr = err

		// Client errors are definitive, only transport and server
		// failures are worth another attempt.
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode < 500 {
			return err
		}
	}

	return lastErr
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, auth bool, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth {
		token := c.tokens.Token()
		if token == "" {
			return &APIError{StatusCode: http.StatusUnauthorized, Code: models.ErrCodeUnauthorized, Message: "No authentication token"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var wireErr models.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&wireErr); decodeErr != nil || wireErr.Error == "" {
			return &APIError{StatusCode: resp.StatusCode, Code: models.ErrCodeInternal, Message: resp.Status}
		}
		return &APIError{StatusCode: resp.StatusCode, Code: wireErr.Error, Message: wireErr.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
