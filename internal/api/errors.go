package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

const genericMessage = "Something went wrong. Please try again."

// Error is returned for transport failures (Status 0) and non-2xx responses.
type Error struct {
	Status    int
	Message   string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return genericMessage
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from err. It is 0 for transport failures
// and for errors that did not come from the backend.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type errorBody struct {
	Error   any    `json:"error"`
	Message string `json:"message"`
}

func errorFromResponse(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode, Message: genericMessage}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}
	switch v := body.Error.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			apiErr.Message = v
			return apiErr
		}
	case map[string]any:
		if msg, ok := v["message"].(string); ok && strings.TrimSpace(msg) != "" {
			apiErr.Message = msg
			return apiErr
		}
	}
	if strings.TrimSpace(body.Message) != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}

// Message returns the user-facing text for err: the server-provided message when err
// came from the backend, otherwise err's own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
