package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Error is returned by every Client call that fails, whether the request
// never completed (Err set) or the server rejected it (StatusCode/Message set).
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the text meant for the user: the server's own message when
// there is one, otherwise the error string.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func statusError(op string, resp *resty.Response) error {
	return &Error{Op: op, StatusCode: resp.StatusCode(), Message: serverMessage(resp)}
}

// serverMessage pulls "error" or "message" out of a JSON body, falling back
// to the raw body and then to the status text.
func serverMessage(resp *resty.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if s := strings.TrimSpace(resp.String()); s != "" && len(s) <= 200 && !strings.HasPrefix(s, "{") {
		return s
	}
	return resp.Status()
}
