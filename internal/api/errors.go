package api

import (
	"errors"
	"fmt"

	"bvapi/internal/models"
	"bvapi/pkg/attrmap"
)

// Client errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrAPIError             = errors.New("api reported an error")
	ErrNoEncodingKey        = errors.New("encoding key is not configured")
	ErrResponseTooLarge     = errors.New("response body exceeds size limit")
)

// Defaults used when an error response omits its details.
const (
	UnknownErrorCode    = "UNKNOWN"
	UnknownErrorMessage = "Unknown error"
)

// StatusError is returned for any non-200 HTTP response.
type StatusError struct {
	URL        string
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d for %s", ErrUnexpectedStatusCode, e.StatusCode, e.URL)
}

// Unwrap lets callers match ErrUnexpectedStatusCode.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatusCode
}

// APIError is returned when a response envelope reports HasErrors.
type APIError struct {
	Response attrmap.Map
	Code     string
	Message  string
	URL      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s %q for %s", ErrAPIError, e.Code, e.Message, e.URL)
}

// Unwrap lets callers match ErrAPIError.
func (e *APIError) Unwrap() error {
	return ErrAPIError
}

// newAPIError reads the error details from either the Error object or the first
// element of the Errors list.
func newAPIError(resp attrmap.Map, url string) *APIError {
	details := resp.GetMap(models.FieldError)
	if details == nil {
		if list := resp.GetList(models.FieldErrors); len(list) > 0 {
			details, _ = list[0].(attrmap.Map)
		}
	}

	code := details.GetString(models.FieldCode)
	if code == "" {
		code = UnknownErrorCode
	}

	message := details.GetString(models.FieldMessage)
	if message == "" {
		message = UnknownErrorMessage
	}

	return &APIError{
		Response: resp,
		Code:     code,
		Message:  message,
		URL:      url,
	}
}
