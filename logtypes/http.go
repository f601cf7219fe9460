package logtypes

import (
	"context"
	"fmt"
)

// HTTPRequest is the normalized request an HTTPAdapter sends.
// Body is encoded by the adapter; a []byte or string is sent as is.
type HTTPRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    any               `json:"body,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
}

// HTTPResponse is the normalized response an HTTPAdapter returns.
// Data holds the decoded body when the adapter could decode it, or the raw bytes.
type HTTPResponse struct {
	Status  int               `json:"status"`
	Data    any               `json:"data,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// HTTPError is returned by an HTTPAdapter when a request fails.
// Response is nil when no response was received.
type HTTPError struct {
	Request  HTTPRequest
	Response *HTTPResponse
	Err      error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}

	target := e.Request.Method + " " + e.Request.URL

	switch {
	case e.Response != nil && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", target, e.Response.Status, e.Err)
	case e.Response != nil:
		return fmt.Sprintf("%s: status %d", target, e.Response.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", target, e.Err)
	default:
		return target + ": request failed"
	}
}

func (e *HTTPError) Unwrap() error { return e.Err }

// ErrorName implements Named.
func (e *HTTPError) ErrorName() string { return "HTTPError" }

// HTTPAdapter is the capability set of an HTTP client library.
// Non-2xx responses are returned as *HTTPError carrying the response.
type HTTPAdapter interface {
	Request(ctx context.Context, req HTTPRequest) (*HTTPResponse, error)
}
