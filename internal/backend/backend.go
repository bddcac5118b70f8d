// Package backend provides the recommendation service collaborators consumed
// by the session controller.
package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Request is one recommendation request.
type Request struct {
	// ID correlates logs and backend calls; sent as X-Request-ID.
	ID    string   `json:"-"`
	Query string   `json:"query"`
	Tags  []string `json:"tags"`
}

// Payload is the raw body of a successful recommendation response.
// Validation is left to the sanitizer.
type Payload []byte

// Backend produces recommendations.
type Backend interface {
	Recommend(ctx context.Context, req Request) (Payload, error)
}

// Func adapts a plain function to the Backend interface.
type Func func(ctx context.Context, req Request) (Payload, error)

// Recommend calls f.
func (f Func) Recommend(ctx context.Context, req Request) (Payload, error) {
	return f(ctx, req)
}

// TransportError reports a failed call: network failure, non-2xx status or
// an unreadable body.
type TransportError struct {
	// StatusCode is zero when no HTTP response was received.
	StatusCode int
	// Message is the user-presentable message supplied by the backend, if any.
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return "backend unreachable: " + e.Err.Error()
	default:
		return "backend call failed"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// HelloResponse is the body of the diagnostic /hello endpoint.
type HelloResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
