package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cocktailnerd/internal/logging"

	"go.uber.org/zap"
)

const (
	recommendPath = "/recommend_cocktail"
	helloPath     = "/hello"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 1 << 20
)

// HTTPClient talks to the recommendation REST service.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Recommend posts the query and tags to /recommend_cocktail and returns the
// raw body of a 2xx response.
func (c *HTTPClient) Recommend(ctx context.Context, req Request) (Payload, error) {
	log := logging.Get(logging.CategoryAPI).With(zap.String("request_id", req.ID))

	// The service expects an array, never null.
	if req.Tags == nil {
		req.Tags = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+recommendPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	start := time.Now()
	log.Debug("POST "+recommendPath, zap.Int("tags", len(req.Tags)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn("recommend call failed", zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	log.Debug("recommend response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return Payload(data), nil
}

// Hello calls the diagnostic /hello endpoint.
func (c *HTTPClient) Hello(ctx context.Context) (HelloResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+helloPath, nil)
	if err != nil {
		return HelloResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return HelloResponse{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return HelloResponse{}, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return HelloResponse{}, &TransportError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	var hello HelloResponse
	if err := json.Unmarshal(data, &hello); err != nil {
		return HelloResponse{}, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid hello body: %w", err)}
	}
	return hello, nil
}

// errorMessage pulls a message out of a FastAPI ({"detail": ...}) or Flask
// ({"error": ...} / {"message": ...}) error body. Non-string details, such as
// FastAPI validation lists, are ignored.
func errorMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg = strings.TrimSpace(msg); msg != "" {
			return msg
		}
	}
	return ""
}
