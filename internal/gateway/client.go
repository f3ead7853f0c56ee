// Package gateway talks to the remote send endpoint. A send is a single
// POST of the JSON-encoded record; there is no queue and no retry. A
// failed send leaves the record as a draft for the user to try again.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sk-py/maildraft/internal/model"
)

// NetworkError reports a transport-level failure: the gateway could not
// be reached at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DeliveryError reports that the gateway was reachable but rejected the
// send. Message is the gateway-provided or status-derived explanation.
type DeliveryError struct {
	StatusCode int
	Message    string
}

func (e *DeliveryError) Error() string { return e.Message }

// Client is a thin HTTP client for the send endpoint.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a send client for the given endpoint URL. The token
// is optional; when set it is passed as a Bearer credential.
func NewClient(url, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:   strings.TrimSpace(url),
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Send delivers one record. The caller passes the outgoing payload with
// status already set to sent and the timestamp refreshed. Returns nil on
// any 2xx response, a *DeliveryError on a rejection, and a *NetworkError
// when no response arrived at all.
func (c *Client) Send(ctx context.Context, rec model.MailRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record %s: %w", rec.ID, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.url, bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("creating send request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &NetworkError{Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{
			StatusCode: resp.StatusCode,
			Message:    deliveryMessage(resp.StatusCode, respBody),
		}
	}

	// The body is informational only. The server sometimes returns
	// plain text; a parse failure does not fail the send.
	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err == nil {
		c.logger.Debug("send accepted", "record", rec.ID, "response", parsed)
	} else {
		c.logger.Debug("send accepted, non-JSON response",
			"record", rec.ID, "body", string(respBody))
	}

	return nil
}

// deliveryMessage extracts the failure explanation from an error
// response: a JSON {"message": ...} field if present, otherwise the raw
// body text, otherwise a message synthesized from the status code.
func deliveryMessage(statusCode int, body []byte) string {
	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		return errBody.Message
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return fmt.Sprintf("server responded with status: %d", statusCode)
}
