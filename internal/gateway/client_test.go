package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sk-py/maildraft/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() model.MailRecord {
	return model.MailRecord{
		ID:        "1738000000000",
		To:        "you@example.com",
		Subject:   "hello",
		Body:      "hi there",
		Timestamp: "1/27/2026",
		Status:    model.StatusSent,
	}
}

func TestSendSuccess(t *testing.T) {
	var gotBody model.MailRecord
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"queued"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second, testLogger())
	err := c.Send(context.Background(), testRecord())
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", gotHeaders.Get("Authorization"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-Id"))
	assert.Equal(t, "you@example.com", gotBody.To)
	assert.Equal(t, model.StatusSent, gotBody.Status)
}

func TestSendSuccessWithNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, testLogger())
	assert.NoError(t, c.Send(context.Background(), testRecord()))
}

func TestSendOmitsAuthorizationWithoutToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, testLogger())
	require.NoError(t, c.Send(context.Background(), testRecord()))
	assert.Empty(t, auth)
}

func TestSendRejectionUsesJSONMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"mailbox quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, testLogger())
	err := c.Send(context.Background(), testRecord())

	var delErr *DeliveryError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, http.StatusInternalServerError, delErr.StatusCode)
	assert.Equal(t, "mailbox quota exceeded", delErr.Message)
}

func TestSendRejectionFallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("  upstream unavailable \n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, testLogger())
	err := c.Send(context.Background(), testRecord())

	var delErr *DeliveryError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, "upstream unavailable", delErr.Message)
}

func TestSendRejectionSynthesizesFromStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, testLogger())
	err := c.Send(context.Background(), testRecord())

	var delErr *DeliveryError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, "server responded with status: 503", delErr.Message)
}

func TestSendUnreachableIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "", 2*time.Second, testLogger())
	err := c.Send(context.Background(), testRecord())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)

	var delErr *DeliveryError
	assert.False(t, errors.As(err, &delErr))
}

func TestDeliveryMessagePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"json message", 500, `{"message":"nope"}`, "nope"},
		{"json without message field", 500, `{"error":"nope"}`, `{"error":"nope"}`},
		{"plain text", 400, "bad request body", "bad request body"},
		{"empty body", 404, "", "server responded with status: 404"},
		{"whitespace body", 429, "  \n ", "server responded with status: 429"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deliveryMessage(tt.status, []byte(tt.body)))
		})
	}
}
