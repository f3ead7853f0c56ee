package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sk-py/maildraft/internal/gateway"
	"github.com/sk-py/maildraft/internal/model"
	"github.com/sk-py/maildraft/internal/store"
	"github.com/sk-py/maildraft/tests/testutil"
)

// newTestModel builds a Model with just enough wiring for the command
// layer: a real store over in-memory SQLite and a gateway pointed at
// the given endpoint.
func newTestModel(t *testing.T, gatewayURL string) (Model, *store.MailStore) {
	t.Helper()

	s := testutil.NewTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &model.AppConfig{From: "me@example.com"}
	gw := gateway.NewClient(gatewayURL, "", 2*time.Second, logger)

	return Model{
		store:   s,
		gateway: gw,
		cfg:     cfg,
		logger:  logger,
	}, s
}

func TestSaveDraftAddsFreshRecord(t *testing.T) {
	m, s := newTestModel(t, "http://unused.invalid")

	rec := model.MailRecord{ID: "1", To: "you@example.com", Subject: "hello", Body: "hi"}
	msg := m.saveDraft(rec)()

	saved, ok := msg.(mailSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)

	got, ok := s.GetByID("1")
	require.True(t, ok)
	assert.Equal(t, model.StatusDraft, got.Status)
	assert.Equal(t, "me@example.com", got.From)
	assert.NotEmpty(t, got.Timestamp)
}

func TestSaveDraftUpdatesExistingRecord(t *testing.T) {
	m, s := newTestModel(t, "http://unused.invalid")

	require.IsType(t, mailSavedMsg{}, m.saveDraft(model.MailRecord{ID: "1", To: "a@b.c", Subject: "v1"})())
	m.saveDraft(model.MailRecord{ID: "1", To: "a@b.c", Subject: "v2"})()

	assert.Equal(t, 1, s.Len())
	got, _ := s.GetByID("1")
	assert.Equal(t, "v2", got.Subject)
}

func TestSendSuccessPersistsSentCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	m, s := newTestModel(t, srv.URL)

	rec := model.MailRecord{ID: "1", To: "you@example.com", Subject: "hello", Body: "hi"}
	msg := m.sendMail(rec)()

	result, ok := msg.(sendResultMsg)
	require.True(t, ok)
	require.NoError(t, result.err)
	assert.Equal(t, model.StatusSent, result.record.Status)

	got, ok := s.GetByID("1")
	require.True(t, ok)
	assert.Equal(t, model.StatusSent, got.Status)
	assert.Equal(t, "me@example.com", got.From)
}

func TestSendRejectionFallsBackToDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"relay refused"}`))
	}))
	defer srv.Close()

	m, s := newTestModel(t, srv.URL)

	rec := model.MailRecord{ID: "1", To: "you@example.com", Subject: "hello"}
	msg := m.sendMail(rec)()

	result, ok := msg.(sendResultMsg)
	require.True(t, ok)
	require.Error(t, result.err)

	var delErr *gateway.DeliveryError
	require.ErrorAs(t, result.err, &delErr)
	assert.Equal(t, "relay refused", delErr.Message)

	// The record survives as a draft, never as a phantom sent copy.
	got, ok := s.GetByID("1")
	require.True(t, ok)
	assert.Equal(t, model.StatusDraft, got.Status)
	assert.Equal(t, model.StatusDraft, result.record.Status)
}

func TestSendUnreachableGatewayFallsBackToDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	m, s := newTestModel(t, srv.URL)

	msg := m.sendMail(model.MailRecord{ID: "1", To: "you@example.com", Subject: "s"})()
	result := msg.(sendResultMsg)

	var netErr *gateway.NetworkError
	require.ErrorAs(t, result.err, &netErr)

	got, ok := s.GetByID("1")
	require.True(t, ok)
	assert.Equal(t, model.StatusDraft, got.Status)
}

func TestSendExistingDraftUpdatesInPlace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	m, s := newTestModel(t, srv.URL)

	m.saveDraft(model.MailRecord{ID: "1", To: "you@example.com", Subject: "s"})()
	m.sendMail(model.MailRecord{ID: "1", To: "you@example.com", Subject: "s"})()

	assert.Equal(t, 1, s.Len())
	got, _ := s.GetByID("1")
	assert.Equal(t, model.StatusSent, got.Status)
}

func TestClearAllEmptiesStore(t *testing.T) {
	m, s := newTestModel(t, "http://unused.invalid")

	m.saveDraft(model.MailRecord{ID: "1", To: "a@b.c", Subject: "s"})()
	msg := m.clearAll()()

	require.IsType(t, clearedMsg{}, msg)
	assert.Equal(t, 0, s.Len())
}

func TestSendFailureTextByErrorKind(t *testing.T) {
	netMsg := sendFailureText(&gateway.NetworkError{Err: assert.AnError})
	assert.Equal(t, "Network Error: Please check your connection", netMsg)

	delMsg := sendFailureText(&gateway.DeliveryError{StatusCode: 500, Message: "relay refused"})
	assert.Equal(t, "relay refused", delMsg)

	assert.Equal(t, "Failed to send email", sendFailureText(assert.AnError))
}
