package export

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sk-py/maildraft/internal/model"
)

func TestWriteEMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec := model.MailRecord{
		ID:        "1738000000000",
		From:      "me@example.com",
		To:        "you@example.com",
		Subject:   "quarterly numbers",
		Body:      "see attached... just kidding, it is all in here.",
		Timestamp: "1/27/2026",
		Status:    model.StatusSent,
	}

	path, err := WriteEML(dir, rec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1738000000000.eml"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	mr, err := mail.CreateReader(f)
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "quarterly numbers", subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "you@example.com", to[0].Address)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "me@example.com", from[0].Address)

	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Equal(t, rec.Body, string(body))
}

func TestWriteEMLWithoutSender(t *testing.T) {
	dir := t.TempDir()
	rec := model.MailRecord{
		ID:      "42",
		To:      "you@example.com",
		Subject: "no sender configured",
		Body:    "hello",
		Status:  model.StatusDraft,
	}

	path, err := WriteEML(dir, rec)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	mr, err := mail.CreateReader(f)
	require.NoError(t, err)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	assert.Empty(t, from)
}
