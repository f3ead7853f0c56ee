package model

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsMillisecondTimestamp(t *testing.T) {
	before := time.Now().UnixMilli()
	id := NewID()
	after := time.Now().UnixMilli()

	n, err := strconv.ParseInt(id, 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, before)
	assert.LessOrEqual(t, n, after)
}

func TestStampUsesDateOnlyFormat(t *testing.T) {
	var r MailRecord
	r.Stamp()

	parsed, err := time.Parse(timestampLayout, r.Timestamp)
	require.NoError(t, err)

	now := time.Now()
	assert.Equal(t, now.Year(), parsed.Year())
	assert.Equal(t, now.Month(), parsed.Month())
	assert.Equal(t, now.Day(), parsed.Day())
}

func TestIsSent(t *testing.T) {
	assert.False(t, MailRecord{Status: StatusDraft}.IsSent())
	assert.True(t, MailRecord{Status: StatusSent}.IsSent())
	assert.False(t, MailRecord{}.IsSent())
}

func TestMailRecordJSONShape(t *testing.T) {
	rec := MailRecord{
		ID:        "1738000000000",
		To:        "you@example.com",
		Subject:   "hello",
		Body:      "hi",
		Timestamp: "1/27/2026",
		Status:    StatusDraft,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	// An unset sender is omitted entirely rather than serialized empty.
	_, hasFrom := fields["from"]
	assert.False(t, hasFrom)
	assert.Equal(t, "1738000000000", fields["id"])
	assert.Equal(t, "draft", fields["status"])

	rec.From = "me@example.com"
	data, err = json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "me@example.com", fields["from"])
}
