package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sk-py/maildraft/internal/model"
)

func testRecords() []model.MailRecord {
	return []model.MailRecord{
		{ID: "1", To: "alice@example.com", Subject: "Weekly Report", Status: model.StatusDraft},
		{ID: "2", To: "bob@example.com", Subject: "lunch plans", Status: model.StatusDraft},
		{ID: "3", To: "alice@example.com", Subject: "Invoice", Status: model.StatusSent},
		{ID: "4", To: "carol@example.com", Subject: "report follow-up", Status: model.StatusSent},
	}
}

func ids(records []model.MailRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilterByStatusOnly(t *testing.T) {
	records := testRecords()

	assert.Equal(t, []string{"1", "2"}, ids(Filter(records, model.StatusDraft, "")))
	assert.Equal(t, []string{"3", "4"}, ids(Filter(records, model.StatusSent, "")))
}

func TestFilterMatchesSubjectCaseInsensitive(t *testing.T) {
	got := Filter(testRecords(), model.StatusDraft, "WEEKLY")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterMatchesRecipient(t *testing.T) {
	got := Filter(testRecords(), model.StatusSent, "alice")
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestFilterRequiresBothStatusAndQuery(t *testing.T) {
	// "report" appears in a draft and in a sent record; the status tab
	// narrows the result to one.
	assert.Equal(t, []string{"1"}, ids(Filter(testRecords(), model.StatusDraft, "report")))
	assert.Equal(t, []string{"4"}, ids(Filter(testRecords(), model.StatusSent, "report")))
}

func TestFilterNoMatches(t *testing.T) {
	assert.Empty(t, Filter(testRecords(), model.StatusDraft, "zzz"))
}

func TestFilterPreservesOrder(t *testing.T) {
	records := testRecords()
	got := Filter(records, model.StatusDraft, "")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestFilterEmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, model.StatusDraft, ""))
	assert.Empty(t, Filter([]model.MailRecord{}, model.StatusSent, "x"))
}
