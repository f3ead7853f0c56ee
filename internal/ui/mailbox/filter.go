package mailbox

import (
	"strings"

	"github.com/sk-py/maildraft/internal/model"
)

// Filter returns the records whose status matches the selected tab and
// whose subject or recipient contains the search text, case-insensitively.
// An empty search text matches everything. Store order is preserved.
// It is a pure function: recomputed on every keystroke and on every
// store change.
func Filter(records []model.MailRecord, status, query string) []model.MailRecord {
	q := strings.ToLower(query)

	var out []model.MailRecord
	for _, r := range records {
		if r.Status != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Subject), q) &&
			!strings.Contains(strings.ToLower(r.To), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}
