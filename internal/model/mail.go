package model

import (
	"strconv"
	"time"
)

// Mail status constants.
const (
	StatusDraft = "draft"
	StatusSent  = "sent"
)

// timestampLayout is the human-readable format stamped on a record at
// save/send time.
const timestampLayout = "1/2/2006"

// MailRecord is a single composed email, either a draft or a sent copy.
type MailRecord struct {
	ID        string `json:"id"`
	From      string `json:"from,omitempty"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// NewID generates a record ID from the current time (unix milliseconds).
// IDs are immutable once assigned.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Stamp refreshes the record timestamp. Called on every save or send.
func (r *MailRecord) Stamp() {
	r.Timestamp = time.Now().Format(timestampLayout)
}

// IsSent reports whether the record has been delivered. Sent records are
// read-only: they can be viewed and exported but never edited or re-sent.
func (r MailRecord) IsSent() bool {
	return r.Status == StatusSent
}
