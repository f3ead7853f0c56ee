// Package export writes mail records out as RFC 5322 .eml files so
// they can be opened in a regular mail client.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/sk-py/maildraft/internal/model"
)

// WriteEML writes the record to dir/<id>.eml and returns the file path.
func WriteEML(dir string, rec model.MailRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, rec.ID+".eml")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := writeMessage(f, rec); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// writeMessage renders the record as a single-part plain text message.
func writeMessage(w io.Writer, rec model.MailRecord) error {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetSubject(rec.Subject)
	h.SetAddressList("To", []*mail.Address{{Address: rec.To}})
	if rec.From != "" {
		h.SetAddressList("From", []*mail.Address{{Address: rec.From}})
	}

	mw, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("creating message writer: %w", err)
	}

	if _, err := io.WriteString(mw, rec.Body); err != nil {
		mw.Close()
		return fmt.Errorf("writing body: %w", err)
	}
	return mw.Close()
}
