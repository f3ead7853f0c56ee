package mailbox

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sk-py/maildraft/internal/model"
	"github.com/sk-py/maildraft/internal/theme"
)

// MailItem wraps a model.MailRecord so it can be used in a bubbles/list.
type MailItem struct {
	Record model.MailRecord
}

// FilterValue returns the string used for fuzzy filtering. The built-in
// list filter is disabled in favor of the mailbox search, but the
// interface requires it.
func (i MailItem) FilterValue() string { return i.Record.Subject }

// Title returns the subject line for the list.
func (i MailItem) Title() string { return i.Record.Subject }

// Description returns a short summary line for the list.
func (i MailItem) Description() string {
	return fmt.Sprintf("%s | %s", i.Record.To, i.Record.Timestamp)
}

// ItemDelegate implements list.ItemDelegate for rendering mail rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single mail row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MailItem)
	if !ok {
		return
	}
	rec := mi.Record

	statusBadge := theme.StatusStyle(rec.Status).Render(rec.Status)

	subject := rec.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	to := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("to " + rec.To)

	stamp := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(rec.Timestamp)

	line := fmt.Sprintf("%s %s  %s  %s", statusBadge, subject, to, stamp)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
