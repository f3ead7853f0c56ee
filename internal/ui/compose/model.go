package compose

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sk-py/maildraft/internal/model"
	"github.com/sk-py/maildraft/internal/theme"
)

// Form actions. The last form field selects what happens on submit.
const (
	actionSave = "save"
	actionSend = "send"
)

// SaveDraftMsg is dispatched when the user submits the form with the
// Save action. The record carries the entered fields; status and
// timestamp are stamped by the handler.
type SaveDraftMsg struct {
	Record model.MailRecord
	IsNew  bool
}

// SendMailMsg is dispatched when the user submits the form with the
// Send action.
type SendMailMsg struct {
	Record model.MailRecord
	IsNew  bool
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	to      string
	subject string
	body    string
	action  string
}

// Model is the Bubble Tea model for the draft compose/edit form. Only
// draft records reach this view; sent records open read-only in the
// reader instead.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	editID string
	isNew  bool
	width  int
	height int
}

// New creates a new compose form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{action: actionSave},
		width:  width,
		height: height,
	}
}

// StartNew initializes the form for a fresh draft. The record id is
// assigned here, derived from the creation time, and never changes.
func (m *Model) StartNew() tea.Cmd {
	m.isNew = true
	m.editID = model.NewID()
	m.fb.to = ""
	m.fb.subject = ""
	m.fb.body = ""
	m.fb.action = actionSave
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing draft's fields. This
// is the explicit record-to-form mapping; fields the form does not own
// (id, from, timestamp, status) are carried through the handler.
func (m *Model) StartEdit(rec model.MailRecord) tea.Cmd {
	m.isNew = false
	m.editID = rec.ID
	m.fb.to = rec.To
	m.fb.subject = rec.Subject
	m.fb.body = rec.Body
	m.fb.action = actionSave
	m.form = m.buildForm()
	return m.form.Init()
}

// Resume re-opens the form after a failed send, keeping the entered
// values so the user can retry or save.
func (m *Model) Resume() tea.Cmd {
	m.fb.action = actionSave
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the compose form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	// Dispatch exactly once; later messages must not resubmit.
	if m.form.State == huh.StateCompleted {
		cmd := m.handleSubmit()
		m.form = nil
		return m, cmd
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the compose form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Draft"
	if !m.isNew {
		titleText = "Edit Draft"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("To").
				Placeholder("recipient@example.com").
				Value(&m.fb.to).
				Validate(requiredField("Recipient email is required")),
			huh.NewInput().
				Title("Subject").
				Placeholder("Enter subject").
				Value(&m.fb.subject).
				Validate(requiredField("Subject is required")),
			huh.NewText().
				Title("Message").
				Placeholder("Write your message here...").
				Value(&m.fb.body),
			huh.NewSelect[string]().
				Title("Action").
				Options(
					huh.NewOption("Save draft", actionSave),
					huh.NewOption("Send now", actionSend),
				).
				Value(&m.fb.action),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// handleSubmit maps the validated form state back to a record and
// dispatches the chosen action.
func (m Model) handleSubmit() tea.Cmd {
	rec := model.MailRecord{
		ID:      m.editID,
		To:      m.fb.to,
		Subject: m.fb.subject,
		Body:    m.fb.body,
		Status:  model.StatusDraft,
	}

	isNew := m.isNew
	if m.fb.action == actionSend {
		return func() tea.Msg { return SendMailMsg{Record: rec, IsNew: isNew} }
	}
	return func() tea.Msg { return SaveDraftMsg{Record: rec, IsNew: isNew} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// requiredField validates that a field is non-empty. The message is
// shown inline under the field; validation never produces a toast.
func requiredField(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}
