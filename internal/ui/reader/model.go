package reader

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sk-py/maildraft/internal/keys"
	"github.com/sk-py/maildraft/internal/model"
	"github.com/sk-py/maildraft/internal/theme"
)

// BackMsg signals the parent to navigate back to the mailbox.
type BackMsg struct{}

// ExportRequestMsg asks the parent to export the shown record to a
// .eml file.
type ExportRequestMsg struct {
	ID string
}

// Model is the read-only mail view. Sent records land here instead of
// the compose form: fields are not editable and there are no Save/Send
// actions, only scrolling and export.
type Model struct {
	record   *model.MailRecord
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new reader model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetRecord loads a record into the view.
func (m *Model) SetRecord(rec model.MailRecord) {
	m.record = &rec
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Init returns the initial command for the reader.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the reader.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(keyMsg, m.keys.Export):
			if m.record != nil {
				id := m.record.ID
				return m, func() tea.Msg {
					return ExportRequestMsg{ID: id}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the reader.
func (m Model) View() string {
	if m.record == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No email selected")
	}

	return theme.ReaderPanelStyle.
		Width(m.width - 4).
		Render(m.viewport.View())
}

// renderContent builds the full mail content string for the viewport.
func (m Model) renderContent() string {
	rec := m.record

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	subjectStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	header := lipgloss.JoinVertical(lipgloss.Left,
		subjectStyle.Render(rec.Subject),
		labelStyle.Render("To:   ")+rec.To,
		labelStyle.Render("Date: ")+rec.Timestamp,
		theme.StatusStyle(rec.Status).Render(rec.Status),
	)
	if rec.From != "" {
		header = lipgloss.JoinVertical(lipgloss.Left,
			header,
			labelStyle.Render("From: ")+rec.From,
		)
	}

	divider := lipgloss.NewStyle().
		Foreground(theme.ColorBorder).
		Render("────────────────────────────")

	return lipgloss.JoinVertical(lipgloss.Left, header, divider, rec.Body)
}

// SetSize updates the reader dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 8
	m.viewport.Height = height - 4
	if m.record != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
