package settings

import (
	"errors"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sk-py/maildraft/internal/model"
	"github.com/sk-py/maildraft/internal/theme"
)

// SavedMsg is dispatched when the user submits the settings form.
// Token carries the gateway credential; it is stored in the system
// keyring by the parent, never in the config file.
type SavedMsg struct {
	From       string
	GatewayURL string
	Token      string
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

type formBindings struct {
	from  string
	url   string
	token string
}

// Model is the settings form: sender address, gateway endpoint, and
// gateway token.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new settings form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form with the current configuration values.
// The token field starts blank; leaving it blank keeps the stored one.
func (m *Model) Start(cfg *model.AppConfig) tea.Cmd {
	m.fb.from = cfg.From
	m.fb.url = cfg.Gateway.URL
	m.fb.token = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings form.
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
		fb := *m.fb
		m.form = nil
		return m, func() tea.Msg {
			return SavedMsg{
				From:       strings.TrimSpace(fb.from),
				GatewayURL: strings.TrimSpace(fb.url),
				Token:      strings.TrimSpace(fb.token),
			}
		}
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Settings") + "\n" + m.form.View()

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
				Title("Sender address").
				Placeholder("you@example.com").
				Value(&m.fb.from),
			huh.NewInput().
				Title("Gateway URL").
				Placeholder("https://...").
				Value(&m.fb.url).
				Validate(validateURL),
			huh.NewInput().
				Title("Gateway token").
				Placeholder("leave blank to keep current").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token),
		),
	).WithWidth(m.formWidth())
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

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Gateway URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("enter a full http(s) URL")
	}
	return nil
}
