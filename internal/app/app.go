package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sk-py/maildraft/internal/credential"
	"github.com/sk-py/maildraft/internal/gateway"
	"github.com/sk-py/maildraft/internal/keys"
	"github.com/sk-py/maildraft/internal/model"
	"github.com/sk-py/maildraft/internal/store"
	"github.com/sk-py/maildraft/internal/theme"
	"github.com/sk-py/maildraft/internal/ui"
	"github.com/sk-py/maildraft/internal/ui/command"
	"github.com/sk-py/maildraft/internal/ui/compose"
	helpview "github.com/sk-py/maildraft/internal/ui/help"
	"github.com/sk-py/maildraft/internal/ui/mailbox"
	"github.com/sk-py/maildraft/internal/ui/reader"
	"github.com/sk-py/maildraft/internal/ui/settings"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMailbox ViewState = iota
	ViewCompose
	ViewReader
	ViewSettings
	ViewHelp
	ViewCommand
)

// toastKind distinguishes success from error notifications.
type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

// toastExpiredMsg clears a notification after its display period.
type toastExpiredMsg struct{ seq int }

// toastDuration is how long a notification stays in the status bar.
const toastDuration = 4 * time.Second

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the record store and send gateway.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *store.MailStore
	gateway      *gateway.Client
	cfg          *model.AppConfig
	cfgPath      string
	logger       *slog.Logger
	keys         *keys.KeyMap

	mailboxView  mailbox.Model
	composeView  compose.Model
	readerView   reader.Model
	settingsView settings.Model
	helpView     helpview.Model
	commandView  command.Model

	spinner  spinner.Model
	sending  bool
	hydrated bool
	ready    bool

	toastText string
	toastKind toastKind
	toastSeq  int
}

// New creates the root application model.
func New(s *store.MailStore, gw *gateway.Client, cfg *model.AppConfig, cfgPath string, logger *slog.Logger) Model {
	k := keys.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		currentView:  ViewMailbox,
		store:        s,
		gateway:      gw,
		cfg:          cfg,
		cfgPath:      cfgPath,
		logger:       logger,
		keys:         k,
		mailboxView:  mailbox.New(s, k, 80, 24),
		composeView:  compose.New(80, 24),
		readerView:   reader.New(k, 80, 24),
		settingsView: settings.New(80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		spinner:      sp,
	}
}

// Init starts rehydration. The mailbox renders a loading indicator
// until the persisted collection is back in memory.
func (m Model) Init() tea.Cmd {
	return m.hydrate()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.mailboxView.SetSize(w, h)
		m.composeView.SetSize(w, h)
		m.readerView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case hydratedMsg:
		m.hydrated = true
		return m, m.mailboxView.LoadMails()

	case mailbox.MailsLoadedMsg:
		// Always lands in the mailbox, even while another view is
		// active, so the list is fresh when the user returns to it.
		var cmd tea.Cmd
		m.mailboxView, cmd = m.mailboxView.Update(msg)
		return m, cmd

	case mailbox.SelectedMailMsg:
		rec, ok := m.store.GetByID(msg.ID)
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		if rec.IsSent() {
			// Sent records are read-only.
			m.currentView = ViewReader
			m.readerView.SetRecord(rec)
			return m, nil
		}
		m.currentView = ViewCompose
		return m, m.composeView.StartEdit(rec)

	case compose.SaveDraftMsg:
		m.currentView = ViewMailbox
		return m, m.saveDraft(msg.Record)

	case compose.SendMailMsg:
		m.sending = true
		return m, tea.Batch(m.spinner.Tick, m.sendMail(msg.Record))

	case compose.CancelMsg:
		m.currentView = ViewMailbox
		return m, nil

	case mailSavedMsg:
		if msg.err != nil {
			m.logger.Error("saving draft", "err", msg.err)
			return m.withToast(toastError, "Failed to save draft", m.mailboxView.LoadMails())
		}
		return m, m.mailboxView.LoadMails()

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			// Record is already back in the store as a draft; reopen
			// the editor with the entered values.
			m.currentView = ViewCompose
			return m.withToast(toastError, sendFailureText(msg.err),
				tea.Batch(m.composeView.Resume(), m.mailboxView.LoadMails()))
		}
		m.currentView = ViewMailbox
		return m.withToast(toastSuccess, "Email sent successfully", m.mailboxView.LoadMails())

	case clearedMsg:
		return m.withToast(toastSuccess, "Mailbox cleared", m.mailboxView.LoadMails())

	case reader.BackMsg:
		m.currentView = ViewMailbox
		return m, nil

	case reader.ExportRequestMsg:
		return m, m.exportMail(msg.ID)

	case exportResultMsg:
		if msg.err != nil {
			m.logger.Error("exporting record", "err", msg.err)
			return m.withToast(toastError, "Export failed", nil)
		}
		if msg.path == "" {
			return m, nil
		}
		return m.withToast(toastSuccess, "Exported to "+msg.path, nil)

	case settings.SavedMsg:
		return m.applySettings(msg)

	case settings.CancelMsg:
		m.currentView = ViewMailbox
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toastText = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.sending {
			// Send is in flight; ignore input so a second send cannot
			// start on the same record.
			return m, nil
		}
		if handled, mdl, cmd := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, m, tea.Quit

	case "esc":
		if m.currentView == ViewCommand || m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}

	case "q":
		if m.currentView == ViewMailbox && !m.mailboxView.Searching() {
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		if (m.currentView == ViewMailbox && !m.mailboxView.Searching()) ||
			m.currentView == ViewReader {
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return true, m, nil
		}

	case ":":
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return true, m, nil
		}
		if m.currentView == ViewMailbox && !m.mailboxView.Searching() {
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return true, m, m.commandView.Focus()
		}

	case "n":
		if m.currentView == ViewMailbox && !m.mailboxView.Searching() {
			m.previousView = m.currentView
			m.currentView = ViewCompose
			return true, m, m.composeView.StartNew()
		}

	case "c":
		if m.currentView == ViewMailbox && !m.mailboxView.Searching() {
			m.previousView = m.currentView
			m.currentView = ViewSettings
			return true, m, m.settingsView.Start(m.cfg)
		}
	}

	return false, m, nil
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "new", "compose":
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.composeView.StartNew()
	case "drafts":
		m.currentView = ViewMailbox
		return m, m.mailboxView.SetTab(model.StatusDraft)
	case "sent":
		m.currentView = ViewMailbox
		return m, m.mailboxView.SetTab(model.StatusSent)
	case "settings", "config":
		m.previousView = m.currentView
		m.currentView = ViewSettings
		return m, m.settingsView.Start(m.cfg)
	case "clear", "logout":
		m.currentView = ViewMailbox
		return m, m.clearAll()
	case "quit", "q":
		return m, tea.Quit
	default:
		return m, nil
	}
}

// applySettings persists the settings form result: config to the YAML
// file, token to the system keyring, and a rebuilt gateway client.
func (m Model) applySettings(msg settings.SavedMsg) (tea.Model, tea.Cmd) {
	m.cfg.From = msg.From
	m.cfg.Gateway.URL = msg.GatewayURL

	if err := model.SaveConfig(m.cfgPath, m.cfg); err != nil {
		m.logger.Error("saving config", "err", err)
		m.currentView = ViewMailbox
		return m.withToast(toastError, "Failed to save settings", nil)
	}

	token := msg.Token
	if token != "" {
		if err := credential.StoreToken(token); err != nil {
			m.logger.Error("storing gateway token", "err", err)
		}
	} else {
		token, _ = credential.Token()
	}

	m.gateway = gateway.NewClient(
		m.cfg.Gateway.URL,
		token,
		time.Duration(m.cfg.Gateway.TimeoutSec)*time.Second,
		m.logger,
	)

	m.currentView = ViewMailbox
	return m.withToast(toastSuccess, "Settings saved", nil)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMailbox:
		m.mailboxView, cmd = m.mailboxView.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewReader:
		m.readerView, cmd = m.readerView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready || !m.hydrated {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Maildraft", m.headerState())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusContent())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the active view. While
// a send is in flight a spinner replaces the editor.
func (m Model) renderContent() string {
	if m.sending {
		return lipgloss.NewStyle().
			Width(m.layout.ContentWidth()).
			Height(m.layout.ContentHeight()).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Sending...")
	}

	switch m.currentView {
	case ViewMailbox:
		return m.mailboxView.View()
	case ViewCompose:
		return m.composeView.View()
	case ViewReader:
		return m.readerView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// headerState returns the right-hand header indicator.
func (m Model) headerState() string {
	if m.sending {
		return "sending"
	}
	return fmt.Sprintf("%d emails", m.store.Len())
}

// statusContent returns the styled status bar content: the active
// toast when present, key hints otherwise.
func (m Model) statusContent() string {
	if m.toastText != "" {
		if m.toastKind == toastError {
			return theme.ToastErrorStyle.Render(m.toastText)
		}
		return theme.ToastSuccessStyle.Render(m.toastText)
	}
	return theme.StatusBarStyle.Render(m.keyHints())
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close | enter execute"
	case ViewCompose:
		return "tab next field | enter submit | esc cancel"
	case ViewReader:
		return "esc back | x export | j/k scroll"
	case ViewSettings:
		return "enter save | esc cancel"
	default:
		return "q quit | ? help | n new | / search | 1 drafts | 2 sent | : command"
	}
}

// withToast sets a notification and schedules its expiry alongside any
// other command.
func (m Model) withToast(kind toastKind, text string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.toastKind = kind
	m.toastText = text
	m.toastSeq++
	seq := m.toastSeq

	expire := tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
	if cmd == nil {
		return m, expire
	}
	return m, tea.Batch(cmd, expire)
}

// sendFailureText maps a send error to the user-facing toast message.
func sendFailureText(err error) string {
	var netErr *gateway.NetworkError
	if errors.As(err, &netErr) {
		return "Network Error: Please check your connection"
	}
	var delErr *gateway.DeliveryError
	if errors.As(err, &delErr) {
		return delErr.Message
	}
	return "Failed to send email"
}
