package mailbox

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sk-py/maildraft/internal/keys"
	"github.com/sk-py/maildraft/internal/model"
	"github.com/sk-py/maildraft/internal/store"
	"github.com/sk-py/maildraft/internal/theme"
)

// MailsLoadedMsg is sent when the record collection has been read from
// the store.
type MailsLoadedMsg struct {
	Records []model.MailRecord
}

// SelectedMailMsg is sent when the user opens a record from the list.
type SelectedMailMsg struct {
	ID string
}

// Model is the mailbox list view: records grouped into a Drafts and a
// Sent tab, narrowed by a live search input.
type Model struct {
	list        list.Model
	store       *store.MailStore
	keys        *keys.KeyMap
	records     []model.MailRecord
	tab         string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new mailbox list model.
func New(s *store.MailStore, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-3)
	l.Title = "Mailbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search subject or recipient..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		tab:         model.StatusDraft,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the records.
func (m Model) Init() tea.Cmd {
	return m.LoadMails()
}

// LoadMails returns a tea.Cmd that reads the full collection from the
// store. The list re-filters whenever this lands, so any store change
// followed by LoadMails refreshes the view.
func (m Model) LoadMails() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return MailsLoadedMsg{Records: s.All()}
	}
}

// Tab returns the currently selected status tab.
func (m Model) Tab() string {
	return m.tab
}

// Searching reports whether the search input currently has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SetTab switches to the given status tab and refreshes the list.
func (m *Model) SetTab(status string) tea.Cmd {
	m.tab = status
	return m.applyFilter()
}

// SelectedID returns the id of the focused record, if any.
func (m Model) SelectedID() (string, bool) {
	item, ok := m.list.SelectedItem().(MailItem)
	if !ok {
		return "", false
	}
	return item.Record.ID, true
}

// Update handles messages for the mailbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MailsLoadedMsg:
		m.records = msg.Records
		return m, m.applyFilter()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while the search input is
// focused. The filter is recomputed on every keystroke.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		return m, m.applyFilter()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, tea.Batch(cmd, m.applyFilter())
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(MailItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedMailMsg{ID: item.Record.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Drafts):
		m.tab = model.StatusDraft
		return m, m.applyFilter()

	case key.Matches(msg, m.keys.Sent):
		m.tab = model.StatusSent
		return m, m.applyFilter()

	case key.Matches(msg, m.keys.CycleTab):
		if m.tab == model.StatusDraft {
			m.tab = model.StatusSent
		} else {
			m.tab = model.StatusDraft
		}
		return m, m.applyFilter()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// applyFilter recomputes the visible items from the current records,
// tab, and search text.
func (m *Model) applyFilter() tea.Cmd {
	filtered := Filter(m.records, m.tab, m.searchInput.Value())

	items := make([]list.Item, len(filtered))
	for i, r := range filtered {
		items[i] = MailItem{Record: r}
	}
	return m.list.SetItems(items)
}

// View renders the mailbox view.
func (m Model) View() string {
	tabs := m.renderTabs()

	var body string
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	} else {
		body = m.list.View()
	}

	if m.searchMode || m.searchInput.Value() != "" {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, tabs, searchBar, body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, body)
}

// renderTabs draws the Drafts/Sent tab row with counts.
func (m Model) renderTabs() string {
	drafts := "Drafts"
	sent := "Sent"

	var n int
	for _, r := range m.records {
		if r.Status == model.StatusDraft {
			n++
		}
	}
	drafts += countLabel(n)
	sent += countLabel(len(m.records) - n)

	if m.tab == model.StatusDraft {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			theme.TabActiveStyle.Render(drafts),
			theme.TabInactiveStyle.Render(sent),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.TabInactiveStyle.Render(drafts),
		theme.TabActiveStyle.Render(sent),
	)
}

func countLabel(n int) string {
	if n == 0 {
		return ""
	}
	return " " + lipgloss.NewStyle().Faint(true).Render(strconv.Itoa(n))
}

// renderEmptyState shows guidance text when the current tab has no
// matching records.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 4).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.searchInput.Value() != "" {
		return style.Render("No matching emails.\nTry a different search.")
	}
	if m.tab == model.StatusSent {
		return style.Render("Nothing sent yet.")
	}
	return style.Render("No drafts.\n\nPress n to compose one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.searchInput.Width = width - 4
}
