package app

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sk-py/maildraft/internal/export"
	"github.com/sk-py/maildraft/internal/model"
)

// hydratedMsg is sent once the store has been rehydrated from the
// persistence backend.
type hydratedMsg struct{ err error }

// mailSavedMsg is sent after a draft is persisted.
type mailSavedMsg struct{ err error }

// sendResultMsg is sent after a send attempt completes. On failure the
// record has already been re-persisted as a draft.
type sendResultMsg struct {
	record model.MailRecord
	err    error
}

// clearedMsg is sent after the logout reset empties the store.
type clearedMsg struct{}

// exportResultMsg is sent after a .eml export attempt.
type exportResultMsg struct {
	path string
	err  error
}

// hydrate loads the persisted collection before the mailbox renders.
func (m Model) hydrate() tea.Cmd {
	s := m.store
	logger := m.logger
	return func() tea.Msg {
		err := s.Rehydrate(context.Background())
		if err != nil {
			// Start with an empty mailbox rather than refusing to run.
			logger.Error("rehydration failed", "err", err)
		}
		return hydratedMsg{err: err}
	}
}

// saveDraft persists the record as a draft: add when the id is new,
// update when it already exists.
func (m Model) saveDraft(rec model.MailRecord) tea.Cmd {
	s := m.store
	from := m.cfg.From
	return func() tea.Msg {
		ctx := context.Background()

		rec.Status = model.StatusDraft
		rec.From = from
		rec.Stamp()

		if _, exists := s.GetByID(rec.ID); exists {
			s.Update(ctx, rec)
			return mailSavedMsg{}
		}
		return mailSavedMsg{err: s.Add(ctx, rec)}
	}
}

// sendMail attempts remote delivery. The outgoing payload is marked
// sent up front; on gateway success the sent copy is persisted, on any
// failure the record falls back to a draft. One attempt, no retry.
func (m Model) sendMail(rec model.MailRecord) tea.Cmd {
	s := m.store
	gw := m.gateway
	from := m.cfg.From
	return func() tea.Msg {
		ctx := context.Background()

		payload := rec
		payload.Status = model.StatusSent
		payload.From = from
		payload.Stamp()

		persist := func(r model.MailRecord) {
			if _, exists := s.GetByID(r.ID); exists {
				s.Update(ctx, r)
				return
			}
			// Add can only reject a duplicate id, which the exists
			// check just ruled out.
			_ = s.Add(ctx, r)
		}

		if err := gw.Send(ctx, payload); err != nil {
			draft := payload
			draft.Status = model.StatusDraft
			persist(draft)
			return sendResultMsg{record: draft, err: err}
		}

		persist(payload)
		return sendResultMsg{record: payload}
	}
}

// clearAll empties the store. Used by the clear/logout command.
func (m Model) clearAll() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		s.Clear(context.Background())
		return clearedMsg{}
	}
}

// exportMail writes a record to a .eml file in the data directory.
func (m Model) exportMail(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		rec, ok := s.GetByID(id)
		if !ok {
			return exportResultMsg{}
		}
		dir := filepath.Join(model.DefaultDataDir(), "exports")
		path, err := export.WriteEML(dir, rec)
		return exportResultMsg{path: path, err: err}
	}
}
