// Package tui is the interactive query surface: one project, a
// natural-language editor, a SQL editor, results, and history, all driven
// by the same workflow controller the CLI commands use.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
	"github.com/aidb-dev/aidb-cli/internal/core/query"
	"github.com/aidb-dev/aidb-cli/internal/core/tier"
)

type viewMode int

const (
	editorView viewMode = iota
	resultsView
	historyView
	helpView
)

type Model struct {
	ctx         context.Context
	ctl         *query.Controller
	tiers       *tier.Store
	projectName string

	mode     viewMode
	nlInput  textarea.Model
	sqlInput textarea.Model
	history  list.Model
	results  viewport.Model
	spin     spinner.Model

	tier       *models.Tier
	lastResult *models.Result
	busy       bool
	status     string
	err        error
	width      int
	height     int
}

func New(ctx context.Context, ctl *query.Controller, tiers *tier.Store, projectName string) Model {
	nl := textarea.New()
	nl.Placeholder = "Ask a question about your data..."
	nl.ShowLineNumbers = false
	nl.SetHeight(3)
	nl.Focus()

	sql := textarea.New()
	sql.Placeholder = "SELECT ..."
	sql.ShowLineNumbers = false
	sql.SetHeight(5)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		ctl:         ctl,
		tiers:       tiers,
		projectName: projectName,
		mode:        editorView,
		nlInput:     nl,
		sqlInput:    sql,
		spin:        sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		loadTier(m.ctx, m.ctl, m.tiers.Tier),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.nlInput.SetWidth(msg.Width - 4)
		m.sqlInput.SetWidth(msg.Width - 4)
		m.results = viewport.New(msg.Width, msg.Height-6)
		if m.lastResult != nil {
			m.results.SetContent(renderResult(*m.lastResult, msg.Width))
		}
		if len(m.history.Items()) > 0 {
			m.history.SetSize(msg.Width, msg.Height-2)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tierLoadedMsg:
		m.tier = msg.tier
		return m, nil

	case translatedMsg:
		m.busy = false
		m.err = nil
		m.tier = m.tiers.Tier()
		m.sqlInput.SetValue(msg.query.SQLQuery)
		m.status = "Translated. ctrl+r runs the SQL."
		return m, nil

	case executedMsg:
		m.busy = false
		m.err = nil
		m.tier = m.tiers.Tier()
		m.lastResult = &msg.result
		m.results = viewport.New(m.width, m.height-6)
		m.results.SetContent(renderResult(msg.result, m.width))
		m.mode = resultsView
		m.status = ""
		return m, nil

	case historyLoadedMsg:
		m.busy = false
		m.err = nil
		m.history = newHistoryList(msg.entries, m.width, m.height-2)
		m.mode = historyView
		return m, nil

	case errMsg:
		m.busy = false
		m.err = msg.err
		m.status = ""
		return m, nil
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case editorView:
		return m.updateEditor(msg)
	case resultsView:
		return m.updateResults(msg)
	case historyView:
		return m.updateHistory(msg)
	case helpView:
		m.mode = editorView
		return m, nil
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		if m.busy {
			return m, nil
		}
		m.ctl.Workflow().SetNL(m.nlInput.Value())
		m.busy = true
		m.status = "Translating..."
		m.err = nil
		return m, tea.Batch(m.spin.Tick, translate(m.ctx, m.ctl))

	case "ctrl+r":
		if m.busy {
			return m, nil
		}
		// A hand edit demotes the translation; an untouched editor keeps it.
		if m.sqlInput.Value() != m.ctl.Workflow().Query().SQLQuery {
			m.ctl.Workflow().SetSQL(m.sqlInput.Value())
		}
		m.busy = true
		m.status = "Running..."
		m.err = nil
		return m, tea.Batch(m.spin.Tick, execute(m.ctx, m.ctl))

	case "ctrl+h":
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.status = "Loading history..."
		return m, tea.Batch(m.spin.Tick, loadHistory(m.ctx, m.ctl))

	case "ctrl+g":
		if m.nlInput.Focused() {
			m.nlInput.Blur()
			return m, m.sqlInput.Focus()
		}
		m.sqlInput.Blur()
		return m, m.nlInput.Focus()

	case "ctrl+n":
		m.ctl.Workflow().Reset()
		m.nlInput.Reset()
		m.sqlInput.Reset()
		m.status = ""
		m.err = nil
		return m, nil

	case "ctrl+_", "f1":
		m.mode = helpView
		return m, nil
	}

	var cmd tea.Cmd
	if m.nlInput.Focused() {
		m.nlInput, cmd = m.nlInput.Update(msg)
	} else {
		m.sqlInput, cmd = m.sqlInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = editorView
		return m, nil
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		if m.history.FilterState() != list.Filtering {
			m.mode = editorView
			return m, nil
		}
	case "enter":
		if item, ok := m.history.SelectedItem().(historyItem); ok {
			m.ctl.SelectHistoryEntry(item.entry)
			q := m.ctl.Workflow().Query()
			m.nlInput.SetValue(q.NLQuery)
			m.sqlInput.SetValue(q.SQLQuery)
			m.mode = editorView
			m.status = "Loaded from history."
			m.err = nil
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}
