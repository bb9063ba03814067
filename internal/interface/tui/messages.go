package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
	"github.com/aidb-dev/aidb-cli/internal/core/query"
)

type errMsg struct {
	err error
}

type tierLoadedMsg struct {
	tier *models.Tier
}

type translatedMsg struct {
	query models.Query
}

type executedMsg struct {
	result models.Result
}

type historyLoadedMsg struct {
	entries []models.Query
}

func loadTier(ctx context.Context, ctl *query.Controller, tier func() *models.Tier) tea.Cmd {
	return func() tea.Msg {
		if err := ctl.FetchTierIfNeeded(ctx); err != nil {
			return errMsg{err}
		}
		return tierLoadedMsg{tier: tier()}
	}
}

func translate(ctx context.Context, ctl *query.Controller) tea.Cmd {
	return func() tea.Msg {
		q, err := ctl.Translate(ctx)
		if err != nil {
			return errMsg{err}
		}
		return translatedMsg{query: q}
	}
}

func execute(ctx context.Context, ctl *query.Controller) tea.Cmd {
	return func() tea.Msg {
		result, err := ctl.Submit(ctx)
		if err != nil {
			return errMsg{err}
		}
		return executedMsg{result: result}
	}
}

func loadHistory(ctx context.Context, ctl *query.Controller) tea.Cmd {
	return func() tea.Msg {
		entries, err := ctl.HistoryEntries(ctx)
		if err != nil {
			return errMsg{err}
		}
		return historyLoadedMsg{entries: entries}
	}
}
