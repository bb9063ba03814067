package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

type historyItem struct {
	entry models.Query
}

func (i historyItem) FilterValue() string {
	return i.entry.NLQuery + " " + i.entry.SQLQuery
}

func (i historyItem) Title() string {
	if i.entry.NLQuery != "" {
		return firstLine(i.entry.NLQuery, 80)
	}
	return firstLine(i.entry.SQLQuery, 80)
}

func (i historyItem) Description() string {
	parts := []string{firstLine(i.entry.SQLQuery, 60)}
	if when := relativeTime(i.entry); when != "" {
		parts = append(parts, when)
	}
	if i.entry.Status != "" {
		parts = append(parts, i.entry.Status)
	}
	return strings.Join(parts, " | ")
}

func newHistoryList(entries []models.Query, width, height int) list.Model {
	items := make([]list.Item, len(entries))
	for i, q := range entries {
		items[i] = historyItem{entry: q}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = fmt.Sprintf("Query history (%d)", len(entries))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return l
}

func firstLine(s string, maxLen int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
