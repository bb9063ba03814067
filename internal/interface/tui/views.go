package tui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

func (m Model) View() string {
	switch m.mode {
	case resultsView:
		return m.viewResults()
	case historyView:
		return m.history.View()
	case helpView:
		return m.viewHelp()
	default:
		return m.viewEditor()
	}
}

func (m Model) viewEditor() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AiDB · " + m.projectName))
	if m.tier != nil {
		b.WriteString("  ")
		b.WriteString(tierStyle.Render(fmt.Sprintf("%s tier · queries %s · translations %s",
			m.tier.Name,
			models.FormatLimitDisplay(m.tier.QueryLimitUsage, m.tier.QueryLimit),
			models.FormatLimitDisplay(m.tier.TranslationLimitUsage, m.tier.TranslationLimit))))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Question"))
	b.WriteString("\n")
	b.WriteString(m.nlInput.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("SQL"))
	b.WriteString("\n")
	b.WriteString(sqlStyle.Render(m.sqlInput.View()))
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(m.spin.View() + statusStyle.Render(m.status))
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("ctrl+t translate · ctrl+r run · ctrl+g switch field · ctrl+h history · ctrl+n new · ctrl+c quit"))
	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Results"))
	if m.lastResult != nil {
		b.WriteString(tierStyle.Render(fmt.Sprintf("  %d row(s)", len(m.lastResult.Rows))))
	}
	b.WriteString("\n\n")
	b.WriteString(m.results.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll · esc back · ctrl+c quit"))
	return b.String()
}

func (m Model) viewHelp() string {
	help := `AiDB keys

  ctrl+t    translate the question into SQL
  ctrl+r    run the SQL
  ctrl+g    switch between question and SQL fields
  ctrl+h    open query history
  ctrl+n    start a fresh query
  esc / q   leave results, history, or this screen
  ctrl+c    quit

In history: type to filter, enter loads the entry into the editor.

Press any key to go back.`
	return helpStyle.Render(help)
}

// renderResult lays the rows out as a tab-aligned table for the viewport.
func renderResult(result models.Result, width int) string {
	if len(result.Rows) == 0 {
		return "No rows returned."
	}

	// No styling inside the table; escape codes would skew tabwriter's
	// column widths.
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = renderCell(cell)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
	return buf.String()
}

func renderCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func relativeTime(q models.Query) string {
	if q.Timestamp == nil {
		return ""
	}
	return humanize.Time(*q.Timestamp)
}
