package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/verte-zerg/typist/internal/mode"
	"github.com/verte-zerg/typist/internal/stats"
)

// results is the screen shown after a session ends.
type results struct {
	stats    stats.Statistics
	reason   mode.Reason
	publicID string
	table    table.Model
}

func newResults(st stats.Statistics, reason mode.Reason, publicID string, height int) results {
	r := results{
		stats:    st,
		reason:   reason,
		publicID: publicID,
		table:    buildCharErrorTable(st.CharErrors),
	}
	r.setHeight(height)
	return r
}

func (r *results) setHeight(height int) {
	// Title, summary, saved line and help take the rest of the screen.
	rows := height - len(r.summaryLines()) - 6
	r.table.SetHeight(max(3, rows))
}

func (r results) summaryLines() []string {
	var buf bytes.Buffer
	if err := stats.RenderResult(&buf, r.stats); err != nil {
		return []string{fmt.Sprintf("failed to render result: %v", err)}
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func (r results) view() string {
	lines := []string{titleStyle.Render("Session " + r.reason.String()), ""}
	lines = append(lines, r.summaryLines()...)
	if r.publicID != "" {
		lines = append(lines, footerStyle.Render("Saved as "+r.publicID))
	}
	lines = append(lines, "")
	if len(r.stats.CharErrors) == 0 {
		lines = append(lines, "No mistakes.")
	} else {
		lines = append(lines, r.table.View())
	}
	return strings.Join(lines, "\n")
}

func buildCharErrorTable(errs []stats.CharError) table.Model {
	columns := []table.Column{
		{Title: "Char", Width: 8},
		{Title: "Errors", Width: 7},
		{Title: "Attempts", Width: 9},
		{Title: "Accuracy", Width: 9},
	}
	rows := make([]table.Row, 0, len(errs))
	for _, e := range errs {
		acc := 0.0
		if e.Attempts > 0 {
			acc = max(0, 1-float64(e.Errors)/float64(e.Attempts)) * 100
		}
		rows = append(rows, table.Row{
			stats.CharLabel(string(e.Char)),
			fmt.Sprintf("%d", e.Errors),
			fmt.Sprintf("%d", e.Attempts),
			fmt.Sprintf("%.1f%%", acc),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
	)
	t.SetStyles(charTableStyles())
	return t
}
