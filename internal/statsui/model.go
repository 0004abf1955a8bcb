// Package statsui provides the Bubble Tea stats browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabChars
)

const (
	plotHeight    = 6
	defaultWidth  = 80
	maxCurveWidth = 200
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

type keyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Wider   key.Binding
	Narrow  key.Binding
	Details key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		Next:    key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next tab")),
		Wider:   key.NewBinding(key.WithKeys("="), key.WithHelp("=", "wider window")),
		Narrow:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower window")),
		Details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "session curve")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig
	keys  keyMap
	help  help.Model

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	sessions  table.Model
	chars     table.Model
	detail    string

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:    st,
		cfg:      cfg,
		keys:     defaultKeyMap(),
		help:     help.New(),
		tabs:     []string{"Overview", "Sessions", "Chars"},
		overview: viewport.New(defaultWidth, 20),
		sessions: newTable(sessionColumns(), nil),
		chars:    newTable(charColumns(), nil),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			m.moveTab(-1)
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.moveTab(1)
			return m, nil
		case key.Matches(msg, m.keys.Wider):
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Narrow):
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Details) && m.activeTab == tabSessions:
			m.loadDetail()
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabOverview:
			m.overview, cmd = m.overview.Update(msg)
		case tabSessions:
			m.sessions, cmd = m.sessions.Update(msg)
		case tabChars:
			m.chars, cmd = m.chars.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	parts := []string{m.renderTabs(), headerStyle.Render(m.settingsLine())}
	switch {
	case m.errMsg != "":
		parts = append(parts, errorStyle.Render(m.errMsg))
	case len(m.report.Sessions) == 0:
		parts = append(parts, "No sessions found.")
	case m.activeTab == tabOverview:
		parts = append(parts, m.overview.View())
	case m.activeTab == tabSessions:
		parts = append(parts, m.sessions.View())
		if m.detail != "" {
			parts = append(parts, m.detail)
		}
	case m.activeTab == tabChars:
		parts = append(parts, m.chars.View())
	}
	parts = append(parts, m.help.ShortHelpView([]key.Binding{
		m.keys.Prev, m.keys.Next, m.keys.Wider, m.keys.Narrow, m.keys.Details, m.keys.Quit,
	}))
	return strings.Join(parts, "\n")
}

func (m *Model) refresh() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load stats: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report

	m.sessions.SetRows(sessionRows(report.Sessions))
	m.chars.SetRows(charRows(report.CharAggsWindow))
	m.detail = ""
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if len(m.report.Sessions) == 0 {
		return
	}
	width := m.contentWidth()
	var buf bytes.Buffer
	buf.WriteString(summaryCards(m.report.Sessions, width))
	buf.WriteString("\n\n")
	if err := stats.RenderCurvesWithSize(&buf, m.report.Sessions, m.cfg.CurveWindow, width, plotHeight, true); err != nil {
		fmt.Fprintf(&buf, "Failed to render curves: %v\n", err)
	}
	if err := stats.RenderCharCurvesWithSize(&buf, m.report.Sessions, m.report.PerSession, m.report.CurveChars, m.cfg.CurveWindow, width, plotHeight, true); err != nil {
		fmt.Fprintf(&buf, "Failed to render character curves: %v\n", err)
	}
	m.overview.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func (m *Model) loadDetail() {
	row := m.sessions.SelectedRow()
	if len(row) == 0 {
		return
	}
	agg, err := m.store.GetSession(context.Background(), row[0])
	if err != nil {
		m.detail = errorStyle.Render(err.Error())
		return
	}
	measurements, err := m.store.ListMeasurements(context.Background(), agg.SessionID)
	if err != nil {
		m.detail = errorStyle.Render(err.Error())
		return
	}
	wpm := make([]float64, len(measurements))
	for i, ms := range measurements {
		wpm[i] = ms.Wpm
	}
	m.detail = fmt.Sprintf("%s  WPM [%s]  %d samples", agg.PublicID, stats.Sparkline(wpm), len(measurements))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.sessions.Blur()
	m.chars.Blur()
	switch m.activeTab {
	case tabSessions:
		m.sessions.Focus()
	case tabChars:
		m.chars.Focus()
	}
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	// Tabs, settings, detail and help lines.
	body := max(3, m.height-lipgloss.Height(activeTabStyle.Render("X"))-4)
	m.overview.Width = m.width
	m.overview.Height = body
	m.sessions.SetWidth(m.width)
	m.sessions.SetHeight(body)
	m.chars.SetWidth(m.width)
	m.chars.SetHeight(body)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return min(m.width, maxCurveWidth)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeTabStyle.Render(tab))
		} else {
			parts = append(parts, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) settingsLine() string {
	lang := m.cfg.Lang
	if lang == "" {
		lang = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	return fmt.Sprintf("lang=%s  since=%s  last=%s  window=%d", lang, since, last, m.cfg.CurveWindow)
}

func summaryCards(sessions []model.SessionAggregate, width int) string {
	var totalWPM, totalAcc, totalCons, bestWPM float64
	for _, s := range sessions {
		totalWPM += s.Wpm
		totalAcc += s.Accuracy
		totalCons += s.Consistency
		bestWPM = max(bestWPM, s.Wpm)
	}
	count := float64(len(sessions))
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(sessions))),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", totalWPM/count)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", bestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", totalAcc/count)),
		metricCard("Consistency", fmt.Sprintf("%.1f%%", totalCons/count)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(table.WithColumns(columns), table.WithRows(rows))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 36},
		{Title: "Ended", Width: 16},
		{Title: "Lang", Width: 5},
		{Title: "Source", Width: 8},
		{Title: "WPM", Width: 7},
		{Title: "Acc", Width: 7},
		{Title: "Cons", Width: 7},
		{Title: "Errors", Width: 6},
	}
}

// sessionRows lists sessions newest first.
func sessionRows(sessions []model.SessionAggregate) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, table.Row{
			s.PublicID,
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Lang,
			s.Source,
			fmt.Sprintf("%.1f", s.Wpm),
			fmt.Sprintf("%.1f%%", s.Accuracy),
			fmt.Sprintf("%.1f%%", s.Consistency),
			fmt.Sprintf("%d", s.Errors),
		})
	}
	return rows
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 8},
		{Title: "Accuracy", Width: 9},
		{Title: "Attempts", Width: 9},
		{Title: "Errors", Width: 7},
	}
}

// charRows lists characters by attempts, most practiced first.
func charRows(aggs []model.CharAggregate) []table.Row {
	byChar := make(map[string]model.CharAggregate, len(aggs))
	for _, agg := range aggs {
		byChar[agg.Char] = agg
	}
	order := stats.TopCharsByFrequency(aggs, len(aggs))
	rows := make([]table.Row, 0, len(order))
	for _, ch := range order {
		agg := byChar[ch]
		acc := 100.0
		if agg.Attempts > 0 {
			acc = max(0, 1-float64(agg.Errors)/float64(agg.Attempts)) * 100
		}
		rows = append(rows, table.Row{
			stats.CharLabel(ch),
			fmt.Sprintf("%.2f%%", acc),
			fmt.Sprintf("%d", agg.Attempts),
			fmt.Sprintf("%d", agg.Errors),
		})
	}
	return rows
}

var curveWindows = []int{5, 10, 20, 50, 100}

func nextCurveWindow(current int) int {
	for _, w := range curveWindows {
		if w > current {
			return w
		}
	}
	return curveWindows[len(curveWindows)-1]
}

func prevCurveWindow(current int) int {
	for i := len(curveWindows) - 1; i >= 0; i-- {
		if curveWindows[i] < current {
			return curveWindows[i]
		}
	}
	return curveWindows[0]
}
