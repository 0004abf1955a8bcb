// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typist/internal/logging"
	"github.com/verte-zerg/typist/internal/mode"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/session"
	statsPkg "github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/source"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/typing"
)

const (
	tickInterval     = 200 * time.Millisecond
	defaultWidth     = 80
	visibleTextLines = 3
	// maxTopUps bounds the source calls made after one keystroke.
	maxTopUps = 8
)

type screen int

const (
	screenTyping screen = iota
	screenResults
)

type tickMsg time.Time

// Options configures the typing UI.
type Options struct {
	Config     model.Config
	Store      *store.Store
	Source     source.Source
	Conditions mode.Conditions
	Stats      statsPkg.Config
	Clock      func() time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	opts Options
	keys keyMap
	help help.Model

	width  int
	height int

	screen    screen
	session   *session.Session
	startedAt time.Time
	result    results
	err       error

	weakNoticeLogged bool

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM   float64
	allAcc   float64
	allCount int
}

// NewModel constructs a typing TUI model and loads the first text.
func NewModel(opts Options) (*Model, error) {
	if opts.Source == nil {
		return nil, errors.New("no text source configured")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	m := &Model{
		opts: opts,
		keys: defaultKeyMap(),
		help: help.New(),
	}
	if err := m.startSession(); err != nil {
		return nil, err
	}
	m.loadFooterStats()
	return m, nil
}

// Err returns the error that stopped the UI, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.screen == screenResults {
			m.result.setHeight(m.height)
		}
		return m, nil
	case tickMsg:
		if m.screen == screenTyping && m.session.HasStarted() {
			m.checkEnd()
		}
		return m, tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.screen == screenResults {
			return m.updateResults(msg)
		}
		return m.updateTyping(msg)
	}
	return m, nil
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Restart):
		return m, m.restart()
	case key.Matches(msg, m.keys.Delete):
		if m.opts.Conditions.Accepts(typing.DeleteKey()) {
			m.input(typing.DeleteKey())
		}
	default:
		for _, r := range keyRunes(msg) {
			if !m.input(typing.TypeKey(r)) {
				break
			}
		}
	}
	if m.err != nil {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Next) {
		return m, m.restart()
	}
	var cmd tea.Cmd
	m.result.table, cmd = m.result.table.Update(msg)
	return m, cmd
}

// input feeds one key to the session. It returns false once the session has
// ended or failed and further keys must be dropped.
func (m *Model) input(k typing.Key) bool {
	if !m.session.HasStarted() {
		m.startedAt = m.opts.Clock()
	}
	_, ok, err := m.session.Input(k)
	if err != nil {
		logging.Errorf("typing state out of sync: %v", err)
		m.err = err
		return false
	}
	if ok {
		m.topUp()
	}
	return !m.checkEnd()
}

// checkEnd finishes the session when an end condition holds.
func (m *Model) checkEnd() bool {
	reason := m.opts.Conditions.Check(m.session)
	if reason == mode.ReasonNone {
		return false
	}
	m.finish(reason)
	return true
}

// topUp appends source text while the mode conditions ask for more.
func (m *Model) topUp() {
	for i := 0; i < maxTopUps && m.opts.Conditions.NeedsMoreText(m.session); i++ {
		text, err := m.opts.Source.Text(context.Background())
		if err != nil {
			logging.Warnf("failed to extend text: %v", err)
			return
		}
		m.session.PushString(" " + text)
	}
}

func (m *Model) restart() tea.Cmd {
	if err := m.startSession(); err != nil {
		logging.Errorf("failed to start session: %v", err)
		m.err = err
		return tea.Quit
	}
	return nil
}

func (m *Model) startSession() error {
	text, err := m.opts.Source.Text(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load %s text: %w", m.opts.Source.Name(), err)
	}
	s, ok := session.New(text,
		session.WithConfig(m.opts.Stats),
		session.WithClock(m.opts.Clock),
	)
	if !ok {
		return fmt.Errorf("%s: %w", m.opts.Source.Name(), source.ErrEmptyText)
	}
	m.session = s
	m.startedAt = time.Time{}
	m.screen = screenTyping
	m.topUp()
	logging.Debugf("session started: source=%s chars=%d words=%d", m.opts.Source.Name(), s.TextLen(), s.WordCount())
	return nil
}

func (m *Model) finish(reason mode.Reason) {
	var st statsPkg.Statistics
	if reason == mode.ReasonCompleted {
		var err error
		if st, err = m.session.Finalize(); err != nil {
			logging.Warnf("failed to finalize session: %v", err)
			st = m.session.Summary()
		}
	} else {
		st = m.session.Summary()
	}
	logging.Debugf("session ended: %s after %s", reason, st.Duration)

	publicID := ""
	if m.session.HasStarted() {
		publicID = m.save(st)
		m.recordFooter(st)
	}
	m.result = newResults(st, reason, publicID, m.height)
	m.screen = screenResults

	if m.opts.Config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) save(st statsPkg.Statistics) string {
	if m.opts.Store == nil {
		return ""
	}
	rec := st.SessionRecord(m.startedAt, m.opts.Config.Lang, m.opts.Source.Name(), m.session.TextLen())
	_, publicID, err := m.opts.Store.InsertSession(context.Background(), rec, st.CharStats(), st.MeasurementRecords())
	if err != nil {
		logging.Errorf("failed to save session: %v", err)
		return ""
	}
	return publicID
}

func (m *Model) refreshWeakSet() {
	ws, ok := m.opts.Source.(*source.WordSource)
	if !ok || m.opts.Store == nil {
		return
	}
	aggs, err := m.opts.Store.GetWeakChars(context.Background(), m.opts.Config.WeakWindow, m.opts.Config.Lang)
	if err != nil {
		logging.Warnf("failed to load weak chars: %v", err)
		return
	}
	ws.WeakSet = statsPkg.SelectWeakChars(aggs, m.opts.Config.WeakTop)
	if len(ws.WeakSet) == 0 && !m.weakNoticeLogged {
		logging.Infof("no stats available for weak-char focus yet; using normal generator")
		m.weakNoticeLogged = true
	}
}

func (m *Model) loadFooterStats() {
	if m.opts.Store == nil {
		return
	}
	sessions, err := m.opts.Store.ListSessions(context.Background(), model.StatsConfig{Lang: m.opts.Config.Lang})
	if err != nil {
		logging.Warnf("failed to load session stats: %v", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM = last.Wpm
	m.lastAcc = last.Accuracy
	m.hasLast = true
	for _, s := range sessions {
		m.allWPM += s.Wpm
		m.allAcc += s.Accuracy
	}
	m.allCount = len(sessions)
	m.allWPM /= float64(m.allCount)
	m.allAcc /= float64(m.allCount)
}

func (m *Model) recordFooter(st statsPkg.Statistics) {
	m.lastWPM = st.Wpm.Actual
	m.lastAcc = st.Accuracy.Actual
	m.hasLast = true
	n := float64(m.allCount)
	m.allWPM = (m.allWPM*n + st.Wpm.Actual) / (n + 1)
	m.allAcc = (m.allAcc*n + st.Accuracy.Actual) / (n + 1)
	m.allCount++
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error()) + "\n"
	}
	var content, hints string
	if m.screen == screenResults {
		content = m.result.view()
		hints = m.help.ShortHelpView(m.keys.resultHelp())
	} else {
		content = lipgloss.NewStyle().Width(m.contentWidth()).Render(
			renderText(m.session, m.contentWidth(), visibleTextLines))
		hints = m.help.ShortHelpView(m.keys.typingHelp())
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{content, footer, hints}, "\n")
	}
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, hints)
	return body + "\n" + footerLine + "\n" + helpLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return defaultWidth
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderFooter() string {
	var segments []string
	if m.screen == screenTyping {
		if left, ok := m.opts.Conditions.Remaining(m.session); ok {
			segments = append(segments, fmt.Sprintf("Time %ds", int(left.Round(time.Second).Seconds())))
		} else {
			segments = append(segments, fmt.Sprintf("Progress %d%%", int(m.session.CompletionPercentage())))
		}
		if goal := m.opts.Conditions.WordGoal; goal > 0 {
			segments = append(segments, fmt.Sprintf("Words %d/%d", m.session.WordsTypedCount(), goal))
		}
		if live, ok := m.session.Statistics().LastMeasurement(); ok {
			segments = append(segments, fmt.Sprintf("Now %.1f WPM · %.1f%%", live.Wpm.Actual, live.Accuracy.Actual))
		}
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc))
	}
	if m.allCount > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
