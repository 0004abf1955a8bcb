package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typist/internal/config"
	"github.com/verte-zerg/typist/internal/logging"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/statsui"
	"github.com/verte-zerg/typist/internal/store"
)

const defaultCurveWindow = 20

var (
	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsChars       string
	statsPlain       bool

	historyLang string
	historyLast int
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsChars, "char", "", "characters for per-char curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return renderStatsReport(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var since *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		since = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	return model.StatsConfig{
		Lang:        statsLang,
		Since:       since,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Chars:       statsChars,
	}, nil
}

// renderStatsReport prints the summary, learning curves and character
// breakdown for the selected sessions.
func renderStatsReport(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	width := stats.TerminalWidth()
	if err := stats.RenderCurvesWithSize(w, report.Sessions, cfg.CurveWindow, width, 0, false); err != nil {
		return err
	}
	if err := stats.RenderCharTable(w, report.CharAggsWindow); err != nil {
		return err
	}
	return stats.RenderCharCurvesWithSize(w, report.Sessions, report.PerSession, report.CurveChars, cfg.CurveWindow, width, 0, false)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLang, "lang", "", "language filter")
	cmd.Flags().IntVar(&historyLast, "last", 20, "number of sessions to list (0 lists all)")
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one session with its speed curve",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	})
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	sessions, err := st.ListSessions(cmd.Context(), model.StatsConfig{Lang: historyLang})
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if historyLast > 0 && len(sessions) > historyLast {
		sessions = sessions[len(sessions)-historyLast:]
	}
	return stats.RenderHistory(cmd.OutOrStdout(), sessions)
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	return renderSessionDetail(cmd.Context(), cmd.OutOrStdout(), st, args[0])
}

func renderSessionDetail(ctx context.Context, w io.Writer, st *store.Store, publicID string) error {
	session, err := st.GetSession(ctx, publicID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	measurements, err := st.ListMeasurements(ctx, session.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load measurements: %w", err)
	}
	wpm := make([]float64, len(measurements))
	for i, m := range measurements {
		wpm[i] = m.Wpm
	}
	lines := []string{
		fmt.Sprintf("Session %s", session.PublicID),
		fmt.Sprintf("Ended: %s", session.EndedAt.Local().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Lang: %s  Source: %s", session.Lang, session.Source),
		fmt.Sprintf("WPM: %.1f", session.Wpm),
		fmt.Sprintf("Accuracy: %.1f%%", session.Accuracy),
		fmt.Sprintf("Consistency: %.1f%%", session.Consistency),
		fmt.Sprintf("Errors: %d", session.Errors),
		fmt.Sprintf("Time: %.1fs", float64(session.DurationMs)/1000),
	}
	if len(wpm) > 0 {
		lines = append(lines, fmt.Sprintf("WPM curve: [%s]", stats.Sparkline(wpm)))
	}
	return printLines(w, lines)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logging.Errorf("failed to close db: %v", err)
	}
}
