// Package main provides the CLI entrypoint for typist.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typist/internal/config"
	"github.com/verte-zerg/typist/internal/logging"
	"github.com/verte-zerg/typist/internal/mode"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/source"
	"github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/tui"
)

const (
	defaultLang       = "en"
	defaultWords      = 25
	defaultCaps       = 0.5
	defaultPunct      = 0.5
	defaultWeakTop    = 8
	defaultWeakFactor = 2.0
	defaultWeakWindow = 20
	defaultSource     = model.SourceWords
	defaultFormat     = string(source.FormatText)
)

const defaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

var (
	practiceLang       string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceSource     string
	practiceFile       string
	practiceCommand    string
	practiceFormat     string

	sessionInterval       time.Duration
	sessionTimeLimit      time.Duration
	sessionWordGoal       int
	sessionAllowDeletions bool
	sessionAllowErrors    bool

	debugLog bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typist",
		Short:         "Terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&practiceLang, "lang", defaultLang, "language code of the word list")
	flags.IntVar(&practiceWords, "words", defaultWords, "words per text")
	flags.Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	flags.Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	flags.StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	flags.BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	flags.IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	flags.Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	flags.IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")
	flags.StringVar(&practiceSource, "source", defaultSource, "text source: words, shuffle, file or command")
	flags.StringVar(&practiceFile, "file", "", "text file for --source file")
	flags.StringVar(&practiceCommand, "command", "", "command whose output is the text for --source command")
	flags.StringVar(&practiceFormat, "format", defaultFormat, "command output format: text, lines or json")
	flags.DurationVar(&sessionInterval, "measurement-interval", stats.DefaultMeasurementInterval, "interval between speed samples")
	flags.DurationVar(&sessionTimeLimit, "time-limit", 0, "end the session after this long (0 disables)")
	flags.IntVar(&sessionWordGoal, "word-goal", 0, "end the session after this many words (0 disables)")
	flags.BoolVar(&sessionAllowDeletions, "allow-deletions", true, "allow backspace")
	flags.BoolVar(&sessionAllowErrors, "allow-errors", true, "keep going after a mistake")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write debug logs to the log file")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if !debugLog {
			return nil
		}
		closer, err := logging.SetupFile(config.DefaultLogPath())
		if err != nil {
			return err
		}
		rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
			_ = closer.Close()
		}
		return nil
	}

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	cfg := model.Config{
		Lang:                practiceLang,
		Words:               practiceWords,
		CapsPct:             practiceCaps,
		PunctPct:            practicePunct,
		PunctSet:            practicePunctSet,
		FocusWeak:           practiceFocusWeak,
		WeakTop:             practiceWeakTop,
		WeakFactor:          practiceWeakFactor,
		WeakWindow:          practiceWeakWindow,
		Source:              practiceSource,
		File:                practiceFile,
		Command:             practiceCommand,
		Format:              practiceFormat,
		MeasurementInterval: sessionInterval,
		TimeLimit:           sessionTimeLimit,
		WordGoal:            sessionWordGoal,
		AllowDeletions:      sessionAllowDeletions,
		AllowErrors:         sessionAllowErrors,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if ws, ok := src.(*source.WordSource); ok && cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow, cfg.Lang)
		if err != nil {
			logging.Warnf("failed to load weak chars: %v", err)
		} else {
			ws.WeakSet = stats.SelectWeakChars(aggs, cfg.WeakTop)
		}
	}

	m, err := tui.NewModel(tui.Options{
		Config:     cfg,
		Store:      st,
		Source:     src,
		Conditions: conditionsFor(cfg),
		Stats:      stats.Config{MeasurementInterval: cfg.MeasurementInterval},
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return m.Err()
}

// applyFileConfig fills every flag the user did not set from the config file.
func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	p, s := fileCfg.Practice, fileCfg.Session
	applyConfig(cmd, "lang", &practiceLang, p.Lang)
	applyConfig(cmd, "words", &practiceWords, p.Words)
	applyConfig(cmd, "caps", &practiceCaps, p.CapsPct)
	applyConfig(cmd, "punct", &practicePunct, p.PunctPct)
	applyConfig(cmd, "punct-set", &practicePunctSet, p.PunctSet)
	applyConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyConfig(cmd, "weak-factor", &practiceWeakFactor, p.WeakFactor)
	applyConfig(cmd, "weak-window", &practiceWeakWindow, p.WeakWindow)
	applyConfig(cmd, "source", &practiceSource, p.Source)
	applyConfig(cmd, "file", &practiceFile, p.File)
	applyConfig(cmd, "command", &practiceCommand, p.Command)
	applyConfig(cmd, "format", &practiceFormat, p.Format)
	applyConfig(cmd, "word-goal", &sessionWordGoal, s.WordGoal)
	applyConfig(cmd, "allow-deletions", &sessionAllowDeletions, s.AllowDeletions)
	applyConfig(cmd, "allow-errors", &sessionAllowErrors, s.AllowErrors)
	applyDurationConfig(cmd, "measurement-interval", &sessionInterval, s.MeasurementInterval)
	applyDurationConfig(cmd, "time-limit", &sessionTimeLimit, s.TimeLimit)
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	applyConfig(cmd, name, target, &value.Duration)
}

func conditionsFor(cfg model.Config) mode.Conditions {
	return mode.Conditions{
		TimeLimit:      cfg.TimeLimit,
		WordGoal:       cfg.WordGoal,
		AllowDeletions: cfg.AllowDeletions,
		AllowErrors:    cfg.AllowErrors,
	}
}

func buildSource(cfg model.Config) (source.Source, error) {
	switch cfg.Source {
	case model.SourceFile:
		return &source.FileSource{Path: cfg.File}, nil
	case model.SourceCommand:
		return &source.CommandSource{
			Command: cfg.Command,
			Format:  source.OutputFormat(cfg.Format),
			Timeout: source.DefaultCommandTimeout,
		}, nil
	}
	wordPath := config.DefaultWordListPath(cfg.Lang)
	words, err := source.LoadWords(wordPath, source.FilterForLang(cfg.Lang))
	if err != nil {
		return nil, wordListLoadError(cfg.Lang, wordPath, err)
	}
	return &source.WordSource{
		Gen:   source.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano()))),
		Words: words,
		Count: cfg.Words,
		Options: source.Options{
			CapsPct:  cfg.CapsPct,
			PunctPct: cfg.PunctPct,
			PunctSet: []rune(cfg.PunctSet),
		},
		Shuffle:    cfg.Source == model.SourceShuffle,
		WeakFactor: cfg.WeakFactor,
	}, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.MeasurementInterval <= 0 {
		return fmt.Errorf("--measurement-interval must be > 0")
	}
	switch cfg.Source {
	case model.SourceWords, model.SourceShuffle:
	case model.SourceFile:
		if cfg.File == "" {
			return fmt.Errorf("--file is required with --source file")
		}
	case model.SourceCommand:
		if strings.TrimSpace(cfg.Command) == "" {
			return fmt.Errorf("--command is required with --source command")
		}
		switch source.OutputFormat(cfg.Format) {
		case source.FormatText, source.FormatLines, source.FormatJSONArray:
		default:
			return fmt.Errorf("--format must be text, lines or json")
		}
	default:
		return fmt.Errorf("--source must be words, shuffle, file or command")
	}
	return conditionsFor(cfg).Validate()
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: typist langs",
		"Word lists are plain text files with one word per line.",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config file from the template unless it exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typist configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q              # Language code of the word list
# words = %d              # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q
# focus-weak = false      # Bias practice toward weak characters
# weak-top = %d           # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Number of recent sessions to compute weak chars
# source = %q        # words, shuffle, file or command
# file = ""               # Text file for source = "file"
# command = ""            # Command for source = "command"
# format = %q           # Command output: text, lines or json

[session]
# measurement-interval = %q
# time-limit = "60s"      # End after this long
# word-goal = 50          # End after this many words
# allow-deletions = true
# allow-errors = true
`,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultSource,
		defaultFormat,
		stats.DefaultMeasurementInterval.String(),
	)
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List installed word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultWordListDir()
	langs, err := source.ListLangs(dir)
	if err != nil {
		return fmt.Errorf("failed to read word list directory: %w", err)
	}
	if len(langs) == 0 {
		return fmt.Errorf("no word lists found in %s", dir)
	}
	return printLines(cmd.OutOrStdout(), langs)
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
