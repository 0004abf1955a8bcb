// Package source produces practice text from word lists, files and
// external commands.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Source produces the text of one practice session.
type Source interface {
	Name() string
	Text(ctx context.Context) (string, error)
}

// WordSource builds text from a word list.
type WordSource struct {
	Gen     *Generator
	Words   []string
	Count   int
	Options Options
	// Shuffle draws a permutation of the list instead of sampling.
	Shuffle bool
	// WeakSet biases sampling toward these runes when non-empty.
	WeakSet    map[rune]struct{}
	WeakFactor float64
}

func (s *WordSource) Name() string {
	if s.Shuffle {
		return "shuffle"
	}
	return "words"
}

func (s *WordSource) Text(context.Context) (string, error) {
	if len(s.Words) == 0 {
		return "", ErrEmptyText
	}
	var words []string
	switch {
	case s.Shuffle:
		words = s.Gen.Shuffle(s.Words, s.Count, s.Options)
	case len(s.WeakSet) > 0:
		words = s.Gen.GenerateWeighted(s.Words, s.Count, s.Options, s.WeakSet, s.WeakFactor)
	default:
		words = s.Gen.Generate(s.Words, s.Count, s.Options)
	}
	return strings.Join(words, " "), nil
}

// FileSource reads practice text from a file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Text(context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.Path, err)
	}
	text := NormalizeText(string(data))
	if text == "" {
		return "", fmt.Errorf("%s: %w", s.Path, ErrEmptyText)
	}
	return text, nil
}

// OutputFormat tells how command output is split into words.
type OutputFormat string

const (
	FormatText      OutputFormat = "text"
	FormatLines     OutputFormat = "lines"
	FormatJSONArray OutputFormat = "json"
)

// DefaultCommandTimeout bounds a command source run.
const DefaultCommandTimeout = 10 * time.Second

// CommandError describes a failed command run.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("command %q exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// CommandSource runs an external command and uses its standard output.
type CommandSource struct {
	Command string
	Format  OutputFormat
	Timeout time.Duration
}

func (s *CommandSource) Name() string { return "command" }

func (s *CommandSource) Text(ctx context.Context) (string, error) {
	argv := strings.Fields(s.Command)
	if len(argv) == 0 {
		return "", errors.New("command is empty")
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		cerr := &CommandError{Command: s.Command, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		if ctx.Err() != nil {
			cerr.Err = ctx.Err()
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			cerr.ExitCode = exitErr.ExitCode()
		}
		return "", cerr
	}

	text, err := parseOutput(stdout.String(), s.Format)
	if err != nil {
		return "", fmt.Errorf("command %q: %w", s.Command, err)
	}
	if text == "" {
		return "", fmt.Errorf("command %q: %w", s.Command, ErrEmptyText)
	}
	return text, nil
}

func parseOutput(out string, format OutputFormat) (string, error) {
	switch format {
	case "", FormatText:
		return NormalizeText(out), nil
	case FormatLines:
		return strings.Join(strings.Fields(out), " "), nil
	case FormatJSONArray:
		var words []string
		if err := json.Unmarshal([]byte(out), &words); err != nil {
			return "", fmt.Errorf("parse json output: %w", err)
		}
		return strings.Join(strings.Fields(strings.Join(words, " ")), " "), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// NormalizeText converts line endings to '\n', drops trailing spaces on each
// line and trims leading and trailing blank lines.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
