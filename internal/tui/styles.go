package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typist/internal/session"
	"github.com/verte-zerg/typist/internal/typing"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	wrongStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	wasWrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A35C5C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// charStyle picks the style of one character. The cursor underlines whatever
// style the character already has.
func charStyle(ctx session.RenderingContext, cursorWord bool) lipgloss.Style {
	var style lipgloss.Style
	switch ctx.Character.State {
	case typing.StateCorrect:
		style = correctStyle
	case typing.StateCorrected:
		style = correctedStyle
	case typing.StateWrong:
		style = wrongStyle
	case typing.StateWasWrong, typing.StateWasCorrected:
		style = wasWrongStyle
	default:
		style = pendingStyle
		if cursorWord {
			style = currentWordStyle
		}
	}
	if ctx.HasCursor {
		style = style.Underline(true)
	}
	return style
}

func charTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
