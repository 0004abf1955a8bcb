package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 6
	minPlotWidth        = 10
	axisLabelTop        = "max"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var (
	blockLevels  = []rune(" ▁▂▃▄▅▆▇█")
	colorPalette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m", "\x1b[34m"}
)

// PlotSeries renders one block chart per series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return plotSeries(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders block charts with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return plotSeries(w, title, series, width, height, forceColor)
}

func plotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	var nonEmpty []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	useColor := shouldUseColor(w, forceColor)

	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	for i, s := range nonEmpty {
		values := resample(s.Values, width)
		lo, hi := minMax(values)
		fmt.Fprintf(&b, "%s: min=%.2f max=%.2f\n", s.Name, lo, hi)
		color := ""
		if useColor {
			color = colorPalette[i%len(colorPalette)]
		}
		for _, row := range blockRows(values, lo, hi, height) {
			label := ""
			switch {
			case row.top:
				label = axisLabelTop
			case row.bottom:
				label = axisLabelBottom
			}
			fmt.Fprintf(&b, "%*s%s", utf8.RuneCountInString(axisLabelTop), label, axisSeparator)
			if color != "" {
				b.WriteString(color + row.text + colorReset)
			} else {
				b.WriteString(row.text)
			}
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

type blockRow struct {
	text   string
	top    bool
	bottom bool
}

// blockRows draws each value as a column of eighth-height blocks.
func blockRows(values []float64, lo, hi float64, height int) []blockRow {
	steps := len(blockLevels) - 1
	levels := make([]int, len(values))
	for i, v := range values {
		frac := 0.5
		if hi-lo > 1e-9 {
			frac = (v - lo) / (hi - lo)
		}
		// Every column keeps at least one step so the minimum stays visible.
		levels[i] = max(1, int(math.Round(frac*float64(height*steps))))
	}
	rows := make([]blockRow, height)
	for y := 0; y < height; y++ {
		base := (height - 1 - y) * steps
		runes := make([]rune, len(levels))
		for x, level := range levels {
			runes[x] = blockLevels[min(max(level-base, 0), steps)]
		}
		rows[y] = blockRow{text: string(runes), top: y == 0, bottom: y == height-1}
	}
	return rows
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	for i := range out {
		start := i * n / width
		end := max((i+1)*n/width, start+1)
		out[i] = Mean(values[start:min(end, n)])
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

// TerminalWidth returns the width of stdout, or a fallback when it is not a terminal.
func TerminalWidth() int {
	return terminalWidth()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
