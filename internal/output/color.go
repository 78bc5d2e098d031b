package output

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// colorizeLabel greys out labels that fall below the threshold.
func colorizeLabel(kept bool, text string, colorize bool) string {
	if !colorize || kept {
		return text
	}
	return colorGray + text + colorReset
}

// colorizeRate highlights how much of the data a threshold retains:
// red below 50%, yellow below 90%.
func colorizeRate(rate float64, text string, colorize bool) string {
	if !colorize {
		return text
	}
	switch {
	case rate < 0.5:
		return colorBold + colorRed + text + colorReset
	case rate < 0.9:
		return colorYellow + text + colorReset
	default:
		return text
	}
}

// colorizeDropped renders a dropped-label count.
func colorizeDropped(n int, colorize bool) string {
	text := fmt.Sprintf("%d dropped", n)
	if !colorize || n == 0 {
		return text
	}
	return colorYellow + text + colorReset
}
