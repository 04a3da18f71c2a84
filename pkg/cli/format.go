// Package cli provides shared formatting helpers for the netsim command line.
package cli

import (
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

// SetColor forces colored output on or off. By default color follows
// NO_COLOR and whether stdout is a terminal.
func SetColor(enabled bool) {
	color.NoColor = !enabled
	for _, c := range []*color.Color{green, yellow, red, bold, dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Green renders s in green.
func Green(s string) string { return green.Sprint(s) }

// Yellow renders s in yellow.
func Yellow(s string) string { return yellow.Sprint(s) }

// Red renders s in red.
func Red(s string) string { return red.Sprint(s) }

// Bold renders s in bold.
func Bold(s string) string { return bold.Sprint(s) }

// Dim renders s faint.
func Dim(s string) string { return dim.Sprint(s) }

// Outcome renders command output red when the command failed.
func Outcome(output string, success bool) string {
	if success || output == "" {
		return output
	}
	return Red(output)
}

// DotPad pads name with dots to the given width.
// Example: DotPad("R1", 12) → "R1 ........."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	dots := width - len(name) - 1
	return name + " " + strings.Repeat(".", dots)
}
