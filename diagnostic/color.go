// Copyright © 2024 The scenelint authors

package diagnostic

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode parses the --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (use auto, always, or never)", s)
	}
}

// palette holds the styles used for diagnostic output.
type palette struct {
	bold     *color.Color
	yellow   *color.Color
	boldRed  *color.Color
	boldBlue *color.Color
	boldCyan *color.Color
}

func newPalette(enabled bool) palette {
	style := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		bold:     style(color.Bold),
		yellow:   style(color.FgYellow),
		boldRed:  style(color.FgRed, color.Bold),
		boldBlue: style(color.FgBlue, color.Bold),
		boldCyan: style(color.FgCyan, color.Bold),
	}
}

// choosePalette selects the palette based on the mode and the output file
// descriptor.
func choosePalette(mode ColorMode, w *os.File) palette {
	switch mode {
	case ColorAlways:
		return newPalette(true)
	case ColorNever:
		return newPalette(false)
	default: // ColorAuto
		if os.Getenv("NO_COLOR") != "" {
			return newPalette(false)
		}
		return newPalette(isTerminal(w))
	}
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
