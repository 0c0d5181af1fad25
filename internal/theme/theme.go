// Package theme renders terminal output in a light or dark palette,
// mirroring the web client's persisted light/dark toggle.
package theme

import (
	"fmt"
	"os"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse validates a theme name.
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	case "":
		return Light, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Palette holds the ANSI sequences for one theme.
type Palette struct {
	Primary string
	Success string
	Danger  string
	Warning string
	Muted   string
	Bold    string
	Reset   string
}

var (
	lightPalette = Palette{
		Primary: "\x1b[34m",
		Success: "\x1b[32m",
		Danger:  "\x1b[31m",
		Warning: "\x1b[33m",
		Muted:   "\x1b[90m",
		Bold:    "\x1b[1m",
		Reset:   "\x1b[0m",
	}
	darkPalette = Palette{
		Primary: "\x1b[94m",
		Success: "\x1b[92m",
		Danger:  "\x1b[91m",
		Warning: "\x1b[93m",
		Muted:   "\x1b[37m",
		Bold:    "\x1b[1m",
		Reset:   "\x1b[0m",
	}
)

// Palette returns the ANSI palette for the theme. Colors are disabled when
// NO_COLOR is set, per the informal convention.
func (t Theme) Palette() Palette {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return Palette{}
	}
	if t == Dark {
		return darkPalette
	}
	return lightPalette
}

// PaperBadge colors an uploaded-paper status like the web client's badges.
func (p Palette) PaperBadge(s domain.PaperStatus) string {
	switch s {
	case domain.PaperCompleted:
		return p.Success + string(s) + p.Reset
	case domain.PaperFailed:
		return p.Danger + string(s) + p.Reset
	}
	return p.Warning + string(s) + p.Reset
}

// GenerationBadge colors a generated-paper status.
func (p Palette) GenerationBadge(s domain.GenerationStatus) string {
	switch s {
	case domain.GenerationCompleted:
		return p.Success + string(s) + p.Reset
	case domain.GenerationFailed:
		return p.Danger + string(s) + p.Reset
	}
	return p.Warning + string(s) + p.Reset
}
