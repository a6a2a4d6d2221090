// ABOUTME: Icon set for the bi-admin TUI with Nerd Font detection
// ABOUTME: Each icon carries a plain Unicode fallback for terminals without patched fonts

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// Explicit override via environment variable
	if env := os.Getenv("BI_ADMIN_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	// Check for terminals known to commonly have Nerd Fonts
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	// iTerm2, Alacritty, WezTerm, Kitty typically have Nerd Fonts
	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	// Check for common Nerd Font environment indicators
	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	// Default to Unicode fallback for maximum compatibility
	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Directory entities
	Business = Icon{"󰈏", "▣"} // nf-md-domain
	Users    = Icon{"󰡉", "☺"} // nf-md-account_group
	Service  = Icon{"󰖷", "◆"} // nf-md-wrench
	Product  = Icon{"󰏗", "■"} // nf-md-package_variant
	Category = Icon{"󰓹", "▤"} // nf-md-tag_multiple
	Globe    = Icon{"󰖟", "◎"} // nf-md-web
	Plan     = Icon{"󰄬", "★"} // nf-md-check
	Signup   = Icon{"󰄭", "▁"} // nf-md-chart_line

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Next    = Icon{"󰁔", "→"} // nf-md-arrow_right
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Lock    = Icon{"󰌾", "⚿"} // nf-md-lock
	Logout  = Icon{"󰍃", "⏻"} // nf-md-logout

	// Application
	App = Icon{"󰈏", "◈"}
)
