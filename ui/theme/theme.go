// Package theme activates the base ttk theme and configures the named styles
// used by the views.
package theme

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PaletteSnapshot holds the resolved colours for one mode.
type PaletteSnapshot struct {
	AppBg   string
	Surface string
	Primary string
	Danger  string
	Accent  string
	Text    string
}

var (
	light = PaletteSnapshot{
		AppBg:   "#f7f9fb",
		Surface: "#ffffff",
		Primary: "#2563eb",
		Danger:  "#dc2626",
		Accent:  "#10b981",
		Text:    "#1e293b",
	}
	dark = PaletteSnapshot{
		AppBg:   "#0f172a",
		Surface: "#1e293b",
		Primary: "#3b82f6",
		Danger:  "#ef4444",
		Accent:  "#10b981",
		Text:    "#f1f5f9",
	}
)

// Style names passed to Style(...) on ttk widgets.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
)

// For returns the palette of the requested mode.
func For(darkMode bool) PaletteSnapshot {
	if darkMode {
		return dark
	}
	return light
}

// Init activates the base theme and (re)configures all styles. It must run
// on the Tk thread before any styled widget is created.
func Init(darkMode bool) {
	p := For(darkMode)
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStateLabel,
		Foreground("white"),
		Background(p.Accent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
}
