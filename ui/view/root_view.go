package view

import (
	"image"
	"log/slog"

	"github.com/soocke/pixel-line-go/config"
	"github.com/soocke/pixel-line-go/ui/presenter"
	"github.com/soocke/pixel-line-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level layout and wires UI callbacks.
// It owns the subviews and exposes the view contracts the presenters need.
type RootView struct {
	store   *config.Store
	cfgPath string
	logger  *slog.Logger

	Settings SettingsPanel
	Preview  Preview
	Stats    StatsView

	StateLabel *TLabelWidget
}

func NewRootView(store *config.Store, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{store: store, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. target is the captured window title.
func (rv *RootView) Build(target string, onToggle func(), onExit func()) {
	if rv == nil {
		return
	}
	header := Frame()
	Grid(header, Row(0), Column(0), Columnspan(3), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	Grid(Label(Txt("Window: "+target), Anchor("w")), In(header), Row(0), Column(0), Sticky("w"), Padx("0.2m"))
	rv.StateLabel = TLabel(Txt("Detection: on"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, In(header), Row(0), Column(1), Sticky("we"), Padx("0.4m"))
	rv.Stats = NewStatsView(header, 1, 0)

	rv.Settings = NewSettingsPanel(rv.store, rv.cfgPath, rv.logger)
	end := rv.Settings.Build(1)

	btnFrame := Frame()
	Grid(btnFrame, Row(end), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	toggle := TButton(Txt("Pause / Resume"), Style(theme.StylePrimaryButton), Command(onToggle))
	Grid(toggle, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"))
	exit := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(onExit))
	Grid(exit, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"))

	rv.Preview = NewPreview(1, 2, end)
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// PreviewReset clears the preview.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
}

func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdatePreview(img)
	}
}

func (rv *RootView) SetStats(s presenter.Stats) {
	if rv != nil && rv.Stats != nil {
		rv.Stats.SetStats(s)
	}
}
