package view

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/soocke/pixel-line-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SettingsPanel holds the detection tuning form. Changes are applied to the
// shared config store and persisted to the config file.
type SettingsPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges()
}

var settingLabels = map[string]string{
	"capture_size":    "Capture Size",
	"hough_threshold": "Hough Threshold",
	"min_line_length": "Min Line Length",
	"max_line_gap":    "Max Line Gap",
	"target_fps":      "Target FPS",
}

type settingsPanel struct {
	store    *config.Store
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by config key
}

func NewSettingsPanel(store *config.Store, cfgPath string, logger *slog.Logger) SettingsPanel {
	return &settingsPanel{store: store, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *settingsPanel) Build(startRow int) (row int) {
	cfg := v.store.Snapshot()
	row = startRow
	for _, r := range config.Ranges {
		label := fmt.Sprintf("%s (%d-%d)", settingLabels[r.Key], r.Min, r.Max)
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(10))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		v.widgets[r.Key] = w
		row++
	}
	v.fill(cfg)
	v.applyBtn = Button(Txt("Apply"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *settingsPanel) fill(cfg config.Config) {
	for key, w := range v.widgets {
		if p := cfg.Field(key); p != nil && w != nil {
			w.Delete("1.0", END)
			w.Insert("1.0", fmt.Sprint(*p))
		}
	}
}

func (v *settingsPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *settingsPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.Join(w.Get("1.0", END), "")
}

// ApplyChanges copies the form into the store. Unparsable fields keep their
// previous value; out of range values are clamped.
func (v *settingsPanel) ApplyChanges() {
	if v.store == nil {
		return
	}
	cfg, err := v.store.Update(func(c *config.Config) {
		for key, w := range v.widgets {
			if ferr := c.SetField(key, v.text(w)); ferr != nil && v.logger != nil {
				v.logger.Warn("settings.invalid", "key", key, "error", ferr)
			}
		}
	})
	if err != nil {
		if v.logger != nil {
			v.logger.Error("settings.apply failed", "error", err)
		}
		return
	}
	v.fill(cfg)
	if v.cfgPath == "" {
		return
	}
	if err := cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
}
