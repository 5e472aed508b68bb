package view

import (
	"fmt"

	"github.com/soocke/pixel-line-go/ui/presenter"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// StatsView shows loop rate, the current direction and capture health.
type StatsView interface {
	SetStats(s presenter.Stats)
}

type statsView struct {
	rateLbl      *LabelWidget
	directionLbl *LabelWidget
	captureLbl   *LabelWidget
}

// NewStatsView grids three labels in parent starting at (row, startCol).
func NewStatsView(parent *FrameWidget, row, startCol int) StatsView {
	s := &statsView{rateLbl: Label(Width(22)), directionLbl: Label(Width(24)), captureLbl: Label(Width(26))}
	for i, l := range []*LabelWidget{s.rateLbl, s.directionLbl, s.captureLbl} {
		if parent != nil {
			Grid(l, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(l, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.SetStats(presenter.Stats{})
	return s
}

func (s *statsView) SetStats(st presenter.Stats) {
	if s == nil {
		return
	}
	s.rateLbl.Configure(Txt(fmt.Sprintf("%.0f fps  hit %.0f%%", st.FPS, st.HitRatio*100)))
	if st.Found {
		s.directionLbl.Configure(Txt(fmt.Sprintf("Angle %.1f°  |v| %.2f", st.AngleDeg, st.Magnitude)))
	} else {
		s.directionLbl.Configure(Txt("Angle: none"))
	}
	s.captureLbl.Configure(Txt(fmt.Sprintf("Capture: %s (%dms)", st.CaptureState, st.FrameAge.Milliseconds())))
}
