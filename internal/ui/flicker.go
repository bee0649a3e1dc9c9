package ui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/quangh/eegchess/internal/bci"
	"github.com/quangh/eegchess/internal/control"
)

// Flicker target colors
var (
	flickerOn       = color.RGBA{235, 235, 240, 255}
	flickerOff      = color.RGBA{25, 27, 31, 255}
	flickerBorder   = color.RGBA{70, 75, 82, 255}
	flickerDwell    = color.RGBA{76, 175, 120, 255}
	flickerFreqText = color.RGBA{120, 125, 135, 255}
)

// targetLabels index by control class.
var targetLabels = [control.NumClasses]string{"↑", "↓", "←", "→", "OK"}

// FlickerPanel draws the SSVEP stimulus targets: one square per
// selection command, each flickering at its configured frequency.
// Flicker phase is driven by wall-clock time so the rate holds
// regardless of the game's tick rate; the monitor refresh rate bounds
// how faithful high frequencies can be.
type FlickerPanel struct {
	cfg   bci.Config
	start time.Time
}

// NewFlickerPanel creates the stimulus panel for the given decoder
// configuration.
func NewFlickerPanel(cfg bci.Config) *FlickerPanel {
	return &FlickerPanel{cfg: cfg, start: time.Now()}
}

// on reports whether the target for class is in its bright phase.
func (fp *FlickerPanel) on(class int) bool {
	elapsed := time.Since(fp.start).Seconds()
	phase := elapsed * fp.cfg.Frequencies[class]
	return phase-float64(int64(phase)) < 0.5
}

// Draw renders the targets in a horizontal strip at (x, y) with the
// given cell size. state carries the decoder's current posterior for
// the dwell-progress ring.
func (fp *FlickerPanel) Draw(screen *ebiten.Image, x, y, cell int, state bci.State) {
	face := GetFaceWithSize(float64(cell) * 0.4)
	small := GetFaceWithSize(10)
	gap := cell / 5

	for class := 0; class < fp.cfg.NumClasses() && class < control.NumClasses; class++ {
		cx := x + class*(cell+gap)

		fill := flickerOff
		if fp.on(class) {
			fill = flickerOn
		}
		vector.DrawFilledRect(screen, scaleF(cx), scaleF(y), scaleF(cell), scaleF(cell), fill, false)

		// Dwell progress: border grows green as consecutive agreeing
		// windows accumulate on this target.
		borderC := flickerBorder
		borderW := float32(1)
		if class == state.Candidate && state.Streak > 0 {
			borderC = flickerDwell
			progress := float32(state.Streak) / float32(fp.cfg.DwellCount)
			if progress > 1 {
				progress = 1
			}
			borderW = 1 + 3*progress
		}
		vector.StrokeRect(screen, scaleF(cx), scaleF(y), scaleF(cell), scaleF(cell), borderW*float32(UIScale), borderC, false)

		// Command glyph, inverted against the flicker phase.
		if face != nil {
			label := targetLabels[class]
			glyph := flickerOn
			if fp.on(class) {
				glyph = flickerOff
			}
			w, h := MeasureText(label, face)
			op := &text.DrawOptions{}
			op.GeoM.Translate(scaleD(cx+cell/2)-w/2, scaleD(y+cell/2)-h/2)
			op.ColorScale.ScaleWithColor(glyph)
			text.Draw(screen, label, face, op)
		}

		// Stimulus frequency below the target.
		if small != nil {
			freq := fmt.Sprintf("%.1f Hz", fp.cfg.Frequencies[class])
			w, _ := MeasureText(freq, small)
			op := &text.DrawOptions{}
			op.GeoM.Translate(scaleD(cx+cell/2)-w/2, scaleD(y+cell+4))
			op.ColorScale.ScaleWithColor(flickerFreqText)
			text.Draw(screen, freq, small, op)
		}
	}
}

// DrawCue draws a single enlarged target for calibration trials: only
// the cued class flickers, with its command glyph shown.
func (fp *FlickerPanel) DrawCue(screen *ebiten.Image, x, y, size, class int) {
	fill := flickerOff
	if fp.on(class) {
		fill = flickerOn
	}
	vector.DrawFilledRect(screen, scaleF(x), scaleF(y), scaleF(size), scaleF(size), fill, false)
	vector.StrokeRect(screen, scaleF(x), scaleF(y), scaleF(size), scaleF(size), 2*float32(UIScale), flickerDwell, false)

	face := GetFaceWithSize(float64(size) * 0.4)
	if face == nil {
		return
	}
	label := targetLabels[class]
	glyph := flickerOn
	if fp.on(class) {
		glyph = flickerOff
	}
	w, h := MeasureText(label, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(x+size/2)-w/2, scaleD(y+size/2)-h/2)
	op.ColorScale.ScaleWithColor(glyph)
	text.Draw(screen, label, face, op)
}

// Width returns the strip width for the given cell size.
func (fp *FlickerPanel) Width(cell int) int {
	n := fp.cfg.NumClasses()
	if n > control.NumClasses {
		n = control.NumClasses
	}
	return n*cell + (n-1)*cell/5
}
