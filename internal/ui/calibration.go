package ui

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/quangh/eegchess/internal/bci"
	"github.com/quangh/eegchess/internal/control"
)

// Calibration screen dimensions
const (
	CalibrationWidth  = 440
	CalibrationHeight = 420
	CalibrationPadX   = 28
	CalibrationPadY   = 22

	calibWindowsPerClass = 16
	calibSettleTime      = time.Second
)

// calibPhase tracks where the calibration session is.
type calibPhase int

const (
	calibIntro calibPhase = iota
	calibRunning
	calibTraining
	calibDone
	calibFailed
)

// CalibrationScreen runs a cued calibration session: each command
// target is highlighted in turn while labeled windows are collected
// from the sample source, then a per-user model is trained and
// reported.
type CalibrationScreen struct {
	visible bool
	x, y    int

	cfg       bci.Config
	flicker   *FlickerPanel
	newSource func() bci.Source

	mu        sync.Mutex
	phase     calibPhase
	cueClass  int
	collected int
	total     int
	report    bci.CalibrationReport
	failErr   error

	cancel context.CancelFunc

	startBtn  *ModalButton
	cancelBtn *ModalButton
	doneBtn   *ModalButton

	onComplete func(model *bci.LDA, report bci.CalibrationReport)
	onCancel   func()
}

// NewCalibrationScreen creates the calibration modal. newSource must
// return a fresh, unstarted sample source for each session.
func NewCalibrationScreen(cfg bci.Config, newSource func() bci.Source) *CalibrationScreen {
	cs := &CalibrationScreen{
		cfg:       cfg,
		flicker:   NewFlickerPanel(cfg),
		newSource: newSource,
	}
	cs.x = (ScreenWidth - CalibrationWidth) / 2
	cs.y = (ScreenHeight - CalibrationHeight) / 2
	cs.createButtons()
	return cs
}

func (cs *CalibrationScreen) createButtons() {
	btnW, btnH := 120, 38
	btnY := cs.y + CalibrationHeight - CalibrationPadY - btnH

	cs.startBtn = NewModalButton(
		cs.x+CalibrationWidth-CalibrationPadX-btnW,
		btnY, btnW, btnH, "Start", true, nil,
	)
	cs.cancelBtn = NewModalButton(
		cs.x+CalibrationPadX,
		btnY, btnW, btnH, "Cancel", false, nil,
	)
	cs.doneBtn = NewModalButton(
		cs.x+(CalibrationWidth-btnW)/2,
		btnY, btnW, btnH, "Close", true, nil,
	)
}

// Show opens the calibration screen.
func (cs *CalibrationScreen) Show(onComplete func(*bci.LDA, bci.CalibrationReport), onCancel func()) {
	cs.visible = true
	cs.onComplete = onComplete
	cs.onCancel = onCancel

	cs.mu.Lock()
	cs.phase = calibIntro
	cs.cueClass = 0
	cs.collected = 0
	cs.total = cs.cfg.NumClasses() * calibWindowsPerClass
	cs.mu.Unlock()

	cs.startBtn.OnClick = cs.start
	cs.cancelBtn.OnClick = cs.abort
	cs.doneBtn.OnClick = cs.finish
}

// IsVisible returns true if the screen is visible.
func (cs *CalibrationScreen) IsVisible() bool {
	return cs.visible
}

// start kicks off the collection goroutine.
func (cs *CalibrationScreen) start() {
	ctx, cancel := context.WithCancel(context.Background())
	cs.cancel = cancel

	cs.mu.Lock()
	cs.phase = calibRunning
	cs.mu.Unlock()

	go cs.run(ctx)
}

// abort cancels a session in progress and closes the screen.
func (cs *CalibrationScreen) abort() {
	if cs.cancel != nil {
		cs.cancel()
		cs.cancel = nil
	}
	cs.visible = false
	if cs.onCancel != nil {
		cs.onCancel()
	}
}

// finish closes the screen after a completed session.
func (cs *CalibrationScreen) finish() {
	cs.visible = false
}

// run collects labeled windows class by class, then trains.
func (cs *CalibrationScreen) run(ctx context.Context) {
	src := cs.newSource()
	defer src.Close()

	samples, err := src.Start(ctx)
	if err != nil {
		cs.fail(fmt.Errorf("start source: %w", err))
		return
	}

	attendable, _ := src.(bci.Attendable)
	cal := bci.NewCalibrator(cs.cfg)
	buf := bci.NewBuffer(cs.cfg.Channels, cs.cfg.WindowSize, cs.cfg.WindowStep)

	for class := 0; class < cs.cfg.NumClasses(); class++ {
		cs.mu.Lock()
		cs.cueClass = class
		cs.mu.Unlock()

		if attendable != nil {
			attendable.SetAttended(class)
		}

		// Let the cue settle before labeling windows, and drop the
		// overlap carried from the previous cue.
		buf.Reset()
		settle := time.After(calibSettleTime)
	settling:
		for {
			select {
			case <-ctx.Done():
				return
			case <-settle:
				break settling
			case s, ok := <-samples:
				if !ok {
					cs.fail(fmt.Errorf("sample stream ended during calibration"))
					return
				}
				buf.Push(s)
			}
		}

		got := 0
		for got < calibWindowsPerClass {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-samples:
				if !ok {
					cs.fail(fmt.Errorf("sample stream ended during calibration"))
					return
				}
				w, full := buf.Push(s)
				if !full {
					continue
				}
				if err := cal.AddWindow(w, class); err != nil {
					cs.fail(err)
					return
				}
				got++
				cs.mu.Lock()
				cs.collected++
				cs.mu.Unlock()
			}
		}
	}

	if attendable != nil {
		attendable.SetAttended(-1)
	}

	cs.mu.Lock()
	cs.phase = calibTraining
	cs.mu.Unlock()

	model, report, err := cal.Train(uint64(time.Now().UnixNano()))
	if err != nil {
		cs.fail(err)
		return
	}

	cs.mu.Lock()
	cs.phase = calibDone
	cs.report = report
	cs.mu.Unlock()

	log.Printf("Calibration trained on %d windows, holdout accuracy %.2f", report.Samples, report.Accuracy)
	if cs.onComplete != nil {
		cs.onComplete(model, report)
	}
}

// fail records an error and moves to the failed phase.
func (cs *CalibrationScreen) fail(err error) {
	log.Printf("Warning: Calibration failed: %v", err)
	cs.mu.Lock()
	cs.phase = calibFailed
	cs.failErr = err
	cs.mu.Unlock()
}

// snapshot returns the current progress under the lock.
func (cs *CalibrationScreen) snapshot() (calibPhase, int, int, int, bci.CalibrationReport, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.phase, cs.cueClass, cs.collected, cs.total, cs.report, cs.failErr
}

// Update handles input for the calibration screen.
func (cs *CalibrationScreen) Update(input *InputHandler) bool {
	if !cs.visible {
		return false
	}

	if IsKeyJustPressed(ebiten.KeyEscape) {
		cs.abort()
		return true
	}

	phase, _, _, _, _, _ := cs.snapshot()
	switch phase {
	case calibIntro:
		cs.startBtn.Update(input)
		cs.cancelBtn.Update(input)
	case calibRunning, calibTraining:
		cs.cancelBtn.Update(input)
	case calibDone, calibFailed:
		cs.doneBtn.Update(input)
	}
	return true
}

// AnyButtonHovered returns true if any button is hovered.
func (cs *CalibrationScreen) AnyButtonHovered() bool {
	if !cs.visible {
		return false
	}
	return cs.startBtn.IsHovered() || cs.cancelBtn.IsHovered() || cs.doneBtn.IsHovered()
}

// Draw renders the calibration screen.
func (cs *CalibrationScreen) Draw(screen *ebiten.Image, glass *GlassEffect) {
	if !cs.visible {
		return
	}

	// Dim the game behind the modal.
	vector.DrawFilledRect(screen, 0, 0, float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy()), modalOverlay, false)

	glass.DrawGlassSimple(screen, scaleI(cs.x), scaleI(cs.y), scaleI(CalibrationWidth), scaleI(CalibrationHeight), modalBg, 2.0)
	vector.StrokeRect(screen, scaleF(cs.x), scaleF(cs.y), scaleF(CalibrationWidth), scaleF(CalibrationHeight), float32(UIScale), modalBorder, false)

	bold := GetBoldFace()
	face := GetRegularFace()
	if bold == nil || face == nil {
		return
	}

	cs.drawText(screen, "Calibration", bold, cs.x+CalibrationPadX, cs.y+CalibrationPadY+10, textPrimary)

	phase, cueClass, collected, total, report, failErr := cs.snapshot()

	switch phase {
	case calibIntro:
		lines := []string{
			"Each command target will flicker in turn.",
			"Look directly at the highlighted target and",
			"keep your gaze steady until the cue changes.",
			"",
			fmt.Sprintf("%d targets, about %d seconds each.", cs.cfg.NumClasses(), cs.trialSeconds()),
		}
		y := cs.y + 80
		for _, line := range lines {
			cs.drawText(screen, line, face, cs.x+CalibrationPadX, y, textSecondary)
			y += 22
		}

		cs.startBtn.Draw(screen)
		cs.cancelBtn.Draw(screen)

	case calibRunning:
		cueSize := 140
		cs.flicker.DrawCue(screen, cs.x+(CalibrationWidth-cueSize)/2, cs.y+70, cueSize, cueClass)

		label := fmt.Sprintf("Look at: %s", control.ClassName(cueClass))
		cs.drawText(screen, label, face, cs.x+CalibrationPadX, cs.y+240, textPrimary)

		cs.drawProgress(screen, cs.x+CalibrationPadX, cs.y+270, CalibrationWidth-CalibrationPadX*2, collected, total)
		cs.cancelBtn.Draw(screen)

	case calibTraining:
		cs.drawText(screen, "Training model...", face, cs.x+CalibrationPadX, cs.y+160, textPrimary)
		cs.cancelBtn.Draw(screen)

	case calibDone:
		cs.drawText(screen, fmt.Sprintf("Holdout accuracy: %.0f%%", report.Accuracy*100), bold, cs.x+CalibrationPadX, cs.y+100, textPrimary)

		y := cs.y + 140
		for class, acc := range report.PerClass {
			line := fmt.Sprintf("%-8s %3.0f%%", control.ClassName(class), acc*100)
			cs.drawText(screen, line, face, cs.x+CalibrationPadX, y, textSecondary)
			cs.drawProgress(screen, cs.x+180, y-8, 180, int(acc*100), 100)
			y += 26
		}

		if report.Accuracy < 0.8 {
			cs.drawText(screen, "Accuracy is low - consider recalibrating.", face, cs.x+CalibrationPadX, y+10, statusGameOver)
		}
		cs.doneBtn.Draw(screen)

	case calibFailed:
		cs.drawText(screen, "Calibration failed", bold, cs.x+CalibrationPadX, cs.y+100, textPrimary)
		if failErr != nil {
			cs.drawText(screen, failErr.Error(), face, cs.x+CalibrationPadX, cs.y+140, textSecondary)
		}
		cs.doneBtn.Draw(screen)
	}
}

// trialSeconds estimates the per-target duration for the intro text.
func (cs *CalibrationScreen) trialSeconds() int {
	stepSeconds := float64(cs.cfg.WindowStep) / cs.cfg.SampleRate
	windowSeconds := float64(cs.cfg.WindowSize) / cs.cfg.SampleRate
	return int(windowSeconds + float64(calibWindowsPerClass-1)*stepSeconds + calibSettleTime.Seconds() + 0.5)
}

func (cs *CalibrationScreen) drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y int, c color.RGBA) {
	op := &text.DrawOptions{}
	_, h := MeasureText(s, face)
	op.GeoM.Translate(scaleD(x), scaleD(y)-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// drawProgress renders a simple progress bar.
func (cs *CalibrationScreen) drawProgress(screen *ebiten.Image, x, y, w, value, max int) {
	h := 10
	vector.DrawFilledRect(screen, scaleF(x), scaleF(y), scaleF(w), scaleF(h), widgetBg, false)
	if max > 0 {
		fill := scaleF(w) * float32(value) / float32(max)
		vector.DrawFilledRect(screen, scaleF(x), scaleF(y), fill, scaleF(h), accentColor, false)
	}
	vector.StrokeRect(screen, scaleF(x), scaleF(y), scaleF(w), scaleF(h), float32(UIScale), widgetBorder, false)
}
