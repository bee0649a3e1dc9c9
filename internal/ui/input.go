package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler tracks mouse state in logical coordinates and exposes
// the keyboard surface the game uses: target-attention keys for the
// simulated headset and one-key shortcuts.
type InputHandler struct {
	mouseX, mouseY   int // logical coordinates, unscaled
	leftPressed      bool
	leftJustPressed  bool
	leftJustReleased bool
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update samples the mouse once per frame. Cursor coordinates arrive
// in scaled device pixels and are mapped back to the logical space all
// hit-testing uses.
func (ih *InputHandler) Update() {
	rawX, rawY := ebiten.CursorPosition()

	scale := UIScale
	if scale < 1.0 {
		scale = 1.0
	}
	ih.mouseX = int(float64(rawX) / scale)
	ih.mouseY = int(float64(rawY) / scale)

	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	ih.leftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// MousePosition returns the current mouse position in logical coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// IsLeftJustPressed returns true if the left mouse button was just pressed.
func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

// IsLeftJustReleased returns true if the left mouse button was just released.
func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

// IsLeftPressed returns true if the left mouse button is currently pressed.
func (ih *InputHandler) IsLeftPressed() bool {
	return ih.leftPressed
}

// attendKeys maps the number row to selection targets. Digit0 clears
// the attended target so the synthetic source goes back to noise.
var attendKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5,
}

// AttendTarget reports which selection target a just-pressed number
// key attends. Returns -1, true for Digit0 (attend nothing) and
// ok=false when no attention key was pressed this frame.
func (ih *InputHandler) AttendTarget() (int, bool) {
	for class, key := range attendKeys {
		if inpututil.IsKeyJustPressed(key) {
			return class, true
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit0) {
		return -1, true
	}
	return 0, false
}

// IsKeyJustPressed returns true if the specified key was just pressed.
func IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
