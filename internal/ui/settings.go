package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/quangh/eegchess/internal/storage"
)

// Settings modal dimensions
const (
	SettingsWidth  = 400
	SettingsHeight = 560
	SettingsPadX   = 24
	SettingsPadY   = 20
)

// Settings modal colors
var (
	modalOverlay = color.RGBA{0, 0, 0, 180}
	modalBg      = color.RGBA{38, 40, 45, 255}
	modalHeader  = color.RGBA{48, 52, 58, 255}
	modalBorder  = color.RGBA{58, 62, 68, 255}
)

// Scale helpers for HiDPI drawing in modals.
func scaleF(v int) float32 { return float32(float64(v) * UIScale) }
func scaleI(v int) int     { return int(float64(v) * UIScale) }
func scaleD(v int) float64 { return float64(v) * UIScale }

// SettingsModal is the settings configuration screen.
type SettingsModal struct {
	visible bool

	// Position (centered on screen)
	x, y int

	// Widgets
	usernameInput  *TextInput
	inputModeRadio *RadioGroup
	streamInput    *TextInput
	difficultyBtns *ButtonGroup
	colorBtns      *ButtonGroup
	soundCheckbox  *Checkbox
	recordCheckbox *Checkbox
	saveBtn        *ModalButton
	cancelBtn      *ModalButton

	// Callbacks
	onSave   func(prefs *storage.UserPreferences)
	onCancel func()
}

// NewSettingsModal creates a new settings modal.
func NewSettingsModal() *SettingsModal {
	sm := &SettingsModal{}
	sm.calculatePosition()
	sm.createWidgets()
	return sm
}

// calculatePosition centers the modal on screen.
func (sm *SettingsModal) calculatePosition() {
	sm.x = (ScreenWidth - SettingsWidth) / 2
	sm.y = (ScreenHeight - SettingsHeight) / 2
}

// createWidgets initializes all settings widgets.
func (sm *SettingsModal) createWidgets() {
	contentX := sm.x + SettingsPadX
	contentW := SettingsWidth - SettingsPadX*2

	// Username input (below header)
	inputY := sm.y + 60
	sm.usernameInput = NewTextInput(contentX, inputY, contentW, 36, "Enter your name", 20)

	// Input mode radio group
	radioY := inputY + 66
	sm.inputModeRadio = NewRadioGroup(contentX, radioY, []RadioOption{
		{Label: "Mouse", Value: int(storage.InputMouse)},
		{Label: "EEG headset", Value: int(storage.InputBCI)},
		{Label: "Simulated EEG", Value: int(storage.InputSimulated)},
	}, 0)

	// Acquisition bridge address, used in EEG headset mode
	streamY := radioY + 3*sm.inputModeRadio.ItemH + 26
	sm.streamInput = NewTextInput(contentX, streamY, contentW, 32, "host:port", 40)

	// Difficulty buttons
	diffY := streamY + 62
	btnW := contentW / 3
	sm.difficultyBtns = NewButtonGroup(contentX, diffY, []string{"Easy", "Medium", "Hard"}, 0, btnW, 34)

	// Player color buttons
	colorY := diffY + 64
	sm.colorBtns = NewButtonGroup(contentX, colorY, []string{"White", "Black"}, 0, contentW/2, 34)

	// Checkboxes
	checkY := colorY + 60
	sm.soundCheckbox = NewCheckbox(contentX, checkY, "Sound Effects", true)
	sm.recordCheckbox = NewCheckbox(contentX, checkY+32, "Record raw EEG to disk", false)

	// Buttons at bottom
	btnW = 100
	btnH := 38
	btnY := sm.y + SettingsHeight - SettingsPadY - btnH
	btnSpacing := 12

	sm.cancelBtn = NewModalButton(
		sm.x+SettingsWidth-SettingsPadX-btnW*2-btnSpacing,
		btnY, btnW, btnH, "Cancel", false, nil,
	)
	sm.saveBtn = NewModalButton(
		sm.x+SettingsWidth-SettingsPadX-btnW,
		btnY, btnW, btnH, "Save", true, nil,
	)
}

// Show displays the settings modal with the given preferences.
func (sm *SettingsModal) Show(prefs *storage.UserPreferences, onSave func(*storage.UserPreferences), onCancel func()) {
	sm.visible = true
	sm.onSave = onSave
	sm.onCancel = onCancel

	// Load current values into widgets
	sm.usernameInput.Value = prefs.Username
	sm.inputModeRadio.Selected = int(prefs.InputMode)
	sm.streamInput.Value = prefs.StreamAddress
	sm.difficultyBtns.Selected = int(prefs.Difficulty)
	sm.colorBtns.Selected = int(prefs.PlayerColor)
	sm.soundCheckbox.Checked = prefs.SoundEnabled
	sm.recordCheckbox.Checked = prefs.RecordRawEEG

	// Set button callbacks
	sm.saveBtn.OnClick = sm.handleSave
	sm.cancelBtn.OnClick = sm.handleCancel
}

// Hide closes the settings modal.
func (sm *SettingsModal) Hide() {
	sm.visible = false
	sm.usernameInput.SetFocused(false)
	sm.streamInput.SetFocused(false)
}

// IsVisible returns true if the modal is visible.
func (sm *SettingsModal) IsVisible() bool {
	return sm.visible
}

// handleSave saves settings and closes the modal.
func (sm *SettingsModal) handleSave() {
	prefs := &storage.UserPreferences{
		Username:      sm.usernameInput.Value,
		InputMode:     storage.InputMode(sm.inputModeRadio.Selected),
		StreamAddress: sm.streamInput.Value,
		Difficulty:    storage.Difficulty(sm.difficultyBtns.Selected),
		PlayerColor:   storage.PlayerColor(sm.colorBtns.Selected),
		SoundEnabled:  sm.soundCheckbox.Checked,
		RecordRawEEG:  sm.recordCheckbox.Checked,
	}

	// Use default name if empty
	if prefs.Username == "" {
		prefs.Username = "Player"
	}

	if sm.onSave != nil {
		sm.onSave(prefs)
	}
	sm.Hide()
}

// handleCancel discards changes and closes the modal.
func (sm *SettingsModal) handleCancel() {
	if sm.onCancel != nil {
		sm.onCancel()
	}
	sm.Hide()
}

// Update handles input for the settings modal.
func (sm *SettingsModal) Update(input *InputHandler) bool {
	if !sm.visible {
		return false
	}

	// Handle escape key to close
	if IsKeyJustPressed(ebiten.KeyEscape) {
		sm.handleCancel()
		return true
	}

	// Handle enter key to save
	if IsKeyJustPressed(ebiten.KeyEnter) && !sm.usernameInput.IsFocused() && !sm.streamInput.IsFocused() {
		sm.handleSave()
		return true
	}

	// Update widgets
	sm.usernameInput.Update(input)
	sm.inputModeRadio.Update(input)
	if storage.InputMode(sm.inputModeRadio.Selected) == storage.InputBCI {
		sm.streamInput.Update(input)
	}
	sm.difficultyBtns.Update(input)
	sm.colorBtns.Update(input)
	sm.soundCheckbox.Update(input)
	sm.recordCheckbox.Update(input)
	sm.saveBtn.Update(input)
	sm.cancelBtn.Update(input)

	// Modal consumes all input
	return true
}

// AnyButtonHovered returns true if any button in the modal is hovered.
func (sm *SettingsModal) AnyButtonHovered() bool {
	if !sm.visible {
		return false
	}
	return sm.saveBtn.IsHovered() || sm.cancelBtn.IsHovered() ||
		sm.inputModeRadio.hovered >= 0 || sm.difficultyBtns.hovered >= 0 ||
		sm.colorBtns.hovered >= 0 || sm.soundCheckbox.hovered || sm.recordCheckbox.hovered
}

// Draw renders the settings modal.
func (sm *SettingsModal) Draw(screen *ebiten.Image, glass *GlassEffect) {
	if !sm.visible {
		return
	}

	// Full-screen blur overlay with glass effect
	if glass != nil && glass.IsEnabled() {
		tint := color.RGBA{0, 0, 0, 100} // Dark tint for modal backdrop
		glass.DrawGlass(screen, 0, 0, scaleI(ScreenWidth), scaleI(ScreenHeight),
			tint, 3.0, 4.0)
	} else {
		vector.DrawFilledRect(screen, 0, 0, scaleF(ScreenWidth), scaleF(ScreenHeight), modalOverlay, false)
	}

	// Modal background
	vector.DrawFilledRect(screen, scaleF(sm.x), scaleF(sm.y), scaleF(SettingsWidth), scaleF(SettingsHeight), modalBg, false)

	// Modal border
	vector.StrokeRect(screen, scaleF(sm.x), scaleF(sm.y), scaleF(SettingsWidth), scaleF(SettingsHeight), float32(UIScale*2), modalBorder, false)

	// Header background
	vector.DrawFilledRect(screen, scaleF(sm.x), scaleF(sm.y), scaleF(SettingsWidth), scaleF(44), modalHeader, false)

	// Header title
	sm.drawTitle(screen)

	// Section labels
	contentX := sm.x + SettingsPadX
	sm.drawSectionLabel(screen, "Player Name", contentX, sm.y+52)
	sm.drawSectionLabel(screen, "Input", contentX, sm.usernameInput.Y+sm.usernameInput.H+12)
	if storage.InputMode(sm.inputModeRadio.Selected) == storage.InputBCI {
		sm.drawSectionLabel(screen, "Acquisition Bridge", contentX, sm.streamInput.Y-18)
	}
	sm.drawSectionLabel(screen, "Difficulty", contentX, sm.difficultyBtns.Y-18)
	sm.drawSectionLabel(screen, "Play As", contentX, sm.colorBtns.Y-18)

	// Draw widgets
	sm.usernameInput.Draw(screen)
	sm.inputModeRadio.Draw(screen)
	if storage.InputMode(sm.inputModeRadio.Selected) == storage.InputBCI {
		sm.streamInput.Draw(screen)
	}
	sm.difficultyBtns.Draw(screen)
	sm.colorBtns.Draw(screen)
	sm.soundCheckbox.Draw(screen)
	sm.recordCheckbox.Draw(screen)
	sm.saveBtn.Draw(screen)
	sm.cancelBtn.Draw(screen)
}

// drawTitle draws the modal title.
func (sm *SettingsModal) drawTitle(screen *ebiten.Image) {
	face := GetBoldFace()
	if face == nil {
		return
	}

	title := "Settings"
	w, h := MeasureText(title, face)
	centerX := scaleD(sm.x) + scaleD(SettingsWidth)/2 - w/2
	centerY := scaleD(sm.y) + scaleD(22) - h/2

	op := &text.DrawOptions{}
	op.GeoM.Translate(centerX, centerY)
	op.ColorScale.ScaleWithColor(textPrimary)
	text.Draw(screen, title, face, op)
}

// drawSectionLabel draws a section label.
func (sm *SettingsModal) drawSectionLabel(screen *ebiten.Image, label string, x, y int) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(x), scaleD(y))
	op.ColorScale.ScaleWithColor(textMuted)
	text.Draw(screen, label, face, op)
}
