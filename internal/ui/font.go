package ui

import (
	"bytes"
	"log"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularSource *text.GoTextFaceSource
	boldSource    *text.GoTextFaceSource
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 16.0
)

func init() {
	initFonts()
}

func initFonts() {
	// Load regular font
	var err error
	regularSource, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("Failed to load regular font: %v", err)
		return
	}

	// Load bold font
	boldSource, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		log.Printf("Failed to load bold font: %v", err)
		return
	}
}

// GetRegularFace returns the regular font face at the current UI scale.
func GetRegularFace() *text.GoTextFace {
	if regularSource == nil {
		return nil
	}
	return &text.GoTextFace{
		Source: regularSource,
		Size:   defaultFontSize * UIScale,
	}
}

// GetBoldFace returns the bold font face at the current UI scale.
func GetBoldFace() *text.GoTextFace {
	if boldSource == nil {
		return nil
	}
	return &text.GoTextFace{
		Source: boldSource,
		Size:   titleFontSize * UIScale,
	}
}

// GetFaceWithSize returns a font face with a custom logical size.
func GetFaceWithSize(size float64) *text.GoTextFace {
	if regularSource == nil {
		return nil
	}
	return &text.GoTextFace{
		Source: regularSource,
		Size:   size * UIScale,
	}
}

// MeasureText returns the width and height of the given text in screen
// pixels.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	w, h := text.Measure(s, face, 0)
	return w, h
}
