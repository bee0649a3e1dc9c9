// Package ui implements the game UI using Ebitengine.
package ui

import (
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/quangh/eegchess/internal/board"
)

// SpriteManager manages piece sprites. Sprites come from an SVG piece
// set directory when one is configured, otherwise pieces are drawn
// with the built-in glyph style.
type SpriteManager struct {
	pieces      map[board.Piece]*ebiten.Image
	size        int     // Display size (e.g., 80)
	renderScale float64 // Render at higher resolution for quality (e.g., 3.0)
	scale       float64 // HiDPI scale factor
}

// NewSpriteManager creates a new sprite manager with pieces of the
// given size. setDir may be empty for the built-in style.
func NewSpriteManager(size int, setDir string) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[board.Piece]*ebiten.Image),
		size:        size,
		renderScale: 3.0, // Render at 3x resolution for sharp scaling
		scale:       1.0,
	}
	sm.loadPieces(setDir)
	return sm
}

// SetScale sets the HiDPI scale factor.
func (sm *SpriteManager) SetScale(scale float64) {
	sm.scale = scale
}

// GetPiece returns the sprite for a piece.
func (sm *SpriteManager) GetPiece(p board.Piece) *ebiten.Image {
	return sm.pieces[p]
}

// pieceFileNames maps pieces to their file names inside a set
// directory, e.g. pieces/<set>/wN.svg.
var pieceFileNames = map[board.Piece]string{
	board.NewPiece(board.Pawn, board.White):   "wP.svg",
	board.NewPiece(board.Knight, board.White): "wN.svg",
	board.NewPiece(board.Bishop, board.White): "wB.svg",
	board.NewPiece(board.Rook, board.White):   "wR.svg",
	board.NewPiece(board.Queen, board.White):  "wQ.svg",
	board.NewPiece(board.King, board.White):   "wK.svg",
	board.NewPiece(board.Pawn, board.Black):   "bP.svg",
	board.NewPiece(board.Knight, board.Black): "bN.svg",
	board.NewPiece(board.Bishop, board.Black): "bB.svg",
	board.NewPiece(board.Rook, board.Black):   "bR.svg",
	board.NewPiece(board.Queen, board.Black):  "bQ.svg",
	board.NewPiece(board.King, board.Black):   "bK.svg",
}

// loadPieces loads piece sprites from setDir, falling back to drawn
// glyphs for any piece whose file is missing or unparsable.
func (sm *SpriteManager) loadPieces(setDir string) {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for piece, name := range pieceFileNames {
		if setDir != "" {
			img, err := sm.renderSVG(filepath.Join(setDir, name), renderSize)
			if err == nil {
				sm.pieces[piece] = img
				continue
			}
			if !os.IsNotExist(err) {
				log.Printf("Warning: Failed to load piece sprite %s: %v", name, err)
			}
		}
		sm.pieces[piece] = sm.drawFallback(piece, renderSize)
	}
}

// renderSVG rasterizes one SVG file at the given pixel size.
func (sm *SpriteManager) renderSVG(path string, renderSize int) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	return ebiten.NewImageFromImage(rgba), nil
}

// drawFallback renders a piece as a filled disc with the piece letter,
// readable at any size without asset files.
func (sm *SpriteManager) drawFallback(p board.Piece, renderSize int) *ebiten.Image {
	img := ebiten.NewImage(renderSize, renderSize)

	var fill, outline, glyph color.RGBA
	if p.Color() == board.White {
		fill = color.RGBA{245, 245, 240, 255}
		outline = color.RGBA{60, 60, 60, 255}
		glyph = color.RGBA{40, 40, 40, 255}
	} else {
		fill = color.RGBA{50, 50, 55, 255}
		outline = color.RGBA{210, 210, 210, 255}
		glyph = color.RGBA{235, 235, 235, 255}
	}

	cx := float32(renderSize) / 2
	cy := float32(renderSize) * 0.54
	radius := float32(renderSize) * 0.34
	vector.DrawFilledCircle(img, cx, cy, radius, fill, true)
	vector.StrokeCircle(img, cx, cy, radius, float32(renderSize)*0.02, outline, true)

	letter := p.Type().Letter()
	if letter == "" {
		letter = "P"
	}
	face := GetFaceWithSize(float64(renderSize) * 0.42)
	if face != nil {
		w, h := MeasureText(letter, face)
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(cx)-w/2, float64(cy)-h/2)
		op.ColorScale.ScaleWithColor(glyph)
		text.Draw(img, letter, face, op)
	}

	return img
}

// DrawPieceAt draws a piece at the given pixel coordinates.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y int) {
	if p == board.NoPiece {
		return
	}
	sprite := sm.GetPiece(p)
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	// Scale down from render resolution to display size
	drawScale := sm.scale / sm.renderScale
	op.GeoM.Scale(drawScale, drawScale)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
