// EEGChess - play chess with your eyes, via an SSVEP decoder, or with the mouse.
package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quangh/eegchess/internal/ui"
)

func main() {
	game := ui.NewGame()
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("EEGChess")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
