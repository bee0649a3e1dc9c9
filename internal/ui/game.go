package ui

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/quangh/eegchess/internal/bci"
	"github.com/quangh/eegchess/internal/board"
	"github.com/quangh/eegchess/internal/control"
	"github.com/quangh/eegchess/internal/engine"
	"github.com/quangh/eegchess/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640 // Match board height to eliminate unused space
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// UIScale is the global HiDPI scale factor for all UI drawing.
// Set by Game.Layout() and used by widgets and modals.
var UIScale float64 = 1.0

// GameMode represents the current game mode.
type GameMode int

const (
	ModeHumanVsHuman GameMode = iota
	ModeHumanVsComputer
)

// Difficulty represents AI difficulty levels.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// Game implements ebiten.Game interface.
type Game struct {
	// Core game state
	position       *board.Position
	moveHistory    []board.Move
	sanHistory     []string
	positionHashes []uint64 // History of position hashes for repetition detection

	// UI state
	selectedSquare board.Square
	legalMoves     []board.Move
	dragging       bool
	dragPiece      board.Piece
	dragSquare     board.Square
	lastMove       board.Move

	// Game settings
	mode        GameMode
	difficulty  Difficulty
	inputMode   storage.InputMode
	username    string
	playerColor board.Color // Which color the human plays (default: White)

	// Storage
	storage *storage.Storage
	prefs   *storage.UserPreferences

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager

	// Modals
	settingsModal *SettingsModal
	welcomeScreen *WelcomeScreen
	calibScreen   *CalibrationScreen

	// Visual effects
	glass *GlassEffect

	// AI Engine
	engine     *engine.Engine
	aiThinking bool
	aiMove     chan board.Move

	// EEG decoding
	bciCfg        bci.Config
	model         *bci.LDA
	controller    *control.Controller
	flicker       *FlickerPanel
	decoder       *bci.Decoder
	decoderOn     bool
	decoderCancel context.CancelFunc
	decoderSrc    bci.Source
	attendable    bci.Attendable
	decisions     <-chan bci.Decision

	// Session tracking
	sessionID     string
	sessionStart  time.Time
	decisionCount int

	// Game state
	gameOver   bool
	gameResult string
	gameReason string

	// HiDPI scaling
	scale float64
}

// NewGame creates a new chess game.
func NewGame() *Game {
	g := &Game{
		position:       board.NewPosition(),
		selectedSquare: board.NoSquare,
		mode:           ModeHumanVsComputer,
		difficulty:     DifficultyEasy,
		inputMode:      storage.InputMouse,
		username:       "Player",
		playerColor:    board.White, // Human plays White by default
		input:          NewInputHandler(),
		engine:         engine.NewEngine(),
		aiMove:         make(chan board.Move, 1),
		bciCfg:         bci.DefaultConfig(),
		controller:     control.NewController(),
		sessionID:      storage.NewSessionID(),
		sessionStart:   time.Now(),
	}

	// Initialize storage
	var err error
	g.storage, err = storage.NewStorage()
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
	}

	// Load preferences
	g.loadPreferences()

	g.renderer = NewRenderer(BoardSize, SquareSize, g.pieceSetDir())
	g.renderer.SetFlipped(g.playerColor == board.Black)

	g.applyDifficulty()

	g.panel = NewPanel(g)
	g.feedback = NewFeedbackManager()
	g.feedback.Audio().SetEnabled(g.prefs.SoundEnabled)
	g.glass = NewGlassEffect()

	// Initialize modals
	g.settingsModal = NewSettingsModal()
	g.welcomeScreen = NewWelcomeScreen()

	// Load the user's calibration profile, if one exists. This may
	// replace bciCfg, so the flicker panel and calibration screen are
	// created afterwards.
	g.loadProfile()
	g.flicker = NewFlickerPanel(g.bciCfg)
	g.calibScreen = NewCalibrationScreen(g.bciCfg, g.newCalibrationSource)

	// Initialize position hash history with starting position
	g.positionHashes = []uint64{g.position.Hash}

	// Check for first launch
	g.checkFirstLaunch()

	// Resume decoding if the user last played with EEG input
	if g.inputMode != storage.InputMouse && !g.welcomeScreen.IsVisible() {
		if err := g.startDecoder(); err != nil {
			log.Printf("Warning: Failed to start decoder: %v", err)
			g.inputMode = storage.InputMouse
		}
	}

	return g
}

// pieceSetDir returns the directory of the preferred piece set, or ""
// for the built-in fallback sprites.
func (g *Game) pieceSetDir() string {
	if g.prefs == nil || g.prefs.PieceSet == "" {
		return ""
	}
	dir, err := storage.GetPieceSetsDir()
	if err != nil {
		log.Printf("Warning: Failed to locate piece sets: %v", err)
		return ""
	}
	return filepath.Join(dir, g.prefs.PieceSet)
}

// loadPreferences loads user preferences from storage.
func (g *Game) loadPreferences() {
	if g.storage == nil {
		g.prefs = storage.DefaultPreferences()
		return
	}

	var err error
	g.prefs, err = g.storage.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		g.prefs = storage.DefaultPreferences()
	}

	// Apply preferences
	g.username = g.prefs.Username
	g.difficulty = Difficulty(g.prefs.Difficulty)
	g.mode = GameMode(g.prefs.GameMode)
	g.inputMode = g.prefs.InputMode

	if g.prefs.PlayerColor == storage.ColorBlack {
		g.playerColor = board.Black
	} else {
		g.playerColor = board.White
	}
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}

	g.prefs.Username = g.username
	g.prefs.Difficulty = storage.Difficulty(g.difficulty)
	g.prefs.GameMode = storage.GameMode(g.mode)
	g.prefs.InputMode = g.inputMode

	if g.playerColor == board.Black {
		g.prefs.PlayerColor = storage.ColorBlack
	} else {
		g.prefs.PlayerColor = storage.ColorWhite
	}

	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

// loadProfile loads the calibration profile for the current user.
// A stored profile carries the configuration it was trained under,
// which replaces the default decoding parameters.
func (g *Game) loadProfile() {
	g.model = nil
	if g.storage == nil {
		return
	}

	prof, err := g.storage.LoadProfile(g.username)
	if err != nil {
		log.Printf("Warning: Failed to load calibration profile: %v", err)
		return
	}
	if prof == nil {
		return
	}

	g.model = prof.Model
	g.bciCfg = prof.Config
}

// reloadProfile re-reads the profile and rebuilds the components that
// depend on the decoding configuration. Used when the username changes.
func (g *Game) reloadProfile() {
	g.loadProfile()
	g.flicker = NewFlickerPanel(g.bciCfg)
	g.calibScreen = NewCalibrationScreen(g.bciCfg, g.newCalibrationSource)
}

// checkFirstLaunch shows welcome screen on first launch.
func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}

	isFirst, err := g.storage.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}

	if isFirst {
		g.welcomeScreen.Show(func(name string, mode storage.InputMode) {
			g.username = name
			g.prefs.Username = name

			if err := g.storage.MarkFirstLaunchComplete(); err != nil {
				log.Printf("Warning: Failed to mark first launch complete: %v", err)
			}

			g.reloadProfile()
			g.SetInputMode(mode)
			g.savePreferences()
		})
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Update input
	g.input.Update()

	// Update feedback animations
	g.feedback.Update()

	// Update glass effect animation
	g.glass.Update()

	// Handle welcome screen first (blocks other input)
	if g.welcomeScreen.IsVisible() {
		g.welcomeScreen.Update(g.input)
		g.updateCursor()
		return nil
	}

	// Handle calibration screen (blocks other input)
	if g.calibScreen.IsVisible() {
		g.calibScreen.Update(g.input)
		g.updateCursor()
		return nil
	}

	// Handle settings modal (blocks other input)
	if g.settingsModal.IsVisible() {
		g.settingsModal.Update(g.input)
		g.updateCursor()
		return nil
	}

	// Handle panel interactions
	if g.panel.HandleInput(g.input) {
		g.updateCursor()
		return nil // Panel handled the input
	}

	// Keyboard shortcuts
	if IsKeyJustPressed(ebiten.KeyM) {
		g.ToggleModeAction()
	}
	if IsKeyJustPressed(ebiten.KeyN) {
		g.NewGameAction()
	}

	// Number keys steer the synthetic source in simulated mode
	g.handleSimulatedKeys()

	// Handle board interactions (mouse stays available as a fallback
	// in EEG modes)
	g.handleBoardInput()

	// Check for decoder decisions
	g.checkDecisions()

	// Check for AI move
	g.checkAIMove()

	// Update cursor based on hover state
	g.updateCursor()

	return nil
}

// handleSimulatedKeys lets the keyboard pick the attended target when
// playing with the synthetic source. Keys 1-5 attend a target, 0 clears.
func (g *Game) handleSimulatedKeys() {
	if g.attendable == nil || g.inputMode != storage.InputSimulated {
		return
	}
	if class, ok := g.input.AttendTarget(); ok && class < control.NumClasses {
		g.attendable.SetAttended(class)
	}
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	anyHovered := false

	// Check all interactive elements
	if g.welcomeScreen.IsVisible() {
		anyHovered = g.welcomeScreen.AnyButtonHovered()
	} else if g.calibScreen.IsVisible() {
		anyHovered = g.calibScreen.AnyButtonHovered()
	} else if g.settingsModal.IsVisible() {
		anyHovered = g.settingsModal.AnyButtonHovered()
	} else {
		anyHovered = g.panel.AnyButtonHovered()
	}

	if anyHovered {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	// Set HiDPI scale factor for all rendering components
	g.renderer.SetScale(g.scale)

	// Clear background
	screen.Fill(g.renderer.Theme().Background)

	// Draw board
	g.renderer.DrawBoard(screen)

	// Draw highlights for check
	if g.position.InCheck() {
		g.renderer.DrawCheck(screen, g.position.KingSquare(g.position.SideToMove))
	}

	// Draw highlights (last move, selection, legal moves)
	g.renderer.DrawHighlights(screen, g.selectedSquare, g.legalMoves, g.lastMove)

	// Draw the selection cursor in EEG modes
	if g.decoderOn {
		g.renderer.DrawCursor(screen, g.controller.Cursor())
	}

	// Draw pieces with shake animations
	g.renderer.DrawPiecesWithAnimations(screen, g.position, g.dragging, g.dragSquare, g.feedback.Animations())

	// Draw dragged piece
	if g.dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, g.dragPiece, mx, my)
	}

	// Draw feedback overlays (animations, toasts)
	g.feedback.Draw(screen, g.renderer)

	// Draw panel
	g.panel.Draw(screen, g.renderer)

	// Draw modals on top (with glass effect)
	g.settingsModal.Draw(screen, g.glass)
	g.calibScreen.Draw(screen, g.glass)
	g.welcomeScreen.Draw(screen, g.glass)
}

// Layout returns the game's screen dimensions.
// Width is dynamic based on panel collapsed state.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Get and store device scale factor (2.0 on Retina, 1.0 on standard displays)
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}

	// Update global scale for widgets and modals
	UIScale = g.scale

	if g.panel != nil && g.panel.Collapsed() {
		return int(float64(BoardSize+CollapsedWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
	}
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	if g.gameOver {
		return
	}

	// Don't allow moves while AI is thinking
	if g.aiThinking {
		return
	}

	// Only allow moves for human player in human vs computer mode
	if g.mode == ModeHumanVsComputer && g.position.SideToMove != g.playerColor {
		return
	}

	mx, my := g.input.MousePosition()

	// Check if mouse is on the board
	if mx >= BoardSize || my >= BoardSize {
		return
	}

	// Handle mouse press
	if g.input.IsLeftJustPressed() {
		sq := g.renderer.ScreenToSquare(mx, my)
		if sq == board.NoSquare {
			return
		}

		piece := g.position.PieceAt(sq)

		// If clicking on our own piece, select it
		if piece != board.NoPiece && piece.Color() == g.position.SideToMove {
			g.selectSquare(sq)
			g.startDrag(sq)
			return
		}

		// If we have a selection and clicking on a legal move target, make the move
		if g.selectedSquare != board.NoSquare {
			move, ok := g.findMove(g.selectedSquare, sq)
			if ok {
				g.makeMove(move)
				return
			}
		}

		// Clear selection
		g.clearSelection()
	}

	// Handle dragging
	if g.dragging {
		if g.input.IsLeftJustReleased() {
			g.handleDragRelease(mx, my)
		}
	}
}

// selectSquare selects a square and generates legal moves from it.
func (g *Game) selectSquare(sq board.Square) {
	g.selectedSquare = sq
	g.legalMoves = g.position.MovesFrom(sq)
}

// clearSelection clears the current selection.
func (g *Game) clearSelection() {
	g.selectedSquare = board.NoSquare
	g.legalMoves = nil
	g.dragging = false
	g.dragPiece = board.NoPiece
	g.dragSquare = board.NoSquare
}

// startDrag begins dragging a piece.
func (g *Game) startDrag(sq board.Square) {
	g.dragging = true
	g.dragPiece = g.position.PieceAt(sq)
	g.dragSquare = sq
}

// handleDragRelease handles releasing a dragged piece.
func (g *Game) handleDragRelease(mx, my int) {
	targetSq := g.renderer.ScreenToSquare(mx, my)

	if targetSq != board.NoSquare {
		move, ok := g.findMove(g.dragSquare, targetSq)
		if ok {
			g.makeMove(move)
			return
		}

		// Move was attempted but not valid - determine why and show feedback
		if g.dragSquare != targetSq {
			reason := g.determineInvalidMoveReason(g.dragSquare, targetSq)
			g.feedback.OnInvalidMove(g.dragSquare, targetSq, reason)
		}
	}

	// Invalid drop - clear selection
	g.clearSelection()
}

// determineInvalidMoveReason analyzes why a move from src to dst is invalid.
func (g *Game) determineInvalidMoveReason(src, dst board.Square) InvalidMoveReason {
	piece := g.position.PieceAt(src)
	if piece == board.NoPiece {
		return ReasonUnknown
	}

	// Check if destination has own piece
	destPiece := g.position.PieceAt(dst)
	if destPiece != board.NoPiece && destPiece.Color() == piece.Color() {
		return ReasonBlockedByOwnPiece
	}

	// Check if move exists in pseudo-legal moves (would leave king in check)
	for _, m := range g.position.PseudoLegalMoves() {
		if m.From == src && m.To == dst {
			return ReasonWouldLeaveKingInCheck
		}
	}

	// Move wasn't even generated - invalid piece movement
	return ReasonInvalidPieceMovement
}

// findMove finds a legal move from src to dst among the current selection's
// moves. Promotions resolve to the queen.
func (g *Game) findMove(src, dst board.Square) (board.Move, bool) {
	for _, move := range g.legalMoves {
		if move.From == src && move.To == dst {
			if move.IsPromotion() && move.Promotion != board.Queen {
				continue
			}
			return move, true
		}

		// Handle castling: allow dragging King to Rook square
		// Users naturally castle by moving King to Rook, but internal moves use King's destination
		if move.IsCastle() && move.From == src {
			// Kingside: E1→H1 (White) or E8→H8 (Black) should match E1→G1 / E8→G8
			if (src == board.E1 && dst == board.H1 && move.To == board.G1) ||
				(src == board.E8 && dst == board.H8 && move.To == board.G8) {
				return move, true
			}
			// Queenside: E1→A1 (White) or E8→A8 (Black) should match E1→C1 / E8→C8
			if (src == board.E1 && dst == board.A1 && move.To == board.C1) ||
				(src == board.E8 && dst == board.A8 && move.To == board.C8) {
				return move, true
			}
		}
	}

	return board.NoMove, false
}

// makeMove applies a move to the game.
func (g *Game) makeMove(m board.Move) {
	// Determine move properties before making the move
	isCapture := m.IsCapture(g.position)
	isCastle := m.IsCastle()

	// Record SAN before making move
	san := g.position.SAN(m)
	g.sanHistory = append(g.sanHistory, san)

	// Make the move
	g.position.MakeMove(m)
	g.moveHistory = append(g.moveHistory, m)
	g.lastMove = m

	// Record position hash for repetition detection
	g.positionHashes = append(g.positionHashes, g.position.Hash)

	// Clear selection on both input paths
	g.clearSelection()
	g.controller.Reset()

	// Play move sound (before checking game end, which may play its own sound)
	g.feedback.OnMoveMade(isCapture, isCastle)

	// Check for game end
	g.checkGameEnd()

	// Start AI thinking if it's computer's turn
	if !g.gameOver && g.mode == ModeHumanVsComputer && g.position.SideToMove != g.playerColor {
		g.startAIThinking()
	}
}

// checkGameEnd checks if the game is over.
func (g *Game) checkGameEnd() {
	switch {
	case g.position.IsCheckmate():
		g.gameOver = true
		g.gameReason = "checkmate"
		if g.position.SideToMove == board.White {
			g.gameResult = "Black wins by checkmate!"
			g.feedback.OnCheckmate(board.Black)
		} else {
			g.gameResult = "White wins by checkmate!"
			g.feedback.OnCheckmate(board.White)
		}
	case g.position.IsStalemate():
		g.gameOver = true
		g.gameResult = "Draw by stalemate"
		g.gameReason = "stalemate"
		g.feedback.OnStalemate()
	case g.isThreefoldRepetition():
		g.gameOver = true
		g.gameResult = "Draw by threefold repetition"
		g.gameReason = "threefold repetition"
		g.feedback.OnDraw("threefold repetition")
	case g.position.HalfMoveClock >= 100:
		g.gameOver = true
		g.gameResult = "Draw by 50-move rule"
		g.gameReason = "50-move rule"
		g.feedback.OnDraw("50-move rule")
	case g.position.InsufficientMaterial():
		g.gameOver = true
		g.gameResult = "Draw by insufficient material"
		g.gameReason = "insufficient material"
		g.feedback.OnDraw("insufficient material")
	default:
		if g.position.InCheck() {
			// Show check notification (not game over)
			g.feedback.OnCheck()
		}
		return
	}

	g.finishSession()
}

// isThreefoldRepetition checks if the current position has occurred 3 times.
func (g *Game) isThreefoldRepetition() bool {
	if len(g.positionHashes) < 5 {
		// Need at least 5 positions (4 half-moves) for threefold repetition
		return false
	}

	currentHash := g.position.Hash
	count := 0
	for _, h := range g.positionHashes {
		if h == currentHash {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// finishSession records the completed game in storage.
func (g *Game) finishSession() {
	if g.storage == nil {
		return
	}

	duration := time.Since(g.sessionStart)

	won := false
	draw := false
	switch g.gameReason {
	case "checkmate":
		// SideToMove is the mated side
		won = g.position.SideToMove != g.playerColor
	default:
		draw = true
	}

	if g.mode == ModeHumanVsComputer {
		err := g.storage.RecordGame(storage.GameResult{
			Won:        won,
			Draw:       draw,
			Input:      g.inputMode,
			Difficulty: storage.Difficulty(g.difficulty),
			Duration:   duration,
		})
		if err != nil {
			log.Printf("Warning: Failed to record game: %v", err)
		}
	}

	rec := &storage.SessionRecord{
		ID:        g.sessionID,
		Input:     g.inputMode,
		Moves:     append([]string(nil), g.sanHistory...),
		Result:    g.gameResult,
		Reason:    g.gameReason,
		Decisions: g.decisionCount,
		Started:   g.sessionStart,
		Duration:  duration,
	}
	if err := g.storage.SaveSession(rec); err != nil {
		log.Printf("Warning: Failed to save session: %v", err)
	}
}

// startAIThinking starts the AI search in a goroutine.
func (g *Game) startAIThinking() {
	if g.position.SideToMove == g.playerColor {
		return
	}

	g.aiThinking = true

	// Copy position for the search
	pos := g.position.Copy()

	go func() {
		move := g.engine.Search(pos)
		g.aiMove <- move // Always send, even if NoMove (game over)
	}()
}

// checkAIMove checks if the AI has made a move.
func (g *Game) checkAIMove() {
	if !g.aiThinking {
		return
	}

	select {
	case move := <-g.aiMove:
		g.aiThinking = false
		if move == board.NoMove {
			// AI has no valid move - game should be over (checkmate/stalemate)
			g.checkGameEnd()
			return
		}
		g.makeMove(move)
	default:
		// Still thinking
	}
}

// checkDecisions polls the decoder output channel. A closed channel
// means the sample source ended, in which case input falls back to the
// mouse.
func (g *Game) checkDecisions() {
	if !g.decoderOn {
		return
	}

	select {
	case d, ok := <-g.decisions:
		if !ok {
			g.stopDecoder()
			g.inputMode = storage.InputMouse
			g.prefs.InputMode = storage.InputMouse
			g.feedback.OnDecoderLost()
			return
		}
		g.handleDecision(d)
	default:
		// Nothing committed yet
	}
}

// handleDecision applies a committed decoder decision to the board
// through the selection controller.
func (g *Game) handleDecision(d bci.Decision) {
	if g.gameOver || g.aiThinking {
		return
	}
	if g.mode == ModeHumanVsComputer && g.position.SideToMove != g.playerColor {
		return
	}

	g.decisionCount++
	g.feedback.OnDecision(d.Class, d.Confidence)

	action := g.controller.Apply(d.Class, g.position)
	switch action.Kind {
	case control.ActionMove:
		g.makeMove(action.Move)
		return
	case control.ActionSelect, control.ActionDeselect, control.ActionCursor:
		// Mirror the controller state into the shared selection so the
		// renderer highlights targets the same way as mouse play.
		g.selectedSquare = g.controller.Selected()
		if g.selectedSquare != board.NoSquare {
			g.legalMoves = g.controller.Targets(g.position)
		} else {
			g.legalMoves = nil
		}
	}
}

// newPlaySource builds the sample source for live play according to the
// current input mode and preferences.
func (g *Game) newPlaySource() (bci.Source, error) {
	var src bci.Source
	switch g.inputMode {
	case storage.InputBCI:
		src = bci.NewStreamSource(g.bciCfg, g.prefs.StreamAddress)
	case storage.InputSimulated:
		src = bci.NewSyntheticSource(g.bciCfg, uint64(time.Now().UnixNano()))
	default:
		return nil, fmt.Errorf("input mode %d has no sample source", g.inputMode)
	}

	// SetAttended only works on the unwrapped source
	g.attendable, _ = src.(bci.Attendable)

	if g.prefs.RecordRawEEG {
		dir, err := storage.GetRecordingsDir()
		if err != nil {
			log.Printf("Warning: Failed to locate recordings dir: %v", err)
			return src, nil
		}
		path := filepath.Join(dir, fmt.Sprintf("eeg-%s.csv", time.Now().Format("20060102-150405")))
		rec, err := bci.NewRecorder(path, g.bciCfg.Channels)
		if err != nil {
			log.Printf("Warning: Failed to open recorder: %v", err)
			return src, nil
		}
		log.Printf("Recording raw EEG to %s", path)
		src = bci.NewTee(src, rec)
	}

	return src, nil
}

// newCalibrationSource builds a fresh source for a calibration run.
func (g *Game) newCalibrationSource() bci.Source {
	if g.inputMode == storage.InputBCI {
		return bci.NewStreamSource(g.bciCfg, g.prefs.StreamAddress)
	}
	return bci.NewSyntheticSource(g.bciCfg, uint64(time.Now().UnixNano()))
}

// startDecoder starts streaming decisions from the configured source.
func (g *Game) startDecoder() error {
	if g.decoderOn {
		return nil
	}
	if g.model == nil {
		return fmt.Errorf("no calibration profile for %s", g.username)
	}

	src, err := g.newPlaySource()
	if err != nil {
		return err
	}

	dec, err := bci.NewDecoder(g.bciCfg, g.model)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	decisions, err := dec.Run(ctx, src)
	if err != nil {
		cancel()
		return err
	}

	g.decoder = dec
	g.decoderSrc = src
	g.decoderCancel = cancel
	g.decisions = decisions
	g.decoderOn = true
	g.controller.Reset()
	log.Printf("Decoder started (%d targets, %v Hz)", g.bciCfg.NumClasses(), g.bciCfg.SampleRate)
	return nil
}

// stopDecoder tears down the decoding pipeline.
func (g *Game) stopDecoder() {
	if g.decoderCancel != nil {
		g.decoderCancel()
		g.decoderCancel = nil
	}
	if g.decoderSrc != nil {
		if err := g.decoderSrc.Close(); err != nil {
			log.Printf("Warning: Failed to close sample source: %v", err)
		}
		g.decoderSrc = nil
	}
	g.decoder = nil
	g.decisions = nil
	g.attendable = nil
	g.decoderOn = false
}

// NewGameAction resets the game to starting position.
func (g *Game) NewGameAction() {
	g.position = board.NewPosition()
	g.moveHistory = nil
	g.sanHistory = nil
	g.positionHashes = []uint64{g.position.Hash} // Reset with starting position
	g.lastMove = board.NoMove
	g.clearSelection()
	g.controller.Reset()
	g.gameOver = false
	g.gameResult = ""
	g.gameReason = ""
	g.aiThinking = false
	g.sessionID = storage.NewSessionID()
	g.sessionStart = time.Now()
	g.decisionCount = 0

	// Clear AI channel
	select {
	case <-g.aiMove:
	default:
	}

	// If player chose Black, AI (White) moves first
	if g.mode == ModeHumanVsComputer && g.playerColor == board.Black {
		g.startAIThinking()
	}
}

// ToggleModeAction toggles between Human vs Human and Human vs Computer.
func (g *Game) ToggleModeAction() {
	if g.mode == ModeHumanVsHuman {
		g.mode = ModeHumanVsComputer
	} else {
		g.mode = ModeHumanVsHuman
	}
}

// SetInputMode switches the input mode, starting or stopping the
// decoder as needed. Switching to an EEG mode without a calibration
// profile opens the calibration screen instead.
func (g *Game) SetInputMode(m storage.InputMode) {
	if m == g.inputMode && (m == storage.InputMouse) == !g.decoderOn {
		return
	}

	g.stopDecoder()
	g.inputMode = m
	g.prefs.InputMode = m

	if m == storage.InputMouse {
		return
	}

	if g.model == nil {
		g.ShowCalibration()
		return
	}

	if err := g.startDecoder(); err != nil {
		log.Printf("Warning: Failed to start decoder: %v", err)
		g.inputMode = storage.InputMouse
		g.prefs.InputMode = storage.InputMouse
		g.feedback.OnDecoderLost()
	}
}

// SetPlayerColor sets which color the human player controls.
// When set to Black, the board will be flipped and AI will move first.
func (g *Game) SetPlayerColor(color board.Color) {
	g.playerColor = color
	// Flip board so player's pieces are at the bottom
	g.renderer.SetFlipped(color == board.Black)
}

// PlayerColor returns the color the human player controls.
func (g *Game) PlayerColor() board.Color {
	return g.playerColor
}

// SetDifficulty sets the AI difficulty.
func (g *Game) SetDifficulty(d Difficulty) {
	g.difficulty = d
	g.applyDifficulty()
}

func (g *Game) applyDifficulty() {
	switch g.difficulty {
	case DifficultyEasy:
		g.engine.SetDifficulty(engine.Easy)
	case DifficultyMedium:
		g.engine.SetDifficulty(engine.Medium)
	case DifficultyHard:
		g.engine.SetDifficulty(engine.Hard)
	}
}

// Position returns the current position.
func (g *Game) Position() *board.Position {
	return g.position
}

// MoveHistory returns the move history.
func (g *Game) MoveHistory() []board.Move {
	return g.moveHistory
}

// SANHistory returns the SAN move history.
func (g *Game) SANHistory() []string {
	return g.sanHistory
}

// GameMode returns the current game mode.
func (g *Game) GameMode() GameMode {
	return g.mode
}

// Difficulty returns the current AI difficulty.
func (g *Game) Difficulty() Difficulty {
	return g.difficulty
}

// InputMode returns the current input mode.
func (g *Game) InputMode() storage.InputMode {
	return g.inputMode
}

// GameOver returns true if the game is over.
func (g *Game) GameOver() bool {
	return g.gameOver
}

// GameResult returns the game result string.
func (g *Game) GameResult() string {
	return g.gameResult
}

// IsAIThinking returns true if the AI is currently thinking.
func (g *Game) IsAIThinking() bool {
	return g.aiThinking
}

// Username returns the current username.
func (g *Game) Username() string {
	return g.username
}

// DecoderState returns the live decoder state for the target strip.
// The second result is false when no decoder is running.
func (g *Game) DecoderState() (bci.State, bool) {
	if !g.decoderOn || g.decoder == nil {
		return bci.State{}, false
	}
	return g.decoder.State(), true
}

// Flicker returns the stimulus panel.
func (g *Game) Flicker() *FlickerPanel {
	return g.flicker
}

// ShowSettings opens the settings modal.
func (g *Game) ShowSettings() {
	g.settingsModal.Show(g.prefs, func(prefs *storage.UserPreferences) {
		usernameChanged := prefs.Username != g.username
		acquisitionChanged := prefs.StreamAddress != g.prefs.StreamAddress ||
			prefs.RecordRawEEG != g.prefs.RecordRawEEG

		g.username = prefs.Username
		g.SetDifficulty(Difficulty(prefs.Difficulty))
		g.prefs.Username = prefs.Username
		g.prefs.Difficulty = prefs.Difficulty
		g.prefs.SoundEnabled = prefs.SoundEnabled
		g.prefs.PlayerColor = prefs.PlayerColor
		g.prefs.StreamAddress = prefs.StreamAddress
		g.prefs.RecordRawEEG = prefs.RecordRawEEG
		g.feedback.Audio().SetEnabled(prefs.SoundEnabled)

		// Apply player color (convert from storage.PlayerColor to board.Color)
		if prefs.PlayerColor == storage.ColorBlack {
			g.SetPlayerColor(board.Black)
		} else {
			g.SetPlayerColor(board.White)
		}

		if usernameChanged {
			g.stopDecoder()
			g.reloadProfile()
		}

		if acquisitionChanged || usernameChanged || prefs.InputMode != g.inputMode {
			g.stopDecoder()
			g.SetInputMode(prefs.InputMode)
		}

		g.savePreferences()
	}, nil)
}

// ShowCalibration opens the calibration screen. A running decoder is
// stopped first since a source can only be consumed once.
func (g *Game) ShowCalibration() {
	g.stopDecoder()

	g.calibScreen.Show(func(model *bci.LDA, report bci.CalibrationReport) {
		g.model = model
		g.feedback.OnCalibrationComplete(report.Accuracy)

		if g.storage != nil {
			prof := &storage.CalibrationProfile{
				Username: g.username,
				Config:   g.bciCfg,
				Model:    model,
				Report:   report,
			}
			if err := g.storage.SaveProfile(prof); err != nil {
				log.Printf("Warning: Failed to save calibration profile: %v", err)
			}
		}

		if g.inputMode != storage.InputMouse {
			if err := g.startDecoder(); err != nil {
				log.Printf("Warning: Failed to start decoder: %v", err)
				g.inputMode = storage.InputMouse
			}
		}
	}, func() {
		// Cancelled. Resume decoding only if a model already exists.
		if g.inputMode != storage.InputMouse && g.model != nil {
			if err := g.startDecoder(); err != nil {
				log.Printf("Warning: Failed to restart decoder: %v", err)
				g.inputMode = storage.InputMouse
			}
		} else if g.model == nil {
			g.inputMode = storage.InputMouse
			g.prefs.InputMode = storage.InputMouse
		}
	})
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.stopDecoder()
	if g.storage != nil {
		g.storage.Close()
	}
}
