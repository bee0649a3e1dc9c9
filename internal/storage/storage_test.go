package storage

import (
	"math/rand/v2"
	"os"
	"testing"
	"time"

	"github.com/quangh/eegchess/internal/bci"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDefaults(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.InputMode != InputMouse {
			t.Errorf("Expected mouse input by default")
		}
		if prefs.RecordRawEEG {
			t.Errorf("Expected raw EEG recording off by default")
		}
		if !prefs.SoundEnabled {
			t.Errorf("Expected sound enabled by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if prefs.Username != "Player" {
		t.Errorf("Expected defaults on empty store, got username '%s'", prefs.Username)
	}

	prefs.Username = "ada"
	prefs.InputMode = InputBCI
	prefs.RecordRawEEG = true
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if loaded.Username != "ada" || loaded.InputMode != InputBCI || !loaded.RecordRawEEG {
		t.Errorf("Loaded preferences do not match saved: %+v", loaded)
	}
}

func TestRecordGame(t *testing.T) {
	s := openTestStorage(t)

	results := []GameResult{
		{Won: true, Input: InputBCI, Difficulty: DifficultyEasy, Duration: time.Minute},
		{Won: true, Input: InputBCI, Difficulty: DifficultyEasy, Duration: time.Minute},
		{Draw: true, Input: InputMouse, Difficulty: DifficultyMedium, Duration: time.Minute},
		{Won: false, Input: InputMouse, Difficulty: DifficultyHard, Duration: time.Minute},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatalf("RecordGame failed: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if stats.GamesPlayed != 4 || stats.Wins != 2 || stats.Draws != 1 || stats.Losses != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.WinsByInput["bci"] != 2 {
		t.Errorf("Expected 2 BCI wins, got %d", stats.WinsByInput["bci"])
	}
	if stats.LongestWinStrk != 2 {
		t.Errorf("Expected longest streak 2, got %d", stats.LongestWinStrk)
	}
	if stats.CurrentStreak != 0 {
		t.Errorf("Expected streak reset after loss, got %d", stats.CurrentStreak)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	missing, err := s.LoadProfile("ada")
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("Expected nil profile for uncalibrated user")
	}

	// Train a small real model so the profile carries actual weights.
	rng := rand.New(rand.NewPCG(1, 2))
	var X [][]float64
	var y []int
	for k := 0; k < 2; k++ {
		for i := 0; i < 6; i++ {
			X = append(X, []float64{float64(5*k) + rng.NormFloat64(), rng.NormFloat64()})
			y = append(y, k)
		}
	}
	model, err := bci.FitLDA(X, y, 2)
	if err != nil {
		t.Fatalf("FitLDA failed: %v", err)
	}

	profile := &CalibrationProfile{
		Username: "ada",
		Config:   bci.DefaultConfig(),
		Model:    model,
		Report:   bci.CalibrationReport{Accuracy: 0.9, Samples: 12, Trained: time.Now()},
	}
	if err := s.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	loaded, err := s.LoadProfile("ada")
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if loaded == nil {
		t.Fatalf("Expected profile after save")
	}
	if loaded.Report.Accuracy != 0.9 {
		t.Errorf("Expected accuracy 0.9, got %v", loaded.Report.Accuracy)
	}
	pred, _, err := loaded.Model.Predict(X[0])
	if err != nil {
		t.Fatalf("Predict on loaded model failed: %v", err)
	}
	if pred != y[0] {
		t.Errorf("Loaded model predicted %d, want %d", pred, y[0])
	}

	if err := s.DeleteProfile("ada"); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}
	gone, err := s.LoadProfile("ada")
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if gone != nil {
		t.Errorf("Expected profile removed")
	}
}

func TestSessions(t *testing.T) {
	s := openTestStorage(t)

	id1 := NewSessionID()
	id2 := NewSessionID()
	if id1 == id2 {
		t.Fatalf("Session IDs must be unique")
	}
	if len(id1) != 32 {
		t.Errorf("Expected 32 hex chars, got %d", len(id1))
	}

	rec := &SessionRecord{
		Input:     InputBCI,
		Moves:     []string{"e4", "e5", "Nf3"},
		Result:    "1-0",
		Reason:    "checkmate",
		Decisions: 42,
		Started:   time.Now(),
		Duration:  3 * time.Minute,
	}
	if err := s.SaveSession(rec); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("SaveSession did not assign an ID")
	}

	loaded, err := s.LoadSession(rec.ID)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded == nil || loaded.Decisions != 42 || len(loaded.Moves) != 3 {
		t.Errorf("Unexpected session record: %+v", loaded)
	}

	all, err := s.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 session, got %d", len(all))
	}
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}
}
