package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/quangh/eegchess/internal/bci"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"

	prefixProfile = "profile:"
	prefixSession = "session:"
)

// InputMode selects how the player moves pieces.
type InputMode int

const (
	InputMouse InputMode = iota
	InputBCI
	InputSimulated // synthetic EEG, for demos and development
)

// GameMode represents the game mode
type GameMode int

const (
	ModeHumanVsHuman GameMode = iota
	ModeHumanVsComputer
)

// Difficulty represents AI difficulty level
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username      string      `json:"username"`
	InputMode     InputMode   `json:"input_mode"`
	Difficulty    Difficulty  `json:"difficulty"`
	GameMode      GameMode    `json:"game_mode"`
	PlayerColor   PlayerColor `json:"player_color"`
	PieceSet      string      `json:"piece_set"`
	SoundEnabled  bool        `json:"sound_enabled"`
	RecordRawEEG  bool        `json:"record_raw_eeg"`
	StreamAddress string      `json:"stream_address"`
	LastPlayed    time.Time   `json:"last_played"`
}

// DefaultPreferences returns default user preferences. Raw EEG
// recording is opt-in.
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:      "Player",
		InputMode:     InputMouse,
		Difficulty:    DifficultyEasy,
		GameMode:      ModeHumanVsComputer,
		PlayerColor:   ColorWhite,
		PieceSet:      "",
		SoundEnabled:  true,
		RecordRawEEG:  false,
		StreamAddress: "127.0.0.1:52430",
		LastPlayed:    time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByInput    map[string]int `json:"wins_by_input"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByInput: make(map[string]int),
		WinsByDiff:  make(map[string]int),
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Won        bool
	Draw       bool
	Input      InputMode
	Difficulty Difficulty
	Duration   time.Duration
}

// CalibrationProfile is a trained per-user decoder model together
// with the configuration it was trained under and its holdout report.
type CalibrationProfile struct {
	Username string                `json:"username"`
	Config   bci.Config            `json:"config"`
	Model    *bci.LDA              `json:"model"`
	Report   bci.CalibrationReport `json:"report"`
}

// SessionRecord summarizes one play session. The ID is random so
// stored sessions carry no identifying order or timestamp in the key.
type SessionRecord struct {
	ID        string        `json:"id"`
	Input     InputMode     `json:"input"`
	Moves     []string      `json:"moves"` // SAN
	Result    string        `json:"result"`
	Reason    string        `json:"reason"`
	Decisions int           `json:"decisions"` // decoder commits, BCI sessions only
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration"`
}

// NewSessionID returns a random 16-byte hex session identifier.
func NewSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage creates a new storage instance in the platform data
// directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens a storage instance at the given directory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	var firstLaunch bool = true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// setJSON stores a JSON-encoded value under key.
func (s *Storage) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON loads a JSON value into v. Missing keys leave v untouched
// and report found=false.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.setJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.setJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON(keyStats, stats)
	return stats, err
}

// SaveProfile stores a calibration profile keyed by username.
func (s *Storage) SaveProfile(p *CalibrationProfile) error {
	return s.setJSON(prefixProfile+p.Username, p)
}

// LoadProfile loads the calibration profile for a user, or nil when
// the user has never calibrated.
func (s *Storage) LoadProfile(username string) (*CalibrationProfile, error) {
	p := &CalibrationProfile{}
	found, err := s.getJSON(prefixProfile+username, p)
	if err != nil || !found {
		return nil, err
	}
	return p, nil
}

// DeleteProfile removes a user's calibration profile.
func (s *Storage) DeleteProfile(username string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(prefixProfile + username))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// SaveSession stores a completed session record under its random ID.
func (s *Storage) SaveSession(rec *SessionRecord) error {
	if rec.ID == "" {
		rec.ID = NewSessionID()
	}
	return s.setJSON(prefixSession+rec.ID, rec)
}

// LoadSession loads one session record by ID, or nil when absent.
func (s *Storage) LoadSession(id string) (*SessionRecord, error) {
	rec := &SessionRecord{}
	found, err := s.getJSON(prefixSession+id, rec)
	if err != nil || !found {
		return nil, err
	}
	return rec, nil
}

// ListSessions returns all stored session records.
func (s *Storage) ListSessions() ([]*SessionRecord, error) {
	var out []*SessionRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixSession)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			rec := &SessionRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	inputKey := "mouse"
	switch result.Input {
	case InputBCI:
		inputKey = "bci"
	case InputSimulated:
		inputKey = "simulated"
	}

	diffKey := "easy"
	switch result.Difficulty {
	case DifficultyMedium:
		diffKey = "medium"
	case DifficultyHard:
		diffKey = "hard"
	}

	if result.Draw {
		stats.Draws++
		stats.CurrentStreak = 0
	} else if result.Won {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByInput[inputKey]++
		stats.WinsByDiff[diffKey]++
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}
