// Package storage persists high scores and versus results in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// TopN is the size of a high score table.
const TopN = 10

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one finished single-player game.
type ScoreEntry struct {
	ID         int64
	Mode       string
	Name       string
	Score      int
	Lines      int
	Level      int
	Difficulty string
	CreatedAt  time.Time
}

// VersusMatch is the outcome of an online versus match.
type VersusMatch struct {
	ID             int64
	MatchID        string
	Player1Session string
	Player2Session string
	Player1Name    string
	Player2Name    string
	Score1         int
	Score2         int
	Lines1         int
	Lines2         int
	WinnerSession  string // empty when nobody won
	EndReason      string // "completed", "disconnect", ...
	Duration       int    // seconds
	CreatedAt      time.Time
}

// Open creates or opens a SQLite database at the given path, creating
// parent directories and running migrations. A leading ~ is expanded.
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			difficulty TEXT NOT NULL DEFAULT 'normal',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(mode, score DESC);

		CREATE TABLE IF NOT EXISTS versus_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			player1_name TEXT NOT NULL DEFAULT '',
			player2_name TEXT NOT NULL DEFAULT '',
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			lines1 INTEGER NOT NULL DEFAULT 0,
			lines2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_versus_player1 ON versus_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_versus_player2 ON versus_matches(player2_session);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime accepts both driver-decoded times and SQLite text timestamps.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a finished game and returns its ID.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	if e.Difficulty == "" {
		e.Difficulty = "normal"
	}
	result, err := s.db.Exec(
		`INSERT INTO scores (mode, name, score, lines, level, difficulty)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Mode, e.Name, e.Score, e.Lines, e.Level, e.Difficulty,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const scoreColumns = `id, mode, name, score, lines, level, difficulty, created_at`

// TopScores returns the best limit scores for a mode, highest first.
// Ties keep the earlier game ahead.
func (s *Store) TopScores(mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = TopN
	}
	return s.queryScores(
		`SELECT `+scoreColumns+` FROM scores
		 WHERE mode = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		mode, limit,
	)
}

// AllScores returns every score for a mode, highest first.
func (s *Store) AllScores(mode string) ([]ScoreEntry, error) {
	return s.queryScores(
		`SELECT `+scoreColumns+` FROM scores
		 WHERE mode = ?
		 ORDER BY score DESC, id ASC`,
		mode,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Mode, &e.Name, &e.Score, &e.Lines, &e.Level, &e.Difficulty, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the best score for a mode, or 0.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM scores WHERE mode = ?", mode).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Rank returns the 1-based table position a new score would take.
// Equal scores already on the table stay ahead of it.
func (s *Store) Rank(mode string, score int) (int, error) {
	var better int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM scores WHERE mode = ? AND score >= ?",
		mode, score,
	).Scan(&better)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot rank score: %w", err)
	}
	return better + 1, nil
}

// IsEligible reports whether a score would enter the top TopN table.
// Zero scores never qualify.
func (s *Store) IsEligible(mode string, score int) (bool, error) {
	if score <= 0 {
		return false, nil
	}
	rank, err := s.Rank(mode, score)
	if err != nil {
		return false, err
	}
	return rank <= TopN, nil
}

// ClearScores deletes all scores for a mode.
func (s *Store) ClearScores(mode string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveVersusMatch records a versus result and returns its ID.
func (s *Store) SaveVersusMatch(m VersusMatch) (int64, error) {
	var winner sql.NullString
	if m.WinnerSession != "" {
		winner = sql.NullString{String: m.WinnerSession, Valid: true}
	}
	res, err := s.db.Exec(
		`INSERT INTO versus_matches
		 (match_id, player1_session, player2_session, player1_name, player2_name,
		  score1, score2, lines1, lines2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID, m.Player1Session, m.Player2Session, m.Player1Name, m.Player2Name,
		m.Score1, m.Score2, m.Lines1, m.Lines2, winner, m.EndReason, m.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save versus match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, player1_session, player2_session, player1_name, player2_name,
	score1, score2, lines1, lines2, winner_session, end_reason, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(r rowScanner) (VersusMatch, error) {
	var m VersusMatch
	var winner sql.NullString
	var createdAt any
	err := r.Scan(
		&m.ID, &m.MatchID, &m.Player1Session, &m.Player2Session, &m.Player1Name, &m.Player2Name,
		&m.Score1, &m.Score2, &m.Lines1, &m.Lines2, &winner, &m.EndReason, &m.Duration, &createdAt,
	)
	if err != nil {
		return m, err
	}
	m.WinnerSession = winner.String
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// VersusMatchByID looks up a match. It returns nil, nil when there is
// no such match.
func (s *Store) VersusMatchByID(matchID string) (*VersusMatch, error) {
	m, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+` FROM versus_matches WHERE match_id = ?`, matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query versus match: %w", err)
	}
	return &m, nil
}

// RecentVersusMatches returns the latest matches, newest first.
func (s *Store) RecentVersusMatches(limit int) ([]VersusMatch, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM versus_matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// PlayerMatchHistory returns the latest matches a session played in.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]VersusMatch, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM versus_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
}

func (s *Store) queryMatches(query string, args ...any) ([]VersusMatch, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query versus matches: %w", err)
	}
	defer rows.Close()

	var out []VersusMatch
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveVersusMatch(VersusMatch{
		MatchID:        data.MatchID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Player1Name:    data.Player1Name,
		Player2Name:    data.Player2Name,
		Score1:         data.Score1,
		Score2:         data.Score2,
		Lines1:         data.Lines1,
		Lines2:         data.Lines2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	})
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)

// ModeStats aggregates the scores of one mode.
type ModeStats struct {
	Mode       string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalLines int64
	LastPlayed time.Time
}

// GetModeStats returns aggregated statistics for a mode.
func (s *Store) GetModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(lines), 0), MAX(created_at)
		 FROM scores WHERE mode = ?`,
		mode,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalLines, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllModesStats returns statistics for every mode that has scores.
func (s *Store) GetAllModesStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), MAX(score), AVG(score), SUM(lines), MAX(created_at)
		 FROM scores
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all modes stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var st ModeStats
		var lastPlayed any
		if err := rows.Scan(&st.Mode, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalLines, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Mode] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
