package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSave(t *testing.T, s *Store, e ScoreEntry) int64 {
	t.Helper()
	id, err := s.SaveScore(e)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	return id
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "scores.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, ScoreEntry{Mode: "marathon", Name: "ann", Score: 1000, Lines: 10, Level: 2})
	mustSave(t, store, ScoreEntry{Mode: "marathon", Name: "bob", Score: 500, Lines: 5, Level: 1, Difficulty: "hard"})
	mustSave(t, store, ScoreEntry{Mode: "marathon", Name: "cid", Score: 2000, Lines: 20, Level: 3})
	mustSave(t, store, ScoreEntry{Mode: "sprint", Name: "dee", Score: 9000})

	scores, err := store.TopScores("marathon", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	want := []int{2000, 1000, 500}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
	}
	if scores[0].Name != "cid" || scores[0].Lines != 20 || scores[0].Level != 3 {
		t.Errorf("unexpected top entry: %+v", scores[0])
	}
	if scores[0].Difficulty != "normal" {
		t.Errorf("empty difficulty should default to normal, got %q", scores[0].Difficulty)
	}
	if scores[2].Difficulty != "hard" {
		t.Errorf("difficulty = %q, want hard", scores[2].Difficulty)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 15 {
		mustSave(t, store, ScoreEntry{Mode: "marathon", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores("marathon", 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != TopN {
		t.Fatalf("Expected %d scores by default, got %d", TopN, len(scores))
	}
	if scores[0].Score != 1500 || scores[TopN-1].Score != 600 {
		t.Errorf("unexpected order: first %d last %d", scores[0].Score, scores[TopN-1].Score)
	}

	all, err := store.AllScores("marathon")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 15 {
		t.Errorf("Expected 15 scores, got %d", len(all))
	}
}

func TestStoreTiesKeepEarlierFirst(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, ScoreEntry{Mode: "marathon", Name: "first", Score: 100})
	mustSave(t, store, ScoreEntry{Mode: "marathon", Name: "second", Score: 100})

	scores, _ := store.TopScores("marathon", 2)
	if scores[0].Name != "first" {
		t.Errorf("tie order: got %q first", scores[0].Name)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("marathon")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for an empty table, got %d", high)
	}

	mustSave(t, store, ScoreEntry{Mode: "marathon", Score: 100})
	mustSave(t, store, ScoreEntry{Mode: "marathon", Score: 300})

	high, _ = store.HighScore("marathon")
	if high != 300 {
		t.Errorf("Expected 300, got %d", high)
	}
}

func TestStoreRankAndEligibility(t *testing.T) {
	store := openTestStore(t)

	ok, err := store.IsEligible("marathon", 10)
	if err != nil {
		t.Fatalf("IsEligible() failed: %v", err)
	}
	if !ok {
		t.Error("any positive score qualifies for an empty table")
	}
	if ok, _ := store.IsEligible("marathon", 0); ok {
		t.Error("zero never qualifies")
	}

	for i := range TopN {
		mustSave(t, store, ScoreEntry{Mode: "marathon", Score: (i + 1) * 100})
	}

	tests := []struct {
		score    int
		rank     int
		eligible bool
	}{
		{5000, 1, true},
		{1000, 2, true},
		{150, 10, true},
		{100, 11, false},
		{50, 11, false},
	}
	for _, tt := range tests {
		rank, err := store.Rank("marathon", tt.score)
		if err != nil {
			t.Fatalf("Rank() failed: %v", err)
		}
		if rank != tt.rank {
			t.Errorf("Rank(%d) = %d, want %d", tt.score, rank, tt.rank)
		}
		if ok, _ := store.IsEligible("marathon", tt.score); ok != tt.eligible {
			t.Errorf("IsEligible(%d) = %v, want %v", tt.score, ok, tt.eligible)
		}
	}

	if rank, _ := store.Rank("sprint", 100); rank != 1 {
		t.Errorf("other modes should not affect rank, got %d", rank)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, ScoreEntry{Mode: "marathon", Score: 100})
	mustSave(t, store, ScoreEntry{Mode: "items", Score: 300})

	if err := store.ClearScores("marathon"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("marathon", 10); len(scores) != 0 {
		t.Errorf("Expected no marathon scores, got %d", len(scores))
	}
	if scores, _ := store.TopScores("items", 10); len(scores) != 1 {
		t.Error("items scores should not be affected")
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, ScoreEntry{Mode: "marathon", Score: 100, Lines: 4})
	mustSave(t, store, ScoreEntry{Mode: "marathon", Score: 300, Lines: 6})
	mustSave(t, store, ScoreEntry{Mode: "sprint", Score: 50, Lines: 1})

	st, err := store.GetModeStats("marathon")
	if err != nil {
		t.Fatalf("GetModeStats() failed: %v", err)
	}
	if st.GamesCount != 2 || st.HighScore != 300 || st.AvgScore != 200 || st.TotalLines != 10 {
		t.Errorf("unexpected stats: %+v", st)
	}

	empty, err := store.GetModeStats("items")
	if err != nil {
		t.Fatalf("GetModeStats() on empty mode failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected empty stats: %+v", empty)
	}

	all, err := store.GetAllModesStats()
	if err != nil {
		t.Fatalf("GetAllModesStats() failed: %v", err)
	}
	if len(all) != 2 || all["sprint"].HighScore != 50 {
		t.Errorf("unexpected all stats: %v", all)
	}
}

func TestStoreVersusMatches(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:        "m1",
		Mode:           multiplayer.ModeVersus,
		Player1Session: "s1",
		Player2Session: "s2",
		Player1Name:    "ann",
		Player2Name:    "bob",
		Score1:         1200,
		Score2:         400,
		Lines1:         12,
		Lines2:         4,
		WinnerSession:  "s1",
		EndReason:      "completed",
		DurationSecs:   95,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}
	if _, err := store.SaveVersusMatch(VersusMatch{
		MatchID: "m2", Player1Session: "s3", Player2Session: "s1", EndReason: "disconnect",
	}); err != nil {
		t.Fatalf("SaveVersusMatch() failed: %v", err)
	}

	m, err := store.VersusMatchByID("m1")
	if err != nil || m == nil {
		t.Fatalf("VersusMatchByID() = %v, %v", m, err)
	}
	if m.WinnerSession != "s1" || m.Lines1 != 12 || m.Player2Name != "bob" || m.Duration != 95 {
		t.Errorf("unexpected match: %+v", m)
	}

	missing, err := store.VersusMatchByID("nope")
	if err != nil || missing != nil {
		t.Errorf("missing match = %v, %v; want nil, nil", missing, err)
	}

	recent, err := store.RecentVersusMatches(10)
	if err != nil {
		t.Fatalf("RecentVersusMatches() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].MatchID != "m2" {
		t.Errorf("unexpected recent matches: %+v", recent)
	}
	if recent[0].WinnerSession != "" {
		t.Errorf("no winner should read back empty, got %q", recent[0].WinnerSession)
	}

	history, _ := store.PlayerMatchHistory("s1", 10)
	if len(history) != 2 {
		t.Errorf("s1 played 2 matches, got %d", len(history))
	}
	history, _ = store.PlayerMatchHistory("s3", 10)
	if len(history) != 1 {
		t.Errorf("s3 played 1 match, got %d", len(history))
	}

	if _, err := store.SaveVersusMatch(VersusMatch{MatchID: "m1", EndReason: "completed"}); err == nil {
		t.Error("duplicate match IDs should be rejected")
	}
}

func TestExportScoresCSV(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, ScoreEntry{Mode: "marathon", Name: "ann", Score: 700, Lines: 7, Level: 1})
	mustSave(t, store, ScoreEntry{Mode: "marathon", Name: "bob", Score: 900, Lines: 9, Level: 1})

	var buf bytes.Buffer
	if err := store.ExportScores(&buf, "marathon"); err != nil {
		t.Fatalf("ExportScores() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "rank,mode,name,score,lines,level,difficulty,played_at" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,marathon,bob,900,9,1,normal,") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}
