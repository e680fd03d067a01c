package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineClearScore(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		level int
		diff  Difficulty
		want  int
	}{
		{"nothing", 0, 1, DifficultyNormal, 0},
		{"single", 1, 1, DifficultyNormal, 100},
		{"double", 2, 1, DifficultyNormal, 300},
		{"triple", 3, 1, DifficultyNormal, 500},
		{"tetris", 4, 1, DifficultyNormal, 800},
		{"level 6 doubles", 2, 6, DifficultyNormal, 600},
		{"level 5 still single factor", 1, 5, DifficultyNormal, 100},
		{"easy", 1, 1, DifficultyEasy, 80},
		{"hard", 3, 1, DifficultyHard, 600},
		{"hard level 11", 1, 11, DifficultyHard, 360},
		{"item clear beyond four", 6, 1, DifficultyNormal, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineClearScore(tt.lines, tt.level, tt.diff))
		})
	}
}

func TestSpeedCurveNonIncreasing(t *testing.T) {
	c := DefaultSpeedCurve()
	assert.Equal(t, time.Second, c.Interval(1))
	assert.Equal(t, 50*time.Millisecond, c.Interval(20))
	assert.Equal(t, 50*time.Millisecond, c.Interval(40), "floor holds past the table")

	prev := c.Interval(1)
	for level := 2; level <= 30; level++ {
		cur := c.Interval(level)
		require.LessOrEqual(t, cur, prev, "level %d", level)
		prev = cur
	}
}

func TestScorerLevelNeverDecreases(t *testing.T) {
	s := NewScorer(DifficultyNormal, 0, 20, 1)
	prev := s.Level()
	for i := 0; i < 100; i++ {
		s.AddLines(i%4+1, false)
		require.GreaterOrEqual(t, s.Level(), prev)
		prev = s.Level()
	}
	assert.Equal(t, 20, s.Level(), "capped at the max level")
}

func TestScorerLevelFactorByDifficulty(t *testing.T) {
	for _, tt := range []struct {
		diff   Difficulty
		factor int
	}{
		{DifficultyEasy, 12},
		{DifficultyNormal, 10},
		{DifficultyHard, 8},
	} {
		s := NewScorer(tt.diff, 0, 20, 1)
		s.AddLines(tt.factor-1, false)
		assert.Equal(t, 1, s.Level(), tt.diff.String())
		s.AddLines(1, false)
		assert.Equal(t, 2, s.Level(), tt.diff.String())
	}
}

func TestScorerStartLevel(t *testing.T) {
	s := NewScorer(DifficultyNormal, 10, 20, 5)
	assert.Equal(t, 5, s.Level())
	s.AddLines(10, false)
	assert.Equal(t, 6, s.Level())
}

func TestScorerDropsAndTSpin(t *testing.T) {
	s := NewScorer(DifficultyNormal, 0, 20, 1)
	assert.Equal(t, 1, s.AddSoftDrop(1))
	assert.Equal(t, 38, s.AddHardDrop(19))
	assert.Equal(t, 600, s.AddLines(2, true))
	assert.Equal(t, 639, s.Score())
	assert.Equal(t, 2, s.Lines())
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("HARD")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, d)

	_, err = ParseDifficulty("nightmare")
	assert.Error(t, err)
}
