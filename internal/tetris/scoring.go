package tetris

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty scales scoring, leveling and the I piece frequency.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyNormal Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// ParseDifficulty accepts easy, normal or hard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "", "normal":
		return DifficultyNormal, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q (use easy, normal or hard)", s)
	}
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	default:
		return "normal"
	}
}

// ScoreMultiplier is 0.8, 1.0 or 1.2.
func (d Difficulty) ScoreMultiplier() float64 {
	return float64(d-DifficultyNormal)*0.2 + 1
}

// LevelFactor is the number of lines per level: 12, 10 or 8.
func (d Difficulty) LevelFactor() int {
	switch d {
	case DifficultyEasy:
		return 12
	case DifficultyHard:
		return 8
	default:
		return 10
	}
}

// IWeight is the relative frequency of the I piece: 1.2, 1.0 or 0.8.
func (d Difficulty) IWeight() float64 {
	switch d {
	case DifficultyEasy:
		return 1.2
	case DifficultyHard:
		return 0.8
	default:
		return 1.0
	}
}

// Scoring constants.
const (
	SoftDropPoints = 1
	HardDropPoints = 2
)

var lineScores = [...]int{0, 100, 300, 500, 800}

// baseLineScore is the table entry for n lines. Item clears can exceed
// four lines; each extra line adds 100.
func baseLineScore(n int) int {
	if n <= 0 {
		return 0
	}
	if n < len(lineScores) {
		return lineScores[n]
	}
	return lineScores[4] + (n-4)*100
}

// ScoreFactor combines the level bonus (one step every five levels) with
// the difficulty multiplier.
func ScoreFactor(level int, d Difficulty) float64 {
	return float64(1+(max(level, 1)-1)/5) * d.ScoreMultiplier()
}

// LineClearScore is the score for clearing lines at the given level.
func LineClearScore(lines, level int, d Difficulty) int {
	return truncScore(float64(baseLineScore(lines)) * ScoreFactor(level, d))
}

// truncScore drops the fraction, tolerating float error such as
// 100 * 3.6 evaluating just below 360.
func truncScore(points float64) int {
	return int(points + 1e-9)
}

// SpeedCurve maps a level to the gravity interval.
type SpeedCurve struct {
	Base  time.Duration
	Step  time.Duration
	Floor time.Duration
}

// DefaultSpeedCurve starts at one second per row, 50ms faster per level,
// never below 50ms.
func DefaultSpeedCurve() SpeedCurve {
	return SpeedCurve{Base: time.Second, Step: 50 * time.Millisecond, Floor: 50 * time.Millisecond}
}

// Interval returns the gravity interval for a level.
func (c SpeedCurve) Interval(level int) time.Duration {
	return max(c.Floor, c.Base-time.Duration(max(level, 1)-1)*c.Step)
}

// Scorer tracks score, lines and level for one game.
type Scorer struct {
	difficulty  Difficulty
	levelFactor int
	maxLevel    int
	startLevel  int

	score int
	lines int
	level int
}

// NewScorer creates a scorer. levelFactor 0 uses the difficulty default.
func NewScorer(d Difficulty, levelFactor, maxLevel, startLevel int) *Scorer {
	if levelFactor <= 0 {
		levelFactor = d.LevelFactor()
	}
	if maxLevel <= 0 {
		maxLevel = 20
	}
	startLevel = min(max(startLevel, 1), maxLevel)
	return &Scorer{
		difficulty:  d,
		levelFactor: levelFactor,
		maxLevel:    maxLevel,
		startLevel:  startLevel,
		level:       startLevel,
	}
}

// Score is the running total.
func (s *Scorer) Score() int { return s.score }

// Lines is the number of lines cleared so far.
func (s *Scorer) Lines() int { return s.lines }

// Level is the current level.
func (s *Scorer) Level() int { return s.level }

// Difficulty returns the preset the scorer was built with.
func (s *Scorer) Difficulty() Difficulty { return s.difficulty }

func (s *Scorer) award(points float64) int {
	n := truncScore(points)
	s.score += n
	return n
}

// AddSoftDrop scores rows moved down by soft drop.
func (s *Scorer) AddSoftDrop(rows int) int {
	return s.award(float64(rows*SoftDropPoints) * ScoreFactor(s.level, s.difficulty))
}

// AddHardDrop scores rows skipped by a hard drop.
func (s *Scorer) AddHardDrop(rows int) int {
	return s.award(float64(rows*HardDropPoints) * ScoreFactor(s.level, s.difficulty))
}

// AddLines records a clear and returns the points awarded. A T-spin
// doubles the table score. The level is recomputed after scoring and
// never goes down.
func (s *Scorer) AddLines(n int, tspin bool) int {
	if n <= 0 {
		return 0
	}
	base := baseLineScore(n)
	if tspin {
		base *= 2
	}
	got := s.award(float64(base) * ScoreFactor(s.level, s.difficulty))
	s.lines += n
	s.level = max(s.level, min(s.maxLevel, s.lines/s.levelFactor+s.startLevel))
	return got
}
