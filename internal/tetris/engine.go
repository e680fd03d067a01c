package tetris

import (
	"math/rand"
	"time"
)

// Phase is the state of the game loop.
type Phase int

const (
	PhaseSpawning Phase = iota
	PhaseFalling
	PhaseLocking
	PhaseLineClear
	PhaseGameOver
	// PhaseCrushing shows a landed weight for one tick before it vanishes.
	PhaseCrushing
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseFalling:
		return "falling"
	case PhaseLocking:
		return "locking"
	case PhaseLineClear:
		return "line-clear"
	case PhaseGameOver:
		return "game-over"
	case PhaseCrushing:
		return "crushing"
	default:
		return "unknown"
	}
}

// GameOverReason says why a game ended.
type GameOverReason int

const (
	ReasonNone       GameOverReason = iota
	ReasonBlockOut                  // a new piece collided at spawn
	ReasonTopOut                    // something rests in the buffer zone
	ReasonTimeUp                    // the time limit ran out
	ReasonLockFailed                // the board refused a lock
)

func (r GameOverReason) String() string {
	switch r {
	case ReasonBlockOut:
		return "block out"
	case ReasonTopOut:
		return "top out"
	case ReasonTimeUp:
		return "time up"
	case ReasonLockFailed:
		return "lock failed"
	default:
		return ""
	}
}

// Action is a player command.
type Action int

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
	ActionSoftDrop
	ActionHardDrop
	ActionRotateCW
	ActionRotateCCW
	ActionHold
)

var actionNames = [...]string{"none", "left", "right", "soft-drop", "hard-drop", "rotate-cw", "rotate-ccw", "hold"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// EventType classifies an Event.
type EventType int

const (
	EventLocked EventType = iota
	EventTSpin
	EventLinesCleared
	EventLevelUp
	EventHold
	EventItemQueued
	EventGarbage
	EventGameOver
	EventDetonated // a bomb cleared the area around it
	EventCrushed   // a weight crushed the blocks beneath it
)

// Event reports something the presentation or a versus opponent may
// react to.
type Event struct {
	Type   EventType
	Kind   Kind
	Lines  int
	Points int
	TSpin  bool
	Level  int
	Reason GameOverReason

	// Garbage is set on EventLinesCleared when the clear attacks: the
	// completed rows as they were before the piece locked.
	Garbage []GarbageLine
}

// Config parameterizes an Engine. Zero fields take defaults.
type Config struct {
	Width  int
	Height int
	Buffer int

	// TickRate is OnTick calls per second.
	TickRate int

	Difficulty  Difficulty
	StartLevel  int
	MaxLevel    int
	LevelFactor int
	Speed       SpeedCurve

	// LockDelayTicks is how long a grounded piece waits before locking.
	// Zero locks on the first gravity step that cannot move it.
	LockDelayTicks int
	// MaxLockResets bounds how often moving a grounded piece restarts
	// the lock delay.
	MaxLockResets int
	// LineClearTicks keeps cleared rows on the board for flashing.
	LineClearTicks int

	QueueSize   int
	PreviewSize int

	// Randomizer is "bag" or "weighted". Empty uses the bag unless the
	// difficulty changes the I piece weight.
	Randomizer string

	Items          bool
	ItemEveryLines int

	// TimeLimit ends the game after that much play time. Zero is
	// unlimited.
	TimeLimit time.Duration

	Seed int64
}

// DefaultConfig is a 10x20 marathon game at 60 ticks per second.
func DefaultConfig() Config {
	return Config{
		Width:          10,
		Height:         20,
		Buffer:         4,
		TickRate:       60,
		Difficulty:     DifficultyNormal,
		StartLevel:     1,
		MaxLevel:       20,
		Speed:          DefaultSpeedCurve(),
		LockDelayTicks: 15,
		MaxLockResets:  15,
		LineClearTicks: 12,
		QueueSize:      7,
		PreviewSize:    5,
		ItemEveryLines: 10,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Width < 4 {
		c.Width = def.Width
	}
	if c.Height < 4 {
		c.Height = def.Height
	}
	if c.Buffer < 2 {
		c.Buffer = def.Buffer
	}
	if c.TickRate <= 0 {
		c.TickRate = def.TickRate
	}
	if c.Difficulty < DifficultyEasy || c.Difficulty > DifficultyHard {
		c.Difficulty = DifficultyNormal
	}
	if c.MaxLevel <= 0 {
		c.MaxLevel = def.MaxLevel
	}
	if c.Speed.Base <= 0 {
		c.Speed = def.Speed
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	c.PreviewSize = min(max(c.PreviewSize, 0), c.QueueSize)
	if c.ItemEveryLines <= 0 {
		c.ItemEveryLines = def.ItemEveryLines
	}
	return c
}

func (c Config) useBag() bool {
	switch c.Randomizer {
	case "bag":
		return true
	case "weighted":
		return false
	default:
		return c.Difficulty.IWeight() == 1.0
	}
}

// Engine runs one game. Moves and rotations are all-or-nothing: a
// rejected command leaves the board and the active piece untouched.
type Engine struct {
	cfg     Config
	rng     *rand.Rand // piece sequence only
	itemRng *rand.Rand
	board   *Board
	queue  *Queue
	scorer *Scorer

	phase   Phase
	reason  GameOverReason
	active  Piece
	hold    Piece
	canHold bool

	tick         uint64
	gravityCount int
	lockCount    int
	lockResets   int
	clearCount   int
	clearRows    []int
	clearTSpin   bool
	clearGarbage []GarbageLine
	lastRotated  bool

	itemLines      int
	pendingGarbage []GarbageLine
	events         []Event
}

// New creates an engine and spawns the first piece.
func New(cfg Config) *Engine {
	e := &Engine{cfg: cfg.normalized()}
	e.Reset()
	return e
}

// itemSeedSalt derives the item stream from the game seed, so item
// pieces never shift the tetromino sequence.
const itemSeedSalt = 0x5eed17e5

// Reset starts a new game with the same configuration and seed.
func (e *Engine) Reset() {
	cfg := e.cfg
	e.rng = rand.New(rand.NewSource(cfg.Seed))
	e.itemRng = rand.New(rand.NewSource(cfg.Seed ^ itemSeedSalt))
	var src Randomizer
	if cfg.useBag() {
		src = NewBagRandomizer(e.rng)
	} else {
		src = NewWeightedRandomizer(e.rng, cfg.Difficulty.IWeight())
	}
	e.board = NewBoard(cfg.Width, cfg.Height, cfg.Buffer)
	e.queue = NewQueue(src, cfg.QueueSize)
	e.scorer = NewScorer(cfg.Difficulty, cfg.LevelFactor, cfg.MaxLevel, cfg.StartLevel)

	e.reason = ReasonNone
	e.hold = Piece{}
	e.tick = 0
	e.clearRows = nil
	e.clearTSpin = false
	e.clearGarbage = nil
	e.itemLines = 0
	e.pendingGarbage = nil
	e.events = nil
	e.spawn()
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config { return e.cfg }

// Board exposes the playfield for inspection.
func (e *Engine) Board() *Board { return e.board }

// Phase returns the current loop state.
func (e *Engine) Phase() Phase { return e.phase }

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool { return e.phase == PhaseGameOver }

// Reason says why the game ended.
func (e *Engine) Reason() GameOverReason { return e.reason }

// Active returns the falling piece while there is one, including a
// landed weight during PhaseCrushing.
func (e *Engine) Active() (Piece, bool) {
	if e.phase != PhaseFalling && e.phase != PhaseLocking && e.phase != PhaseCrushing {
		return Piece{}, false
	}
	return e.active, true
}

// Held returns the kind in the hold slot, or KindNone.
func (e *Engine) Held() Kind { return e.hold.Kind }

// Score is the running score, drop bonuses included.
func (e *Engine) Score() int { return e.scorer.Score() }

// Lines is the number of lines cleared this game, item clears included.
func (e *Engine) Lines() int { return e.scorer.Lines() }

// Level is the current level; it drives gravity and line points.
func (e *Engine) Level() int { return e.scorer.Level() }

// Tick is the number of OnTick calls since the last reset.
func (e *Engine) Tick() uint64 { return e.tick }

// Elapsed is play time derived from the tick count.
func (e *Engine) Elapsed() time.Duration {
	return time.Duration(e.tick) * time.Second / time.Duration(e.cfg.TickRate)
}

// Remaining is the time left under a time limit, or zero without one.
func (e *Engine) Remaining() time.Duration {
	if e.cfg.TimeLimit <= 0 {
		return 0
	}
	return max(0, e.cfg.TimeLimit-e.Elapsed())
}

// DropInterval is the gravity interval at the current level.
func (e *Engine) DropInterval() time.Duration {
	return e.cfg.Speed.Interval(e.scorer.Level())
}

// GravityTicks is the number of ticks between gravity steps.
func (e *Engine) GravityTicks() int {
	return max(1, int(e.DropInterval()*time.Duration(e.cfg.TickRate)/time.Second))
}

// Events returns and clears the events recorded since the last call.
func (e *Engine) Events() []Event {
	out := e.events
	e.events = nil
	return out
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

// OnTick advances the game by one tick: gravity, lock delay, line clear
// delay and the time limit are all counted in ticks.
func (e *Engine) OnTick() {
	if e.phase == PhaseGameOver {
		return
	}
	e.tick++
	if e.cfg.TimeLimit > 0 && e.Elapsed() >= e.cfg.TimeLimit {
		e.endGame(ReasonTimeUp)
		return
	}

	switch e.phase {
	case PhaseSpawning:
		e.spawn()
	case PhaseFalling:
		e.gravityCount++
		if e.gravityCount < e.GravityTicks() {
			return
		}
		e.gravityCount = 0
		if next, ok := TryMove(e.board, e.active, 1, 0); ok {
			e.active = next
			e.lastRotated = false
			return
		}
		if e.cfg.LockDelayTicks <= 0 {
			e.lock()
			return
		}
		e.phase = PhaseLocking
		e.lockCount = 0
	case PhaseLocking:
		if e.canFall() {
			e.phase = PhaseFalling
			e.gravityCount = 0
			return
		}
		e.lockCount++
		if e.lockCount >= e.cfg.LockDelayTicks {
			e.lock()
		}
	case PhaseLineClear:
		e.clearCount++
		if e.clearCount >= e.cfg.LineClearTicks {
			e.finishClear()
		}
	case PhaseCrushing:
		e.spawn()
	}
}

// OnInput applies one player command and reports whether it changed the
// active piece. Commands outside the falling and locking phases are
// ignored.
func (e *Engine) OnInput(a Action) bool {
	if e.phase != PhaseFalling && e.phase != PhaseLocking {
		return false
	}
	switch a {
	case ActionMoveLeft:
		return e.shift(0, -1)
	case ActionMoveRight:
		return e.shift(0, 1)
	case ActionSoftDrop:
		if !e.shift(1, 0) {
			e.lock()
			return false
		}
		e.scorer.AddSoftDrop(1)
		e.gravityCount = 0
		return true
	case ActionHardDrop:
		d := DropDistance(e.board, e.active)
		if d > 0 {
			e.active = e.active.Moved(d, 0)
			e.lastRotated = false
		}
		e.scorer.AddHardDrop(d)
		e.lock()
		return true
	case ActionRotateCW:
		return e.rotate(Clockwise)
	case ActionRotateCCW:
		return e.rotate(CounterClockwise)
	case ActionHold:
		return e.swapHold()
	}
	return false
}

// TryMove shifts the active piece. It is OnInput for translations.
func (e *Engine) TryMove(dRow, dCol int) bool {
	if e.phase != PhaseFalling && e.phase != PhaseLocking {
		return false
	}
	return e.shift(dRow, dCol)
}

// TryRotate rotates the active piece with wall kicks.
func (e *Engine) TryRotate(dir Direction) bool {
	if e.phase != PhaseFalling && e.phase != PhaseLocking {
		return false
	}
	return e.rotate(dir)
}

func (e *Engine) shift(dRow, dCol int) bool {
	next, ok := TryMove(e.board, e.active, dRow, dCol)
	if !ok {
		return false
	}
	e.active = next
	e.lastRotated = false
	e.moved()
	return true
}

func (e *Engine) rotate(dir Direction) bool {
	if e.active.Kind.Special() {
		return false
	}
	next, _, ok := TryRotate(e.board, e.active, dir)
	if !ok {
		return false
	}
	e.active = next
	e.lastRotated = true
	e.moved()
	return true
}

// moved handles a successful move while grounded: the piece falls again
// if it can, otherwise the lock delay restarts a bounded number of times.
func (e *Engine) moved() {
	if e.phase != PhaseLocking {
		return
	}
	if e.canFall() {
		e.phase = PhaseFalling
		e.gravityCount = 0
		return
	}
	if e.lockResets < e.cfg.MaxLockResets {
		e.lockResets++
		e.lockCount = 0
	}
}

func (e *Engine) canFall() bool {
	return e.board.Fits(e.active.Moved(1, 0))
}

func (e *Engine) swapHold() bool {
	if !e.canHold || e.active.Kind.Special() {
		return false
	}
	current := e.active.Template()
	e.emit(Event{Type: EventHold, Kind: current.Kind})
	var ok bool
	if e.hold.Kind == KindNone {
		e.hold = current
		ok = e.place(e.queue.Pop())
	} else {
		held := e.hold
		e.hold = current
		ok = e.place(held)
	}
	e.canHold = false
	return ok
}

func (e *Engine) lock() {
	p := e.active
	switch p.Kind {
	case KindBomb:
		e.detonate(p)
		return
	case KindWeight:
		e.crush(p)
		return
	}
	tspin := e.lastRotated && IsTSpin(e.board, p)
	if err := e.board.Lock(p); err != nil {
		e.endGame(ReasonLockFailed)
		return
	}
	full := e.board.FullRows()
	if GarbageFor(len(full)) > 0 {
		e.clearGarbage = e.captureGarbage(p, full)
	}
	e.emit(Event{Type: EventLocked, Kind: p.Kind})
	if tspin {
		e.emit(Event{Type: EventTSpin, Kind: p.Kind, Lines: len(full)})
	}
	e.clearTSpin = tspin

	if !e.board.HasPendingClears() || e.cfg.LineClearTicks <= 0 {
		e.finishClear()
		return
	}
	e.clearRows = e.board.PendingRows()
	e.clearCount = 0
	e.phase = PhaseLineClear
}

func (e *Engine) finishClear() {
	res := e.board.ResolveClears()
	e.clearRows = nil
	if n := res.Total(); n > 0 {
		before := e.scorer.Level()
		points := e.scorer.AddLines(n, e.clearTSpin)
		e.emit(Event{Type: EventLinesCleared, Lines: n, Points: points, TSpin: e.clearTSpin, Garbage: e.clearGarbage})
		if lvl := e.scorer.Level(); lvl > before {
			e.emit(Event{Type: EventLevelUp, Level: lvl})
		}
		e.countItemLines(res.Full)
	}
	e.clearTSpin = false
	e.clearGarbage = nil
	if e.board.BufferOccupied() {
		e.endGame(ReasonTopOut)
		return
	}
	e.spawn()
}

// detonate empties the 6x6 area centred on a landed bomb. The bomb
// itself never reaches the board.
func (e *Engine) detonate(p Piece) {
	removed := e.board.ClearArea(p.Row-2, p.Col-2, p.Row+3, p.Col+3)
	e.emit(Event{Type: EventDetonated, Kind: p.Kind, Lines: removed})
	e.spawn()
}

// crush empties every cell below the weight in its columns, then lets
// the weight sink to the floor where it stays visible for one tick.
func (e *Engine) crush(p Piece) {
	bottom, left, right := 0, e.board.Width(), -1
	for _, c := range p.Cells() {
		bottom = max(bottom, c.Row)
		left = min(left, c.Col)
		right = max(right, c.Col)
	}
	removed := e.board.ClearArea(bottom+1, left, e.board.TotalRows()-1, right)
	e.active = p.Moved(DropDistance(e.board, p), 0)
	e.emit(Event{Type: EventCrushed, Kind: p.Kind, Lines: removed})
	e.phase = PhaseCrushing
}

// countItemLines queues an item piece every ItemEveryLines ordinary
// line clears. Lines removed by items do not count.
func (e *Engine) countItemLines(full int) {
	if !e.cfg.Items {
		return
	}
	e.itemLines += full
	if e.itemLines < e.cfg.ItemEveryLines {
		return
	}
	e.itemLines = 0
	p := randomItemPiece(e.itemRng)
	e.queue.Insert(1, p)
	e.emit(Event{Type: EventItemQueued, Kind: p.Kind})
}

func (e *Engine) spawn() {
	e.phase = PhaseSpawning
	if !e.applyGarbage() || e.board.BufferOccupied() {
		e.endGame(ReasonTopOut)
		return
	}
	e.canHold = true
	e.place(e.queue.Pop())
}

// place puts p at the spawn position. A collision there ends the game.
func (e *Engine) place(p Piece) bool {
	p = p.Template()
	p.Row = e.board.Buffer() - 1
	p.Col = (e.board.Width() - BoxSize(p.Kind)) / 2
	e.active = p
	e.gravityCount = 0
	e.lockCount = 0
	e.lockResets = 0
	e.lastRotated = false
	if !e.board.Fits(p) {
		e.endGame(ReasonBlockOut)
		return false
	}
	e.phase = PhaseFalling
	return true
}

func (e *Engine) endGame(reason GameOverReason) {
	e.phase = PhaseGameOver
	e.reason = reason
	e.emit(Event{Type: EventGameOver, Reason: reason})
}
