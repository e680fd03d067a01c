package tetris

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Update is published by a Runner after every applied tick or command.
type Update struct {
	Snapshot Snapshot
	Events   []Event
}

type command struct {
	action  Action
	garbage []GarbageLine
}

// Runner owns an Engine on a single goroutine. Ticks from an internal
// ticker and commands from Submit and SendGarbage are applied one at a
// time, so the engine is never touched concurrently.
type Runner struct {
	engine   *Engine
	logger   *log.Logger
	commands chan command
	onEvent  func(Event)

	mu   sync.Mutex
	subs []chan Update
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. The default discards debug output.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithEventHandler registers fn to be called on the runner goroutine for
// every engine event, before the update is published.
func WithEventHandler(fn func(Event)) RunnerOption {
	return func(r *Runner) { r.onEvent = fn }
}

// WithQueueSize sets the command buffer length.
func WithQueueSize(n int) RunnerOption {
	return func(r *Runner) { r.commands = make(chan command, max(n, 1)) }
}

// NewRunner wraps e. The engine must not be used directly once Run starts.
func NewRunner(e *Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:   e,
		logger:   log.Default(),
		commands: make(chan command, 32),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit queues a player command. It never blocks; it returns false when
// the queue is full and the command was dropped.
func (r *Runner) Submit(a Action) bool {
	return r.enqueue(command{action: a})
}

// SendGarbage queues garbage lines from an opponent.
func (r *Runner) SendGarbage(lines []GarbageLine) bool {
	return r.enqueue(command{garbage: lines})
}

func (r *Runner) enqueue(c command) bool {
	select {
	case r.commands <- c:
		return true
	default:
		r.logger.Debug("runner queue full, dropping command", "action", c.action, "garbage", len(c.garbage))
		return false
	}
}

// Subscribe returns a channel receiving updates. A slow subscriber only
// loses intermediate updates; the newest one is always delivered. The
// channel is closed when Run returns.
func (r *Runner) Subscribe(buffer int) <-chan Update {
	ch := make(chan Update, max(buffer, 1))
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	r.mu.Unlock()
	return ch
}

// Run drives the engine until the game ends or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer r.closeSubscribers()

	rate := r.engine.Config().TickRate
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	r.logger.Debug("runner started", "tick_rate", rate, "seed", r.engine.Config().Seed)
	r.publish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.engine.OnTick()
		case c := <-r.commands:
			if len(c.garbage) > 0 {
				r.engine.QueueGarbage(c.garbage)
			} else {
				r.engine.OnInput(c.action)
			}
		}
		r.publish()

		if r.engine.GameOver() {
			r.logger.Info("game over",
				"reason", r.engine.Reason(),
				"score", r.engine.Score(),
				"lines", r.engine.Lines(),
				"level", r.engine.Level())
			return nil
		}
	}
}

func (r *Runner) publish() {
	u := Update{Snapshot: r.engine.Snapshot(), Events: r.engine.Events()}
	if r.onEvent != nil {
		for _, ev := range u.Events {
			r.onEvent(ev)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- u:
			continue
		default:
		}
		// Full: replace the stale update with the newest one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- u:
		default:
		}
	}
}

func (r *Runner) closeSubscribers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subs {
		close(ch)
	}
	r.subs = nil
}
