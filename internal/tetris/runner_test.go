package tetris

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunnerAppliesCommands(t *testing.T) {
	cfg := testConfig()
	cfg.TickRate = 200
	r := NewRunner(New(cfg), WithLogger(quietLogger()))
	updates := r.Subscribe(4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.True(t, r.Submit(ActionHardDrop))

	deadline := time.After(2 * time.Second)
	for scored := false; !scored; {
		select {
		case u := <-updates:
			scored = u.Snapshot.Score > 0
		case <-deadline:
			t.Fatal("no update with a score")
		}
	}

	cancel()
	err := <-done
	assert.True(t, errors.Is(err, context.Canceled))
	for range updates {
	}
}

func TestRunnerReportsEventsAndStopsOnGameOver(t *testing.T) {
	cfg := testConfig()
	cfg.TickRate = 1000
	cfg.TimeLimit = 20 * time.Millisecond

	var got []EventType
	r := NewRunner(New(cfg),
		WithLogger(quietLogger()),
		WithEventHandler(func(ev Event) { got = append(got, ev.Type) }))

	err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, got, EventGameOver)
}

func TestRunnerSubmitNeverBlocks(t *testing.T) {
	r := NewRunner(New(testConfig()), WithLogger(quietLogger()), WithQueueSize(1))

	assert.True(t, r.Submit(ActionMoveLeft))
	assert.False(t, r.Submit(ActionMoveLeft))
	assert.False(t, r.SendGarbage([]GarbageLine{{true, false}}))
}
