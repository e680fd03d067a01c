package multiplayer

import "sync"

// SessionHandle is how the coordinator and matches talk to a connected
// player without knowing about SSH or Bubble Tea.
type SessionHandle interface {
	ID() SessionID

	// Name is the display name shown to the opponent.
	Name() string

	// Send delivers an event. It must not block.
	Send(evt SessionEvent)

	// Done is closed when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel. The TUI
// reads Events from its Bubble Tea loop.
type ChannelSession struct {
	id     SessionID
	name   string
	events chan SessionEvent

	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session. When the buffer fills up the
// oldest event is dropped.
func NewChannelSession(id SessionID, name string, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = 64
	}
	if name == "" {
		name = string(id)
	}
	return &ChannelSession{
		id:     id,
		name:   name,
		events: make(chan SessionEvent, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Name returns the display name.
func (s *ChannelSession) Name() string {
	return s.name
}

// Send queues evt, evicting the oldest queued event if needed. Events
// sent after Close are discarded.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	for range 2 {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Events is the receive side for the UI.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session, replacing any with the same ID.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get looks up a session.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of connected sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
