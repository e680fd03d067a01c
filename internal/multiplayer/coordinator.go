package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Lobby is a waiting room identified by a join code.
type Lobby struct {
	Code      string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds coordinator settings.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // how long a lobby waits for a joiner
	CleanupPeriod time.Duration // how often expired lobbies are swept
	Match         MatchConfig   // engine settings; the seed is chosen per match
}

// DefaultCoordinatorConfig returns defaults for a 60 Hz versus game.
func DefaultCoordinatorConfig() CoordinatorConfig {
	engine := tetris.DefaultConfig()
	engine.Randomizer = "bag"
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		Match:         MatchConfig{Engine: engine, Garbage: true},
	}
}

// MatchResultSaver persists finished matches. The storage package
// implements it.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is a finished match in storage-friendly form.
type MatchResultData struct {
	MatchID        string
	Mode           string
	Player1Session string
	Player2Session string
	Player1Name    string
	Player2Name    string
	Score1         int
	Score2         int
	Lines1         int
	Lines2         int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// Coordinator pairs sessions through lobbies and owns active matches.
// Messages are handled one at a time on its own goroutine.
type Coordinator struct {
	config      CoordinatorConfig
	sessions    *SessionRegistry
	resultSaver MatchResultSaver
	logger      *log.Logger

	mu           sync.RWMutex
	lobbies      map[string]*Lobby
	matches      map[MatchID]*OnlineMatch
	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
	saves    sync.WaitGroup
}

// NewCoordinator creates a coordinator. A nil logger uses the default.
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	return &Coordinator{
		config:       cfg,
		sessions:     sessions,
		logger:       logger,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets where finished matches are recorded.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start launches the message and cleanup loops.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts the coordinator down, stops running matches and waits for
// pending result saves.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.Unlock()
		c.saves.Wait()
	})
}

// Send queues a message for the coordinator.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, busy := c.sessionLobby[msg.SessionID]; busy {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	if _, busy := c.sessionMatch[msg.SessionID]; busy {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a match"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Debug("lobby created", "code", code, "host", session.Name())
	session.Send(LobbyCreatedEvent{Code: code})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.sessionLobby[msg.SessionID]; busy {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	switch {
	case !exists:
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	case lobby.Joiner != nil:
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	case lobby.Host.ID() == msg.SessionID:
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	lobby.Joiner = session
	c.sessionLobby[msg.SessionID] = code

	lobby.Host.Send(LobbyJoinedEvent{Code: code, Side: Player1, Opponent: session.Name()})
	session.Send(LobbyJoinedEvent{Code: code, Side: Player2, Opponent: lobby.Host.Name()})

	c.startMatch(lobby)
}

// startMatch must be called with c.mu held.
func (c *Coordinator) startMatch(lobby *Lobby) {
	now := time.Now()
	matchID := MatchID(fmt.Sprintf("match-%s-%d", lobby.Code, now.UnixNano()))

	cfg := c.config.Match
	cfg.Engine.Seed = now.UnixNano()
	match := NewOnlineMatch(matchID, lobby.Code, cfg, lobby.Host, lobby.Joiner, c.logger)

	hostID, joinerID := lobby.Host.ID(), lobby.Joiner.ID()
	c.matches[matchID] = match
	delete(c.sessionLobby, hostID)
	delete(c.sessionLobby, joinerID)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID
	delete(c.lobbies, lobby.Code)

	lobby.Host.Send(MatchStartedEvent{MatchID: matchID, Side: Player1, Code: lobby.Code, Opponent: lobby.Joiner.Name()})
	lobby.Joiner.Send(MatchStartedEvent{MatchID: matchID, Side: Player2, Code: lobby.Code, Opponent: lobby.Host.Name()})

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	p1, p2 := match.Session(Player1), match.Session(Player2)

	if c.resultSaver != nil {
		data := resultData(result, p1, p2, match.tickRate)
		select {
		case <-c.done:
			// Stopping: Stop may already be waiting on saves.
			c.saveResult(data)
		default:
			c.saves.Add(1)
			go func() {
				defer c.saves.Done()
				c.saveResult(data)
			}()
		}
	}

	delete(c.sessionMatch, p1.ID())
	delete(c.sessionMatch, p2.ID())
	delete(c.matches, matchID)

	end := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
		Lines1:  result.Lines1,
		Lines2:  result.Lines2,
	}
	p1.Send(end)
	p2.Send(end)
}

func (c *Coordinator) saveResult(data MatchResultData) {
	if err := c.resultSaver.SaveMatchResult(data); err != nil {
		c.logger.Warn("could not save match result", "match", data.MatchID, "error", err)
	}
}

func resultData(result MatchResult, p1, p2 SessionHandle, tickRate int) MatchResultData {
	winner := ""
	switch result.Winner {
	case Player1:
		winner = string(p1.ID())
	case Player2:
		winner = string(p2.ID())
	}
	return MatchResultData{
		MatchID:        string(result.MatchID),
		Mode:           ModeVersus,
		Player1Session: string(p1.ID()),
		Player2Session: string(p2.ID()),
		Player1Name:    p1.Name(),
		Player2Name:    p2.Name(),
		Score1:         result.Score1,
		Score2:         result.Score2,
		Lines1:         result.Lines1,
		Lines2:         result.Lines2,
		WinnerSession:  winner,
		EndReason:      result.Reason.String(),
		DurationSecs:   int(result.Ticks / uint64(max(tickRate, 1))), //nolint:gosec // tick rate is clamped positive
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	c.closeLobby(lobby)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists {
		return
	}
	c.leaveLobby(lobby, msg.SessionID)
}

// leaveLobby removes a session from a lobby. Must be called with c.mu held.
func (c *Coordinator) leaveLobby(lobby *Lobby, id SessionID) {
	switch {
	case lobby.Joiner != nil && lobby.Joiner.ID() == id:
		lobby.Joiner = nil
		delete(c.sessionLobby, id)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: lobby.Code})
	case lobby.Host.ID() == id:
		c.closeLobby(lobby)
	}
}

// closeLobby removes a lobby and tells the joiner. Must be called with
// c.mu held.
func (c *Coordinator) closeLobby(lobby *Lobby) {
	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}
	delete(c.sessionLobby, lobby.Host.ID())
	delete(c.lobbies, lobby.Code)
	c.logger.Debug("lobby closed", "code", lobby.Code)
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.SendInput(msg.Player, msg.Input)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			c.leaveLobby(lobby, msg.SessionID)
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	if c.config.LobbyTimeout <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

// generateUniqueCode must be called with c.mu held.
func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode returns a 6-character code from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns an active match.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
