package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// sessionKey stores a connection's multiplayer session in its context.
type sessionKey struct{}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the frame rate of solo games.
	TickRate int

	// Game is the loaded game configuration.
	Game config.TetrisConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Game:        config.DefaultTetrisConfig(),
	}
}

// CoordinatorConfig derives the versus settings from the game config.
func (c SSHServerConfig) CoordinatorConfig() multiplayer.CoordinatorConfig {
	cc := multiplayer.DefaultCoordinatorConfig()
	if c.Game.Versus.LobbyTimeout > 0 {
		cc.LobbyTimeout = c.Game.Versus.LobbyTimeout
	}
	cc.Match = multiplayer.MatchConfig{
		Engine:  c.Game.EngineConfig(config.ModeVersus, 0),
		Garbage: c.Game.Versus.Garbage,
	}
	return cc
}

// SSHServer serves the game menu and online versus over SSH.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// NewSSHServer creates a new SSH server. A nil store disables score
// and match persistence.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tetris-ssh",
		})
	}

	sessions := multiplayer.NewSessionRegistry()
	coordinator := multiplayer.NewCoordinator(cfg.CoordinatorConfig(), sessions, logger.WithPrefix("versus"))
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// sessionMiddleware registers a multiplayer session for the lifetime of
// the connection and withdraws it from lobbies and matches on exit.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
		session := multiplayer.NewChannelSession(id, sshSession.User(), 0)
		s.sessions.Register(session)
		sshSession.Context().SetValue(sessionKey{}, session)

		next(sshSession)

		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		s.sessions.Unregister(id)
		session.Close()
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}
	session, ok := sshSession.Context().Value(sessionKey{}).(*multiplayer.ChannelSession)
	if !ok {
		s.logger.Error("connection has no session", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}
	opts := Options{Keys: s.config.Game.Keys, Player: sshSession.User(), Game: s.config.Game}
	model := NewSessionModel(s.store, cfg, opts, s.config.Game.Difficulty.Preset, s.coordinator, session)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until an interrupt.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errc:
		s.coordinator.Stop()
		return fmt.Errorf("ssh server: %w", err)
	}
}

// Shutdown gracefully stops the server and any running matches.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coordinator.Stop()
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is the screen a SessionModel is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
	screenOnline
	screenLocal
)

// SessionModel runs the full flow of one connection: menu, solo games,
// scoreboard, online and local versus.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	opts        Options
	difficulty  string
	coordinator *multiplayer.Coordinator
	session     *multiplayer.ChannelSession

	current sessionScreen
	menu    MenuModel
	game    Model
	scores  ScoreboardModel
	online  OnlineModel
	local   LocalModel

	quitting bool
}

// NewSessionModel creates a session model. With a nil coordinator the
// menu has no online entry.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	opts Options,
	difficulty string,
	coordinator *multiplayer.Coordinator,
	session *multiplayer.ChannelSession,
) SessionModel {
	online := coordinator != nil && session != nil
	return SessionModel{
		store:       store,
		config:      cfg,
		opts:        opts,
		difficulty:  difficulty,
		coordinator: coordinator,
		session:     session,
		menu:        NewMenuModel(store, cfg, difficulty, online),
	}
}

// Init starts the event loop of the multiplayer session.
func (m SessionModel) Init() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return WaitForSessionEvent(m.session)
}

// Update routes messages to the current screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case multiplayer.SessionEvent:
		next := WaitForSessionEvent(m.session)
		if m.current != screenOnline {
			return m, next
		}
		updated, _ := m.online.Update(msg)
		m.online = updated.(OnlineModel)
		return m, next
	}

	switch m.current {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenOnline:
		return m.updateOnline(msg)
	case screenLocal:
		return m.updateLocal(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.menu.Update(msg)
	m.menu = updated.(MenuModel)
	m.difficulty = string(m.menu.Difficulty())

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.current = screenScores
		return m, m.scores.Init()
	case m.menu.Selected() != nil:
		return m.startSelected(*m.menu.Selected())
	}
	return m, cmd
}

func (m SessionModel) startSelected(item MenuItem) (tea.Model, tea.Cmd) {
	switch item.Kind {
	case MenuItemOnline:
		keys := NewKeyMap(m.opts.Keys)
		m.online = NewOnlineModel(m.session, m.coordinator, keys, m.config.ScreenW, m.config.ScreenH)
		m.current = screenOnline
		return m, m.online.Init()
	case MenuItemLocal:
		game := m.opts.gameConfig()
		match := NewLocalMatch(game, m.menu.Difficulty(), m.config, nil)
		m.local = NewLocalModel(match, game.LocalKeys, m.config)
		m.current = screenLocal
		return m, m.local.Init()
	}

	game, err := registry.Create(item.ModeID)
	if err != nil {
		return m.backToMenu()
	}
	if d, ok := game.(interface{ SetDifficulty(config.DifficultyPreset) }); ok {
		d.SetDifficulty(m.menu.Difficulty())
	}
	m.game = NewModel(game, m.store, m.config, m.opts)
	m.current = screenGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.game.Update(msg)
	m.game = updated.(Model)

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.scores.Update(msg)
	m.scores = updated.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.online.Update(msg)
	m.online = updated.(OnlineModel)

	switch {
	case m.online.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.online.BackToMenu():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateLocal(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.local.Update(msg)
	m.local = updated.(LocalModel)

	switch {
	case m.local.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.local.BackToMenu():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.store, m.config, m.difficulty, m.coordinator != nil && m.session != nil)
	m.current = screenMenu
	return m, m.menu.Init()
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	case screenOnline:
		return m.online.View()
	case screenLocal:
		return m.local.View()
	default:
		return m.menu.View()
	}
}

// Screen reports which screen is showing.
func (m SessionModel) Screen() string {
	switch m.current {
	case screenGame:
		return "game"
	case screenScores:
		return "scores"
	case screenOnline:
		return "online"
	case screenLocal:
		return "local"
	default:
		return "menu"
	}
}
