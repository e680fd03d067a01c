package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/solo"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// OnlineState represents the current state of the online flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Host or Join
	OnlineStateHostWaiting                      // hosting, waiting for a joiner
	OnlineStateJoinEnterCode                    // typing a join code
	OnlineStateJoinWaiting                      // join sent, waiting for the match
	OnlineStateInMatch
	OnlineStateMatchEnded
)

const (
	joinCodeLength = 6
	nextPanelWidth = 12
	versusGap      = 4
)

// OnlineModel handles lobbies and plays a versus match.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	keys        KeyMap
	session     *multiplayer.ChannelSession
	coordinator *multiplayer.Coordinator
	codeInput   textinput.Model
	screen      *core.Screen

	lobbyCode string
	joinCode  string
	lobbyNote string // last lobby error or notice

	matchID  multiplayer.MatchID
	side     multiplayer.PlayerID
	opponent string
	view     multiplayer.VersusView
	hasView  bool
	ended    multiplayer.MatchEndedEvent
	left     bool // this player forfeited

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the online flow for a registered session.
func NewOnlineModel(
	session *multiplayer.ChannelSession,
	coordinator *multiplayer.Coordinator,
	keys KeyMap,
	width, height int,
) OnlineModel {
	ti := textinput.New()
	ti.Placeholder = "ABC123"
	ti.CharLimit = joinCodeLength
	ti.Width = joinCodeLength + 1
	ti.Prompt = "Code: "

	return OnlineModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		keys:        keys,
		session:     session,
		coordinator: coordinator,
		codeInput:   ti,
		screen:      core.NewScreen(width, height),
	}
}

// Init initializes the model. Events are delivered by the owner, which
// keeps a single WaitForSessionEvent loop for the whole connection.
func (m OnlineModel) Init() tea.Cmd {
	return nil
}

// WaitForSessionEvent returns a command that waits for the next event
// addressed to the session.
func WaitForSessionEvent(session *multiplayer.ChannelSession) tea.Cmd {
	events := session.Events()
	done := session.Done()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return evt
		case <-done:
			return nil
		}
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case multiplayer.SessionEvent:
		m.handleEvent(msg)
		return m, nil
	}

	if m.state == OnlineStateJoinEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *OnlineModel) handleEvent(evt multiplayer.SessionEvent) {
	switch evt := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = evt.Code
		m.lobbyNote = ""
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = evt.Side
		m.opponent = evt.Opponent
	case multiplayer.LobbyErrorEvent:
		m.lobbyNote = evt.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
		}
	case multiplayer.LobbyPlayerLeftEvent:
		m.opponent = ""
		m.lobbyNote = "Opponent left the lobby"
	case multiplayer.MatchStartedEvent:
		m.matchID = evt.MatchID
		m.side = evt.Side
		m.opponent = evt.Opponent
		m.hasView = false
		m.left = false
		m.state = OnlineStateInMatch
	case multiplayer.SnapshotEvent:
		if evt.MatchID == m.matchID {
			m.view = evt.View
			m.hasView = true
		}
	case multiplayer.MatchEndedEvent:
		if evt.MatchID != m.matchID && evt.MatchID != "" {
			return
		}
		if evt.Reason == multiplayer.MatchEndReasonHostLeft && m.state == OnlineStateJoinWaiting {
			m.lobbyNote = evt.Reason.Message()
			m.state = OnlineStateJoinEnterCode
			return
		}
		m.ended = evt
		m.state = OnlineStateMatchEnded
	}
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting, OnlineStateJoinWaiting:
		if MapKeyToMenuAction(msg) == MenuActionBack {
			m.leave()
			m.state = OnlineStateChooseMode
		}
		return m, nil
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	case OnlineStateMatchEnded:
		switch MapKeyToMenuAction(msg) {
		case MenuActionSelect, MenuActionBack:
			m.backToMenu = true
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m OnlineModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.lobbyNote = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{SessionID: m.session.ID()})
	case "j", "J", "2":
		m.lobbyNote = ""
		m.state = OnlineStateJoinEnterCode
		m.codeInput.Reset()
		return m, m.codeInput.Focus()
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.codeInput.Blur()
		m.state = OnlineStateChooseMode
		return m, nil
	case tea.KeyEnter:
		code := strings.ToUpper(strings.TrimSpace(m.codeInput.Value()))
		if len(code) != joinCodeLength {
			m.lobbyNote = fmt.Sprintf("Codes are %d characters", joinCodeLength)
			return m, nil
		}
		m.joinCode = code
		m.lobbyNote = ""
		m.state = OnlineStateJoinWaiting
		m.codeInput.Blur()
		m.coordinator.Send(multiplayer.JoinLobbyMsg{SessionID: m.session.ID(), Code: code})
		return m, nil
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	m.codeInput.SetValue(strings.ToUpper(m.codeInput.Value()))
	return m, cmd
}

// handleMatchKey forwards gameplay keys to the match as they arrive.
func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		m.leave()
		return m, nil
	case solo.EngineAction(action) != tetris.ActionNone:
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID: m.matchID,
			Player:  m.side,
			Input:   core.NewInputFrame(action),
		})
	}
	return m, nil
}

// leave withdraws from whatever lobby or match the session is in.
func (m *OnlineModel) leave() {
	id := m.session.ID()
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: id, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: id, Code: m.joinCode})
	case OnlineStateInMatch:
		m.left = true
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: id, MatchID: m.matchID})
	}
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateInMatch:
		return m.viewMatch()
	case OnlineStateMatchEnded:
		return m.viewEnded()
	}

	var lines []string
	switch m.state {
	case OnlineStateChooseMode:
		lines = []string{
			menuTitleStyle.Render("ONLINE VERSUS"), "",
			"[H] Host a match",
			"[J] Join a match", "",
			menuDimStyle.Render("Esc: Back  |  Q: Quit"),
		}
	case OnlineStateHostWaiting:
		lines = []string{
			menuTitleStyle.Render("HOSTING"), "",
			"Share this code with your opponent:", "",
			menuSelectedStyle.Render(fmt.Sprintf("[ %s ]", m.lobbyCode)), "",
			"Waiting for a player to join...", "",
			menuDimStyle.Render("Esc: Cancel"),
		}
	case OnlineStateJoinEnterCode:
		lines = []string{
			menuTitleStyle.Render("JOIN MATCH"), "",
			"Enter the match code:", "",
			m.codeInput.View(), "",
			menuDimStyle.Render("Enter: Connect  |  Esc: Back"),
		}
	case OnlineStateJoinWaiting:
		lines = []string{
			menuTitleStyle.Render("CONNECTING"), "",
			fmt.Sprintf("Joining %s ...", m.joinCode), "",
			menuDimStyle.Render("Esc: Cancel"),
		}
	}
	if m.lobbyNote != "" {
		lines = append(lines, "", promptStyle.Render(m.lobbyNote))
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// versusSize is the screen area needed for two boards side by side.
func versusSize(s tetris.Snapshot) (int, int) {
	side := solo.PlayfieldWidth(s.Width) + 1 + nextPanelWidth
	return 2*side + versusGap, s.Height + 4
}

// viewMatch draws both boards, the local player on the left.
func (m OnlineModel) viewMatch() string {
	if !m.hasView {
		return "\n" + centerText(fmt.Sprintf("Match against %s starting...", m.opponent), m.width)
	}

	me := m.view.Board(m.side)
	w, h := versusSize(me)
	if m.width < w || m.height < h {
		return "\n" + centerText("Window too small", m.width) + "\n" +
			centerText(fmt.Sprintf("Need %dx%d, have %dx%d", w, h, m.width, m.height), m.width)
	}

	dst := m.screen
	dst.Clear()
	ox := (m.width - w) / 2
	sideW := (w - versusGap) / 2

	other := multiplayer.Player2
	if m.side == multiplayer.Player2 {
		other = multiplayer.Player1
	}
	m.drawSide(dst, ox, m.side, "YOU")
	m.drawSide(dst, ox+sideW+versusGap, other, "")
	return RenderScreen(dst)
}

func (m OnlineModel) drawSide(dst *core.Screen, x int, p multiplayer.PlayerID, label string) {
	drawVersusSide(dst, x, m.view, p, label)
}

// drawVersusSide draws one player's column of a versus view: name, stats,
// board, queue and incoming garbage.
func drawVersusSide(dst *core.Screen, x int, view multiplayer.VersusView, p multiplayer.PlayerID, label string) {
	snap := view.Board(p)
	idx := 0
	if p == multiplayer.Player2 {
		idx = 1
	}
	name := view.Names[idx]
	if label != "" {
		name = fmt.Sprintf("%s (%s)", name, label)
	}

	dst.DrawTextColored(x, 0, name, core.ColorWhite)
	stats := fmt.Sprintf("Score %d  Lines %d  Sent %d", snap.Score, snap.Lines, view.Sent[idx])
	dst.DrawText(x, 1, stats)

	solo.DrawPlayfield(dst, x, 2, snap, snap.Tick)
	px := x + solo.PlayfieldWidth(snap.Width) + 1
	solo.DrawNext(dst, px, 2, snap.Next[:min(len(snap.Next), 3)])
	if snap.PendingGarbage > 0 {
		dst.DrawTextColored(px, 2+3*3+3, fmt.Sprintf("+%d garbage", snap.PendingGarbage), core.ColorRed)
	}
	if snap.GameOver {
		solo.DrawOverlay(dst, x, 2, solo.PlayfieldWidth(snap.Width), snap.Height+2, "TOPPED OUT")
	}
}

func (m OnlineModel) viewEnded() string {
	e := m.ended
	var title string
	reason := e.Reason.Message()
	switch {
	case m.left:
		title = "FORFEIT"
		reason = "You left the match"
	case e.Winner == 0:
		title = "NO CONTEST"
	case e.Winner == m.side:
		title = "YOU WIN"
	default:
		title = "YOU LOSE"
	}

	lines := []string{
		menuTitleStyle.Render(title), "",
		reason,
	}
	if e.MatchID != "" {
		lines = append(lines, "",
			fmt.Sprintf("P1  %d points  %d lines", e.Score1, e.Lines1),
			fmt.Sprintf("P2  %d points  %d lines", e.Score2, e.Lines2),
		)
	}
	lines = append(lines, "", menuDimStyle.Render("Enter/Esc: Menu  |  Q: Quit"))

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}
