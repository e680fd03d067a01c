package core

// Action is a semantic intent produced by the platform from a key press.
// Games never see raw keys, only actions.
type Action int

const (
	ActionNone      Action = iota
	ActionLeft             // shift the falling piece one column left
	ActionRight            // shift the falling piece one column right
	ActionSoftDrop         // move down one row, scores a point
	ActionHardDrop         // drop to the ghost position and lock
	ActionRotateCW         // clockwise rotation with wall kicks
	ActionRotateCCW        // counter-clockwise rotation with wall kicks
	ActionHold             // swap with the hold slot, once per spawn
	ActionUp               // menu navigation
	ActionDown             // menu navigation
	ActionConfirm          // Enter
	ActionBack             // Esc / B, back to the menu
	ActionRestart          // R, new game after game over
	ActionQuit             // Q / Ctrl+C
	ActionPause            // P, pause toggle
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionSoftDrop:  "SoftDrop",
	ActionHardDrop:  "HardDrop",
	ActionRotateCW:  "RotateCW",
	ActionRotateCCW: "RotateCCW",
	ActionHold:      "Hold",
	ActionUp:        "Up",
	ActionDown:      "Down",
	ActionConfirm:   "Confirm",
	ActionBack:      "Back",
	ActionRestart:   "Restart",
	ActionQuit:      "Quit",
	ActionPause:     "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame holds the actions one player triggered during one tick.
// Order matters for a falling-block game (rotate then drop is not drop
// then rotate), so actions are kept as an ordered list.
type InputFrame struct {
	actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame(actions ...Action) InputFrame {
	f := InputFrame{}
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set appends an action to the frame. ActionNone is ignored.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.actions = append(f.actions, a)
}

// Has reports whether the action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, x := range f.actions {
		if x == a {
			return true
		}
	}
	return false
}

// Actions returns the actions in arrival order.
func (f InputFrame) Actions() []Action {
	return f.actions
}

// Empty reports whether nothing was pressed.
func (f InputFrame) Empty() bool {
	return len(f.actions) == 0
}

// Clear resets the frame for reuse.
func (f *InputFrame) Clear() {
	f.actions = f.actions[:0]
}

// Clone returns an independent copy of the frame.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{actions: append([]Action(nil), f.actions...)}
}

// MultiInputFrame holds one tick of input for both players sharing a
// keyboard. Each player's actions keep their arrival order.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{ByPlayer: make(map[PlayerID]InputFrame)}
}

// Player returns the frame of one player, empty if they pressed nothing.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	return m.ByPlayer[id]
}

// SetPlayer replaces the frame of one player.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// Add appends an action to one player's frame.
func (m *MultiInputFrame) Add(id PlayerID, a Action) {
	frame := m.Player(id)
	frame.Set(a)
	m.SetPlayer(id, frame)
}

// Player1 returns the frame of the first player.
func (m MultiInputFrame) Player1() InputFrame { return m.Player(Player1) }

// Player2 returns the frame of the second player.
func (m MultiInputFrame) Player2() InputFrame { return m.Player(Player2) }

// Empty reports whether neither player pressed anything.
func (m MultiInputFrame) Empty() bool {
	for _, f := range m.ByPlayer {
		if !f.Empty() {
			return false
		}
	}
	return true
}

// Clear resets all player inputs for the next tick.
func (m *MultiInputFrame) Clear() {
	for id, frame := range m.ByPlayer {
		frame.Clear()
		m.ByPlayer[id] = frame
	}
}

// Clone returns a deep copy.
func (m MultiInputFrame) Clone() MultiInputFrame {
	clone := NewMultiInputFrame()
	for id, frame := range m.ByPlayer {
		clone.ByPlayer[id] = frame.Clone()
	}
	return clone
}
