package state

// Mode is the coordinator's input mode. Only Normal lets periodic refresh
// and capture requests through.
type Mode int

const (
	ModeNormal Mode = iota
	ModeNewSession
	ModeRenameSession
	ModeConfirmKill
	ModeInput
	ModeSwitching
)

func (m Mode) String() string {
	switch m {
	case ModeNewSession:
		return "new-session"
	case ModeRenameSession:
		return "rename-session"
	case ModeConfirmKill:
		return "confirm-kill"
	case ModeInput:
		return "input"
	case ModeSwitching:
		return "switching"
	default:
		return "normal"
	}
}

// PausesRefresh reports whether periodic refreshes are held back.
func (m Mode) PausesRefresh() bool {
	switch m {
	case ModeNewSession, ModeRenameSession, ModeConfirmKill, ModeInput:
		return true
	}
	return false
}

// Focus is the tree-view column the cursor keys act on.
type Focus int

const (
	FocusSessions Focus = iota
	FocusWindows
	FocusPanes
)

func (f Focus) Next() Focus {
	if f >= FocusPanes {
		return FocusPanes
	}
	return f + 1
}

func (f Focus) Prev() Focus {
	if f <= FocusSessions {
		return FocusSessions
	}
	return f - 1
}

func (f Focus) String() string {
	switch f {
	case FocusWindows:
		return "windows"
	case FocusPanes:
		return "panes"
	default:
		return "sessions"
	}
}

type View int

const (
	ViewTree View = iota
	ViewMultiPreview
)

func (v View) Toggle() View {
	if v == ViewTree {
		return ViewMultiPreview
	}
	return ViewTree
}

func (v View) String() string {
	if v == ViewMultiPreview {
		return "multi-preview"
	}
	return "tree"
}
