package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/tmux-deck/internal/message"
	"github.com/atomicstack/tmux-deck/internal/tmux"
	uistate "github.com/atomicstack/tmux-deck/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// session builds a session whose windows 0..windows-1 each hold panes
// 0..panes-1; window 0 and pane 0 are active.
func session(name string, windows, panes int) tmux.Session {
	s := tmux.Session{Name: name}
	for w := 0; w < windows; w++ {
		win := tmux.Window{Session: name, Index: w, Name: "shell", Active: w == 0}
		for p := 0; p < panes; p++ {
			win.Panes = append(win.Panes, tmux.Pane{
				Session: name,
				Window:  w,
				Index:   p,
				Target:  tmux.PaneTarget(name, w, p),
				Width:   80,
				Height:  24,
				Active:  p == 0,
				Command: "zsh",
			})
		}
		s.Windows = append(s.Windows, win)
	}
	return s
}

func snapshot(names ...string) message.SessionsRefreshed {
	sessions := []tmux.Session{}
	for _, name := range names {
		sessions = append(sessions, session(name, 1, 1))
	}
	return message.SessionsRefreshed{Sessions: sessions}
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"space":     tea.KeySpace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+n":    tea.KeyCtrlN,
	"ctrl+r":    tea.KeyCtrlR,
	"ctrl+u":    tea.KeyCtrlU,
	"ctrl+x":    tea.KeyCtrlX,
}

func key(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func newHarness(t *testing.T, cfg Config, names ...string) *Harness {
	t.Helper()
	h := NewHarness(cfg)
	if len(names) > 0 {
		h.Respond(snapshot(names...))
		h.Commands()
	}
	return h
}

func expectCommands(t *testing.T, got []message.Command, want ...message.Command) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d commands %#v, got %#v", len(want), want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("command %d: expected %#v, got %#v", i, want[i], got[i])
		}
	}
}

func TestFirstSnapshotSelectsFirstSessionAndRequestsCapture(t *testing.T) {
	h := NewHarness(Config{})
	h.Respond(snapshot("a", "b"))
	if got := h.Coordinator().sel; got.Session != "a" {
		t.Fatalf("expected first session selected, got %#v", got)
	}
	expectCommands(t, h.Commands(), message.CapturePane{Target: "a:0.0"})
}

func TestConfiguredTargetSeedsSelection(t *testing.T) {
	h := NewHarness(Config{Target: "b:1.1"})
	h.Respond(message.SessionsRefreshed{Sessions: []tmux.Session{session("a", 1, 1), session("b", 2, 2)}})
	want := uistate.Selection{Session: "b", Window: 1, Pane: 1}
	if got := h.Coordinator().sel; got != want {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestMissingConfiguredTargetFallsBackToFirstSession(t *testing.T) {
	h := NewHarness(Config{Target: "ghost:3"})
	h.Respond(snapshot("a"))
	if got := h.Coordinator().sel.Session; got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
}

func TestSelectionSurvivesReplacementByIdentity(t *testing.T) {
	h := newHarness(t, Config{}, "a", "b", "c")
	h.Send(key("j"))
	if got := h.Coordinator().sel.Session; got != "b" {
		t.Fatalf("expected b after moving down, got %q", got)
	}
	h.Respond(snapshot("c", "b"))
	if got := h.Coordinator().sel.Session; got != "b" {
		t.Fatalf("expected b to stay selected after reorder, got %q", got)
	}
	h.Respond(snapshot("c"))
	if got := h.Coordinator().sel; !got.Empty() {
		t.Fatalf("expected no selection once b vanished, got %#v", got)
	}
	if _, ok := h.Coordinator().tree.Session("a"); ok {
		t.Fatalf("expected tree to be replaced wholesale")
	}
}

func TestSelectionFallsBackToNearestAncestor(t *testing.T) {
	h := NewHarness(Config{Target: "b:1.1"})
	h.Respond(message.SessionsRefreshed{Sessions: []tmux.Session{session("b", 2, 2)}})
	h.Respond(message.SessionsRefreshed{Sessions: []tmux.Session{session("b", 2, 1)}})
	if got := h.Coordinator().sel; got != (uistate.Selection{Session: "b", Window: 1, Pane: -1}) {
		t.Fatalf("expected window fallback, got %#v", got)
	}
	h.Respond(message.SessionsRefreshed{Sessions: []tmux.Session{session("b", 1, 1)}})
	if got := h.Coordinator().sel; got != (uistate.Selection{Session: "b", Window: -1, Pane: -1}) {
		t.Fatalf("expected session fallback, got %#v", got)
	}
}

func TestTickRefreshesOnlyInNormalMode(t *testing.T) {
	h := newHarness(t, Config{}, "main")
	h.Emit(message.Tick{At: time.Now()})
	expectCommands(t, h.Commands(), message.RefreshAll{})

	h.Send(key("ctrl+n"))
	h.Emit(message.Tick{At: time.Now()})
	h.Emit(message.RequestCapture{At: time.Now()})
	expectCommands(t, h.Commands())

	h.Send(key("esc"))
	h.Emit(message.Tick{At: time.Now()})
	expectCommands(t, h.Commands(), message.RefreshAll{})
}

func TestNewSessionPrompt(t *testing.T) {
	h := newHarness(t, Config{}, "main")
	h.Send(key("ctrl+n"))
	if h.Coordinator().mode != uistate.ModeNewSession {
		t.Fatalf("expected new-session mode, got %s", h.Coordinator().mode)
	}
	h.Type("main")
	h.Send(key("enter"))
	expectCommands(t, h.Commands())
	if !strings.Contains(h.View(), "Session already exists") {
		t.Fatalf("expected duplicate warning in view:\n%s", h.View())
	}
	h.Send(key("ctrl+u"))
	h.Type("work")
	h.Send(key("enter"))
	expectCommands(t, h.Commands(), message.NewSession{Name: "work"})
	if h.Coordinator().mode != uistate.ModeNormal {
		t.Fatalf("expected normal mode after submit, got %s", h.Coordinator().mode)
	}
}

func TestDuplicateNewSessionFromTmuxLeavesTree(t *testing.T) {
	h := newHarness(t, Config{}, "work")
	h.Respond(message.SessionCreated{Name: "work", Success: false, Err: "duplicate session: work"})
	if len(h.Coordinator().tree.Sessions()) != 1 {
		t.Fatalf("expected tree unchanged, got %#v", h.Coordinator().tree.Sessions())
	}
	if view := h.View(); !strings.Contains(view, "duplicate session: work") {
		t.Fatalf("expected error banner in view:\n%s", view)
	}
}

func TestCreatedSessionBecomesSelection(t *testing.T) {
	h := newHarness(t, Config{}, "main")
	h.Respond(message.SessionCreated{Name: "work", Success: true})
	h.Respond(snapshot("main", "work"))
	if got := h.Coordinator().sel.Session; got != "work" {
		t.Fatalf("expected new session selected, got %q", got)
	}
}

func TestRenamePromptPrefillsAndFollowsRename(t *testing.T) {
	h := newHarness(t, Config{}, "main")
	h.Send(key("ctrl+r"))
	if got := h.Coordinator().form.Value(); got != "main" {
		t.Fatalf("expected prefilled name, got %q", got)
	}
	h.Send(key("enter"))
	expectCommands(t, h.Commands())

	h.Send(key("ctrl+r"))
	h.Send(key("ctrl+u"))
	h.Type("dev")
	h.Send(key("enter"))
	expectCommands(t, h.Commands(), message.RenameSession{OldName: "main", NewName: "dev"})

	h.Respond(message.SessionRenamed{OldName: "main", NewName: "dev", Success: true})
	h.Respond(snapshot("dev"))
	if got := h.Coordinator().sel.Session; got != "dev" {
		t.Fatalf("expected selection to follow rename, got %q", got)
	}
}

func TestRenamedSessionRefetchesPreview(t *testing.T) {
	h := newHarness(t, Config{}, "alpha")
	h.Respond(message.PaneCaptured{Target: "alpha:0.0", Content: "prompt"})
	h.Respond(message.SessionRenamed{OldName: "alpha", NewName: "beta", Success: true})
	h.Respond(snapshot("beta"))
	expectCommands(t, h.Commands(), message.CapturePane{Target: "beta:0.0"})
	if _, ok := h.Coordinator().tree.Capture("alpha:0.0"); ok {
		t.Fatalf("expected the old target's capture to be pruned")
	}

	h.Respond(message.PaneCaptured{Target: "beta:0.0", Content: "prompt"})
	h.Respond(snapshot("beta"))
	expectCommands(t, h.Commands())
}

func TestKillConfirmDefaultsToNo(t *testing.T) {
	h := newHarness(t, Config{}, "main")
	h.Send(key("ctrl+x"))
	h.Send(key("enter"))
	expectCommands(t, h.Commands())

	h.Send(key("ctrl+x"))
	h.Send(key("tab"))
	h.Send(key("enter"))
	expectCommands(t, h.Commands(), message.KillSession{Name: "main"})

	h.Send(key("ctrl+x"))
	h.Send(key("y"))
	expectCommands(t, h.Commands(), message.KillSession{Name: "main"})

	h.Send(key("ctrl+x"))
	h.Send(key("n"))
	expectCommands(t, h.Commands())
	if h.Coordinator().mode != uistate.ModeNormal {
		t.Fatalf("expected normal mode, got %s", h.Coordinator().mode)
	}
}

func TestKillLastSessionRendersEmptyTree(t *testing.T) {
	h := newHarness(t, Config{}, "only")
	h.Respond(message.SessionKilled{Name: "only", Success: true})
	h.Respond(message.SessionsRefreshed{Sessions: []tmux.Session{}})
	if !h.Coordinator().tree.Empty() || !h.Coordinator().sel.Empty() {
		t.Fatalf("expected empty tree and no selection")
	}
	if view := h.View(); !strings.Contains(view, "no tmux sessions") {
		t.Fatalf("expected empty-tree message:\n%s", view)
	}
	h.Send(key("j"))
	h.Send(key("ctrl+x"))
	h.Send(key("y"))
	expectCommands(t, h.Commands())
}

func TestCaptureErrorLeavesCacheUntouched(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Respond(message.PaneCaptured{Target: "a:0.0", Content: "hello"})
	h.Respond(message.Error{Message: "capture a:0.0: can't find pane"})
	capture, ok := h.Coordinator().tree.Capture("a:0.0")
	if !ok || capture.Content != "hello" {
		t.Fatalf("expected cached capture to survive, got %#v", capture)
	}
	view := h.View()
	if !strings.Contains(view, "capture a:0.0") || !strings.Contains(view, "hello") {
		t.Fatalf("expected error banner and cached preview:\n%s", view)
	}
}

func TestAcknowledgedSendClearsErrorBanner(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Respond(message.Error{Message: "capture a:0.0: can't find pane"})
	if !h.Coordinator().banner.Visible() {
		t.Fatalf("expected error banner")
	}
	h.Respond(snapshot("a"))
	if !h.Coordinator().banner.Visible() {
		t.Fatalf("expected a periodic refresh to leave the error visible")
	}
	h.Respond(message.KeysSent{Target: "a:0.0"})
	if h.Coordinator().banner.Visible() {
		t.Fatalf("expected the error to clear after a successful send")
	}
	if strings.Contains(h.View(), "can't find pane") {
		t.Fatalf("expected cleared banner to leave the view:\n%s", h.View())
	}
}

func TestAcknowledgedSendKeepsInfoBanner(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Respond(message.PaneCopied{Target: "a:0.0", Bytes: 4})
	h.Respond(message.KeysSent{Target: "a:0.0"})
	if !strings.Contains(h.View(), "copied 4 bytes") {
		t.Fatalf("expected info banner to stay:\n%s", h.View())
	}
}

func TestUnchangedCaptureDoesNotRender(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Respond(message.PaneCaptured{Target: "a:0.0", Content: "same"})
	before := h.Frames()
	h.Respond(message.PaneCaptured{Target: "a:0.0", Content: "same"})
	if h.Frames() != before {
		t.Fatalf("expected no frame for identical capture")
	}
}

func TestDoubleSpaceTogglesView(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	t0 := time.Unix(1000, 0)
	h.SendAt(key("space"), t0)
	h.SendAt(key("space"), t0.Add(100*time.Millisecond))
	if h.Coordinator().view != uistate.ViewMultiPreview {
		t.Fatalf("expected multi-preview after double space")
	}
	h.SendAt(key("space"), t0.Add(time.Second))
	h.SendAt(key("space"), t0.Add(1500*time.Millisecond))
	if h.Coordinator().view != uistate.ViewMultiPreview {
		t.Fatalf("expected slow spaces not to toggle")
	}
	h.SendAt(key("space"), t0.Add(2*time.Second))
	h.SendAt(key("j"), t0.Add(2100*time.Millisecond))
	h.SendAt(key("space"), t0.Add(2200*time.Millisecond))
	if h.Coordinator().view != uistate.ViewMultiPreview {
		t.Fatalf("expected an intervening key to reset the double space")
	}
}

func TestRequestCaptureTargetsVisiblePanes(t *testing.T) {
	h := NewHarness(Config{})
	h.Respond(message.SessionsRefreshed{Sessions: []tmux.Session{session("a", 2, 2)}})
	h.Commands()
	h.Emit(message.RequestCapture{At: time.Now()})
	expectCommands(t, h.Commands(), message.CapturePane{Target: "a:0.0"})

	t0 := time.Now()
	h.SendAt(key("space"), t0)
	h.SendAt(key("space"), t0.Add(50*time.Millisecond))
	h.Commands()
	h.Emit(message.RequestCapture{At: time.Now()})
	expectCommands(t, h.Commands(),
		message.CapturePane{Target: "a:0.0"},
		message.CapturePane{Target: "a:1.0"},
	)
}

func TestTreeNavigationByFocus(t *testing.T) {
	h := NewHarness(Config{})
	h.Respond(message.SessionsRefreshed{Sessions: []tmux.Session{session("a", 2, 2), session("b", 1, 1)}})
	h.Send(key("l"))
	h.Send(key("j"))
	if got := h.Coordinator().sel; got != (uistate.Selection{Session: "a", Window: 1, Pane: -1}) {
		t.Fatalf("expected window 1, got %#v", got)
	}
	h.Send(key("tab"))
	h.Send(key("down"))
	if got := h.Coordinator().sel; got != (uistate.Selection{Session: "a", Window: 1, Pane: 1}) {
		t.Fatalf("expected pane 1, got %#v", got)
	}
	h.Send(key("h"))
	h.Send(key("shift+tab"))
	h.Send(key("j"))
	if got := h.Coordinator().sel; got.Session != "b" || got.Window != -1 {
		t.Fatalf("expected session b, got %#v", got)
	}
}

func TestMultiPreviewNavigation(t *testing.T) {
	h := NewHarness(Config{})
	h.Respond(message.SessionsRefreshed{Sessions: []tmux.Session{session("a", 3, 1), session("b", 1, 1)}})
	t0 := time.Now()
	h.SendAt(key("space"), t0)
	h.SendAt(key("space"), t0.Add(10*time.Millisecond))
	h.Send(key("j"))
	h.Send(key("j"))
	if got := h.Coordinator().sel; got.Window != 2 {
		t.Fatalf("expected window 2, got %#v", got)
	}
	h.Send(key("l"))
	if got := h.Coordinator().sel; got.Session != "b" {
		t.Fatalf("expected session b, got %#v", got)
	}
	if view := h.View(); !strings.Contains(view, "0:shell") {
		t.Fatalf("expected window box title in multi-preview:\n%s", view)
	}
}

func TestInputModeSendsKeys(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Send(key("i"))
	if h.Coordinator().mode != uistate.ModeInput {
		t.Fatalf("expected input mode, got %s", h.Coordinator().mode)
	}
	h.Type("lsq")
	if h.Quit() {
		t.Fatalf("expected q to be typed, not quit, in input mode")
	}
	h.Send(key("enter"))
	expectCommands(t, h.Commands(), message.SendKeys{Target: "a:0.0", Keys: "lsq", Submit: true})
	if h.Coordinator().mode != uistate.ModeNormal {
		t.Fatalf("expected normal mode after sending, got %s", h.Coordinator().mode)
	}
	h.Emit(message.Tick{At: time.Now()})
	expectCommands(t, h.Commands(), message.RefreshAll{})
	h.Respond(message.KeysSent{Target: "a:0.0"})
	expectCommands(t, h.Commands(), message.CapturePane{Target: "a:0.0"})
}

func TestInputModeEscLeavesWithoutSending(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Send(key("i"))
	h.Type("rm")
	h.Send(key("esc"))
	if h.Coordinator().mode != uistate.ModeNormal {
		t.Fatalf("expected normal mode after esc")
	}
	expectCommands(t, h.Commands())
}

func TestCtrlCQuitsFromAnyMode(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Send(key("ctrl+r"))
	h.Send(key("ctrl+c"))
	if !h.Quit() {
		t.Fatalf("expected ctrl+c to quit from the rename prompt")
	}
}

func TestEnterSwitchesAndQuitsOnAck(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Send(key("enter"))
	expectCommands(t, h.Commands(), message.SwitchClient{Target: "a"})
	if h.Coordinator().mode != uistate.ModeSwitching || h.Quit() {
		t.Fatalf("expected to wait for the switch")
	}
	h.Respond(message.Error{Message: "no current client"})
	if h.Coordinator().mode != uistate.ModeNormal {
		t.Fatalf("expected failed switch to return to normal mode")
	}
	h.Send(key("enter"))
	h.Respond(message.ClientSwitched{Target: "a"})
	if !h.Quit() {
		t.Fatalf("expected quit after ClientSwitched")
	}
}

func TestCopyPane(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Send(key("y"))
	expectCommands(t, h.Commands(), message.CopyPane{Target: "a:0.0"})
	h.Respond(message.PaneCopied{Target: "a:0.0", Bytes: 12})
	if view := h.View(); !strings.Contains(view, "copied 12 bytes from a:0.0") {
		t.Fatalf("expected copy banner:\n%s", view)
	}
}

func TestResizeBoundsFrame(t *testing.T) {
	h := newHarness(t, Config{}, "a", "b")
	before := h.Frames()
	h.Send(tea.WindowSizeMsg{Width: 120, Height: 12})
	if h.Frames() != before+1 {
		t.Fatalf("expected one frame for the resize")
	}
	lines := strings.Split(h.View(), "\n")
	if len(lines) > 12 {
		t.Fatalf("expected at most 12 lines, got %d", len(lines))
	}
	h.Send(tea.WindowSizeMsg{Width: 120, Height: 12})
	if h.Frames() != before+1 {
		t.Fatalf("expected identical resize not to render")
	}
}

func TestShutdownEventQuits(t *testing.T) {
	h := newHarness(t, Config{}, "a")
	h.Emit(message.Shutdown{Reason: "signal"})
	if !h.Quit() {
		t.Fatalf("expected Shutdown to end the loop")
	}
}

func newBareCoordinator() (*Coordinator, chan message.KeyEvent, chan message.Response) {
	keys := make(chan message.KeyEvent, 4)
	responses := make(chan message.Response, 4)
	evts := make(chan message.Event, 4)
	commands := make(chan message.Envelope, 4)
	return New(keys, responses, evts, commands, nil, Config{}), keys, responses
}

func TestBlockingWaitWokenByResponseDefersToReadyKey(t *testing.T) {
	c, keys, responses := newBareCoordinator()
	woken := &inbound{source: fromResponses, resp: snapshot("a")}
	keys <- message.KeyEvent{Msg: key("j")}
	responses <- snapshot("b")

	in := c.preferKey(woken)
	if in.source != fromKeys || in.key.Msg.(tea.KeyMsg).String() != "j" {
		t.Fatalf("expected the ready key first, got %#v", in)
	}

	ctx := context.Background()
	next, err := c.next(ctx)
	if err != nil || next == nil {
		t.Fatalf("expected deferred message, got %v %v", next, err)
	}
	if next != woken {
		t.Fatalf("expected the deferred response before newer ones, got %#v", next)
	}
	next, _ = c.next(ctx)
	if got := next.resp.(message.SessionsRefreshed).Sessions[0].Name; got != "b" {
		t.Fatalf("expected the queued response after the deferred one, got %q", got)
	}
}

func TestBlockingWaitReturnsResponseWhenNoKeyIsReady(t *testing.T) {
	c, _, responses := newBareCoordinator()
	done := make(chan *inbound, 1)
	go func() {
		in, _ := c.next(context.Background())
		done <- in
	}()
	time.Sleep(10 * time.Millisecond)
	responses <- snapshot("a")
	select {
	case in := <-done:
		if in == nil || in.source != fromResponses {
			t.Fatalf("expected response, got %#v", in)
		}
	case <-time.After(time.Second):
		t.Fatalf("blocking wait did not wake on a response")
	}
	if c.deferred != nil {
		t.Fatalf("expected nothing deferred without a pending key")
	}
}
