package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelForwardsInputToPoll(t *testing.T) {
	term := New(WithIO(strings.NewReader(""), &bytes.Buffer{}), WithAltScreen(false))
	m := &model{t: term}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	m.Update(tea.MouseMsg{})

	msg, ok := term.Poll(10 * time.Millisecond)
	if !ok || msg.(tea.KeyMsg).String() != "j" {
		t.Fatalf("expected key j, got %#v", msg)
	}
	msg, ok = term.Poll(10 * time.Millisecond)
	if size, isSize := msg.(tea.WindowSizeMsg); !ok || !isSize || size.Width != 90 {
		t.Fatalf("expected resize, got %#v", msg)
	}
	if _, ok := term.Poll(5 * time.Millisecond); ok {
		t.Fatalf("expected other messages to be ignored")
	}
}

func TestModelShowsLatestFrame(t *testing.T) {
	term := New(WithIO(strings.NewReader(""), &bytes.Buffer{}), WithAltScreen(false))
	m := &model{t: term}
	m.Update(frameMsg("first"))
	m.Update(frameMsg("second"))
	if m.View() != "second" {
		t.Fatalf("expected latest frame, got %q", m.View())
	}
}

func TestOfferDropsWhenFull(t *testing.T) {
	term := New(WithIO(strings.NewReader(""), &bytes.Buffer{}), WithBuffer(1))
	term.offer(tea.KeyMsg{Type: tea.KeyEnter})
	term.offer(tea.KeyMsg{Type: tea.KeyEsc})
	if term.dropped.Load() != 1 {
		t.Fatalf("expected one dropped event, got %d", term.dropped.Load())
	}
	msg, _ := term.Poll(time.Millisecond)
	if msg.(tea.KeyMsg).Type != tea.KeyEnter {
		t.Fatalf("expected the buffered event to survive, got %#v", msg)
	}
}
