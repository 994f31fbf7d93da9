package state

import (
	"testing"
	"time"

	"github.com/atomicstack/tmux-deck/internal/tmux"
)

func session(name string, panes ...int) tmux.Session {
	w := tmux.Window{Session: name, Index: 0, Name: "sh", Active: true}
	for _, idx := range panes {
		w.Panes = append(w.Panes, tmux.Pane{
			Session: name,
			Index:   idx,
			Target:  tmux.PaneTarget(name, 0, idx),
			Active:  idx == 0,
		})
	}
	return tmux.Session{Name: name, Windows: []tmux.Window{w}}
}

func TestReplaceIsWholesale(t *testing.T) {
	tree := NewTree()
	tree.Replace([]tmux.Session{session("a", 0), session("b", 0)})
	tree.Replace([]tmux.Session{session("c", 0)})
	if _, ok := tree.Session("a"); ok {
		t.Fatalf("expected stale session to be gone after replace")
	}
	if len(tree.Sessions()) != 1 || tree.Generation() != 2 {
		t.Fatalf("unexpected tree %#v generation=%d", tree.Sessions(), tree.Generation())
	}
}

func TestReplaceDoesNotAliasCallerSlice(t *testing.T) {
	tree := NewTree()
	input := []tmux.Session{session("a", 0)}
	tree.Replace(input)
	input[0].Name = "mutated"
	if _, ok := tree.Session("a"); !ok {
		t.Fatalf("expected tree to keep its own copy")
	}
}

func TestCapturesCarriedForwardAndPruned(t *testing.T) {
	tree := NewTree()
	tree.Replace([]tmux.Session{session("a", 0, 1), session("b", 0)})
	now := time.Now()
	tree.SetCapture("a:0.0", "one", now)
	tree.SetCapture("a:0.1", "two", now)
	tree.SetCapture("b:0.0", "three", now)

	kept := tree.Replace([]tmux.Session{session("a", 0)})
	if kept != 1 {
		t.Fatalf("expected one carried capture, got %d", kept)
	}
	if c, ok := tree.Capture("a:0.0"); !ok || c.Content != "one" {
		t.Fatalf("expected a:0.0 capture to survive, got %#v", c)
	}
	if _, ok := tree.Capture("b:0.0"); ok {
		t.Fatalf("expected capture for removed session to be pruned")
	}
}

func TestSetCaptureSkipsUnknownAndUnchanged(t *testing.T) {
	tree := NewTree()
	tree.Replace([]tmux.Session{session("a", 0)})
	t0 := time.Unix(100, 0)
	if tree.SetCapture("ghost:0.0", "x", t0) {
		t.Fatalf("expected unknown target to be ignored")
	}
	if !tree.SetCapture("a:0.0", "x", t0) {
		t.Fatalf("expected first capture to count as a change")
	}
	t1 := t0.Add(time.Second)
	if tree.SetCapture("a:0.0", "x", t1) {
		t.Fatalf("expected identical content to be unchanged")
	}
	if c, _ := tree.Capture("a:0.0"); !c.At.Equal(t1) {
		t.Fatalf("expected timestamp refresh, got %v", c.At)
	}
	if !tree.SetCapture("a:0.0", "y", t1) {
		t.Fatalf("expected new content to count as a change")
	}
}

func TestLookups(t *testing.T) {
	tree := NewTree()
	tree.Replace([]tmux.Session{session("a", 0, 3), session("b", 0)})
	if tree.SessionIndex("b") != 1 || tree.SessionIndex("z") != -1 {
		t.Fatalf("unexpected session index")
	}
	if _, ok := tree.Window("a", 0); !ok {
		t.Fatalf("expected window a:0")
	}
	if tree.WindowPosition("a", 5) != -1 {
		t.Fatalf("expected missing window position -1")
	}
	if p, ok := tree.Pane("a", 0, 3); !ok || p.Target != "a:0.3" {
		t.Fatalf("unexpected pane %#v", p)
	}
	if _, ok := tree.PaneByTarget("b:0.1"); ok {
		t.Fatalf("expected missing pane")
	}
}
