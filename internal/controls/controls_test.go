package controls

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestForKey(t *testing.T) {
	cases := []struct {
		key  rune
		want Action
	}{
		{'s', ActionSpeak},
		{'S', ActionSpeak},
		{'t', ActionSave},
		{'a', ActionToggleAutoSpeak},
		{'p', ActionTogglePreprocessed},
		{'v', ActionListVoices},
		{'q', ActionQuit},
		{keyEscape, ActionQuit},
		{'x', ActionNone},
		{' ', ActionNone},
	}
	for _, tc := range cases {
		if got := ForKey(tc.key); got != tc.want {
			t.Fatalf("ForKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestBindingsCoverEveryAction(t *testing.T) {
	seen := map[Action]bool{}
	for _, b := range Bindings() {
		if ForKey(rune(b.Key[0])) != b.Action {
			t.Fatalf("binding %q does not round-trip", b.Key)
		}
		seen[b.Action] = true
	}
	for a := ActionSpeak; a <= ActionQuit; a++ {
		if !seen[a] {
			t.Fatalf("action %v has no key binding", a)
		}
		if a.String() == "none" {
			t.Fatalf("action %d has no name", a)
		}
	}
}

func TestListenDecodesKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []Action
	for a := range Listen(ctx, strings.NewReader("sx\nTaq"), false) {
		got = append(got, a)
	}
	want := []Action{ActionSpeak, ActionSave, ActionToggleAutoSpeak, ActionQuit}
	if len(got) != len(want) {
		t.Fatalf("Listen = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Listen[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestListenStopsOnCancel(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	actions := Listen(ctx, r, false)
	if _, err := w.Write([]byte("v")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if a := <-actions; a != ActionListVoices {
		t.Fatalf("first action = %v", a)
	}
	cancel()
	// Unblock the pending read so the goroutine observes cancellation.
	_ = w.Close()
	for range actions {
	}
}

func TestOpenTerminalNonInteractive(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	term, err := OpenTerminal(r)
	if err != nil {
		t.Fatalf("OpenTerminal: %v", err)
	}
	if term.Interactive() {
		t.Fatal("pipe should not be interactive")
	}
	if term.Actions(context.Background()) != nil {
		t.Fatal("expected nil action channel for non-interactive input")
	}
	if err := term.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
}
