package term

import (
	"bytes"
	"strings"
	"testing"

	"snake-env/game"
)

func TestPlainFrameMatchesRender(t *testing.T) {
	g, err := game.NewSeededGame(game.ProfileCompact, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	r := New(&buf, false, false)
	if err := r.Draw(g.Grid(), "score 0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := g.Render() + "score 0\n"
	if buf.String() != want {
		t.Fatalf("expected\n%s\ngot\n%s", want, buf.String())
	}
}

func TestColouredFrame(t *testing.T) {
	g, err := game.NewSeededGame(game.ProfileCompact, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	r := New(&buf, true, true)
	if err := r.Draw(g.Grid(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, clearScreen) {
		t.Fatalf("expected the frame to start by clearing the screen")
	}
	if !strings.Contains(out, "\033[") || !strings.Contains(out, "@") {
		t.Fatalf("expected ANSI colour codes around the glyphs, got %q", out)
	}
}
