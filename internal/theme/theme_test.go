package theme

import (
	"strings"
	"testing"

	"git.lost.host/meutraa/arrowner/internal/game"
)

func TestRenderNote(t *testing.T) {
	th := &DefaultTheme{}
	tests := map[*game.GameKey]string{
		{Lane: game.Left, Head: true, Active: true}:                 "\033[38;2;236;30;0m◀\033[0m",
		{Lane: game.Right, Head: true, Active: true}:                "\033[38;2;236;195;0m▶\033[0m",
		{Lane: game.Up, Holding: true, Active: true}:                "\033[38;2;0;118;236m┃\033[0m",
		{Lane: game.Down, Head: true, Muted: true}:                  "\033[38;2;106;106;106m▼\033[0m",
		{Lane: game.Down, Head: true, Holding: true, Active: false}: "\033[38;2;255;255;255m▼\033[0m",
	}
	for key, expected := range tests {
		if got := th.RenderNote(key); got != expected {
			t.Logf("%v lane: expected %q, got %q", key.Lane, expected, got)
			t.Fail()
		}
	}
}

func TestRenderGuide(t *testing.T) {
	th := &DefaultTheme{}
	major := th.RenderGuide(true, 4)
	if !strings.Contains(major, "────") {
		t.Errorf("major guide line should be solid, got %q", major)
	}
	minor := th.RenderGuide(false, 2)
	if !strings.Contains(minor, "┄┄") {
		t.Errorf("minor guide line should be dashed, got %q", minor)
	}
	guide := th.RenderNote(&game.GameKey{Lane: game.Guide, Head: true})
	if guide != th.RenderGuide(true, 1) {
		t.Errorf("guide keys render as a line, got %q", guide)
	}
}

func TestRenderHitField(t *testing.T) {
	th := &DefaultTheme{}
	for _, l := range game.Lanes {
		got := th.RenderHitField(l)
		if l.Playable() && got != "-" || !l.Playable() && got != " " {
			t.Errorf("unexpected hit field %q for %v", got, l)
		}
	}
}
