package theme

import "git.lost.host/meutraa/arrowner/internal/game"

type Theme interface {
	RenderNote(key *game.GameKey) string
	RenderHitField(lane game.Lane) string
	RenderGuide(major bool, width int) string
}
