package parser

import "git.lost.host/meutraa/arrowner/internal/game"

type Parser interface {
	// Parse loads a song. It never returns nil: on failure the empty song is
	// returned along with the error for the caller to report.
	Parse(file string) (*game.Song, error)
}

// Info is the summary of a song file read without decoding the notes.
type Info struct {
	Name string
	ID   string // Decimal, may exceed 64 bits
	Sync int64
}
