package audio

import "time"

// Player is the playback of one song's audio.
type Player interface {
	Play() error
	Pause()
	Resume()
	// SetPosition seeks to seconds from the start of the track.
	SetPosition(seconds float64) error
	Position() time.Duration
	// Click sounds a short metronome tick over the track.
	Click()
	Halt()
}

// Lead is how many ticks of silence precede the audio at session start.
const Lead = 300

// Silent plays nothing. It stands in when a song has no audio.
type Silent struct {
	Playing   bool
	Paused    bool
	Positions []float64
	Clicks    int
	// Fail makes SetPosition return this error
	Fail error
}

func (s *Silent) Play() error {
	s.Playing = true
	return nil
}

func (s *Silent) Pause() {
	s.Paused = true
}

func (s *Silent) Resume() {
	s.Paused = false
}

func (s *Silent) SetPosition(seconds float64) error {
	if nil != s.Fail {
		return s.Fail
	}
	s.Positions = append(s.Positions, seconds)
	return nil
}

func (s *Silent) Position() time.Duration {
	return 0
}

func (s *Silent) Click() {
	s.Clicks++
}

func (s *Silent) Halt() {
	s.Playing = false
}
