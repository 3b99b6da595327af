package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
)

// SampleRate is what the speaker runs at; tracks are resampled to it.
const SampleRate = beep.SampleRate(44100)

var ErrSeek = errors.New("position is outside the track")

var (
	speakerOnce sync.Once
	speakerErr  error
	mixer       = &beep.Mixer{}
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(time.Second/60))
		if nil == speakerErr {
			speaker.Play(mixer)
		}
	})
	return speakerErr
}

// BeepPlayer plays an mp3 or ogg file through the speaker.
type BeepPlayer struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	halted   bool

	// Spectrum, when set, is fed everything the track plays.
	Spectrum *Spectrum
}

// Open decodes file. volume is in halvings of loudness, 0 being unchanged.
func Open(file string, volume float64) (*BeepPlayer, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, fmt.Errorf("unable to open audio %v: %w", file, err)
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	if strings.EqualFold(filepath.Ext(file), ".ogg") {
		streamer, format, err = vorbis.Decode(f)
	} else {
		streamer, format, err = mp3.Decode(f)
	}
	if nil != err {
		f.Close()
		return nil, fmt.Errorf("unable to decode audio %v: %w", file, err)
	}
	if err := initSpeaker(); nil != err {
		streamer.Close()
		return nil, fmt.Errorf("unable to initialise speaker: %w", err)
	}

	p := &BeepPlayer{
		streamer: streamer,
		format:   format,
	}
	var s beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, s)
	}
	p.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2, Volume: volume, Silent: volume <= -10}
	return p, nil
}

func (p *BeepPlayer) Play() error {
	var s beep.Streamer = p.volume
	if nil != p.Spectrum {
		s = p.Spectrum.Tap(s)
	}
	speaker.Lock()
	p.ctrl.Paused = false
	mixer.Add(s)
	speaker.Unlock()
	return nil
}

func (p *BeepPlayer) Pause() {
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

func (p *BeepPlayer) Resume() {
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
}

func (p *BeepPlayer) SetPosition(seconds float64) error {
	pos := p.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	speaker.Lock()
	defer speaker.Unlock()
	if pos < 0 || pos >= p.streamer.Len() {
		return fmt.Errorf("%w: %.2fs of %v", ErrSeek, seconds, p.format.SampleRate.D(p.streamer.Len()))
	}
	if err := p.streamer.Seek(pos); nil != err {
		return fmt.Errorf("unable to seek audio: %w", err)
	}
	return nil
}

func (p *BeepPlayer) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

func (p *BeepPlayer) Click() {
	speaker.Lock()
	mixer.Add(Click(SampleRate))
	speaker.Unlock()
}

// Halt stops the track for good and closes it.
func (p *BeepPlayer) Halt() {
	if p.halted {
		return
	}
	p.halted = true
	speaker.Lock()
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.streamer.Close()
}

// Metronome only clicks. It backs calibration sessions that have no track.
type Metronome struct {
	Silent
}

func OpenMetronome() (*Metronome, error) {
	if err := initSpeaker(); nil != err {
		return nil, fmt.Errorf("unable to initialise speaker: %w", err)
	}
	return &Metronome{}, nil
}

func (m *Metronome) Click() {
	m.Silent.Click()
	speaker.Lock()
	mixer.Add(Click(SampleRate))
	speaker.Unlock()
}
