package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/faiface/beep"
	"github.com/maddyblue/go-dsp/fft"
)

const (
	Bands      = 20
	windowSize = 1024
)

// Spectrum computes band magnitudes of whatever streams through its tap.
// The speaker goroutine writes, the frame loop reads the latest value.
type Spectrum struct {
	mu     sync.Mutex
	latest [Bands]float64

	// Only touched by the speaker goroutine
	window []float64
}

func NewSpectrum() *Spectrum {
	return &Spectrum{window: make([]float64, 0, windowSize)}
}

// Tap passes s through unchanged while analysing it.
func (sp *Spectrum) Tap(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		sp.Feed(samples[:n])
		return n, ok
	})
}

// Feed takes stereo samples and updates the bands each full window.
func (sp *Spectrum) Feed(samples [][2]float64) {
	for _, s := range samples {
		sp.window = append(sp.window, (s[0]+s[1])/2)
		if len(sp.window) == windowSize {
			bands := analyse(sp.window)
			sp.mu.Lock()
			sp.latest = bands
			sp.mu.Unlock()
			sp.window = sp.window[:0]
		}
	}
}

// Snapshot copies the latest band magnitudes.
func (sp *Spectrum) Snapshot() [Bands]float64 {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.latest
}

// analyse groups the lower half of the spectrum into bands of doubling
// width, normalised by bin count.
func analyse(window []float64) [Bands]float64 {
	var bands [Bands]float64
	bins := fft.FFTReal(window)
	half := len(bins) / 2
	// Band b covers bins [edge(b), edge(b+1))
	edge := func(b int) int {
		return int(math.Pow(float64(half), float64(b)/Bands))
	}
	for b := 0; b < Bands; b++ {
		lo, hi := edge(b), edge(b+1)
		if hi <= lo {
			hi = lo + 1
		}
		if hi > half {
			hi = half
		}
		sum := 0.0
		for i := lo; i < hi; i++ {
			sum += cmplx.Abs(bins[i])
		}
		if hi > lo {
			bands[b] = sum / float64(hi-lo)
		}
	}
	return bands
}
