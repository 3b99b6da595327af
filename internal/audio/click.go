package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// Click is a 30ms decaying 1kHz tick.
func Click(sr beep.SampleRate) beep.Streamer {
	pos := 0
	tone := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			t := float64(pos) / float64(sr)
			v := 0.4 * math.Sin(2*math.Pi*1000*t) * math.Exp(-t*120)
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	})
	return beep.Take(sr.N(30*time.Millisecond), tone)
}
