package game

import "time"

// TicksPerSecond is the number of 10ms ticks in a second.
const TicksPerSecond = 100

// Tick is the fixed unit all note, offset and score maths is done in.
const Tick = 10 * time.Millisecond

// Float tolerance for band edge comparisons, in pixels.
const edgeEpsilon = 1e-6

// Field is the playfield geometry. Y grows downwards; keys spawn at SpawnY
// and travel towards the bottom edge at Height. The judgment window is the
// band [EntryY, ExitY).
type Field struct {
	Height float64
	SpawnY float64
	EntryY float64
	ExitY  float64
}

// DefaultField places the window entryFromBottom and exitFromBottom pixels
// above the bottom edge, with keys spawning just above the top.
func DefaultField(height, entryFromBottom, exitFromBottom float64) Field {
	return Field{
		Height: height,
		SpawnY: -100,
		EntryY: height - entryFromBottom,
		ExitY:  height - exitFromBottom,
	}
}

// Ticks converts a duration to whole ticks, truncating.
func Ticks(d time.Duration) int64 {
	return d.Milliseconds() / 10
}

// Place puts a freshly spawned key where it would be had it spawned exactly on
// its effective tick.
func (f Field) Place(k *GameKey, speed float64, ticksSinceSpawn int64) {
	k.Y = f.SpawnY + speed*float64(ticksSinceSpawn)/TicksPerSecond
}

// Advance moves a key by one frame. A zero speed, as while paused, freezes it.
func (f Field) Advance(k *GameKey, speed float64, dt time.Duration) {
	k.Y += speed * dt.Seconds()
}

func (f Field) InWindow(y float64) bool {
	return y >= f.EntryY-edgeEpsilon && y < f.ExitY-edgeEpsilon
}

// Passed reports whether y is at or beyond the far edge of the window.
func (f Field) Passed(y float64) bool {
	return y >= f.ExitY-edgeEpsilon
}

// Gone reports whether y has left the playfield.
func (f Field) Gone(y float64) bool {
	return y > f.Height
}

// WindowTicks is how long a key takes to cross the window at speed.
func (f Field) WindowTicks(speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	return (f.ExitY - f.EntryY) / speed * TicksPerSecond
}

// TravelTicks is how long a key takes from spawning to reaching the window.
func (f Field) TravelTicks(speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	return (f.EntryY - f.SpawnY) / speed * TicksPerSecond
}
