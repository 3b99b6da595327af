package game

// NoPartner marks a key without a hold partner.
const NoPartner = -1

// GameKey is the runtime instance of a note, or of one segment of a hold.
type GameKey struct {
	Lane    Lane
	Time    int64 // Nominal tick from song start
	Holding bool  // Part of a hold note, head included
	Head    bool  // The hittable part: a tap, or the first segment of a hold

	// In the edit arena, the slot index of the other end of a hold
	Partner int

	// This is state
	Y       float64 // Current vertical position in pixels
	Spawned bool    // Has entered the playfield
	Active  bool    // Still judgeable; cleared once hit or missed
	Muted   bool    // Scrolled through the window without being hit
	HitTime int64   // Tick at which the key was consumed
}

func newKey(lane Lane, time int64, holding, head bool) *GameKey {
	return &GameKey{
		Lane:    lane,
		Time:    time,
		Holding: holding,
		Head:    head,
		Partner: NoPartner,
		Active:  true,
	}
}

// Effective is the tick at which the key spawns given the
// calibration offset (base_time - sync).
func (k *GameKey) Effective(offset int64) int64 {
	return k.Time - offset
}

func (k *GameKey) Visible() bool {
	return k.Spawned
}

// Judgeable reports whether the key can still be hit.
func (k *GameKey) Judgeable() bool {
	return k.Spawned && k.Active && !k.Muted
}
