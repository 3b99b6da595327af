package game

// CoordinationData is the calibration output consumed by the projection.
// BaseTime is the perceived note travel latency, EndTime the tick the
// calibration note left the window and Sync the per-song adjustment.
type CoordinationData struct {
	BaseTime int64 `json:"base_time"`
	EndTime  int64 `json:"end_time"`
	Sync     int64 `json:"sync"`
}

// Offset shifts every note: effective = time - (base_time - sync).
func (c CoordinationData) Offset() int64 {
	return c.BaseTime - c.Sync
}

// NudgeBase moves BaseTime by delta ticks, clamping at zero rather than
// going negative.
func (c *CoordinationData) NudgeBase(delta int64) {
	c.BaseTime += delta
	if c.BaseTime < 0 {
		c.BaseTime = 0
	}
}

func (c *CoordinationData) NudgeSync(delta int64) {
	c.Sync += delta
}
