package game

// Input is one press of a lane key, in song ticks.
type Input struct {
	Lane        Lane
	HitTime     int64
	ReleaseTime int64
}
