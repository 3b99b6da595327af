package calibration

import (
	"time"

	"git.lost.host/meutraa/arrowner/internal/game"
	"git.lost.host/meutraa/arrowner/internal/input"
)

// Procedure is a calibration session driven by the frame loop.
type Procedure interface {
	// Update runs one frame and reports whether a metronome click is due.
	Update(now int64, dt time.Duration, speed float64) bool
	Control(c input.Control)
	Done() bool
	Coordination() game.CoordinationData
}

type State uint8

const (
	NotStarted State = iota
	Running
	CapturedBase
	MeasuringEnd
	CapturedEnd
	AutoExit
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case CapturedBase:
		return "CapturedBase"
	case MeasuringEnd:
		return "MeasuringEnd"
	case CapturedEnd:
		return "CapturedEnd"
	case AutoExit:
		return "AutoExit"
	}
	return "Unknown"
}

const (
	// ExitDelay is how long the automatic session lingers after the
	// calibration note has left the window.
	ExitDelay = 50

	BaseStep = 10
	SyncStep = 5

	// The manual metronome stream
	StreamNotes  = 100
	StreamStart  = 300
	StreamPeriod = 400
)
