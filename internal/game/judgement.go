package game

type Kind uint8

const (
	Hit Kind = iota
	HoldTick
	Miss
)

func (k Kind) String() string {
	switch k {
	case Hit:
		return "Hit"
	case HoldTick:
		return "Hold"
	case Miss:
		return "Miss"
	}
	return "Unknown"
}

const (
	TapPoints  = 100
	HoldPoints = 1
)

// Judgement is emitted by the judgment engine whenever a key is consumed or
// missed.
type Judgement struct {
	Lane   Lane
	Kind   Kind
	Tick   int64
	Points uint64
}

// Score accumulates judgements over a session.
type Score struct {
	Points    uint64
	Combo     uint64
	MaxCombo  uint64
	Hits      uint64
	HoldTicks uint64
	Misses    uint64
}

// Apply folds a judgement into the score.
func (s *Score) Apply(j Judgement) {
	s.Points += j.Points
	switch j.Kind {
	case Hit:
		s.Hits++
		s.Combo++
		if s.Combo > s.MaxCombo {
			s.MaxCombo = s.Combo
		}
	case HoldTick:
		s.HoldTicks++
	case Miss:
		s.Misses++
		s.Combo = 0
	}
}
