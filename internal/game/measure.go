package game

type Measure struct {
	Denom int   // 1 on the first beat of a bar, 4 on the other beats
	Time  int64 // The tick the beat line crosses the window
}

// Measures lists one beat line per beat of bpm up to end, in ticks.
func Measures(bpm uint64, end uint64) []Measure {
	if bpm == 0 {
		return nil
	}
	measures := []Measure{}
	// 6000 ticks a minute, accumulated in float to avoid drift for
	// bpms that do not divide it.
	beat := 6000.0 / float64(bpm)
	for i := 0; ; i++ {
		t := int64(beat*float64(i) + 0.5)
		if t > int64(end) {
			break
		}
		denom := 4
		if i%4 == 0 {
			denom = 1
		}
		measures = append(measures, Measure{Denom: denom, Time: t})
	}
	return measures
}
