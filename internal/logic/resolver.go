package logic

// Resolve computes the intensities both lamps should have at the given hour.
// An active override wins unconditionally and its levels are returned
// verbatim; otherwise the schedule slots for the hour are returned.
// Callers decide whether the result differs from what the hardware
// currently shows.
func Resolve(hour int, t Table, ov Override) Levels {
	if ov.Active {
		return Levels{A: ov.LevelA, B: ov.LevelB}
	}
	h := clampHour(hour)
	return Levels{A: t[h*2], B: t[h*2+1]}
}

// clampHour forces an hour into [0,23]. A correctly behaving clock never
// produces anything else, but a bad upstream sync must not index outside
// the table.
func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}
