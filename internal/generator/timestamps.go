package generator

import "time"

// Timestamps returns start, start+step, ... up to and including end.
// A reversed window or a non-positive step yields an empty sequence.
func Timestamps(start, end time.Time, step time.Duration) []time.Time {
	n := Count(start, end, step)
	out := make([]time.Time, 0, n)
	for t := start; !t.After(end); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}

// Count is len(Timestamps(start, end, step)) without building the slice. It
// stays exact for windows longer than time.Duration can hold.
func Count(start, end time.Time, step time.Duration) int {
	if step <= 0 || start.After(end) {
		return 0
	}
	if step%time.Second != 0 {
		return int(end.Sub(start)/step) + 1
	}
	secs := end.Unix() - start.Unix()
	if end.Nanosecond() < start.Nanosecond() {
		secs--
	}
	return int(secs/int64(step/time.Second)) + 1
}
