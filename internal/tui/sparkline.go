package tui

import "time"

// sparklineChars maps levels 0..7 to Unicode block elements.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// LatencyWindow keeps the most recent call durations in a fixed-capacity
// ring.
type LatencyWindow struct {
	data  []time.Duration
	head  int
	count int
}

// NewLatencyWindow creates a window holding up to capacity samples.
func NewLatencyWindow(capacity int) *LatencyWindow {
	if capacity <= 0 {
		capacity = 1
	}
	return &LatencyWindow{data: make([]time.Duration, capacity)}
}

// Push adds a sample, overwriting the oldest when full.
func (w *LatencyWindow) Push(d time.Duration) {
	w.data[w.head] = d
	w.head = (w.head + 1) % len(w.data)
	if w.count < len(w.data) {
		w.count++
	}
}

// Len returns the number of samples held.
func (w *LatencyWindow) Len() int { return w.count }

// Last returns the most recent sample, or 0 when empty.
func (w *LatencyWindow) Last() time.Duration {
	if w.count == 0 {
		return 0
	}
	return w.data[(w.head-1+len(w.data))%len(w.data)]
}

// Slice returns the samples oldest first.
func (w *LatencyWindow) Slice() []time.Duration {
	out := make([]time.Duration, w.count)
	start := (w.head - w.count + len(w.data)) % len(w.data)
	for i := range w.count {
		out[i] = w.data[(start+i)%len(w.data)]
	}
	return out
}

// Max returns the largest sample, or 0 when empty.
func (w *LatencyWindow) Max() time.Duration {
	var m time.Duration
	for _, d := range w.Slice() {
		m = max(m, d)
	}
	return m
}

// Reset clears all samples.
func (w *LatencyWindow) Reset() {
	w.head = 0
	w.count = 0
}

// RenderSparkline scales samples against the largest one and renders them as
// block characters, at most width runes wide (most recent on the right).
func RenderSparkline(samples []time.Duration, width int) string {
	if len(samples) == 0 || width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}
	var peak time.Duration
	for _, s := range samples {
		peak = max(peak, s)
	}

	runes := make([]rune, len(samples))
	for i, s := range samples {
		idx := 0
		if peak > 0 {
			idx = int(float64(s) / float64(peak) * 7)
		}
		runes[i] = sparklineChars[min(max(idx, 0), 7)]
	}
	return string(runes)
}
