package watch

import "time"

// Interval bounds for the adaptive debounce window.
const (
	MinInterval = 50 * time.Millisecond
	MaxInterval = 500 * time.Millisecond
)

// AdaptiveInterval derives the next debounce window from the recent change
// rate (batches observed per second). A busy tree gets a short window so
// changes land quickly; an idle tree backs off. The result is clamped to
// [MinInterval, MaxInterval].
func AdaptiveInterval(changeRate float64) time.Duration {
	if changeRate < 0 {
		changeRate = 0
	}
	d := time.Duration(float64(time.Second) / (1.0 + changeRate))
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}
