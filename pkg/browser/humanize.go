package browser

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacing bounds used when a session humanizes its input.
const (
	MinKeystrokeDelay = 50 * time.Millisecond
	MaxKeystrokeDelay = 150 * time.Millisecond
	MinActionPause    = 300 * time.Millisecond
	MaxActionPause    = 900 * time.Millisecond
	MouseSteps        = 12
)

// Point is a viewport coordinate.
type Point struct {
	X, Y float64
}

// Jitter returns a random duration in [lo, hi].
func Jitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}

	return lo + rand.N(hi-lo+1) //nolint: gosec
}

// KeystrokeDelays returns one delay per rune of text.
func KeystrokeDelays(text string) []time.Duration {
	delays := make([]time.Duration, 0, len(text))
	for range text {
		delays = append(delays, Jitter(MinKeystrokeDelay, MaxKeystrokeDelay))
	}

	return delays
}

// MousePath returns steps points on a slightly bowed line from -> to, ending exactly at to.
func MousePath(from, to Point, steps int) []Point {
	if steps < 1 {
		steps = 1
	}

	bow := (rand.Float64() - 0.5) * 40 //nolint: gosec
	path := make([]Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		// bow peaks halfway and vanishes at both ends
		offset := bow * 4 * t * (1 - t)
		path = append(path, Point{
			X: from.X + (to.X-from.X)*t + offset,
			Y: from.Y + (to.Y-from.Y)*t - offset,
		})
	}

	return path
}

// Pause sleeps for d or until ctx is done.
func Pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
