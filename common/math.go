package common

import (
	"fmt"
	"math"
)

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// FixedDelta is the simulation step used by headless runs.
	FixedDelta = 1.0 / 60.0
)

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// RoundSeconds rounds half up to whole seconds.
func RoundSeconds(elapsed float64) int {
	return int(math.Floor(elapsed + 0.5))
}

// FormatClock renders whole seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
