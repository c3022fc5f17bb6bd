package component

import "time"

// Hazard fails the round when a player overlaps it.
type Hazard struct {
	BounceDistance float64
	KnockSpeed     float64
	KnockDuration  float64
	SpinDegPerSec  float64
	SwitchDelay    time.Duration

	Triggered bool
}

func DefaultHazard() Hazard {
	return Hazard{
		BounceDistance: 1.0,
		KnockSpeed:     6.0,
		KnockDuration:  0.4,
		SpinDegPerSec:  1080,
		SwitchDelay:    100 * time.Millisecond,
	}
}

var HazardComponent = NewComponent[Hazard]()
