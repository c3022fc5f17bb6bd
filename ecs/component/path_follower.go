package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/geom"
)

// PathFollower moves its entity along a path at constant speed.
type PathFollower struct {
	Speed               float64
	FaceForward         bool
	HeadingOffsetDeg    float64
	AlignToGoalRotation bool
	Plane               geom.PlaneSpec
	Goal                uint64

	Path         []mgl64.Vec3
	SegmentIndex int
	SegmentT     float64
	Following    bool
	HasStarted   bool
	// Disabled followers are skipped entirely, e.g. after a hazard hit.
	Disabled bool
}

const DefaultFollowerSpeed = 3.0

func DefaultPathFollower() PathFollower {
	return PathFollower{
		Speed:               DefaultFollowerSpeed,
		FaceForward:         true,
		AlignToGoalRotation: true,
	}
}

var PathFollowerComponent = NewComponent[PathFollower]()
