package component

import "github.com/go-gl/mathgl/mgl64"

// SpawnPose is where an entity was placed when its pair was spawned.
type SpawnPose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

var SpawnPoseComponent = NewComponent[SpawnPose]()
