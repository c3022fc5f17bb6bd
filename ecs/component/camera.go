package component

import "github.com/go-gl/mathgl/mgl64"

// Camera is a perspective camera placed at the entity's Transform position.
type Camera struct {
	Target mgl64.Vec3
	Up     mgl64.Vec3
	FovY   float64 // degrees
	Near   float64
	Far    float64
	Width  float64
	Height float64
}

var CameraComponent = NewComponent[Camera]()
