package component

import "github.com/go-gl/mathgl/mgl64"

// Knockback pushes an entity along Dir with a decaying speed while spinning
// it about Axis.
type Knockback struct {
	Dir           mgl64.Vec3
	Axis          mgl64.Vec3
	Speed         float64
	TimeLeft      float64
	SpinDegPerSec float64
}

var KnockbackComponent = NewComponent[Knockback]()
