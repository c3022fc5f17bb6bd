package component

import "github.com/go-gl/mathgl/mgl64"

// Goal carries the fallback position registered at spawn time.
type Goal struct {
	WorldPos    mgl64.Vec3
	HasWorldPos bool
}

var GoalComponent = NewComponent[Goal]()
