package component

import "github.com/milk9111/autogodraw/geom"

// Collider is the shape used for goal tests, picking and hazard overlap.
type Collider = geom.Collider

var ColliderComponent = NewComponent[Collider]()
