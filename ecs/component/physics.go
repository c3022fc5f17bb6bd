package component

import "github.com/jakecoffman/cp"

// PhysicsBody is the pick/overlap proxy of an entity in the Chipmunk2D space.
// Body and Shape are created by the physics system.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
