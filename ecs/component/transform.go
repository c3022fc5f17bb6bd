package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/geom"
)

type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

func NewTransform(position mgl64.Vec3) Transform {
	return Transform{Position: position, Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}
}

// WorldMatrix composes position, rotation and scale. A zero scale is read as 1.
func (t *Transform) WorldMatrix() mgl64.Mat4 {
	return geom.WorldMatrix(t.Position, t.Rotation, t.WorldScale())
}

func (t *Transform) WorldScale() mgl64.Vec3 {
	s := t.Scale
	for i := range s {
		if s[i] == 0 {
			s[i] = 1
		}
	}
	return s
}

var TransformComponent = NewComponent[Transform]()
