package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendNormal
)

// RibbonMaterial describes how a ribbon is composited.
type RibbonMaterial struct {
	Lit            bool
	CastShadows    bool
	ReceiveShadows bool
	DepthTest      bool
	DepthWrite     bool
	Blend          BlendMode
}

// PathRibbon is the triangle strip drawn under a path. Two vertices per path
// point, left then right.
type PathRibbon struct {
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	Indices   []uint16
	Color     color.RGBA
	Material  RibbonMaterial
}

// Empty reports whether there is nothing to draw.
func (r *PathRibbon) Empty() bool {
	return r == nil || len(r.Indices) == 0
}

func (r *PathRibbon) Clear() {
	if r == nil {
		return
	}
	r.Positions = r.Positions[:0]
	r.Normals = r.Normals[:0]
	r.Indices = r.Indices[:0]
}

var PathRibbonComponent = NewComponent[PathRibbon]()
