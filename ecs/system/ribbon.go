package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
)

const (
	ribbonDepthBias = 0.001
	// two vertices per point must fit a uint16 index
	maxRibbonPoints = math.MaxUint16 / 2
)

var ribbonMaterial = component.RibbonMaterial{
	Lit:            false,
	CastShadows:    false,
	ReceiveShadows: false,
	DepthTest:      true,
	DepthWrite:     false,
	Blend:          component.BlendNormal,
}

// BuildRibbon rebuilds r as a quad strip of the given width following points
// on the plane. Fewer than two points clears it.
func BuildRibbon(r *component.PathRibbon, points []mgl64.Vec3, plane geom.PlaneSpec, width float64) {
	if r == nil {
		return
	}
	r.Clear()
	r.Material = ribbonMaterial
	n := len(points)
	if n > maxRibbonPoints {
		points = points[n-maxRibbonPoints:]
		n = maxRibbonPoints
	}
	if n < 2 {
		return
	}
	if width <= 0 {
		width = component.DefaultLineWidth
	}
	halfW := width * 0.5
	normal := plane.Normal()

	for i := 0; i < n; i++ {
		p := plane.Project(points[i])
		prev := plane.Project(points[max(0, i-1)])
		next := plane.Project(points[min(n-1, i+1)])

		var perp mgl64.Vec3
		if t := next.Sub(prev); t.LenSqr() > 1e-18 {
			if q := plane.Perpendicular(t.Normalize()); q.LenSqr() > 1e-18 {
				perp = q.Normalize()
			}
		}

		left := plane.Bias(p.Add(perp.Mul(halfW)), ribbonDepthBias)
		right := plane.Bias(p.Sub(perp.Mul(halfW)), ribbonDepthBias)
		r.Positions = append(r.Positions, left, right)
		r.Normals = append(r.Normals, normal, normal)
	}

	for i := 0; i < n-1; i++ {
		l0 := uint16(i * 2)
		r0 := l0 + 1
		l1 := uint16((i + 1) * 2)
		r1 := l1 + 1
		r.Indices = append(r.Indices, l0, r0, l1, r0, r1, l1)
	}
}
