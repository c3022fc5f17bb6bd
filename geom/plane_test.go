package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestProjectHoldsAxis(t *testing.T) {
	xz := PlaneSpec{Plane: PlaneXZ, GroundY: 0.5}
	xy := PlaneSpec{Plane: PlaneXY, PlaneZ: -2}

	require.Equal(t, mgl64.Vec3{1, 0.5, 3}, xz.Project(mgl64.Vec3{1, 9, 3}))
	require.Equal(t, mgl64.Vec3{1, 9, -2}, xy.Project(mgl64.Vec3{1, 9, 3}))
}

func TestPlanarDistanceIgnoresHeldAxis(t *testing.T) {
	xz := PlaneSpec{Plane: PlaneXZ}
	require.InDelta(t, 5.0, xz.PlanarDistance(mgl64.Vec3{0, 100, 0}, mgl64.Vec3{3, -4, 4}), 1e-9)

	xy := PlaneSpec{Plane: PlaneXY}
	require.InDelta(t, 5.0, xy.PlanarDistance(mgl64.Vec3{0, 0, 7}, mgl64.Vec3{3, 4, -7}), 1e-9)
}

func TestPerpendicularIsOrthogonal(t *testing.T) {
	for _, plane := range []Plane{PlaneXZ, PlaneXY} {
		spec := PlaneSpec{Plane: plane}
		tangent := spec.Project(mgl64.Vec3{0.6, 0.8, 0.8})
		perp := spec.Perpendicular(tangent)
		require.InDelta(t, 0, perp.Dot(tangent), 1e-9, plane.String())
		require.InDelta(t, 0, perp.Dot(spec.Normal()), 1e-9, plane.String())
	}
}

func TestIntersectRay(t *testing.T) {
	tests := []struct {
		name   string
		spec   PlaneSpec
		origin mgl64.Vec3
		dir    mgl64.Vec3
		want   mgl64.Vec3
		ok     bool
	}{
		{
			name:   "straight down onto ground",
			spec:   PlaneSpec{Plane: PlaneXZ, GroundY: 1},
			origin: mgl64.Vec3{2, 10, 3},
			dir:    mgl64.Vec3{0, -1, 0},
			want:   mgl64.Vec3{2, 1, 3},
			ok:     true,
		},
		{
			name:   "parallel to ground",
			spec:   PlaneSpec{Plane: PlaneXZ},
			origin: mgl64.Vec3{0, 1, 0},
			dir:    mgl64.Vec3{1, 0, 0},
		},
		{
			name:   "pointing away",
			spec:   PlaneSpec{Plane: PlaneXZ},
			origin: mgl64.Vec3{0, 1, 0},
			dir:    mgl64.Vec3{0, 1, 0},
		},
		{
			name:   "forward into depth plane",
			spec:   PlaneSpec{Plane: PlaneXY, PlaneZ: 0},
			origin: mgl64.Vec3{1, 2, 10},
			dir:    mgl64.Vec3{0, 0, -1},
			want:   mgl64.Vec3{1, 2, 0},
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.spec.IntersectRay(tt.origin, tt.dir)
			require.Equal(t, tt.ok, ok)
			if ok {
				for i := range tt.want {
					require.InDelta(t, tt.want[i], got[i], 1e-9, "got %v", got)
				}
			}
		})
	}
}

func TestPlaneText(t *testing.T) {
	var p Plane
	require.NoError(t, p.UnmarshalText([]byte("xy")))
	require.Equal(t, PlaneXY, p)
	require.Error(t, p.UnmarshalText([]byte("YZ")))

	text, err := PlaneXZ.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "XZ", string(text))
}

func TestBiasAndLift(t *testing.T) {
	xz := PlaneSpec{Plane: PlaneXZ}
	require.InDelta(t, -0.001, xz.Bias(mgl64.Vec3{}, 0.001).Y(), 1e-12)
	require.InDelta(t, 0.8, xz.Lift(mgl64.Vec3{}, 0.8).Y(), 1e-12)

	xy := PlaneSpec{Plane: PlaneXY}
	require.InDelta(t, 0.8, xy.Lift(mgl64.Vec3{}, 0.8).Z(), 1e-12)
	require.False(t, math.IsNaN(xy.Bias(mgl64.Vec3{}, 0.001).Z()))
}
