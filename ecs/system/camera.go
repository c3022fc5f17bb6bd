package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
)

func cameraMatrices(w *ecs.World, camEntity ecs.Entity) (view, proj mgl64.Mat4, vw, vh int, ok bool) {
	cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	if !ok {
		return view, proj, 0, 0, false
	}
	t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return view, proj, 0, 0, false
	}
	vw, vh = int(cam.Width), int(cam.Height)
	if vw <= 0 || vh <= 0 || cam.Near <= 0 || cam.Far <= cam.Near {
		return view, proj, 0, 0, false
	}
	up := cam.Up
	if up.LenSqr() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	fov := cam.FovY
	if fov <= 0 {
		fov = 45
	}
	view = mgl64.LookAtV(t.Position, cam.Target, up)
	proj = mgl64.Perspective(mgl64.DegToRad(fov), float64(vw)/float64(vh), cam.Near, cam.Far)
	return view, proj, vw, vh, true
}

// ScreenRay returns the ray through screen pixel (x, y), starting on the
// near clip plane. Screen y grows downward.
func ScreenRay(w *ecs.World, camEntity ecs.Entity, x, y float64) (origin, dir mgl64.Vec3, ok bool) {
	view, proj, vw, vh, ok := cameraMatrices(w, camEntity)
	if !ok {
		return origin, dir, false
	}
	winY := float64(vh) - y
	near, err := mgl64.UnProject(mgl64.Vec3{x, winY, 0}, view, proj, 0, 0, vw, vh)
	if err != nil {
		return origin, dir, false
	}
	far, err := mgl64.UnProject(mgl64.Vec3{x, winY, 1}, view, proj, 0, 0, vw, vh)
	if err != nil {
		return origin, dir, false
	}
	d := far.Sub(near)
	if d.LenSqr() < 1e-18 {
		return origin, dir, false
	}
	return near, d.Normalize(), true
}

// ScreenToPlane intersects the screen ray with the plane. It misses when the
// ray is parallel to the plane or the plane is behind the camera.
func ScreenToPlane(w *ecs.World, camEntity ecs.Entity, x, y float64, plane geom.PlaneSpec) (mgl64.Vec3, bool) {
	origin, dir, ok := ScreenRay(w, camEntity, x, y)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return plane.IntersectRay(origin, dir)
}

// WorldToScreen projects p to screen pixels. ok is false for points behind
// the camera.
func WorldToScreen(w *ecs.World, camEntity ecs.Entity, p mgl64.Vec3) (float64, float64, bool) {
	view, proj, vw, vh, ok := cameraMatrices(w, camEntity)
	if !ok {
		return 0, 0, false
	}
	clip := proj.Mul4(view).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	win := mgl64.Project(p, view, proj, 0, 0, vw, vh)
	return win.X(), float64(vh) - win.Y(), true
}
