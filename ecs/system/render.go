package system

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/autogodraw/common"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var (
	whiteSubImage *ebiten.Image
	hudFace       = text.NewGoXFace(basicfont.Face7x13)
)

// whiteTexture samples the middle pixel of a white 3x3 image so triangles
// never bleed at the edges.
func whiteTexture() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// RenderSystem draws the level as seen from the first camera: goals and
// hazards, ribbons, then players and the HUD on top.
type RenderSystem struct {
	camEntity ecs.Entity
	plane     geom.PlaneSpec
	ShowBand  bool
}

func NewRenderSystem(plane geom.PlaneSpec) *RenderSystem {
	return &RenderSystem{plane: plane, ShowBand: true}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	if !r.camEntity.Valid() || !w.IsAlive(r.camEntity) {
		if camEntity, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}
	screen.Fill(colornames.Whitesmoke)

	for _, e := range w.Query(component.GoalTagComponent.Kind(), component.TransformComponent.Kind()) {
		r.drawActor(w, screen, e, colornames.Lightgray, false)
	}
	for _, e := range w.Query(component.HazardComponent.Kind(), component.TransformComponent.Kind()) {
		r.drawActor(w, screen, e, colornames.Darkslategray, false)
	}
	ecs.ForEach(w, component.PathRibbonComponent.Kind(), func(_ ecs.Entity, rb *component.PathRibbon) {
		r.drawRibbon(w, screen, rb)
	})
	for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind()) {
		r.drawActor(w, screen, e, colornames.Dimgray, true)
	}

	r.drawHUD(w, screen)
}

func (r *RenderSystem) drawRibbon(w *ecs.World, screen *ebiten.Image, rb *component.PathRibbon) {
	if rb.Empty() {
		return
	}
	cr, cg, cb, ca := premultiplied(rb.Color)
	vertices := make([]ebiten.Vertex, len(rb.Positions))
	for i, p := range rb.Positions {
		x, y, ok := WorldToScreen(w, r.camEntity, p)
		if !ok {
			return
		}
		vertices[i] = ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
	}
	screen.DrawTriangles(vertices, rb.Indices, whiteTexture(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (r *RenderSystem) drawActor(w *ecs.World, screen *ebiten.Image, e ecs.Entity, fallback color.RGBA, heading bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	clr := fallback
	if a, ok := ecs.Get(w, e, component.AppearanceComponent.Kind()); ok && a.Color.A > 0 {
		clr = a.Color
	}
	cx, cy, ok := WorldToScreen(w, r.camEntity, t.Position)
	if !ok {
		return
	}

	c, hasCollider := ecs.Get(w, e, component.ColliderComponent.Kind())
	if hasCollider && c.Shape == geom.ShapeBox {
		r.drawBox(w, screen, t, c, clr)
	} else {
		radius := component.DefaultGoalRadius
		if hasCollider && c.Radius > 0 {
			sa, _ := r.plane.Axes(t.WorldScale())
			radius = c.Radius * sa
		}
		px := r.pixelRadius(w, t.Position, radius)
		vector.FillCircle(screen, float32(cx), float32(cy), float32(px), clr, true)
	}

	if heading {
		fwd := t.Rotation.Rotate(r.forward())
		tip := t.Position.Add(fwd.Mul(0.5))
		if tx, ty, ok := WorldToScreen(w, r.camEntity, tip); ok {
			vector.StrokeLine(screen, float32(cx), float32(cy), float32(tx), float32(ty), 2, colornames.Black, true)
		}
	}
}

// forward is the local axis facing() turns toward the travel direction.
func (r *RenderSystem) forward() mgl64.Vec3 {
	if r.plane.Plane == geom.PlaneXY {
		return mgl64.Vec3{1, 0, 0}
	}
	return mgl64.Vec3{0, 0, 1}
}

func (r *RenderSystem) drawBox(w *ecs.World, screen *ebiten.Image, t *component.Transform, c *component.Collider, clr color.RGBA) {
	m := t.WorldMatrix()
	h := c.HalfExtents
	var corners [4]mgl64.Vec3
	if r.plane.Plane == geom.PlaneXY {
		corners = [4]mgl64.Vec3{{-h.X(), -h.Y(), 0}, {h.X(), -h.Y(), 0}, {h.X(), h.Y(), 0}, {-h.X(), h.Y(), 0}}
	} else {
		corners = [4]mgl64.Vec3{{-h.X(), 0, -h.Z()}, {h.X(), 0, -h.Z()}, {h.X(), 0, h.Z()}, {-h.X(), 0, h.Z()}}
	}
	cr, cg, cb, ca := premultiplied(clr)
	vertices := make([]ebiten.Vertex, 0, 4)
	for _, corner := range corners {
		p := mgl64.TransformCoordinate(corner, m)
		x, y, ok := WorldToScreen(w, r.camEntity, p)
		if !ok {
			return
		}
		vertices = append(vertices, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2, 0, 2, 3}, whiteTexture(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// pixelRadius converts a world radius at p into screen pixels.
func (r *RenderSystem) pixelRadius(w *ecs.World, p mgl64.Vec3, radius float64) float64 {
	x0, y0, ok0 := WorldToScreen(w, r.camEntity, p)
	// X lies in both gameplay planes.
	x1, y1, ok1 := WorldToScreen(w, r.camEntity, p.Add(mgl64.Vec3{radius, 0, 0}))
	if !ok0 || !ok1 {
		return 4
	}
	return max(2, math.Hypot(x1-x0, y1-y0))
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image) {
	if r.ShowBand {
		if pd, ok := firstDrawer(w); ok && pd.BlockTopPixels > 0 {
			vector.FillRect(screen, 0, 0, float32(screen.Bounds().Dx()), float32(pd.BlockTopPixels), color.RGBA{R: 40, G: 40, B: 48, A: 200}, false)
		}
	}
	ecs.ForEach(w, component.LevelTimerComponent.Kind(), func(_ ecs.Entity, lt *component.LevelTimer) {
		op := &text.DrawOptions{}
		op.GeoM.Scale(2, 2)
		op.GeoM.Translate(common.BaseWidth/2-40, 24)
		op.ColorScale.ScaleWithColor(colornames.White)
		text.Draw(screen, ClockText(lt), hudFace, op)
	})
}

func firstDrawer(w *ecs.World) (*component.PathDrawer, bool) {
	e, ok := ecs.First(w, component.PathDrawerComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.PathDrawerComponent.Kind())
}

func premultiplied(c color.RGBA) (float32, float32, float32, float32) {
	return float32(c.R) / 0xff, float32(c.G) / 0xff, float32(c.B) / 0xff, float32(c.A) / 0xff
}
