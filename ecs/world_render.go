package ecs

import "github.com/hajimehoshi/ebiten/v2"

// Renderer draws a world each frame.
type Renderer interface {
	Draw(w *World, screen *ebiten.Image)
}

// AddRenderer appends r to the draw order.
func (w *World) AddRenderer(r Renderer) {
	if w == nil || r == nil {
		return
	}
	w.renderers = append(w.renderers, r)
}

// Draw calls every renderer in the order they were added.
func (w *World) Draw(screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, r := range w.renderers {
		r.Draw(w, screen)
	}
}
