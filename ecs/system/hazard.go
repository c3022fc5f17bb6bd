package system

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/common"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
)

const (
	knockEase    = 6.0
	overlapEpsSq = 1e-6
)

// Overlapper lists entities whose shapes touch e.
type Overlapper interface {
	Overlapping(w *ecs.World, e ecs.Entity) []ecs.Entity
}

// HazardSystem knocks back players that touch a hazard and fails the round
// shortly after. Each hazard fires once until game:reset.
type HazardSystem struct {
	w       *ecs.World
	shapes  Overlapper
	pending []ecs.TimerID
	reset   ecs.Subscription
	log     *slog.Logger
}

func NewHazardSystem(w *ecs.World, shapes Overlapper) *HazardSystem {
	s := &HazardSystem{w: w, shapes: shapes, log: slog.Default().With("system", "hazard")}
	s.reset = w.Events().Subscribe(ecs.TopicGameReset, s.onReset)
	return s
}

func (s *HazardSystem) Close() {
	s.w.Events().Unsubscribe(s.reset)
	s.cancelPending()
}

func (s *HazardSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if s.shapes != nil {
		ecs.ForEach(w, component.HazardComponent.Kind(), func(e ecs.Entity, h *component.Hazard) {
			if h.Triggered {
				return
			}
			for _, other := range s.shapes.Overlapping(w, e) {
				if ecs.Has(w, other, component.PlayerTagComponent.Kind()) {
					s.hit(w, e, h, other)
					return
				}
			}
		})
	}
	s.integrate(w)
}

func (s *HazardSystem) hit(w *ecs.World, hazard ecs.Entity, h *component.Hazard, player ecs.Entity) {
	h.Triggered = true

	if f, ok := ecs.Get(w, player, component.PathFollowerComponent.Kind()); ok {
		f.Disabled = true
		f.Following = false
	}

	pt, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	ht, hok := ecs.Get(w, hazard, component.TransformComponent.Kind())
	if ok && hok {
		normal := planeNormalFor(w, player)
		dir := pt.Position.Sub(ht.Position)
		dir = dir.Sub(normal.Mul(dir.Dot(normal)))
		if dir.LenSqr() < overlapEpsSq {
			dir = mgl64.Vec3{1, 0, 0}
		}
		dir = dir.Normalize()

		pt.Position = pt.Position.Add(dir.Mul(h.BounceDistance))
		_ = ecs.Add(w, player, component.KnockbackComponent.Kind(), &component.Knockback{
			Dir:           dir,
			Axis:          normal,
			Speed:         h.KnockSpeed,
			TimeLeft:      h.KnockDuration,
			SpinDegPerSec: h.SpinDegPerSec,
		})
	}

	s.log.Info("player hit hazard", "player", player, "hazard", hazard)
	var id ecs.TimerID
	id = w.Timers().After(h.SwitchDelay, func() {
		s.forget(id)
		w.Events().Publish(ecs.Event{Topic: ecs.TopicGameFailure, Entity: player})
	})
	s.pending = append(s.pending, id)
}

// integrate moves and spins knocked back entities with an ease-out speed.
func (s *HazardSystem) integrate(w *ecs.World) {
	dt := w.Delta()
	ecs.ForEach2(w, component.KnockbackComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, k *component.Knockback, t *component.Transform) {
		if k.TimeLeft <= 0 {
			ecs.Remove(w, e, component.KnockbackComponent.Kind())
			return
		}
		t.Position = t.Position.Add(k.Dir.Mul(k.Speed * dt))
		k.Speed *= common.Clamp(1-knockEase*dt, 0, 1)
		if k.SpinDegPerSec != 0 && k.Axis.LenSqr() > 0 {
			spin := mgl64.QuatRotate(mgl64.DegToRad(k.SpinDegPerSec*dt), k.Axis.Normalize())
			t.Rotation = t.Rotation.Mul(spin).Normalize()
		}
		k.TimeLeft -= dt
	})
}

func planeNormalFor(w *ecs.World, e ecs.Entity) mgl64.Vec3 {
	if f, ok := ecs.Get(w, e, component.PathFollowerComponent.Kind()); ok {
		return f.Plane.Normal()
	}
	if pd := drawerFor(w, e); pd != nil {
		return pd.Plane.Normal()
	}
	return mgl64.Vec3{0, 1, 0}
}

func (s *HazardSystem) forget(id ecs.TimerID) {
	for i, p := range s.pending {
		if p == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

func (s *HazardSystem) cancelPending() {
	for _, id := range s.pending {
		s.w.Timers().Cancel(id)
	}
	s.pending = nil
}

func (s *HazardSystem) onReset(ecs.Event) {
	s.cancelPending()
	ecs.ForEach(s.w, component.HazardComponent.Kind(), func(_ ecs.Entity, h *component.Hazard) {
		h.Triggered = false
	})
}
