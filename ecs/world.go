package ecs

import (
	"fmt"
	"time"

	"github.com/milk9111/autogodraw/ecs/component"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities, components, system order, the event bus and the
// frame clock.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	systems   []System
	renderers []Renderer
	events    *EventBus
	timers    *Timers

	delta float64
	frame uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		events: NewEventBus(),
		timers: NewTimers(),
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and marks it dead.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, set := range w.stores {
		set.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update advances the frame clock by dt seconds, fires due timers and runs
// all systems once.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.delta = dt
	w.frame++
	w.timers.Advance(time.Duration(dt * float64(time.Second)))
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
}

// Delta returns the elapsed seconds of the current frame.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// Frame returns the number of completed Update calls.
func (w *World) Frame() uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

// Events returns the world event bus.
func (w *World) Events() *EventBus {
	if w == nil {
		return nil
	}
	return w.events
}

// Timers returns the deferred task scheduler driven by Update.
func (w *World) Timers() *Timers {
	if w == nil {
		return nil
	}
	return w.timers
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	set := w.stores[id]
	if set == nil && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		set = &SparseSet{}
		w.stores[id] = set
	}
	return set
}

// AddComponent stores value for e under the component id.
func (w *World) AddComponent(e Entity, id component.ComponentID, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return fmt.Errorf("add component %d to %s: %w", id, e, component.ErrEntityNotAlive)
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(id, true).Set(e, value)
	return nil
}

func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	v := w.store(id, false).Get(e)
	return v, v != nil
}

func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).Has(e)
}

func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if w == nil {
		return false
	}
	return w.store(id, false).Remove(e)
}
