// Package component holds the plain data attached to entities. Behaviour
// lives in ecs/system.
package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes a world's stores. Zero is never issued.
type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind is the typed key of one component store.
type ComponentKind[T any] struct {
	id ComponentID
}

// NewComponentKind issues a fresh id. Kinds are package level values, so ids
// are stable for the life of the process.
func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

// Valid is false for the zero kind.
func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// ComponentHandle is what each component file exports, e.g.
// PathFollowerComponent. Pass Kind() to ecs.Add, ecs.Get and friends.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
