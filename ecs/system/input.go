package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
)

// InputSystem polls mouse and touch state into PointerInput events.
type InputSystem struct {
	lastX, lastY int
	touches      []ebiten.TouchID
	pressed      []ebiten.TouchID
	released     []ebiten.TouchID
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	events := i.mouseEvents()
	events = append(events, i.touchEvents()...)
	if len(events) == 0 {
		return
	}
	ecs.ForEach(w, component.PointerInputComponent.Kind(), func(_ ecs.Entity, in *component.PointerInput) {
		in.Events = append(in.Events, events...)
	})
}

func (i *InputSystem) mouseEvents() []component.PointerEvent {
	var out []component.PointerEvent
	x, y := ebiten.CursorPosition()
	moved := x != i.lastX || y != i.lastY
	i.lastX, i.lastY = x, y

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		out = append(out, component.PointerEvent{Kind: component.PointerDown, X: float64(x), Y: float64(y)})
	case moved && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		out = append(out, component.PointerEvent{Kind: component.PointerMove, X: float64(x), Y: float64(y)})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		out = append(out, component.PointerEvent{Kind: component.PointerUp, X: float64(x), Y: float64(y)})
	}
	return out
}

func (i *InputSystem) touchEvents() []component.PointerEvent {
	var out []component.PointerEvent
	i.touches = ebiten.AppendTouchIDs(i.touches[:0])
	i.pressed = inpututil.AppendJustPressedTouchIDs(i.pressed[:0])
	i.released = inpututil.AppendJustReleasedTouchIDs(i.released[:0])

	current := make([]component.TouchPoint, 0, len(i.touches))
	var moved []component.TouchPoint
	for _, id := range i.touches {
		x, y := ebiten.TouchPosition(id)
		p := component.TouchPoint{ID: int(id), X: float64(x), Y: float64(y)}
		current = append(current, p)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if !inpututil.IsTouchJustPressed(id) && (px != x || py != y) {
			moved = append(moved, p)
		}
	}

	if len(i.pressed) > 0 {
		changed := make([]component.TouchPoint, 0, len(i.pressed))
		for _, id := range i.pressed {
			x, y := ebiten.TouchPosition(id)
			changed = append(changed, component.TouchPoint{ID: int(id), X: float64(x), Y: float64(y)})
		}
		out = append(out, component.PointerEvent{Kind: component.TouchStart, Touch: component.TouchEvent{Touches: current, Changed: changed}})
	}
	if len(moved) > 0 {
		out = append(out, component.PointerEvent{Kind: component.TouchMove, Touch: component.TouchEvent{Touches: current, Changed: moved}})
	}
	if len(i.released) > 0 {
		changed := make([]component.TouchPoint, 0, len(i.released))
		for _, id := range i.released {
			x, y := inpututil.TouchPositionInPreviousTick(id)
			changed = append(changed, component.TouchPoint{ID: int(id), X: float64(x), Y: float64(y)})
		}
		out = append(out, component.PointerEvent{Kind: component.TouchEnd, Touch: component.TouchEvent{Touches: current, Changed: changed}})
	}
	return out
}
