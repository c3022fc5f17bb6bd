package component

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	TouchStart
	TouchMove
	TouchEnd
)

type TouchPoint struct {
	ID int
	X  float64
	Y  float64
}

// TouchEvent mirrors a browser touch event: Touches are the fingers still
// down, Changed the ones that triggered the event.
type TouchEvent struct {
	Touches []TouchPoint
	Changed []TouchPoint
}

type PointerEvent struct {
	Kind  PointerKind
	X     float64
	Y     float64
	Touch TouchEvent
}

// PointerInput holds the events gathered this frame.
type PointerInput struct {
	Events []PointerEvent
}

var PointerInputComponent = NewComponent[PointerInput]()
