package system

import (
	"github.com/milk9111/autogodraw/common"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
)

// LevelTimerSystem counts elapsed round time and freezes it on the first
// success or failure.
type LevelTimerSystem struct {
	w    *ecs.World
	subs []ecs.Subscription
}

func NewLevelTimerSystem(w *ecs.World) *LevelTimerSystem {
	s := &LevelTimerSystem{w: w}
	bus := w.Events()
	s.subs = append(s.subs,
		bus.Subscribe(ecs.TopicGameSuccess, s.onSuccess),
		bus.Subscribe(ecs.TopicGameFailure, s.onFailure),
		bus.Subscribe(ecs.TopicGameReset, s.onReset),
	)
	return s
}

func (s *LevelTimerSystem) Close() {
	for _, sub := range s.subs {
		s.w.Events().Unsubscribe(sub)
	}
	s.subs = nil
}

func (s *LevelTimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach(w, component.LevelTimerComponent.Kind(), func(_ ecs.Entity, t *component.LevelTimer) {
		if t.Running && !t.Ended {
			t.Elapsed += dt
		}
	})
}

func (s *LevelTimerSystem) onSuccess(ecs.Event) {
	ecs.ForEach(s.w, component.LevelTimerComponent.Kind(), func(_ ecs.Entity, t *component.LevelTimer) {
		if t.Ended {
			return
		}
		t.Ended = true
		t.Running = false
		t.LastSuccessSeconds = DisplaySeconds(t)
		t.HasLastSuccess = true
	})
}

func (s *LevelTimerSystem) onFailure(ecs.Event) {
	ecs.ForEach(s.w, component.LevelTimerComponent.Kind(), func(_ ecs.Entity, t *component.LevelTimer) {
		if t.Ended {
			return
		}
		t.Ended = true
		t.Running = false
		t.LastSuccessSeconds = 0
		t.HasLastSuccess = false
	})
}

// onReset restarts the clock. The last success time is kept.
func (s *LevelTimerSystem) onReset(ecs.Event) {
	ecs.ForEach(s.w, component.LevelTimerComponent.Kind(), func(_ ecs.Entity, t *component.LevelTimer) {
		t.Elapsed = 0
		t.Ended = false
		t.Running = true
	})
}

// DisplaySeconds is the whole-second value shown and recorded for t.
func DisplaySeconds(t *component.LevelTimer) int {
	return common.RoundSeconds(t.Elapsed)
}

// ClockText formats t as mm:ss.
func ClockText(t *component.LevelTimer) string {
	return common.FormatClock(DisplaySeconds(t))
}
