package ecs

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/autogodraw/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second destroy should report false")
				}
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected id reuse, got %d and %d", fresh.id(), old.id())
	}
	if fresh == old {
		t.Fatalf("reused handle should carry a new generation")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("components must not survive destroy")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); err == nil {
		t.Fatalf("adding to a stale handle should fail")
	}
	if err := Add(w, fresh, h.Kind(), intPtr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, ok := Get(w, old, h.Kind()); ok {
		t.Fatalf("stale handle should not read the new component")
	}
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				if got := w.Query(h1.Kind(), h2.Kind()); len(got) != 0 {
					t.Fatalf("expected no entity with both kinds, got %v", got)
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestForEachAllowsMutation(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	for i, e := range []Entity{e1, e2, e3} {
		if err := Add(w, e, h.Kind(), intPtr(i)); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	visited := 0
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		visited++
		*v += 10
		if e == e1 {
			DestroyEntity(w, e3)
		}
	})
	if visited != 2 {
		t.Fatalf("expected destroyed entity to be skipped, visited %d", visited)
	}
	if v, _ := Get(w, e2, h.Kind()); *v != 11 {
		t.Fatalf("expected in-place mutation, got %d", *v)
	}
}

func TestForEach2AndQuery(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	_ = Add(w, e1, ka, intPtr(1))
	_ = Add(w, e2, ka, intPtr(2))
	_ = Add(w, e2, kb, stringPtr("b"))

	var res []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *int, _ *string) { res = append(res, e) })
	if len(res) != 1 || res[0] != e2 {
		t.Fatalf("expected only e2, got %v", res)
	}

	if got := w.Query(kb, ka); len(got) != 1 || got[0] != e2 {
		t.Fatalf("expected query to return e2, got %v", got)
	}

	first, ok := First(w, kb)
	if !ok || first != e2 {
		t.Fatalf("expected First to find e2, got %v ok=%v", first, ok)
	}
}

type recordingSystem struct {
	deltas []float64
}

func (s *recordingSystem) Update(w *World) {
	s.deltas = append(s.deltas, w.Delta())
}

func TestUpdateRunsTimersBeforeSystems(t *testing.T) {
	w := NewWorld()
	var order []string
	w.Timers().After(0, func() { order = append(order, "timer") })
	sys := &recordingSystem{}
	w.AddSystem(sys)
	w.AddSystem(systemFunc(func(*World) { order = append(order, "system") }))

	w.Update(0.5)

	if len(order) != 2 || order[0] != "timer" || order[1] != "system" {
		t.Fatalf("unexpected order %v", order)
	}
	if len(sys.deltas) != 1 || sys.deltas[0] != 0.5 {
		t.Fatalf("expected delta 0.5, got %v", sys.deltas)
	}
	if w.Frame() != 1 {
		t.Fatalf("expected frame 1, got %d", w.Frame())
	}
}

type systemFunc func(*World)

func (f systemFunc) Update(w *World) { f(w) }

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

type recordingRenderer struct {
	name  string
	order *[]string
}

func (r recordingRenderer) Draw(*World, *ebiten.Image) {
	*r.order = append(*r.order, r.name)
}

func TestDrawRunsRenderersInOrder(t *testing.T) {
	w := NewWorld()
	var order []string
	w.AddRenderer(recordingRenderer{"back", &order})
	w.AddRenderer(nil)
	w.AddRenderer(recordingRenderer{"front", &order})

	w.Draw(nil)
	if len(order) != 0 {
		t.Fatalf("nil screen should draw nothing, got %v", order)
	}

	w.Draw(new(ebiten.Image))
	if len(order) != 2 || order[0] != "back" || order[1] != "front" {
		t.Fatalf("unexpected draw order %v", order)
	}
}
