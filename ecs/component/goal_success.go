package component

import "time"

// GoalSuccess gates the round's success on every participant having both a
// ready path and an arrival at its goal. Expected is frozen once Armed.
type GoalSuccess struct {
	TotalPlayers       int
	ExtraGoalTolerance float64
	ArmDelay           time.Duration
	Debug              bool

	Expected int
	Armed    bool
	Done     bool
	ArmTimer uint64
	Round    string

	participants map[uint64]struct{}
	ready        map[uint64]struct{}
	arrived      map[uint64]struct{}
}

const (
	DefaultExtraGoalTolerance = 0.12
	DefaultArmDelay           = 250 * time.Millisecond
)

func NewGoalSuccess(totalPlayers int) GoalSuccess {
	if totalPlayers < 0 {
		totalPlayers = 0
	}
	return GoalSuccess{
		TotalPlayers:       totalPlayers,
		ExtraGoalTolerance: DefaultExtraGoalTolerance,
		ArmDelay:           DefaultArmDelay,
		Expected:           totalPlayers,
	}
}

func (g *GoalSuccess) fixed() bool {
	return g.TotalPlayers > 0
}

func (g *GoalSuccess) init() {
	if g.participants == nil {
		g.participants = make(map[uint64]struct{})
	}
	if g.ready == nil {
		g.ready = make(map[uint64]struct{})
	}
	if g.arrived == nil {
		g.arrived = make(map[uint64]struct{})
	}
}

// MarkReady records a ready path. Before arming, an unfixed Expected grows to
// cover the ready set.
func (g *GoalSuccess) MarkReady(e uint64) {
	g.init()
	g.participants[e] = struct{}{}
	g.ready[e] = struct{}{}
	if !g.Armed && !g.fixed() && g.Expected < len(g.ready) {
		g.Expected = len(g.ready)
	}
}

// MarkCancelled withdraws a ready path. Participation is kept.
func (g *GoalSuccess) MarkCancelled(e uint64) {
	g.init()
	delete(g.ready, e)
}

// Arm freezes an unfixed Expected to the ready count and arms when every
// expected participant is ready. It reports whether the gate is armed.
func (g *GoalSuccess) Arm() bool {
	g.init()
	if g.Armed {
		return true
	}
	if !g.fixed() {
		g.Expected = len(g.ready)
	}
	if g.Expected > 0 && len(g.ready) == g.Expected {
		g.Armed = true
	}
	return g.Armed
}

// AcceptsArrivals reports whether path-end events are currently counted.
func (g *GoalSuccess) AcceptsArrivals() bool {
	return g.Armed && !g.Done && len(g.ready) == g.Expected
}

// MarkArrived counts an arrival and reports true exactly once, on the arrival
// that completes the round.
func (g *GoalSuccess) MarkArrived(e uint64) bool {
	g.init()
	if g.Done {
		return false
	}
	if _, ok := g.arrived[e]; ok {
		return false
	}
	g.arrived[e] = struct{}{}
	if len(g.arrived) != g.Expected || len(g.ready) != g.Expected {
		return false
	}
	g.Done = true
	return true
}

// Reset clears the round. A fixed Expected survives.
func (g *GoalSuccess) Reset() {
	g.participants = make(map[uint64]struct{})
	g.ready = make(map[uint64]struct{})
	g.arrived = make(map[uint64]struct{})
	g.Armed = false
	g.Done = false
	g.ArmTimer = 0
	if !g.fixed() {
		g.Expected = 0
	}
}

func (g *GoalSuccess) ReadyCount() int       { return len(g.ready) }
func (g *GoalSuccess) ArrivedCount() int     { return len(g.arrived) }
func (g *GoalSuccess) ParticipantCount() int { return len(g.participants) }

func (g *GoalSuccess) IsReady(e uint64) bool {
	_, ok := g.ready[e]
	return ok
}

func (g *GoalSuccess) HasArrived(e uint64) bool {
	_, ok := g.arrived[e]
	return ok
}

var GoalSuccessComponent = NewComponent[GoalSuccess]()
