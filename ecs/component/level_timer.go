package component

type LevelTimer struct {
	Elapsed float64
	Running bool
	Ended   bool

	LastSuccessSeconds int
	HasLastSuccess     bool
}

var LevelTimerComponent = NewComponent[LevelTimer]()
