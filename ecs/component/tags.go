package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type GoalTag struct{}

var GoalTagComponent = NewComponent[GoalTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// SpawnedTag marks entities owned by the pair spawner.
type SpawnedTag struct{}

var SpawnedTagComponent = NewComponent[SpawnedTag]()

// LevelTag marks static entities placed from a level file.
type LevelTag struct{}

var LevelTagComponent = NewComponent[LevelTag]()
